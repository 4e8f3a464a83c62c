package neat

import "fmt"

// Breed produces a child of g and other. The parent with the higher fitness
// contributes its disjoint and excess genes; on a tie a single coin flip picks
// the favoured parent for the whole operation.
func (g *Genome) Breed(other *Genome, rng Rand) (*Genome, error) {
	var selfMoreFit bool
	switch {
	case g.fitness > other.fitness:
		selfMoreFit = true
	case g.fitness < other.fitness:
		selfMoreFit = false
	default:
		selfMoreFit = flipCoin(rng, 0.5)
	}
	return g.BreedFavoring(other, selfMoreFit, rng)
}

// BreedFavoring produces a child of g and other, aligning their connections by
// historical marker. Matching genes come from either parent with equal
// probability; genes present in only one parent are inherited only from the
// favoured one. The child takes g's sensor/output counts and Config.
func (g *Genome) BreedFavoring(other *Genome, selfMoreFit bool, rng Rand) (*Genome, error) {
	if g.config != other.config {
		return nil, fmt.Errorf("breed: %w", ErrCrossLineage)
	}
	if g.numSensors != other.numSensors || g.numOutputs != other.numOutputs {
		return nil, fmt.Errorf("breed: %w: %d/%d vs %d/%d sensors/outputs", ErrDimensionMismatch,
			g.numSensors, g.numOutputs, other.numSensors, other.numOutputs)
	}

	child := &Genome{
		numSensors: g.numSensors,
		numOutputs: g.numOutputs,
		config:     g.config,
	}
	seen := make(map[ConnectionKey]struct{})
	inherit := func(c Connection) {
		// One connection per pair: a later marker for a pair already inherited is dropped.
		if _, dup := seen[c.Key()]; dup {
			return
		}
		seen[c.Key()] = struct{}{}
		child.connections = append(child.connections, c)
	}

	mine := g.sortedConnections()
	theirs := other.sortedConnections()
	i, j := 0, 0
	for i < len(mine) && j < len(theirs) {
		a, b := mine[i], theirs[j]
		switch {
		case a.Marker == b.Marker:
			if flipCoin(rng, 0.5) {
				inherit(a)
			} else {
				inherit(b)
			}
			i++
			j++
		case a.Marker < b.Marker:
			if selfMoreFit {
				inherit(a)
			}
			i++
		default:
			if !selfMoreFit {
				inherit(b)
			}
			j++
		}
	}
	if selfMoreFit {
		for ; i < len(mine); i++ {
			inherit(mine[i])
		}
	} else {
		for ; j < len(theirs); j++ {
			inherit(theirs[j])
		}
	}

	maxNode := 0
	for _, c := range child.connections {
		maxNode = max(maxNode, c.Source, c.Target)
	}
	child.rebuild(maxNode + 1)
	return child, nil
}
