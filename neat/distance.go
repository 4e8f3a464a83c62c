package neat

import (
	"fmt"
	"math"
)

// Distance returns the compatibility distance used for speciation:
//
//	c1*E/N + c2*D/N + c3*W
//
// where E and D count excess and disjoint genes, N is the larger connection
// count and W the mean absolute weight difference of matching genes (0 when
// nothing matches). Two genomes without connections are at distance 0.
func (g *Genome) Distance(other *Genome) (float64, error) {
	if g.config != other.config {
		return 0, fmt.Errorf("distance: %w", ErrCrossLineage)
	}
	coeff := g.config.Compatibility

	mine := g.sortedConnections()
	theirs := other.sortedConnections()
	n := max(len(mine), len(theirs))
	if n == 0 {
		return 0, nil
	}

	disjoint, shared := 0, 0
	weightDiff := 0.0
	i, j := 0, 0
	for i < len(mine) && j < len(theirs) {
		a, b := mine[i], theirs[j]
		switch {
		case a.Marker == b.Marker:
			weightDiff += math.Abs(a.Weight - b.Weight)
			shared++
			i++
			j++
		case a.Marker < b.Marker:
			disjoint++
			i++
		default:
			disjoint++
			j++
		}
	}
	excess := len(mine) - i + len(theirs) - j

	d := coeff.ExcessCoefficient*float64(excess)/float64(n) +
		coeff.DisjointCoefficient*float64(disjoint)/float64(n)
	if shared > 0 {
		d += coeff.WeightCoefficient * weightDiff / float64(shared)
	}
	return d, nil
}
