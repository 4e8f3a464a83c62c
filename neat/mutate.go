package neat

// Mutate applies one mutation round. Each operator fires on its own
// independent draw against the configured chance, so all five may fire
// together. Returns g for chaining.
func (g *Genome) Mutate(rng Rand) *Genome {
	m := g.config.Mutation
	if flipCoin(rng, m.NewLinkChance) {
		g.MutateAddConnection(rng)
	}
	if flipCoin(rng, m.NewNodeChance) {
		g.MutateAddNode(rng)
	}
	if flipCoin(rng, m.PerturbationChance) {
		g.MutatePerturbWeights(rng)
	}
	if flipCoin(rng, m.DisableMutationChance) {
		g.MutateToggleEnabled(rng, false)
	}
	if flipCoin(rng, m.EnableMutationChance) {
		g.MutateToggleEnabled(rng, true)
	}
	return g
}

// MutateAddConnection attempts to add a new connection. The source is the bias
// with probability BiasLinkChance, otherwise any node; the target is any output
// or hidden node. If the pair is already connected nothing happens.
// Reports whether a connection was added.
func (g *Genome) MutateAddConnection(rng Rand) bool {
	total := g.TotalNodes()
	first := g.firstDynamic()
	if total == first {
		return false // no possible target
	}
	source := BiasIndex
	if !flipCoin(rng, g.config.Mutation.BiasLinkChance) {
		source = rng.Intn(total)
	}
	target := first + rng.Intn(total-first)

	if g.hasConnection(source, target) {
		return false
	}

	g.appendConnection(Connection{
		Source:  source,
		Target:  target,
		Weight:  gaussian(rng, g.config.Mutation.NewLinkWeightStdev),
		Enabled: true,
		Marker:  g.config.Innovations.RegisterConnection(source, target),
	})
	return true
}

// MutateAddNode splits a random connection: the connection is disabled and
// replaced by source -> new (weight 1) and new -> target (old weight), which
// keeps the network's function unchanged at the moment of the split.
// Reports whether a node was added; genomes without connections are left alone.
func (g *Genome) MutateAddNode(rng Rand) bool {
	if len(g.connections) == 0 {
		return false
	}
	ci := rng.Intn(len(g.connections))
	g.connections[ci].Enabled = false
	split := g.connections[ci]

	node := g.TotalNodes()
	g.nodes = append(g.nodes, []int{})
	leading, trailing := g.config.Innovations.RegisterNodeSplit(split.Source, split.Target, node)

	g.appendConnection(Connection{Source: split.Source, Target: node, Weight: 1, Enabled: true, Marker: leading})
	g.appendConnection(Connection{Source: node, Target: split.Target, Weight: split.Weight, Enabled: true, Marker: trailing})
	return true
}

// MutatePerturbWeights adds N(0, PerturbationStdev) noise to every connection weight.
func (g *Genome) MutatePerturbWeights(rng Rand) {
	stdev := g.config.Mutation.PerturbationStdev
	for i := range g.connections {
		g.connections[i].Weight += gaussian(rng, stdev)
	}
}

// MutateToggleEnabled forces the enabled flag of one random connection to enabled.
// Genomes without connections are left alone.
func (g *Genome) MutateToggleEnabled(rng Rand, enabled bool) {
	if len(g.connections) == 0 {
		return
	}
	g.connections[rng.Intn(len(g.connections))].Enabled = enabled
}
