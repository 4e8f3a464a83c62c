// Package neat provides the genome engine of a NeuroEvolution of Augmenting Topologies (NEAT) system.
//
// A genome is a small recurrent-capable network whose nodes are plain indices
// (bias, sensors, outputs, then hidden nodes in insertion order) and whose
// connections carry historical markers issued by an innovation registry shared
// through the lineage's Config. The engine mutates, evaluates, breeds, compares
// and serializes genomes; selection, speciation and fitness evaluation are left
// to the caller.
//
// Basic usage:
//
//	config, err := neat.LoadConfig("path/to/config.ini")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//	rng := rand.New(rand.NewSource(1))
//
//	g := neat.NewGenome(2, 1, config)
//	g.Mutate(rng)
//	outputs, state, err := g.Evaluate([]float64{0, 1}, nil)
//	if err != nil {
//		log.Fatalf("Error evaluating genome: %v", err)
//	}
//	_, _ = outputs, state
//
//	other := g.Clone().Mutate(rng)
//	d, _ := g.Distance(other)
//	child, _ := g.Breed(other, rng)
//	_, _ = d, child
package neat
