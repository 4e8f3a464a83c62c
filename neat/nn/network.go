package nn

import (
	"fmt"

	"github.com/baldhumanity/neat-genes/neat"
)

// Network is a phenotype that remembers neuron values between activations,
// giving recurrent connections a one-step memory across calls.
// A Network is not safe for concurrent use; create one per worker.
type Network struct {
	genome *neat.Genome
	state  []float64
}

// New wraps a genome. The genome must not be mutated while the network is in use.
func New(g *neat.Genome) *Network {
	return &Network{genome: g}
}

// Genome returns the wrapped genome.
func (n *Network) Genome() *neat.Genome { return n.genome }

// Activate runs one evaluation step and keeps the resulting neuron state for the next.
func (n *Network) Activate(inputs []float64) ([]float64, error) {
	outputs, state, err := n.genome.Evaluate(inputs, n.state)
	if err != nil {
		return nil, fmt.Errorf("activate network: %w", err)
	}
	n.state = state
	return outputs, nil
}

// State returns a copy of the neuron values left by the last activation, or nil before the first.
func (n *Network) State() []float64 {
	if n.state == nil {
		return nil
	}
	out := make([]float64, len(n.state))
	copy(out, n.state)
	return out
}

// Reset forgets the carried neuron state; the next activation starts from zero.
func (n *Network) Reset() {
	n.state = nil
}
