package neat

import "fmt"

// Evaluate propagates inputs through the network in a single fixed-order pass.
//
// state is the neuron buffer returned by a previous call, or nil for a fresh
// run. Passing it back gives simple recurrence: nodes with no enabled incoming
// connection keep their previous value, and any connection may read a value
// left over from the prior call. Hidden nodes are computed first, in ascending
// index order, then the output nodes. The returned state has TotalNodes() slots.
func (g *Genome) Evaluate(inputs, state []float64) (outputs, neurons []float64, err error) {
	if len(inputs) != g.numSensors {
		return nil, state, fmt.Errorf("%w: got %d inputs, genome has %d sensors",
			ErrDimensionMismatch, len(inputs), g.numSensors)
	}
	activate, err := g.activation()
	if err != nil {
		return nil, state, err
	}

	neurons = state
	if total := g.TotalNodes(); len(neurons) < total {
		// The genome may have grown since the state was captured.
		neurons = make([]float64, total)
		copy(neurons, state)
	}
	neurons[BiasIndex] = 1
	copy(neurons[1:], inputs)

	for i := g.numOutputs; i < len(g.nodes); i++ {
		g.feed(i, neurons, activate)
	}
	for i := 0; i < g.numOutputs; i++ {
		g.feed(i, neurons, activate)
	}

	first := g.firstDynamic()
	outputs = make([]float64, g.numOutputs)
	copy(outputs, neurons[first:first+g.numOutputs])
	return outputs, neurons, nil
}

// feed computes one dynamic node, identified by its offset into g.nodes.
func (g *Genome) feed(offset int, neurons []float64, activate ActivationType) {
	sum := 0.0
	connected := false
	for _, ci := range g.nodes[offset] {
		c := g.connections[ci]
		if !c.Enabled {
			continue
		}
		connected = true
		sum += neurons[c.Source] * c.Weight
	}
	if connected {
		neurons[g.firstDynamic()+offset] = activate(sum)
	}
}

func (g *Genome) activation() (ActivationType, error) {
	if g.config == nil || g.config.Activation == "" {
		return Sigmoid, nil
	}
	return GetActivation(g.config.Activation)
}
