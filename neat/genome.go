package neat

import (
	"cmp"
	"fmt"
	"slices"
)

// Genome is an evolvable network. Node indices are fixed by position:
// 0 is the bias, 1..S the sensors, S+1..S+O the outputs, and anything beyond
// a hidden node appended by node insertion. Nodes are never removed or reordered.
//
// A Genome is not safe for concurrent mutation. Evaluate only reads the genome
// and may run concurrently with other Evaluate calls.
type Genome struct {
	numSensors int
	numOutputs int
	// nodes[i] lists the indices into connections that target node numSensors+1+i.
	// The first numOutputs entries are the output nodes, the rest hidden nodes.
	nodes       [][]int
	connections []Connection
	// sorted reports whether connections is already in ascending marker order.
	sorted  bool
	config  *Config
	fitness float64
}

// NewGenome creates a genome with the given sensors and outputs, no hidden nodes and no connections.
func NewGenome(numSensors, numOutputs int, config *Config) *Genome {
	nodes := make([][]int, numOutputs)
	for i := range nodes {
		nodes[i] = []int{}
	}
	return &Genome{
		numSensors: numSensors,
		numOutputs: numOutputs,
		nodes:      nodes,
		sorted:     true,
		config:     config,
	}
}

// Clone returns a deep copy of the genome's structure. The Config is shared, not copied.
func (g *Genome) Clone() *Genome {
	nodes := make([][]int, len(g.nodes))
	for i, incoming := range g.nodes {
		nodes[i] = slices.Clone(incoming)
	}
	return &Genome{
		numSensors:  g.numSensors,
		numOutputs:  g.numOutputs,
		nodes:       nodes,
		connections: slices.Clone(g.connections),
		sorted:      g.sorted,
		config:      g.config,
		fitness:     g.fitness,
	}
}

// NumSensors returns the number of sensor inputs (excluding the bias).
func (g *Genome) NumSensors() int { return g.numSensors }

// NumOutputs returns the number of output nodes.
func (g *Genome) NumOutputs() int { return g.numOutputs }

// NumHidden returns the number of hidden nodes.
func (g *Genome) NumHidden() int { return len(g.nodes) - g.numOutputs }

// TotalNodes returns the size of the node index space: bias, sensors, outputs and hidden nodes.
func (g *Genome) TotalNodes() int { return 1 + g.numSensors + len(g.nodes) }

// Config returns the lineage configuration shared with related genomes.
func (g *Genome) Config() *Config { return g.config }

// Connections returns a copy of the connection list in its stored order.
func (g *Genome) Connections() []Connection { return slices.Clone(g.connections) }

// SetFitness records the score assigned by the fitness harness.
func (g *Genome) SetFitness(fitness float64) { g.fitness = fitness }

// Fitness returns the last score set with SetFitness.
func (g *Genome) Fitness() float64 { return g.fitness }

// String returns a short summary of the genome.
func (g *Genome) String() string {
	return fmt.Sprintf("Genome(Sensors: %d, Outputs: %d, Hidden: %d, Connections: %d, Fitness: %.4f)",
		g.numSensors, g.numOutputs, g.NumHidden(), len(g.connections), g.fitness)
}

// firstDynamic is the index of the first non-input node.
func (g *Genome) firstDynamic() int { return g.numSensors + 1 }

// incoming returns the incoming list slot for a non-input node index.
func (g *Genome) incoming(node int) *[]int {
	return &g.nodes[node-g.firstDynamic()]
}

// hasConnection reports whether a source -> target connection exists, enabled or not.
func (g *Genome) hasConnection(source, target int) bool {
	for _, ci := range *g.incoming(target) {
		if g.connections[ci].Source == source {
			return true
		}
	}
	return false
}

// appendConnection adds c and tracks whether marker order still holds.
func (g *Genome) appendConnection(c Connection) {
	if n := len(g.connections); n > 0 && c.Marker < g.connections[n-1].Marker {
		g.sorted = false
	}
	in := g.incoming(c.Target)
	*in = append(*in, len(g.connections))
	g.connections = append(g.connections, c)
}

// sortedConnections returns the connections in ascending marker order.
// The stored order is left untouched, so incoming index lists stay valid.
func (g *Genome) sortedConnections() []Connection {
	if g.sorted {
		return g.connections
	}
	sorted := slices.Clone(g.connections)
	slices.SortStableFunc(sorted, byMarker)
	return sorted
}

// rebuild sizes the node list to hold totalNodes indices and recomputes every
// incoming list from the connection list in one scan.
func (g *Genome) rebuild(totalNodes int) {
	dynamic := max(totalNodes-g.firstDynamic(), g.numOutputs)
	g.nodes = make([][]int, dynamic)
	for i := range g.nodes {
		g.nodes[i] = []int{}
	}
	for ci, c := range g.connections {
		in := g.incoming(c.Target)
		*in = append(*in, ci)
	}
	g.sorted = slices.IsSortedFunc(g.connections, byMarker)
}

func byMarker(a, b Connection) int {
	return cmp.Compare(a.Marker, b.Marker)
}
