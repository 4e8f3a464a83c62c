package nn

import (
	"slices"

	"github.com/baldhumanity/neat-genes/neat"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Topology describes the enabled connection graph of a genome.
type Topology struct {
	// Recurrent is true when any enabled path leads from a node back to itself.
	Recurrent bool
	// SelfLoops lists nodes with an enabled connection to themselves, ascending.
	SelfLoops []int
	// Cycles lists the elementary cycles of two or more nodes, each rotated to
	// start at its smallest node, in lexical order.
	Cycles [][]int
}

// Inspect builds the directed graph of enabled connections and reports its cycles.
func Inspect(g *neat.Genome) Topology {
	dg := simple.NewDirectedGraph()
	for i := 0; i < g.TotalNodes(); i++ {
		dg.AddNode(simple.Node(i))
	}

	var t Topology
	for _, c := range g.Connections() {
		if !c.Enabled {
			continue
		}
		if c.Source == c.Target {
			// simple.DirectedGraph rejects self edges.
			t.SelfLoops = append(t.SelfLoops, c.Source)
			continue
		}
		dg.SetEdge(dg.NewEdge(simple.Node(c.Source), simple.Node(c.Target)))
	}
	slices.Sort(t.SelfLoops)

	for _, cycle := range topo.DirectedCyclesIn(dg) {
		t.Cycles = append(t.Cycles, normalizeCycle(cycle))
	}
	slices.SortFunc(t.Cycles, func(a, b []int) int { return slices.Compare(a, b) })

	t.Recurrent = len(t.SelfLoops) > 0 || len(t.Cycles) > 0
	return t
}

// normalizeCycle drops the closing repeat of the start node and rotates the
// cycle to begin at its smallest node id.
func normalizeCycle(nodes []graph.Node) []int {
	ids := make([]int, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, int(n.ID()))
	}
	if len(ids) > 1 && ids[0] == ids[len(ids)-1] {
		ids = ids[:len(ids)-1]
	}
	start := 0
	for i, id := range ids {
		if id < ids[start] {
			start = i
		}
	}
	rotated := make([]int, 0, len(ids))
	rotated = append(rotated, ids[start:]...)
	return append(rotated, ids[:start]...)
}
