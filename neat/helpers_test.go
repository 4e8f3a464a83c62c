package neat

import (
	"math/rand"
)

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// buildGenome assembles a genome from explicit connections. totalNodes pads the
// node space so hidden nodes can be referenced.
func buildGenome(cfg *Config, sensors, outputs, totalNodes int, conns ...Connection) *Genome {
	g := NewGenome(sensors, outputs, cfg)
	g.connections = append([]Connection(nil), conns...)
	g.rebuild(max(totalNodes, g.TotalNodes()))
	return g
}

// issuedConfig returns a default Config whose registry has already issued markers 1..n.
func issuedConfig(n int) *Config {
	cfg := NewConfig()
	cfg.Innovations.counter = n
	return cfg
}

func conn(source, target int, weight float64, marker int) Connection {
	return Connection{Source: source, Target: target, Weight: weight, Enabled: true, Marker: marker}
}

func markers(conns []Connection) []int {
	out := make([]int, len(conns))
	for i, c := range conns {
		out[i] = c.Marker
	}
	return out
}

// scriptedRand replays queued draws. Once a queue is empty Float64 returns
// 0.999 (no chance fires), Intn returns 0 and NormFloat64 returns 0.
type scriptedRand struct {
	floats []float64
	ints   []int
	norms  []float64
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.999
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) NormFloat64() float64 {
	if len(r.norms) == 0 {
		return 0
	}
	v := r.norms[0]
	r.norms = r.norms[1:]
	return v
}

// checkStructure verifies the invariants every genome must hold.
func checkStructure(t interface {
	Helper()
	Errorf(string, ...any)
}, g *Genome) {
	t.Helper()
	seen := map[ConnectionKey]bool{}
	for ci, c := range g.connections {
		if c.Source < 0 || c.Source >= g.TotalNodes() {
			t.Errorf("connection %d source %d outside [0, %d)", ci, c.Source, g.TotalNodes())
		}
		if c.Target <= g.numSensors || c.Target >= g.TotalNodes() {
			t.Errorf("connection %d target %d outside [%d, %d)", ci, c.Target, g.numSensors+1, g.TotalNodes())
		}
		if seen[c.Key()] {
			t.Errorf("duplicate connection %d->%d", c.Source, c.Target)
		}
		seen[c.Key()] = true
	}
	listed := 0
	for offset, incoming := range g.nodes {
		for _, ci := range incoming {
			listed++
			if want := g.firstDynamic() + offset; g.connections[ci].Target != want {
				t.Errorf("incoming list of node %d holds connection %d targeting %d", want, ci, g.connections[ci].Target)
			}
		}
	}
	if listed != len(g.connections) {
		t.Errorf("incoming lists reference %d connections, genome has %d", listed, len(g.connections))
	}
}
