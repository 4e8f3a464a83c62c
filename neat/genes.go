package neat

import "fmt"

// BiasIndex is the node index of the bias input, whose value is always 1.
const BiasIndex = 0

// Connection is a directed, weighted link between two nodes of one genome.
// Nodes are plain indices into the genome's node space.
type Connection struct {
	Source  int
	Target  int
	Weight  float64
	Enabled bool
	Marker  int // historical marker (innovation number)
}

// Key returns the (source, target) pair of the connection.
func (c Connection) Key() ConnectionKey {
	return ConnectionKey{Source: c.Source, Target: c.Target}
}

// String returns a string representation of the Connection.
func (c Connection) String() string {
	return fmt.Sprintf("Conn(%d->%d, Weight: %.3f, Enabled: %t, Marker: %d)",
		c.Source, c.Target, c.Weight, c.Enabled, c.Marker)
}
