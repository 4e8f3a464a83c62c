package neat

import "sync"

// ConnectionKey identifies a new-connection event by its endpoints.
type ConnectionKey struct {
	Source int
	Target int
}

// SplitKey identifies a node-insertion event: the split connection's endpoints and the inserted node.
type SplitKey struct {
	Source int
	Target int
	Node   int
}

// SplitMarkers are the markers of the two connections created by a node insertion.
type SplitMarkers struct {
	Leading  int // source -> new node
	Trailing int // new node -> target
}

// InnovationRegistry hands out historical markers. Identical structural events
// resolve to identical markers for as long as the tables are not reset, no
// matter which genome triggers them.
type InnovationRegistry struct {
	mu          sync.Mutex
	counter     int
	connections map[ConnectionKey]int
	splits      map[SplitKey]SplitMarkers
}

// NewInnovationRegistry creates an empty registry. The first marker issued is 1.
func NewInnovationRegistry() *InnovationRegistry {
	return &InnovationRegistry{
		connections: make(map[ConnectionKey]int),
		splits:      make(map[SplitKey]SplitMarkers),
	}
}

// next must be called with mu held.
func (r *InnovationRegistry) next() int {
	r.counter++
	return r.counter
}

// RegisterConnection returns the marker for a source -> target connection, allocating one on first sight.
func (r *InnovationRegistry) RegisterConnection(source, target int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ConnectionKey{Source: source, Target: target}
	if marker, ok := r.connections[key]; ok {
		return marker
	}
	marker := r.next()
	r.connections[key] = marker
	return marker
}

// RegisterNodeSplit returns the marker pair for inserting node between source and target.
func (r *InnovationRegistry) RegisterNodeSplit(source, target, node int) (leading, trailing int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := SplitKey{Source: source, Target: target, Node: node}
	if m, ok := r.splits[key]; ok {
		return m.Leading, m.Trailing
	}
	m := SplitMarkers{Leading: r.next()}
	m.Trailing = r.next()
	r.splits[key] = m
	return m.Leading, m.Trailing
}

// Reset forgets every recorded event but keeps the counter, so markers issued
// afterwards never collide with earlier ones.
func (r *InnovationRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger.Debug("innovation tracking reset", "counter", r.counter,
		"connections", len(r.connections), "splits", len(r.splits))
	r.connections = make(map[ConnectionKey]int)
	r.splits = make(map[SplitKey]SplitMarkers)
}

// Current returns the last marker issued, or 0 if none has been.
func (r *InnovationRegistry) Current() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counter
}

// snapshot copies the registry state for serialization.
func (r *InnovationRegistry) snapshot() (int, map[ConnectionKey]int, map[SplitKey]SplitMarkers) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := make(map[ConnectionKey]int, len(r.connections))
	for k, v := range r.connections {
		conns[k] = v
	}
	splits := make(map[SplitKey]SplitMarkers, len(r.splits))
	for k, v := range r.splits {
		splits[k] = v
	}
	return r.counter, conns, splits
}
