package neat

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"

	"gopkg.in/yaml.v3"
)

// GenomeRecord is the serialized form of a genome. Connections are kept in the
// genome's stored order, which need not be marker order.
type GenomeRecord struct {
	NodeCount   *int                `json:"nodeCount" yaml:"nodeCount"`
	InputCount  *int                `json:"inputCount" yaml:"inputCount"`
	OutputCount *int                `json:"outputCount" yaml:"outputCount"`
	Connections *[]ConnectionRecord `json:"connections" yaml:"connections"`
}

// ConnectionRecord is a connection written as the tuple [source, target, weight, enabled, marker].
type ConnectionRecord Connection

// Record builds the serialized form of g.
func (g *Genome) Record() GenomeRecord {
	nodes, inputs, outputs := g.TotalNodes(), g.numSensors, g.numOutputs
	conns := make([]ConnectionRecord, len(g.connections))
	for i, c := range g.connections {
		conns[i] = ConnectionRecord(c)
	}
	return GenomeRecord{NodeCount: &nodes, InputCount: &inputs, OutputCount: &outputs, Connections: &conns}
}

// Save writes g to w using enc.
func (g *Genome) Save(w io.Writer, enc Encoding) error {
	if err := enc.Encode(w, g.Record()); err != nil {
		return fmt.Errorf("failed to encode genome: %w", err)
	}
	return nil
}

// LoadGenome reads a genome written by Save. The genome joins the lineage of config.
func LoadGenome(r io.Reader, config *Config, enc Encoding) (*Genome, error) {
	var rec GenomeRecord
	if err := enc.Decode(r, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return rec.Genome(config)
}

// maxNodeCount bounds the node space a record may declare.
const maxNodeCount = 1 << 24

// Genome reconstructs a genome from the record. Connections are sorted by
// marker, incoming lists rebuilt and hidden nodes padded up to NodeCount.
// Every marker must already have been issued by config's registry, and each
// hidden node needs at least one issued marker. Nothing is returned unless the
// whole record is valid.
func (rec GenomeRecord) Genome(config *Config) (*Genome, error) {
	switch {
	case config == nil:
		return nil, fmt.Errorf("%w: nil config", ErrMalformedRecord)
	case config.Innovations == nil:
		return nil, fmt.Errorf("%w: config has no innovation registry", ErrMalformedRecord)
	case rec.NodeCount == nil:
		return nil, fmt.Errorf("%w: missing nodeCount", ErrMalformedRecord)
	case rec.InputCount == nil:
		return nil, fmt.Errorf("%w: missing inputCount", ErrMalformedRecord)
	case rec.OutputCount == nil:
		return nil, fmt.Errorf("%w: missing outputCount", ErrMalformedRecord)
	case rec.Connections == nil:
		return nil, fmt.Errorf("%w: missing connections", ErrMalformedRecord)
	}
	nodes, inputs, outputs := *rec.NodeCount, *rec.InputCount, *rec.OutputCount
	if inputs < 0 || outputs < 0 || inputs > maxNodeCount || outputs > maxNodeCount {
		return nil, fmt.Errorf("%w: input count %d or output count %d out of range", ErrMalformedRecord, inputs, outputs)
	}
	if nodes < 1+inputs+outputs {
		return nil, fmt.Errorf("%w: nodeCount %d cannot hold bias, %d inputs and %d outputs",
			ErrMalformedRecord, nodes, inputs, outputs)
	}
	issued := config.Innovations.Current()
	if nodes > maxNodeCount || nodes-1-inputs-outputs > issued {
		return nil, fmt.Errorf("%w: nodeCount %d exceeds what %d issued markers can produce",
			ErrMalformedRecord, nodes, issued)
	}

	conns := make([]Connection, len(*rec.Connections))
	seen := make(map[ConnectionKey]struct{}, len(conns))
	for i, cr := range *rec.Connections {
		c := Connection(cr)
		if c.Source < 0 || c.Source >= nodes {
			return nil, fmt.Errorf("%w: connection %d source %d out of range [0, %d)", ErrMalformedRecord, i, c.Source, nodes)
		}
		if c.Target <= inputs || c.Target >= nodes {
			return nil, fmt.Errorf("%w: connection %d target %d out of range [%d, %d)", ErrMalformedRecord, i, c.Target, inputs+1, nodes)
		}
		if c.Marker < 1 || c.Marker > issued {
			return nil, fmt.Errorf("%w: connection %d marker %d not issued by registry (current %d)", ErrMalformedRecord, i, c.Marker, issued)
		}
		if _, dup := seen[c.Key()]; dup {
			return nil, fmt.Errorf("%w: duplicate connection %d->%d", ErrMalformedRecord, c.Source, c.Target)
		}
		seen[c.Key()] = struct{}{}
		conns[i] = c
	}
	slices.SortStableFunc(conns, byMarker)

	g := &Genome{
		numSensors:  inputs,
		numOutputs:  outputs,
		connections: conns,
		config:      config,
	}
	g.rebuild(nodes)
	return g, nil
}

func (c ConnectionRecord) tuple() []any {
	return []any{c.Source, c.Target, c.Weight, c.Enabled, c.Marker}
}

// MarshalJSON writes the connection as a 5-element array.
func (c ConnectionRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.tuple())
}

// UnmarshalJSON reads a 5-element array.
func (c *ConnectionRecord) UnmarshalJSON(data []byte) error {
	var fields []any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	return c.fromTuple(fields)
}

// MarshalYAML writes the connection as a 5-element sequence.
func (c ConnectionRecord) MarshalYAML() (any, error) {
	return c.tuple(), nil
}

// UnmarshalYAML reads a 5-element sequence.
func (c *ConnectionRecord) UnmarshalYAML(node *yaml.Node) error {
	var fields []any
	if err := node.Decode(&fields); err != nil {
		return err
	}
	return c.fromTuple(fields)
}

func (c *ConnectionRecord) fromTuple(fields []any) error {
	if len(fields) != 5 {
		return fmt.Errorf("%w: connection must have 5 fields, got %d", ErrMalformedRecord, len(fields))
	}
	var ok [5]bool
	c.Source, ok[0] = asInt(fields[0])
	c.Target, ok[1] = asInt(fields[1])
	c.Weight, ok[2] = asFloat(fields[2])
	c.Enabled, ok[3] = asBool(fields[3])
	c.Marker, ok[4] = asInt(fields[4])
	names := [5]string{"source", "target", "weight", "enabled", "marker"}
	for i, good := range ok {
		if !good {
			return fmt.Errorf("%w: connection %s has invalid value %v", ErrMalformedRecord, names[i], fields[i])
		}
	}
	return nil
}

// asInt accepts any integral number that fits an int; JSON decodes numbers as float64.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		// Beyond 2^53 a float64 no longer holds every integer exactly.
		if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// asBool accepts a boolean or a number, where any non-zero number means enabled.
func asBool(v any) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	if f, ok := asFloat(v); ok {
		return f != 0, true
	}
	return false, false
}
