package neat

import (
	"fmt"
	"io"
	"slices"
)

// ConfigRecord is the serialized form of a Config: one field per named
// parameter plus the innovation registry's counter and both marker tables.
type ConfigRecord struct {
	C1                    *float64 `json:"c1" yaml:"c1"`
	C2                    *float64 `json:"c2" yaml:"c2"`
	C3                    *float64 `json:"c3" yaml:"c3"`
	PerturbationChance    *float64 `json:"perturbationChance" yaml:"perturbationChance"`
	PerturbationStdev     *float64 `json:"perturbationStdev" yaml:"perturbationStdev"`
	NewLinkChance         *float64 `json:"newLinkChance" yaml:"newLinkChance"`
	BiasLinkChance        *float64 `json:"biasLinkChance" yaml:"biasLinkChance"`
	NewLinkWeightStdev    *float64 `json:"newLinkWeightStdev" yaml:"newLinkWeightStdev"`
	NewNodeChance         *float64 `json:"newNodeChance" yaml:"newNodeChance"`
	DisableMutationChance *float64 `json:"disableMutationChance" yaml:"disableMutationChance"`
	EnableMutationChance  *float64 `json:"enableMutationChance" yaml:"enableMutationChance"`
	Activation            string   `json:"activation,omitempty" yaml:"activation,omitempty"`

	InnovationNumber *int              `json:"innovationNumber" yaml:"innovationNumber"`
	Connections      []ConnectionEntry `json:"connections" yaml:"connections"`
	NodeSplits       []SplitEntry      `json:"nodeSplits" yaml:"nodeSplits"`
}

// ConnectionEntry is one row of the new-connection table: [source, target] -> marker.
type ConnectionEntry struct {
	Key    [2]int `json:"key" yaml:"key,flow"`
	Marker int    `json:"marker" yaml:"marker"`
}

// SplitEntry is one row of the node-split table: [source, target, node] -> [leading, trailing].
type SplitEntry struct {
	Key     [3]int `json:"key" yaml:"key,flow"`
	Markers [2]int `json:"markers" yaml:"markers,flow"`
}

// Record builds the serialized form of c. Table rows are sorted by key.
func (c *Config) Record() ConfigRecord {
	m, comp := c.Mutation, c.Compatibility
	counter, conns, splits := c.Innovations.snapshot()

	rec := ConfigRecord{
		C1:                    &comp.ExcessCoefficient,
		C2:                    &comp.DisjointCoefficient,
		C3:                    &comp.WeightCoefficient,
		PerturbationChance:    &m.PerturbationChance,
		PerturbationStdev:     &m.PerturbationStdev,
		NewLinkChance:         &m.NewLinkChance,
		BiasLinkChance:        &m.BiasLinkChance,
		NewLinkWeightStdev:    &m.NewLinkWeightStdev,
		NewNodeChance:         &m.NewNodeChance,
		DisableMutationChance: &m.DisableMutationChance,
		EnableMutationChance:  &m.EnableMutationChance,
		Activation:            c.Activation,
		InnovationNumber:      &counter,
		Connections:           make([]ConnectionEntry, 0, len(conns)),
		NodeSplits:            make([]SplitEntry, 0, len(splits)),
	}
	for k, marker := range conns {
		rec.Connections = append(rec.Connections, ConnectionEntry{Key: [2]int{k.Source, k.Target}, Marker: marker})
	}
	for k, sm := range splits {
		rec.NodeSplits = append(rec.NodeSplits, SplitEntry{
			Key:     [3]int{k.Source, k.Target, k.Node},
			Markers: [2]int{sm.Leading, sm.Trailing},
		})
	}
	slices.SortFunc(rec.Connections, func(a, b ConnectionEntry) int {
		return slices.Compare(a.Key[:], b.Key[:])
	})
	slices.SortFunc(rec.NodeSplits, func(a, b SplitEntry) int {
		return slices.Compare(a.Key[:], b.Key[:])
	})
	return rec
}

// Save writes c, including its live innovation registry, to w using enc.
func (c *Config) Save(w io.Writer, enc Encoding) error {
	if err := enc.Encode(w, c.Record()); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// LoadConfigRecord reads a Config written by Config.Save. Genomes saved in the
// same run must be loaded against the returned Config to stay in one lineage.
func LoadConfigRecord(r io.Reader, enc Encoding) (*Config, error) {
	var rec ConfigRecord
	if err := enc.Decode(r, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return rec.Config()
}

type recordParam struct {
	name string
	src  *float64
	dst  *float64
}

// Config reconstructs a Config from the record.
func (rec ConfigRecord) Config() (*Config, error) {
	c := &Config{Activation: rec.Activation}
	params := []recordParam{
		{"c1", rec.C1, &c.Compatibility.ExcessCoefficient},
		{"c2", rec.C2, &c.Compatibility.DisjointCoefficient},
		{"c3", rec.C3, &c.Compatibility.WeightCoefficient},
		{"perturbationChance", rec.PerturbationChance, &c.Mutation.PerturbationChance},
		{"perturbationStdev", rec.PerturbationStdev, &c.Mutation.PerturbationStdev},
		{"newLinkChance", rec.NewLinkChance, &c.Mutation.NewLinkChance},
		{"biasLinkChance", rec.BiasLinkChance, &c.Mutation.BiasLinkChance},
		{"newLinkWeightStdev", rec.NewLinkWeightStdev, &c.Mutation.NewLinkWeightStdev},
		{"newNodeChance", rec.NewNodeChance, &c.Mutation.NewNodeChance},
		{"disableMutationChance", rec.DisableMutationChance, &c.Mutation.DisableMutationChance},
		{"enableMutationChance", rec.EnableMutationChance, &c.Mutation.EnableMutationChance},
	}
	for _, p := range params {
		if p.src == nil {
			return nil, fmt.Errorf("%w: missing %s", ErrMalformedRecord, p.name)
		}
		*p.dst = *p.src
	}
	if c.Activation == "" {
		c.Activation = DefaultActivation
	}

	if rec.InnovationNumber == nil {
		return nil, fmt.Errorf("%w: missing innovationNumber", ErrMalformedRecord)
	}
	registry, err := restoreRegistry(*rec.InnovationNumber, rec.Connections, rec.NodeSplits)
	if err != nil {
		return nil, err
	}
	c.Innovations = registry

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return c, nil
}

func restoreRegistry(counter int, conns []ConnectionEntry, splits []SplitEntry) (*InnovationRegistry, error) {
	if counter < 0 {
		return nil, fmt.Errorf("%w: negative innovationNumber %d", ErrMalformedRecord, counter)
	}
	inRange := func(marker int) bool { return marker >= 1 && marker <= counter }

	r := NewInnovationRegistry()
	r.counter = counter
	for _, e := range conns {
		key := ConnectionKey{Source: e.Key[0], Target: e.Key[1]}
		if _, dup := r.connections[key]; dup {
			return nil, fmt.Errorf("%w: duplicate connection entry %v", ErrMalformedRecord, e.Key)
		}
		if !inRange(e.Marker) {
			return nil, fmt.Errorf("%w: connection entry %v marker %d beyond counter %d", ErrMalformedRecord, e.Key, e.Marker, counter)
		}
		r.connections[key] = e.Marker
	}
	for _, e := range splits {
		key := SplitKey{Source: e.Key[0], Target: e.Key[1], Node: e.Key[2]}
		if _, dup := r.splits[key]; dup {
			return nil, fmt.Errorf("%w: duplicate node split entry %v", ErrMalformedRecord, e.Key)
		}
		if !inRange(e.Markers[0]) || !inRange(e.Markers[1]) {
			return nil, fmt.Errorf("%w: node split entry %v markers %v beyond counter %d", ErrMalformedRecord, e.Key, e.Markers, counter)
		}
		r.splits[key] = SplitMarkers{Leading: e.Markers[0], Trailing: e.Markers[1]}
	}
	return r, nil
}
