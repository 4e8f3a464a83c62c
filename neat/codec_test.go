package neat

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evolvedGenome(t *testing.T, cfg *Config, seed int64) *Genome {
	t.Helper()
	cfg.Mutation.NewLinkChance = 0.7
	cfg.Mutation.NewNodeChance = 0.3
	g := NewGenome(3, 2, cfg)
	rng := seeded(seed)
	for i := 0; i < 60; i++ {
		g.Mutate(rng)
	}
	require.NotEmpty(t, g.Connections())
	require.Positive(t, g.NumHidden())
	return g
}

func TestGenomeRoundTrip(t *testing.T) {
	encodings := map[string]Encoding{"json": JSON, "yaml": YAML}
	for name, enc := range encodings {
		t.Run(name, func(t *testing.T) {
			cfg := NewConfig()
			g := evolvedGenome(t, cfg, 17)

			var buf bytes.Buffer
			require.NoError(t, g.Save(&buf, enc))
			loaded, err := LoadGenome(&buf, cfg, enc)
			require.NoError(t, err)

			assert.Equal(t, g.NumSensors(), loaded.NumSensors())
			assert.Equal(t, g.NumOutputs(), loaded.NumOutputs())
			assert.Equal(t, g.TotalNodes(), loaded.TotalNodes())
			assert.ElementsMatch(t, g.Connections(), loaded.Connections())
			assert.True(t, loaded.sorted)
			assert.Same(t, cfg, loaded.Config())
			checkStructure(t, loaded)

			inputs := []float64{0.5, -1, 2}
			want, _, err := g.Evaluate(inputs, nil)
			require.NoError(t, err)
			got, _, err := loaded.Evaluate(inputs, nil)
			require.NoError(t, err)
			assert.InDeltaSlice(t, want, got, 1e-9)

			d, err := g.Distance(loaded)
			require.NoError(t, err)
			assert.Zero(t, d)
		})
	}
}

func TestGenomeRecordLayout(t *testing.T) {
	g := buildGenome(NewConfig(), 2, 1, 0, conn(1, 3, 0.5, 1))

	var buf bytes.Buffer
	require.NoError(t, g.Save(&buf, JSON))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 4.0, doc["nodeCount"])
	assert.Equal(t, 2.0, doc["inputCount"])
	assert.Equal(t, 1.0, doc["outputCount"])
	assert.Equal(t, []any{[]any{1.0, 3.0, 0.5, true, 1.0}}, doc["connections"])
}

func TestLoadGenomeAcceptsNumericEnabled(t *testing.T) {
	src := `{"nodeCount":4,"inputCount":2,"outputCount":1,"connections":[[1,3,2.0,1,1],[2,3,0.5,0,2]]}`
	g, err := LoadGenome(strings.NewReader(src), issuedConfig(10), JSON)
	require.NoError(t, err)

	conns := g.Connections()
	require.Len(t, conns, 2)
	assert.True(t, conns[0].Enabled)
	assert.False(t, conns[1].Enabled)
}

func TestLoadGenomeSortsAndPads(t *testing.T) {
	src := `{"nodeCount":7,"inputCount":2,"outputCount":1,"connections":[[4,3,1,true,3],[1,4,1,true,1],[2,3,1,false,2]]}`
	g, err := LoadGenome(strings.NewReader(src), issuedConfig(10), JSON)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, markers(g.Connections()))
	assert.Equal(t, 3, g.NumHidden(), "hidden nodes 4, 5 and 6")
	assert.Equal(t, 7, g.TotalNodes())
	checkStructure(t, g)
}

func TestLoadGenomeYAML(t *testing.T) {
	src := `
nodeCount: 5
inputCount: 2
outputCount: 1
connections:
  - [1, 4, 1, true, 2]
  - [4, 3, -0.25, 1, 3]
`
	g, err := LoadGenome(strings.NewReader(src), issuedConfig(10), YAML)
	require.NoError(t, err)
	assert.Equal(t, []Connection{
		{Source: 1, Target: 4, Weight: 1, Enabled: true, Marker: 2},
		{Source: 4, Target: 3, Weight: -0.25, Enabled: true, Marker: 3},
	}, g.Connections())
}

func TestLoadGenomeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"not json", `nodeCount: 4`},
		{"missing nodeCount", `{"inputCount":2,"outputCount":1,"connections":[]}`},
		{"missing inputCount", `{"nodeCount":4,"outputCount":1,"connections":[]}`},
		{"missing outputCount", `{"nodeCount":4,"inputCount":2,"connections":[]}`},
		{"missing connections", `{"nodeCount":4,"inputCount":2,"outputCount":1}`},
		{"negative inputs", `{"nodeCount":4,"inputCount":-1,"outputCount":1,"connections":[]}`},
		{"nodeCount too small", `{"nodeCount":3,"inputCount":2,"outputCount":1,"connections":[]}`},
		{"source out of range", `{"nodeCount":4,"inputCount":2,"outputCount":1,"connections":[[4,3,1,true,1]]}`},
		{"negative source", `{"nodeCount":4,"inputCount":2,"outputCount":1,"connections":[[-1,3,1,true,1]]}`},
		{"target is a sensor", `{"nodeCount":4,"inputCount":2,"outputCount":1,"connections":[[0,2,1,true,1]]}`},
		{"target out of range", `{"nodeCount":4,"inputCount":2,"outputCount":1,"connections":[[1,4,1,true,1]]}`},
		{"short tuple", `{"nodeCount":4,"inputCount":2,"outputCount":1,"connections":[[1,3,1,true]]}`},
		{"enabled string", `{"nodeCount":4,"inputCount":2,"outputCount":1,"connections":[[1,3,1,"yes",1]]}`},
		{"fractional source", `{"nodeCount":4,"inputCount":2,"outputCount":1,"connections":[[1.5,3,1,true,1]]}`},
		{"duplicate pair", `{"nodeCount":4,"inputCount":2,"outputCount":1,"connections":[[1,3,1,true,1],[1,3,2,true,2]]}`},
		{"marker zero", `{"nodeCount":4,"inputCount":2,"outputCount":1,"connections":[[1,3,1,true,0]]}`},
		{"marker not issued", `{"nodeCount":4,"inputCount":2,"outputCount":1,"connections":[[1,3,1,true,11]]}`},
		{"more hidden nodes than markers", `{"nodeCount":15,"inputCount":2,"outputCount":1,"connections":[]}`},
		{"huge nodeCount", `{"nodeCount":2000000000,"inputCount":2,"outputCount":1,"connections":[]}`},
		{"huge inputCount", `{"nodeCount":4,"inputCount":9007199254740991,"outputCount":1,"connections":[]}`},
		{"source beyond int", `{"nodeCount":4,"inputCount":2,"outputCount":1,"connections":[[1e300,3,1,true,1]]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := LoadGenome(strings.NewReader(tt.src), issuedConfig(10), JSON)
			require.ErrorIs(t, err, ErrMalformedRecord)
			assert.Nil(t, g)
		})
	}
}

func TestLoadGenomeRequiresConfig(t *testing.T) {
	src := `{"nodeCount":4,"inputCount":2,"outputCount":1,"connections":[[1,3,2.0,true,1]]}`

	g, err := LoadGenome(strings.NewReader(src), nil, JSON)
	require.ErrorIs(t, err, ErrMalformedRecord)
	assert.Nil(t, g)

	cfg := issuedConfig(1)
	cfg.Innovations = nil
	_, err = LoadGenome(strings.NewReader(src), cfg, JSON)
	require.ErrorIs(t, err, ErrMalformedRecord)
}

func TestLoadGenomeRejectsUnissuedMarkers(t *testing.T) {
	cfg := NewConfig()
	g := buildGenome(cfg, 2, 1, 0, conn(1, 3, 2, cfg.Innovations.RegisterConnection(1, 3)))
	var buf bytes.Buffer
	require.NoError(t, g.Save(&buf, JSON))

	// A fresh registry would hand marker 1 to an unrelated 2->3 gene.
	fresh := NewConfig()
	_, err := LoadGenome(bytes.NewReader(buf.Bytes()), fresh, JSON)
	require.ErrorIs(t, err, ErrMalformedRecord)
	assert.Equal(t, 0, fresh.Innovations.Current())

	loaded, err := LoadGenome(bytes.NewReader(buf.Bytes()), cfg, JSON)
	require.NoError(t, err)
	other := buildGenome(cfg, 2, 1, 0, conn(2, 3, 2, cfg.Innovations.RegisterConnection(2, 3)))
	d, err := loaded.Distance(other)
	require.NoError(t, err)
	assert.Positive(t, d)
}

func TestLoadGenomeAcceptsSparseHiddenNodes(t *testing.T) {
	cfg := issuedConfig(8)
	a := buildGenome(cfg, 2, 1, 0, conn(1, 3, 1, 1))
	b := buildGenome(cfg, 2, 1, 8, conn(2, 7, 1, 2))

	// The child inherits only 2->7, so hidden nodes 4..7 outnumber its connections.
	child, err := a.BreedFavoring(b, false, seeded(1))
	require.NoError(t, err)
	require.Equal(t, 8, child.TotalNodes())
	require.Len(t, child.Connections(), 1)

	var buf bytes.Buffer
	require.NoError(t, child.Save(&buf, JSON))
	loaded, err := LoadGenome(&buf, cfg, JSON)
	require.NoError(t, err)
	assert.Equal(t, child.TotalNodes(), loaded.TotalNodes())
	assert.Equal(t, child.Connections(), loaded.Connections())
}

func TestAsIntRange(t *testing.T) {
	for _, v := range []any{uint64(1 << 63), 1e300, math.Inf(1), math.NaN(), 2.5} {
		_, ok := asInt(v)
		assert.False(t, ok, "%v", v)
	}
	n, ok := asInt(float64(1 << 40))
	require.True(t, ok)
	assert.Equal(t, 1<<40, n)
}

func TestConfigRoundTrip(t *testing.T) {
	for name, enc := range map[string]Encoding{"json": JSON, "yaml": YAML} {
		t.Run(name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Activation = "tanh"
			cfg.Compatibility.WeightCoefficient = 0.4
			evolvedGenome(t, cfg, 5)
			require.NotEmpty(t, cfg.Record().NodeSplits)

			var buf bytes.Buffer
			require.NoError(t, cfg.Save(&buf, enc))
			loaded, err := LoadConfigRecord(&buf, enc)
			require.NoError(t, err)

			assert.Equal(t, cfg.Record(), loaded.Record())
			assert.Equal(t, cfg.Mutation, loaded.Mutation)
			assert.Equal(t, cfg.Compatibility, loaded.Compatibility)
			assert.Equal(t, "tanh", loaded.Activation)

			// Known events keep their markers, new ones continue the counter.
			assert.Equal(t, cfg.Innovations.RegisterConnection(1, 3), loaded.Innovations.RegisterConnection(1, 3))
			next := cfg.Innovations.Current() + 1
			assert.Equal(t, next, loaded.Innovations.RegisterConnection(1000, 1001))
		})
	}
}

func TestConfigRecordLayout(t *testing.T) {
	cfg := NewConfig()
	cfg.Innovations.RegisterConnection(1, 3)
	cfg.Innovations.RegisterNodeSplit(1, 3, 4)

	var buf bytes.Buffer
	require.NoError(t, cfg.Save(&buf, JSON))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	for _, key := range []string{"c1", "c2", "c3", "perturbationChance", "newLinkChance", "biasLinkChance", "newNodeChance", "innovationNumber"} {
		assert.Contains(t, doc, key)
	}
	assert.Equal(t, 3.0, doc["innovationNumber"])
	assert.Equal(t, []any{map[string]any{"key": []any{1.0, 3.0}, "marker": 1.0}}, doc["connections"])
	assert.Equal(t, []any{map[string]any{"key": []any{1.0, 3.0, 4.0}, "markers": []any{2.0, 3.0}}}, doc["nodeSplits"])
}

func TestLoadConfigRecordRejectsMalformed(t *testing.T) {
	valid := func() map[string]any {
		return map[string]any{
			"c1": 1, "c2": 1, "c3": 1,
			"perturbationChance": 0.1, "perturbationStdev": 0.1,
			"newLinkChance": 0.1, "biasLinkChance": 0.1, "newLinkWeightStdev": 1,
			"newNodeChance": 0.1, "disableMutationChance": 0.1, "enableMutationChance": 0.1,
			"innovationNumber": 3,
			"connections":      []any{map[string]any{"key": []int{1, 3}, "marker": 1}},
			"nodeSplits":       []any{map[string]any{"key": []int{1, 3, 4}, "markers": []int{2, 3}}},
		}
	}
	encode := func(doc map[string]any) *bytes.Buffer {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(doc))
		return &buf
	}

	cfg, err := LoadConfigRecord(encode(valid()), JSON)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Innovations.Current())
	assert.Equal(t, DefaultActivation, cfg.Activation)

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing c1", func(d map[string]any) { delete(d, "c1") }},
		{"missing newNodeChance", func(d map[string]any) { delete(d, "newNodeChance") }},
		{"missing innovationNumber", func(d map[string]any) { delete(d, "innovationNumber") }},
		{"chance above one", func(d map[string]any) { d["newLinkChance"] = 1.5 }},
		{"unknown activation", func(d map[string]any) { d["activation"] = "softmax" }},
		{"negative counter", func(d map[string]any) { d["innovationNumber"] = -1 }},
		{"marker beyond counter", func(d map[string]any) { d["innovationNumber"] = 2 }},
		{"duplicate connection entry", func(d map[string]any) {
			d["connections"] = []any{
				map[string]any{"key": []int{1, 3}, "marker": 1},
				map[string]any{"key": []int{1, 3}, "marker": 2},
			}
		}},
		{"wrong type", func(d map[string]any) { d["c2"] = "one" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := valid()
			tt.mutate(doc)
			_, err := LoadConfigRecord(encode(doc), JSON)
			require.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestLoadedGenomesJoinLoadedLineage(t *testing.T) {
	cfg := NewConfig()
	g := evolvedGenome(t, cfg, 23)

	var cfgBuf, genomeBuf bytes.Buffer
	require.NoError(t, cfg.Save(&cfgBuf, JSON))
	require.NoError(t, g.Save(&genomeBuf, JSON))

	loadedCfg, err := LoadConfigRecord(&cfgBuf, JSON)
	require.NoError(t, err)
	loaded, err := LoadGenome(&genomeBuf, loadedCfg, JSON)
	require.NoError(t, err)

	_, err = g.Distance(loaded)
	require.ErrorIs(t, err, ErrCrossLineage)

	other := loaded.Clone().Mutate(seeded(1))
	child, err := loaded.Breed(other, seeded(2))
	require.NoError(t, err)
	checkStructure(t, child)
}

func TestCheckpointRoundTrip(t *testing.T) {
	cfg := NewConfig()
	a := evolvedGenome(t, cfg, 31)
	b := a.Clone().Mutate(seeded(8))
	a.SetFitness(3.5)
	b.SetFitness(1.25)

	var buf bytes.Buffer
	require.NoError(t, SaveCheckpoint(&buf, cfg, []*Genome{a, b}, JSON))

	loadedCfg, genomes, err := LoadCheckpoint(&buf, JSON)
	require.NoError(t, err)
	require.Len(t, genomes, 2)
	assert.Equal(t, cfg.Record(), loadedCfg.Record())
	assert.Equal(t, 3.5, genomes[0].Fitness())
	assert.Equal(t, 1.25, genomes[1].Fitness())
	for i, g := range genomes {
		assert.Same(t, loadedCfg, g.Config())
		assert.ElementsMatch(t, []*Genome{a, b}[i].Connections(), g.Connections())
	}

	d, err := genomes[0].Distance(genomes[1])
	require.NoError(t, err)
	want, err := a.Distance(b)
	require.NoError(t, err)
	assert.InDelta(t, want, d, 1e-12)
}

func TestCheckpointRejectsForeignGenome(t *testing.T) {
	cfg := NewConfig()
	foreign := NewGenome(2, 1, NewConfig())

	var buf bytes.Buffer
	err := SaveCheckpoint(&buf, cfg, []*Genome{NewGenome(2, 1, cfg), foreign}, YAML)
	require.ErrorIs(t, err, ErrCrossLineage)
}

func TestLoadCheckpointRejectsPlainData(t *testing.T) {
	_, _, err := LoadCheckpoint(strings.NewReader(`{"config":{}}`), JSON)
	require.ErrorIs(t, err, ErrMalformedRecord)
}
