package nn

import (
	"strings"
	"testing"

	"github.com/baldhumanity/neat-genes/neat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadGenome decodes a JSON genome record into a lineage whose registry has
// already issued the markers the record uses.
func loadGenome(t *testing.T, record string) *neat.Genome {
	t.Helper()
	cfg := neat.NewConfig()
	for i := 0; i < 10; i++ {
		cfg.Innovations.RegisterConnection(100+i, 200+i)
	}
	g, err := neat.LoadGenome(strings.NewReader(record), cfg, neat.JSON)
	require.NoError(t, err)
	return g
}

func TestNetworkCarriesState(t *testing.T) {
	// Output 2 feeds itself.
	net := New(loadGenome(t, `{"nodeCount":3,"inputCount":1,"outputCount":1,"connections":[[2,2,1.0,true,1]]}`))
	assert.Nil(t, net.State())

	out, err := net.Activate([]float64{0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out[0], 1e-12)

	out, err = net.Activate([]float64{0})
	require.NoError(t, err)
	assert.InDelta(t, neat.Sigmoid(0.5), out[0], 1e-12)

	net.Reset()
	assert.Nil(t, net.State())
	out, err = net.Activate([]float64{0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out[0], 1e-12)
}

func TestNetworkStateIsCopy(t *testing.T) {
	net := New(loadGenome(t, `{"nodeCount":3,"inputCount":1,"outputCount":1,"connections":[[1,2,1.0,true,1]]}`))
	_, err := net.Activate([]float64{1})
	require.NoError(t, err)

	state := net.State()
	require.Len(t, state, 3)
	state[2] = 42
	assert.NotEqual(t, 42.0, net.State()[2])
}

func TestNetworkDimensionMismatch(t *testing.T) {
	g := neat.NewGenome(2, 1, neat.NewConfig())
	net := New(g)
	assert.Same(t, g, net.Genome())

	_, err := net.Activate([]float64{1, 2, 3})
	require.ErrorIs(t, err, neat.ErrDimensionMismatch)
	assert.Nil(t, net.State())
}
