package markovx_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/comalice/markovx"
	"github.com/comalice/markovx/internal/primitives"
)

// Restart states draw their successor from state 0's row, so nothing ever
// moves back to state 0.
var wantStationary = []float64{0, 0.16, 0.20, 0.25, 0.25, 0.14}

func TestNewChainRejectsBadRows(t *testing.T) {
	names := []string{"x", "y"}
	tests := []struct {
		name string
		rows [][]float64
	}{
		{"row count", [][]float64{{1, 0}}},
		{"row width", [][]float64{{1}, {0, 1}}},
		{"negative", [][]float64{{1.5, -0.5}, {0, 1}}},
		{"sum", [][]float64{{0.5, 0.4}, {0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChain("bad", names, tt.rows)
			if !errors.Is(err, ErrNotStochastic) {
				t.Errorf("expected ErrNotStochastic, got %v", err)
			}
		})
	}
}

func TestNewChainErrors(t *testing.T) {
	_, err := NewChain("empty", nil, nil)
	assert.ErrorIs(t, err, ErrEmptyChain)

	rows := [][]float64{{0, 1}, {1, 0}}
	_, err = NewChain("dup", []string{"x", "x"}, rows)
	assert.Error(t, err)

	_, err = NewChain("init", []string{"x", "y"}, rows, WithInitial(5))
	assert.ErrorIs(t, err, ErrUnknownState)

	_, err = NewChain("restart", []string{"x", "y"}, rows, WithRestart(0, 2))
	assert.ErrorIs(t, err, ErrUnknownState)
}

func TestChainAccessors(t *testing.T) {
	c, err := NewChain("flip", []string{"heads", "tails"}, [][]float64{{0.5, 0.5}, {0.25, 0.75}}, WithInitial(1))
	require.NoError(t, err)

	assert.Equal(t, "flip", c.ID())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"heads", "tails"}, c.Names())
	assert.Equal(t, "tails", c.Name(1))
	assert.Equal(t, "", c.Name(7))
	assert.Equal(t, StateID(1), c.Initial())
	assert.Equal(t, 0.25, c.Prob(1, 0))
	assert.Equal(t, 0.0, c.Prob(3, 0))

	id, ok := c.Lookup("tails")
	assert.True(t, ok)
	assert.Equal(t, StateID(1), id)
	_, ok = c.Lookup("edge")
	assert.False(t, ok)

	// Matrix is a copy.
	m := c.Matrix()
	m.Set(0, 0, 9)
	assert.Equal(t, 0.5, c.Prob(0, 0))
}

func TestFromConfig(t *testing.T) {
	cfg := primitives.ChainConfig{
		ID:     "cfg",
		States: []string{"a", "b", "c"},
		Transitions: map[string]map[string]float64{
			"a": {"b": 1},
			"b": {"c": 1},
			"c": {"c": 1},
		},
		Initial: "b",
		Restart: &primitives.RestartConfig{From: []string{"c"}, To: "a"},
	}
	c, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, StateID(1), c.Initial())

	to, ok := c.Restart(2)
	assert.True(t, ok)
	assert.Equal(t, StateID(0), to)
	_, ok = c.Restart(0)
	assert.False(t, ok)

	cfg.Transitions["a"]["b"] = 0.5
	_, err = FromConfig(cfg)
	assert.Error(t, err)
}

func TestDefaultChains(t *testing.T) {
	chains := DefaultChains()
	require.Contains(t, chains, "a")
	require.Contains(t, chains, "c")

	for id, c := range chains {
		assert.Equal(t, 6, c.Len(), id)
		for _, s := range []StateID{3, 4, 5} {
			to, ok := c.Restart(s)
			assert.True(t, ok, "%s: state %d should restart", id, s)
			assert.Equal(t, StateID(0), to)
		}
	}
}

func TestEffectiveMatrixFoldsRestart(t *testing.T) {
	c := DefaultChains()["a"]
	raw := c.Matrix()
	eff := c.EffectiveMatrix()

	for _, s := range []int{3, 4, 5} {
		for j := 0; j < 6; j++ {
			assert.Equal(t, raw.At(0, j), eff.At(s, j), "row %d col %d", s, j)
		}
	}
	for j := 0; j < 6; j++ {
		assert.Equal(t, raw.At(1, j), eff.At(1, j))
	}
	// The raw matrix keeps its own rows.
	assert.Equal(t, 0.75, raw.At(3, 5))
}

func TestStationary(t *testing.T) {
	for id, c := range DefaultChains() {
		pi, err := c.Stationary(1e-12, 10000)
		require.NoError(t, err, id)
		require.Len(t, pi, 6)

		sum := 0.0
		for i, p := range pi {
			assert.InDelta(t, wantStationary[i], p, 1e-5, "chain %s state %d", id, i)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestStationaryConvergence(t *testing.T) {
	c, err := NewChain("flip", []string{"a", "b"}, [][]float64{{0.9, 0.1}, {0.1, 0.9}})
	require.NoError(t, err)
	pi, err := c.Stationary(1e-12, 100)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, pi[0], 1e-9)

	c, err = NewChain("slow", []string{"a", "b"}, [][]float64{{0.999, 0.001}, {0.5, 0.5}})
	require.NoError(t, err)
	_, err = c.Stationary(1e-15, 2)
	assert.ErrorIs(t, err, ErrNoConvergence)
}

func TestWalkLengthAndStart(t *testing.T) {
	c := DefaultChains()["c"]
	w := c.NewWalker(rand.NewPCG(1, 2))

	path, err := w.Walk(2, 500)
	require.NoError(t, err)
	assert.Len(t, path, 500)
	assert.Equal(t, StateID(2), path[0])

	one, err := w.Walk(4, 1)
	require.NoError(t, err)
	assert.Equal(t, []StateID{4}, one)

	_, err = w.Walk(0, 0)
	assert.ErrorIs(t, err, ErrBadIterations)
	_, err = w.Walk(9, 10)
	assert.ErrorIs(t, err, ErrUnknownState)
	_, err = w.Next(-1)
	assert.ErrorIs(t, err, ErrUnknownState)
}

func TestWalkDeterministic(t *testing.T) {
	c := DefaultChains()["a"]
	p1, err := c.NewWalker(rand.NewPCG(42, 0)).Walk(0, 1000)
	require.NoError(t, err)
	p2, err := c.NewWalker(rand.NewPCG(42, 0)).Walk(0, 1000)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)

	p3, err := c.NewWalker(rand.NewPCG(43, 0)).Walk(0, 1000)
	require.NoError(t, err)
	assert.NotEqual(t, p1, p3)
}

func TestWalkHonoursRestart(t *testing.T) {
	// Without the restart rule chain c would stick in 3, 4 or 5. With it,
	// those states continue as if from state 0.
	c := DefaultChains()["c"]
	path, err := c.NewWalker(rand.NewPCG(7, 7)).Walk(0, 5000)
	require.NoError(t, err)

	for i := 1; i < len(path); i++ {
		assert.NotEqual(t, StateID(0), path[i], "step %d", i)
		if path[i-1] >= 3 {
			assert.Contains(t, []StateID{1, 2, 3, 4}, path[i], "step %d", i)
		}
	}
}
