package hmm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/markovx/internal/primitives"
)

func TestEmitSingleSymbols(t *testing.T) {
	c := DefaultConfusion()

	tests := []struct {
		state string
		want  map[string]float64
	}{
		{"e", map[string]float64{"e": 0.6, "c": 0.2, "o": 0.2}},
		{"b", map[string]float64{"b": 0.6, "d": 0.4}},
		{"a", map[string]float64{"a": 1}},
		{" ", map[string]float64{" ": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			got := c.Emit(tt.state)
			require.Len(t, got, len(tt.want))
			for k, v := range tt.want {
				assert.InDelta(t, v, got[k], 1e-12, "emission %q", k)
			}
		})
	}
}

func TestEmitMultiSymbol(t *testing.T) {
	c := DefaultConfusion()

	got := c.Emit("be")
	assert.InDelta(t, 0.6, got["be"], 1e-12)
	for _, v := range []string{"de", "bc", "bo"} {
		assert.InDelta(t, 0.4/3, got[v], 1e-12, v)
	}
	assert.Len(t, got, 4)

	// Repeated symbols are replaced together, giving one variant.
	got = c.Emit("bb")
	assert.Len(t, got, 2)
	assert.InDelta(t, 0.6, got["bb"], 1e-12)
	assert.InDelta(t, 0.4, got["dd"], 1e-12)

	assert.Equal(t, map[string]float64{"xy": 1}, c.Emit("xy"))
}

func TestEmissionsSumToOne(t *testing.T) {
	c := DefaultConfusion()
	table := c.Emissions([]string{"a", "e", "th", "he", "mn", "  "})
	for state, row := range table {
		sum := 0.0
		for _, p := range row {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-12, state)
	}
}

func TestNewConfusionRejectsInvalid(t *testing.T) {
	_, err := NewConfusion(primitives.ConfusionConfig{Alphabet: "ab", Correct: 0.6, Groups: []string{"ax"}})
	assert.Error(t, err)

	c, err := NewConfusion(primitives.ConfusionConfig{Alphabet: "abc", Correct: 0.5, Groups: []string{"abc"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 0.5, "b": 0.25, "c": 0.25}, c.Emit("a"))
}
