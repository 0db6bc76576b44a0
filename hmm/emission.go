package hmm

import (
	"fmt"
	"strings"

	"github.com/comalice/markovx/internal/primitives"
)

// Confusion models OCR misreads: a symbol is read correctly with probability
// Correct and otherwise as one of the other members of its group, chosen
// uniformly. Symbols outside every group are always read correctly.
type Confusion struct {
	alphabet string
	correct  float64
	mates    map[rune][]rune
}

// NewConfusion builds a confusion model from a validated config.
func NewConfusion(cfg primitives.ConfusionConfig) (*Confusion, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("confusion config: %w", err)
	}
	c := &Confusion{
		alphabet: cfg.Alphabet,
		correct:  cfg.Correct,
		mates:    make(map[rune][]rune),
	}
	for _, g := range cfg.Groups {
		members := []rune(g)
		for _, r := range members {
			for _, o := range members {
				if o != r {
					c.mates[r] = append(c.mates[r], o)
				}
			}
		}
	}
	return c, nil
}

// DefaultConfusion returns the built-in OCR confusion model.
func DefaultConfusion() *Confusion {
	c, err := NewConfusion(primitives.DefaultConfusion())
	if err != nil {
		panic(err)
	}
	return c
}

// Alphabet returns the observation alphabet.
func (c *Confusion) Alphabet() string { return c.alphabet }

// Emit returns the nonzero emission probabilities of state.
//
// A single symbol emits itself with Correct and splits the rest evenly over
// its group mates. A longer state emits itself with Correct and splits the
// rest evenly over the distinct strings obtained by replacing every
// occurrence of one confusable symbol with one of its mates. A state with no
// confusable symbols emits itself with probability 1.
func (c *Confusion) Emit(state string) map[string]float64 {
	runes := []rune(state)
	if len(runes) == 1 {
		mates := c.mates[runes[0]]
		if len(mates) == 0 {
			return map[string]float64{state: 1}
		}
		out := map[string]float64{state: c.correct}
		share := (1 - c.correct) / float64(len(mates))
		for _, m := range mates {
			out[string(m)] = share
		}
		return out
	}

	var variants []string
	seen := make(map[string]bool)
	for _, r := range runes {
		for _, m := range c.mates[r] {
			v := strings.ReplaceAll(state, string(r), string(m))
			if !seen[v] {
				seen[v] = true
				variants = append(variants, v)
			}
		}
	}
	if len(variants) == 0 {
		return map[string]float64{state: 1}
	}
	out := map[string]float64{state: c.correct}
	share := (1 - c.correct) / float64(len(variants))
	for _, v := range variants {
		out[v] += share
	}
	return out
}

// Emissions returns the emission table for states.
func (c *Confusion) Emissions(states []string) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(states))
	for _, s := range states {
		out[s] = c.Emit(s)
	}
	return out
}
