package hmm

import (
	"fmt"
	"strings"
)

// NGram holds character n-gram statistics of a corpus. Every chunk of
// length 1..Order made only of alphabet symbols is a state; the symbol after
// a chunk is counted as a transition when it is in the alphabet.
type NGram struct {
	Order    int
	Alphabet string
	// States in first-seen order, all order-1 chunks before order-2 chunks.
	States      []string
	Next        map[string]map[string]int
	Occurrences map[string]int
}

// BuildNGram collects n-gram statistics from corpus, lowercased. Chunks that
// would run past the end of the corpus are ignored.
func BuildNGram(corpus string, n int, alphabet string) (*NGram, error) {
	if n < 1 || n > 2 {
		return nil, fmt.Errorf("order %d: %w", n, ErrInvalidOrder)
	}
	valid := make(map[rune]bool, len(alphabet))
	for _, r := range alphabet {
		valid[r] = true
	}

	g := &NGram{
		Order:       n,
		Alphabet:    alphabet,
		Next:        make(map[string]map[string]int),
		Occurrences: make(map[string]int),
	}
	text := []rune(strings.ToLower(corpus))

	for order := 1; order <= n; order++ {
		for i := 0; i+order <= len(text); i++ {
			chunk := text[i : i+order]
			if !allValid(chunk, valid) {
				continue
			}
			key := string(chunk)
			row, seen := g.Next[key]
			if !seen {
				g.States = append(g.States, key)
				row = make(map[string]int)
				g.Next[key] = row
			}
			g.Occurrences[key]++
			if i+order < len(text) && valid[text[i+order]] {
				row[string(text[i+order])]++
			}
		}
	}
	return g, nil
}

func allValid(chunk []rune, valid map[rune]bool) bool {
	for _, r := range chunk {
		if !valid[r] {
			return false
		}
	}
	return true
}

// Transitions returns the next-symbol counts normalised per state. States
// never followed by an alphabet symbol get an empty row.
func (g *NGram) Transitions() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(g.Next))
	for state, row := range g.Next {
		total := 0
		for _, c := range row {
			total += c
		}
		probs := make(map[string]float64, len(row))
		for sym, c := range row {
			probs[sym] = float64(c) / float64(total)
		}
		out[state] = probs
	}
	return out
}

// Start returns chunk occurrence counts normalised across all orders.
func (g *NGram) Start() map[string]float64 {
	total := 0
	for _, c := range g.Occurrences {
		total += c
	}
	out := make(map[string]float64, len(g.Occurrences))
	if total == 0 {
		return out
	}
	for state, c := range g.Occurrences {
		out[state] = float64(c) / float64(total)
	}
	return out
}
