package primitives

import (
	"errors"
	"fmt"
	"strings"
)

// ConfusionConfig describes which symbols an OCR pass confuses with each other.
type ConfusionConfig struct {
	Alphabet string   `json:"alphabet" yaml:"alphabet"`
	Correct  float64  `json:"correct" yaml:"correct"`
	Groups   []string `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Validate checks that groups partition a subset of the alphabet.
func (c *ConfusionConfig) Validate() error {
	if c.Alphabet == "" {
		return errors.New("alphabet is required")
	}
	if c.Correct <= 0 || c.Correct > 1 {
		return fmt.Errorf("correct probability %v must be in (0, 1]", c.Correct)
	}
	seen := make(map[rune]bool)
	for _, r := range c.Alphabet {
		if seen[r] {
			return fmt.Errorf("duplicate alphabet symbol %q", r)
		}
		seen[r] = true
	}
	grouped := make(map[rune]int)
	for i, g := range c.Groups {
		if len([]rune(g)) < 2 {
			return fmt.Errorf("group %d (%q) needs at least two symbols", i, g)
		}
		for _, r := range g {
			if !strings.ContainsRune(c.Alphabet, r) {
				return fmt.Errorf("group %d symbol %q not in alphabet", i, r)
			}
			if j, dup := grouped[r]; dup {
				return fmt.Errorf("symbol %q appears in groups %d and %d", r, j, i)
			}
			grouped[r] = i
		}
	}
	return nil
}
