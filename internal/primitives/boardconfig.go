package primitives

import (
	"errors"
	"fmt"
	"sort"
)

// BoardConfig describes a race board: squares 0..Squares, a fair die with
// Faces sides, and jumps (chutes and ladders) keyed by the square landed on.
type BoardConfig struct {
	Squares int         `json:"squares" yaml:"squares"`
	Faces   int         `json:"faces" yaml:"faces"`
	Jumps   map[int]int `json:"jumps,omitempty" yaml:"jumps,omitempty"`
}

// Validate checks board dimensions and jump endpoints.
func (b *BoardConfig) Validate() error {
	if b.Squares < 1 {
		return errors.New("board needs at least one square")
	}
	if b.Faces < 1 {
		return errors.New("die needs at least one face")
	}
	for _, from := range b.JumpSources() {
		to := b.Jumps[from]
		if from < 0 || from > b.Squares {
			return fmt.Errorf("jump source %d is off the board", from)
		}
		if to < 0 || to > b.Squares {
			return fmt.Errorf("jump %d -> %d lands off the board", from, to)
		}
		if from == to {
			return fmt.Errorf("jump %d points to itself", from)
		}
		if from == b.Squares {
			return fmt.Errorf("final square %d cannot jump", from)
		}
		if _, chained := b.Jumps[to]; chained {
			return fmt.Errorf("jump %d -> %d lands on another jump", from, to)
		}
	}
	return nil
}

// JumpSources returns the jump sources in ascending order.
func (b BoardConfig) JumpSources() []int {
	keys := make([]int, 0, len(b.Jumps))
	for k := range b.Jumps {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
