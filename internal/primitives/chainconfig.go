// Package primitives defines the foundational data structures for markovx.
//
// ChainConfig describes a discrete-time Markov chain over named states: the
// ordered state list, one transition row per state, and an optional restart
// rule that makes a set of states behave like another state when stepping.
package primitives

import (
	"errors"
	"fmt"
	"math"
)

// Tolerance is the maximum allowed deviation of a transition row sum from 1.
const Tolerance = 1e-9

// ChainConfig defines a Markov chain.
type ChainConfig struct {
	Version     string                        `json:"version,omitempty" yaml:"version,omitempty"`
	ID          string                        `json:"id" yaml:"id"`
	States      []string                      `json:"states" yaml:"states"`
	Initial     string                        `json:"initial,omitempty" yaml:"initial,omitempty"`
	Transitions map[string]map[string]float64 `json:"transitions" yaml:"transitions"`
	Restart     *RestartConfig                `json:"restart,omitempty" yaml:"restart,omitempty"`
}

// RestartConfig redirects stepping out of the From states: the next state is
// drawn from the row of To instead of their own row.
type RestartConfig struct {
	From []string `json:"from" yaml:"from"`
	To   string   `json:"to" yaml:"to"`
}

// Validate validates the chain configuration:
// - Non-empty ID and state list, no duplicate states
// - Initial (when set) names a state
// - Every state has a row, every target exists, entries are non-negative
// - Every row sums to 1 within Tolerance
// - Restart states and target exist
func (c *ChainConfig) Validate() error {
	if c.ID == "" {
		return errors.New("chain ID is required")
	}
	if len(c.States) == 0 {
		return errors.New("states are required and cannot be empty")
	}

	index := make(map[string]int, len(c.States))
	for i, s := range c.States {
		if s == "" {
			return fmt.Errorf("state %d has an empty name", i)
		}
		if _, dup := index[s]; dup {
			return fmt.Errorf("duplicate state %q", s)
		}
		index[s] = i
	}

	if c.Initial != "" {
		if _, ok := index[c.Initial]; !ok {
			return fmt.Errorf("initial state %q not found in states", c.Initial)
		}
	}

	for _, s := range c.States {
		row, ok := c.Transitions[s]
		if !ok {
			return fmt.Errorf("state %q has no transition row", s)
		}
		sum := 0.0
		for target, p := range row {
			if _, exists := index[target]; !exists {
				return fmt.Errorf("invalid transition target %q (state %q)", target, s)
			}
			if p < 0 || math.IsNaN(p) {
				return fmt.Errorf("negative probability %v for %q -> %q", p, s, target)
			}
			sum += p
		}
		if math.Abs(sum-1) > Tolerance {
			return fmt.Errorf("row %q sums to %v, want 1", s, sum)
		}
	}
	for s := range c.Transitions {
		if _, ok := index[s]; !ok {
			return fmt.Errorf("transition row for unknown state %q", s)
		}
	}

	if c.Restart != nil {
		if _, ok := index[c.Restart.To]; !ok {
			return fmt.Errorf("restart target %q not found in states", c.Restart.To)
		}
		for _, from := range c.Restart.From {
			if _, ok := index[from]; !ok {
				return fmt.Errorf("restart source %q not found in states", from)
			}
		}
	}

	return nil
}

// Matrix returns the dense row-major transition matrix in States order.
func (c *ChainConfig) Matrix() [][]float64 {
	index := make(map[string]int, len(c.States))
	for i, s := range c.States {
		index[s] = i
	}
	rows := make([][]float64, len(c.States))
	for i, s := range c.States {
		rows[i] = make([]float64, len(c.States))
		for target, p := range c.Transitions[s] {
			rows[i][index[target]] = p
		}
	}
	return rows
}
