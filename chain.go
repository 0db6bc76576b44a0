// Package markovx provides discrete-time Markov chains over small named state
// spaces: construction from configs or a fluent builder, stepping and random
// walks, stationary distributions, and concurrent Monte Carlo simulation.
package markovx

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/comalice/markovx/internal/primitives"
)

// StateID indexes a state in the chain's state list.
type StateID int

var (
	ErrNotStochastic = errors.New("transition matrix is not row-stochastic")
	ErrUnknownState  = errors.New("unknown state")
	ErrNoConvergence = errors.New("power iteration did not converge")
	ErrEmptyChain    = errors.New("chain has no states")
	ErrBadIterations = errors.New("iterations must be at least 1")
)

// Chain is an immutable Markov chain. Row i of the transition matrix is the
// distribution of the next state given state i.
type Chain struct {
	id      string
	names   []string
	index   map[string]StateID
	trans   *mat.Dense
	restart map[StateID]StateID
	initial StateID
}

// ChainOption configures a Chain at construction.
type ChainOption func(*Chain)

// WithRestart makes every from state step as if it were the to state.
func WithRestart(to StateID, from ...StateID) ChainOption {
	return func(c *Chain) {
		for _, f := range from {
			c.restart[f] = to
		}
	}
}

// WithInitial sets the state walks start from by default.
func WithInitial(id StateID) ChainOption {
	return func(c *Chain) {
		c.initial = id
	}
}

// NewChain builds a chain from state names and dense transition rows.
func NewChain(id string, names []string, rows [][]float64, opts ...ChainOption) (*Chain, error) {
	n := len(names)
	if n == 0 {
		return nil, ErrEmptyChain
	}
	if len(rows) != n {
		return nil, fmt.Errorf("%d rows for %d states: %w", len(rows), n, ErrNotStochastic)
	}

	c := &Chain{
		id:      id,
		names:   append([]string(nil), names...),
		index:   make(map[string]StateID, n),
		trans:   mat.NewDense(n, n, nil),
		restart: make(map[StateID]StateID),
	}
	for i, name := range names {
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("duplicate state %q", name)
		}
		c.index[name] = StateID(i)
	}
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("row %q has %d entries, want %d: %w", names[i], len(row), n, ErrNotStochastic)
		}
		for _, p := range row {
			if p < 0 || math.IsNaN(p) {
				return nil, fmt.Errorf("row %q has entry %v: %w", names[i], p, ErrNotStochastic)
			}
		}
		if s := floats.Sum(row); math.Abs(s-1) > primitives.Tolerance {
			return nil, fmt.Errorf("row %q sums to %v: %w", names[i], s, ErrNotStochastic)
		}
		c.trans.SetRow(i, row)
	}

	for _, opt := range opts {
		opt(c)
	}

	if !c.valid(c.initial) {
		return nil, fmt.Errorf("initial %d: %w", c.initial, ErrUnknownState)
	}
	for from, to := range c.restart {
		if !c.valid(from) || !c.valid(to) {
			return nil, fmt.Errorf("restart %d -> %d: %w", from, to, ErrUnknownState)
		}
	}
	return c, nil
}

// FromConfig builds a chain from a validated config.
func FromConfig(cfg primitives.ChainConfig) (*Chain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("chain config: %w", err)
	}

	pos := make(map[string]StateID, len(cfg.States))
	for i, s := range cfg.States {
		pos[s] = StateID(i)
	}

	var opts []ChainOption
	if cfg.Initial != "" {
		opts = append(opts, WithInitial(pos[cfg.Initial]))
	}
	if cfg.Restart != nil {
		from := make([]StateID, 0, len(cfg.Restart.From))
		for _, f := range cfg.Restart.From {
			from = append(from, pos[f])
		}
		opts = append(opts, WithRestart(pos[cfg.Restart.To], from...))
	}
	return NewChain(cfg.ID, cfg.States, cfg.Matrix(), opts...)
}

// DefaultChains returns the built-in six-state chains keyed by ID.
func DefaultChains() map[string]*Chain {
	out := make(map[string]*Chain)
	for id, cfg := range primitives.DefaultChains() {
		c, err := FromConfig(cfg)
		if err != nil {
			panic(err)
		}
		out[id] = c
	}
	return out
}

func (c *Chain) valid(id StateID) bool {
	return id >= 0 && int(id) < len(c.names)
}

// ID returns the chain identifier.
func (c *Chain) ID() string { return c.id }

// Len returns the number of states.
func (c *Chain) Len() int { return len(c.names) }

// Names returns a copy of the state names in index order.
func (c *Chain) Names() []string { return append([]string(nil), c.names...) }

// Name returns the name of id.
func (c *Chain) Name(id StateID) string {
	if !c.valid(id) {
		return ""
	}
	return c.names[id]
}

// Lookup returns the StateID for name.
func (c *Chain) Lookup(name string) (StateID, bool) {
	id, ok := c.index[name]
	return id, ok
}

// Initial returns the default start state.
func (c *Chain) Initial() StateID { return c.initial }

// Restart returns the state that from steps as, and whether a restart applies.
func (c *Chain) Restart(from StateID) (StateID, bool) {
	to, ok := c.restart[from]
	return to, ok
}

// Prob returns the one-step probability from -> to, ignoring restarts.
func (c *Chain) Prob(from, to StateID) float64 {
	if !c.valid(from) || !c.valid(to) {
		return 0
	}
	return c.trans.At(int(from), int(to))
}

// Matrix returns a copy of the transition matrix.
func (c *Chain) Matrix() *mat.Dense {
	return mat.DenseCopyOf(c.trans)
}

// EffectiveMatrix returns the transition matrix with restart rows folded in:
// the row of a restarting state is replaced by the row of its target.
func (c *Chain) EffectiveMatrix() *mat.Dense {
	m := mat.DenseCopyOf(c.trans)
	for from, to := range c.restart {
		m.SetRow(int(from), c.trans.RawRowView(int(to)))
	}
	return m
}

// Stationary returns the stationary distribution of the effective chain by
// power iteration from the uniform distribution. It stops when successive
// iterates differ by less than tol in L1 norm.
func (c *Chain) Stationary(tol float64, maxIter int) ([]float64, error) {
	n := c.Len()
	p := c.EffectiveMatrix()

	v := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v.SetVec(i, 1/float64(n))
	}
	next := mat.NewVecDense(n, nil)

	for iter := 0; iter < maxIter; iter++ {
		next.MulVec(p.T(), v)
		diff := 0.0
		for i := 0; i < n; i++ {
			diff += math.Abs(next.AtVec(i) - v.AtVec(i))
		}
		v, next = next, v
		if diff < tol {
			out := make([]float64, n)
			for i := range out {
				out[i] = v.AtVec(i)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("after %d iterations: %w", maxIter, ErrNoConvergence)
}

// Walker samples successive states from a chain with its own random source.
// A Walker is not safe for concurrent use.
type Walker struct {
	chain *Chain
	rows  []distuv.Categorical
}

// NewWalker creates a Walker drawing from src.
func (c *Chain) NewWalker(src rand.Source) *Walker {
	eff := c.EffectiveMatrix()
	rows := make([]distuv.Categorical, c.Len())
	for i := range rows {
		weights := append([]float64(nil), eff.RawRowView(i)...)
		rows[i] = distuv.NewCategorical(weights, src)
	}
	return &Walker{chain: c, rows: rows}
}

// Next draws the state following from, honouring the restart rule.
func (w *Walker) Next(from StateID) (StateID, error) {
	if !w.chain.valid(from) {
		return 0, fmt.Errorf("state %d: %w", from, ErrUnknownState)
	}
	return StateID(w.rows[from].Rand()), nil
}

// Walk returns a path of exactly iterations states starting at start.
func (w *Walker) Walk(start StateID, iterations int) ([]StateID, error) {
	if iterations < 1 {
		return nil, ErrBadIterations
	}
	if !w.chain.valid(start) {
		return nil, fmt.Errorf("start %d: %w", start, ErrUnknownState)
	}
	path := make([]StateID, iterations)
	path[0] = start
	for i := 1; i < iterations; i++ {
		path[i] = StateID(w.rows[path[i-1]].Rand())
	}
	return path, nil
}
