package markovx

import (
	"fmt"

	"github.com/comalice/markovx/internal/primitives"
)

// ChainBuilder provides a fluent API for constructing chains using string
// state names instead of dense index-based rows.
type ChainBuilder struct {
	id       string
	names    []string
	nameToID map[string]StateID
	rows     map[string]map[string]float64
	initial  string
	restart  *primitives.RestartConfig
}

// StateBuilder provides fluent methods for configuring one state's row.
type StateBuilder struct {
	b    *ChainBuilder
	name string
}

// NewChainBuilder creates a builder for a chain with the given ID.
func NewChainBuilder(id string) *ChainBuilder {
	return &ChainBuilder{
		id:       id,
		nameToID: make(map[string]StateID),
		rows:     make(map[string]map[string]float64),
	}
}

// State creates or retrieves a state by name. States are indexed in the order
// they are first mentioned, including as transition targets.
func (b *ChainBuilder) State(name string) *StateBuilder {
	b.assignID(name)
	return &StateBuilder{b: b, name: name}
}

// Initial sets the default start state.
func (b *ChainBuilder) Initial(name string) *ChainBuilder {
	b.assignID(name)
	b.initial = name
	return b
}

// Restart makes each from state step as the to state.
func (b *ChainBuilder) Restart(to string, from ...string) *ChainBuilder {
	b.assignID(to)
	for _, f := range from {
		b.assignID(f)
	}
	b.restart = &primitives.RestartConfig{From: from, To: to}
	return b
}

// GetID returns the assigned StateID for a state name.
func (b *ChainBuilder) GetID(name string) (StateID, bool) {
	id, ok := b.nameToID[name]
	return id, ok
}

// assignID returns the existing ID for a name, or creates a new sequential ID.
func (b *ChainBuilder) assignID(name string) StateID {
	if id, exists := b.nameToID[name]; exists {
		return id
	}
	id := StateID(len(b.names))
	b.names = append(b.names, name)
	b.nameToID[name] = id
	if b.rows[name] == nil {
		b.rows[name] = make(map[string]float64)
	}
	return id
}

// Config returns the equivalent chain configuration.
func (b *ChainBuilder) Config() primitives.ChainConfig {
	trans := make(map[string]map[string]float64, len(b.rows))
	for name, row := range b.rows {
		copied := make(map[string]float64, len(row))
		for target, p := range row {
			copied[target] = p
		}
		trans[name] = copied
	}
	var restart *primitives.RestartConfig
	if b.restart != nil {
		restart = &primitives.RestartConfig{
			From: append([]string(nil), b.restart.From...),
			To:   b.restart.To,
		}
	}
	return primitives.ChainConfig{
		ID:          b.id,
		States:      append([]string(nil), b.names...),
		Initial:     b.initial,
		Transitions: trans,
		Restart:     restart,
	}
}

// Build validates the configuration and constructs the Chain.
func (b *ChainBuilder) Build() (*Chain, error) {
	c, err := FromConfig(b.Config())
	if err != nil {
		return nil, fmt.Errorf("build chain %q: %w", b.id, err)
	}
	return c, nil
}

// StateBuilder fluent methods

// To adds probability p of moving from this state to target. Repeated calls
// for the same target accumulate.
func (sb *StateBuilder) To(target string, p float64) *StateBuilder {
	sb.b.assignID(target)
	sb.b.rows[sb.name][target] += p
	return sb
}

// Absorbing makes the state return to itself with probability 1.
func (sb *StateBuilder) Absorbing() *StateBuilder {
	sb.b.rows[sb.name] = map[string]float64{sb.name: 1}
	return sb
}

// Uniform spreads probability evenly over targets.
func (sb *StateBuilder) Uniform(targets ...string) *StateBuilder {
	for _, t := range targets {
		sb.To(t, 1/float64(len(targets)))
	}
	return sb
}

// State switches to configuring another state.
func (sb *StateBuilder) State(name string) *StateBuilder {
	return sb.b.State(name)
}

// Done returns the parent builder.
func (sb *StateBuilder) Done() *ChainBuilder {
	return sb.b
}
