package markovx

import "context"

// StepEvent records one transition taken during a simulation run.
type StepEvent struct {
	ChainID string  `json:"chainID" yaml:"chainID"`
	Start   StateID `json:"start" yaml:"start"`
	Step    int     `json:"step" yaml:"step"`
	From    StateID `json:"from" yaml:"from"`
	To      StateID `json:"to" yaml:"to"`
}

// Publisher receives step events from a Simulator. Implementations must be
// safe for concurrent use; runs for different starts publish in parallel.
type Publisher interface {
	Publish(ctx context.Context, evt StepEvent) error
	Close() error
}
