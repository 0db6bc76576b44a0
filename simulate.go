package markovx

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultIterations is the walk length used when none is configured.
const DefaultIterations = 10000

// cancelCheckInterval is how many steps a run takes between context checks.
const cancelCheckInterval = 1024

// Simulator runs independent random walks over a chain, one per start state.
// Runs are reproducible: each start draws from a PCG source seeded with the
// simulator seed and the start state, so results do not depend on scheduling.
type Simulator struct {
	chain     *Chain
	seed      uint64
	workers   int
	logger    *zap.Logger
	publisher Publisher
}

// Option applies configuration to a Simulator.
type Option func(*Simulator)

// WithSeed sets the base seed.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.seed = seed
	}
}

// WithWorkers limits how many runs execute concurrently (0 = unlimited).
func WithWorkers(n int) Option {
	return func(s *Simulator) {
		s.workers = n
	}
}

// WithLogger configures the Simulator logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		s.logger = l
	}
}

// WithPublisher receives every step of every run.
func WithPublisher(p Publisher) Option {
	return func(s *Simulator) {
		s.publisher = p
	}
}

// NewSimulator creates a Simulator for chain.
func NewSimulator(chain *Chain, opts ...Option) *Simulator {
	s := &Simulator{
		chain:  chain,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run is the outcome of one walk.
type Run struct {
	Start     StateID   `json:"start" yaml:"start"`
	Counts    []int64   `json:"counts" yaml:"counts"`
	Occupancy []float64 `json:"occupancy" yaml:"occupancy"`
}

// Result collects the runs of one simulation.
type Result struct {
	ChainID    string `json:"chainID" yaml:"chainID"`
	Iterations int    `json:"iterations" yaml:"iterations"`
	Seed       uint64 `json:"seed" yaml:"seed"`
	Runs       []Run  `json:"runs" yaml:"runs"`
	Pooled     *Tally `json:"-" yaml:"-"`
}

// Run walks iterations steps from each start (every state when none given)
// and reports how often each state was occupied. The first element of every
// walk is the start state itself.
func (s *Simulator) Run(ctx context.Context, iterations int, starts ...StateID) (*Result, error) {
	if iterations < 1 {
		return nil, ErrBadIterations
	}
	if len(starts) == 0 {
		starts = make([]StateID, s.chain.Len())
		for i := range starts {
			starts[i] = StateID(i)
		}
	}
	for _, st := range starts {
		if !s.chain.valid(st) {
			return nil, fmt.Errorf("start %d: %w", st, ErrUnknownState)
		}
	}

	res := &Result{
		ChainID:    s.chain.ID(),
		Iterations: iterations,
		Seed:       s.seed,
		Runs:       make([]Run, len(starts)),
		Pooled:     NewTally(),
	}

	began := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	if s.workers > 0 {
		g.SetLimit(s.workers)
	}
	for i, start := range starts {
		g.Go(func() error {
			run, err := s.walk(ctx, start, iterations)
			if err != nil {
				return err
			}
			res.Runs[i] = run
			for id, n := range run.Counts {
				if n > 0 {
					res.Pooled.Add(StateID(id), n)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("simulation complete",
		zap.String("chain", s.chain.ID()),
		zap.Int("runs", len(starts)),
		zap.Int("iterations", iterations),
		zap.Duration("elapsed", time.Since(began)),
	)
	return res, nil
}

func (s *Simulator) walk(ctx context.Context, start StateID, iterations int) (Run, error) {
	w := s.chain.NewWalker(rand.NewPCG(s.seed, uint64(start)))
	counts := make([]int64, s.chain.Len())

	cur := start
	counts[cur]++
	for step := 1; step < iterations; step++ {
		if step%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Run{}, err
			}
		}
		next := StateID(w.rows[cur].Rand())
		if s.publisher != nil {
			evt := StepEvent{ChainID: s.chain.ID(), Start: start, Step: step, From: cur, To: next}
			if err := s.publisher.Publish(ctx, evt); err != nil {
				return Run{}, fmt.Errorf("publish step %d: %w", step, err)
			}
		}
		cur = next
		counts[cur]++
	}

	occ := make([]float64, len(counts))
	for i, n := range counts {
		occ[i] = float64(n) / float64(iterations)
	}
	s.logger.Debug("run complete", zap.Int("start", int(start)), zap.Float64s("occupancy", occ))
	return Run{Start: start, Counts: counts, Occupancy: occ}, nil
}

// Report converts the result into an occupancy matrix: one row per start,
// one column per state.
func (r *Result) Report(chain *Chain) Report {
	names := chain.Names()
	rows := make([]string, len(r.Runs))
	data := make([][]float64, len(r.Runs))
	for i, run := range r.Runs {
		rows[i] = "start " + chain.Name(run.Start)
		data[i] = append([]float64(nil), run.Occupancy...)
	}
	values := make(map[string]float64, len(names))
	if r.Pooled != nil {
		for i, f := range r.Pooled.Frequencies(len(names)) {
			values["pooled "+names[i]] = f
		}
	}
	return Report{
		Kind:      KindOccupancy,
		Name:      r.ChainID,
		Rows:      rows,
		Columns:   names,
		Matrix:    data,
		Values:    values,
		Timestamp: time.Now().UTC(),
	}
}
