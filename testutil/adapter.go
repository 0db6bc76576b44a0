// Package testutil provides shared helpers for markovx tests.
package testutil

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/comalice/markovx"
)

// OccupancyEstimator provides a common interface for exact and sampled
// long-run occupancy, so the same checks can run against both.
type OccupancyEstimator interface {
	Name() string
	Occupancy(ctx context.Context, chain *markovx.Chain) ([]float64, error)
}

// ExactEstimator computes occupancy as the stationary distribution.
type ExactEstimator struct {
	Tolerance float64
	MaxIter   int
}

// NewExactEstimator creates an estimator with tight defaults.
func NewExactEstimator() *ExactEstimator {
	return &ExactEstimator{Tolerance: 1e-12, MaxIter: 100000}
}

func (e *ExactEstimator) Name() string { return "exact" }

func (e *ExactEstimator) Occupancy(_ context.Context, chain *markovx.Chain) ([]float64, error) {
	return chain.Stationary(e.Tolerance, e.MaxIter)
}

// SimulatedEstimator estimates occupancy from pooled random walks.
type SimulatedEstimator struct {
	Iterations int
	Seed       uint64
}

// NewSimulatedEstimator creates an estimator walking iterations steps from
// every state.
func NewSimulatedEstimator(iterations int, seed uint64) *SimulatedEstimator {
	return &SimulatedEstimator{Iterations: iterations, Seed: seed}
}

func (e *SimulatedEstimator) Name() string { return "simulated" }

func (e *SimulatedEstimator) Occupancy(ctx context.Context, chain *markovx.Chain) ([]float64, error) {
	res, err := markovx.NewSimulator(chain, markovx.WithSeed(e.Seed)).Run(ctx, e.Iterations)
	if err != nil {
		return nil, err
	}
	return res.Pooled.Frequencies(chain.Len()), nil
}

// DistributionDiff returns a description of the first entry where got and
// want differ by more than tol, or "" when they agree.
func DistributionDiff(want, got []float64, tol float64) string {
	if len(want) != len(got) {
		return fmt.Sprintf("length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(want[i]-got[i]) > tol {
			return fmt.Sprintf("entry %d: got %.6f, want %.6f (tol %g)", i, got[i], want[i], tol)
		}
	}
	return ""
}

// AssertDistribution fails t when got differs from want by more than tol in
// any entry.
func AssertDistribution(t testing.TB, want, got []float64, tol float64) {
	t.Helper()
	if diff := DistributionDiff(want, got, tol); diff != "" {
		t.Errorf("distribution mismatch: %s", diff)
	}
}
