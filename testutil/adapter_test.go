package testutil

import (
	"context"
	"testing"

	"github.com/comalice/markovx"
)

// TestEstimatorsAgree runs the same expectations against both estimators.
func TestEstimatorsAgree(t *testing.T) {
	flip, err := markovx.NewChain("flip", []string{"a", "b"}, [][]float64{{0.9, 0.1}, {0.3, 0.7}})
	if err != nil {
		t.Fatal(err)
	}
	// Balance: 0.1 pa = 0.3 pb.
	want := []float64{0.75, 0.25}

	estimators := []struct {
		est OccupancyEstimator
		tol float64
	}{
		{NewExactEstimator(), 1e-9},
		{NewSimulatedEstimator(50000, 1), 0.02},
	}
	for _, tt := range estimators {
		t.Run(tt.est.Name(), func(t *testing.T) {
			got, err := tt.est.Occupancy(context.Background(), flip)
			if err != nil {
				t.Fatal(err)
			}
			AssertDistribution(t, want, got, tt.tol)
		})
	}
}

func TestDistributionDiff(t *testing.T) {
	if d := DistributionDiff([]float64{0.5, 0.5}, []float64{0.5, 0.5}, 0); d != "" {
		t.Errorf("expected no diff, got %q", d)
	}
	if d := DistributionDiff([]float64{0.5, 0.5}, []float64{0.6, 0.4}, 0.05); d == "" {
		t.Error("expected diff")
	}
	if d := DistributionDiff([]float64{1}, []float64{0.5, 0.5}, 1); d == "" {
		t.Error("expected length diff")
	}
}
