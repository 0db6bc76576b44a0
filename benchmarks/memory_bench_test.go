// Package benchmarks provides memory footprint and decoding benchmarks.
package benchmarks

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/comalice/markovx/hmm"
	"github.com/comalice/markovx/internal/primitives"
)

func BenchmarkCorrectorFootprint(b *testing.B) {
	corpus := GenCorpus(5000, 1)
	for _, order := range []int{1, 2} {
		b.Run(orderName(order), func(b *testing.B) {
			var before, after runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&before)
			var states int
			for i := 0; i < b.N; i++ {
				c, err := hmm.NewCorrector(corpus, order, hmm.DefaultConfusion())
				if err != nil {
					b.Fatal(err)
				}
				states = len(c.Model().States)
			}
			runtime.ReadMemStats(&after)
			perModel := (after.TotalAlloc - before.TotalAlloc) / uint64(b.N)
			b.ReportMetric(float64(perModel)/1024, "KB/model")
			b.ReportMetric(float64(states), "states")
		})
	}
}

func BenchmarkCorrect(b *testing.B) {
	corpus := GenCorpus(5000, 2)
	text := GenCorpus(200, 3)
	for _, order := range []int{1, 2} {
		b.Run(orderName(order), func(b *testing.B) {
			c, err := hmm.NewCorrector(corpus, order, hmm.DefaultConfusion())
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := c.Correct(context.Background(), text); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkLoadChainsYAML(b *testing.B) {
	path := filepath.Join(b.TempDir(), "chains.yaml")
	if err := os.WriteFile(path, GenChainsYAML(6, 16, 64), 0o644); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := primitives.LoadChains(path); err != nil {
			b.Fatal(err)
		}
	}
}

func orderName(order int) string {
	if order == 1 {
		return "unigram"
	}
	return "bigram"
}
