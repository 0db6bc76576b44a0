// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/markovx/internal/primitives"
)

// GenDenseChain creates an n-state chain with random, fully populated rows.
// The same seed always yields the same chain.
func GenDenseChain(n int, seed uint64) primitives.ChainConfig {
	if n < 1 {
		n = 1
	}
	rng := rand.New(rand.NewPCG(seed, uint64(n)))
	config := primitives.ChainConfig{
		ID:          fmt.Sprintf("dense_%d", n),
		States:      make([]string, n),
		Transitions: make(map[string]map[string]float64, n),
	}
	for i := range config.States {
		config.States[i] = fmt.Sprintf("s%d", i)
	}
	for _, from := range config.States {
		weights := make([]float64, n)
		total := 0.0
		for j := range weights {
			weights[j] = rng.Float64() + 0.01
			total += weights[j]
		}
		row := make(map[string]float64, n)
		for j, to := range config.States {
			row[to] = weights[j] / total
		}
		config.Transitions[from] = row
	}
	return config
}

// GenRingChain creates an n-state chain that steps forward or stays put,
// with the last state restarting at the first.
func GenRingChain(n int) primitives.ChainConfig {
	if n < 2 {
		n = 2
	}
	config := primitives.ChainConfig{
		ID:          fmt.Sprintf("ring_%d", n),
		States:      make([]string, n),
		Transitions: make(map[string]map[string]float64, n),
	}
	for i := range config.States {
		config.States[i] = fmt.Sprintf("r%d", i)
	}
	for i, s := range config.States {
		next := config.States[(i+1)%n]
		config.Transitions[s] = map[string]float64{s: 0.5, next: 0.5}
	}
	config.Restart = &primitives.RestartConfig{From: []string{config.States[n-1]}, To: config.States[0]}
	return config
}

var corpusWords = []string{
	"the", "old", "man", "and", "sea", "was", "in", "his", "boat", "when",
	"he", "saw", "bird", "circling", "over", "water", "line", "held", "fish", "deep",
}

// GenCorpus produces a pseudo-random lowercase text of the given word count.
func GenCorpus(words int, seed uint64) string {
	rng := rand.New(rand.NewPCG(seed, 0))
	var b strings.Builder
	for i := 0; i < words; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(corpusWords[rng.IntN(len(corpusWords))])
	}
	return b.String()
}

// GenChainsYAML generates a YAML chain list of the given chain sizes.
func GenChainsYAML(sizes ...int) []byte {
	list := make([]primitives.ChainConfig, 0, len(sizes))
	for i, n := range sizes {
		list = append(list, GenDenseChain(n, uint64(i)))
	}
	data, err := yaml.Marshal(list)
	if err != nil {
		panic(err)
	}
	return data
}
