package hmm

import (
	"bytes"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Cell is one entry of the Viterbi trellis: the log probability of the best
// path ending in a state at a step, and the index of that path's previous
// state (-1 at the first step).
type Cell struct {
	LogProb float64 `json:"logProb" yaml:"logProb"`
	Prev    int     `json:"prev" yaml:"prev"`
}

// Trellis is the dynamic-programming table built while decoding.
type Trellis struct {
	States []string `json:"states" yaml:"states"`
	Obs    []string `json:"obs" yaml:"obs"`
	Steps  [][]Cell `json:"steps" yaml:"steps"`
}

// Table fills the trellis for obs. Among equally probable predecessors the
// one listed first in the model wins.
func (d *Decoder) Table(obs []string) (*Trellis, error) {
	if len(obs) == 0 {
		return nil, ErrEmptyObservation
	}
	n := len(d.states)
	tr := &Trellis{
		States: d.states,
		Obs:    append([]string(nil), obs...),
		Steps:  make([][]Cell, len(obs)),
	}

	prev := make([]float64, n)
	emit := d.emission(obs[0])
	first := make([]Cell, n)
	for i := range first {
		prev[i] = d.logStart[i] + emit[i]
		first[i] = Cell{LogProb: prev[i], Prev: -1}
	}
	tr.Steps[0] = first

	cur := make([]float64, n)
	scratch := make([]float64, n)
	for t := 1; t < len(obs); t++ {
		emit = d.emission(obs[t])
		row := make([]Cell, n)
		for j := 0; j < n; j++ {
			floats.AddTo(scratch, prev, d.logTransT.RawRowView(j))
			best := argmax(scratch)
			cur[j] = scratch[best] + emit[j]
			row[j] = Cell{LogProb: cur[j], Prev: best}
		}
		tr.Steps[t] = row
		prev, cur = cur, prev
	}
	return tr, nil
}

// argmax returns the first index holding the maximum. -Inf entries compare
// equal, so an all-impossible column selects index 0.
func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// Path backtracks from the most probable final state.
func (tr *Trellis) Path() Path {
	last := tr.Steps[len(tr.Steps)-1]
	final := make([]float64, len(last))
	for i, c := range last {
		final[i] = c.LogProb
	}
	best := argmax(final)

	states := make([]string, len(tr.Steps))
	idx := best
	for t := len(tr.Steps) - 1; t >= 0; t-- {
		states[t] = tr.States[idx]
		idx = tr.Steps[t][idx].Prev
	}
	return Path{States: states, LogProb: final[best]}
}

// String renders the trellis as probabilities, one row per state.
func (tr *Trellis) String() string {
	var buf bytes.Buffer
	buf.WriteString("       ")
	for t := range tr.Steps {
		fmt.Fprintf(&buf, " %12d", t)
	}
	buf.WriteString("\n")
	for i, s := range tr.States {
		fmt.Fprintf(&buf, "%-7.7s:", s)
		for _, step := range tr.Steps {
			fmt.Fprintf(&buf, " %12.7f", math.Exp(step[i].LogProb))
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

// Viterbi returns the most probable state sequence for obs.
func (d *Decoder) Viterbi(obs []string) (Path, error) {
	tr, err := d.Table(obs)
	if err != nil {
		return Path{}, err
	}
	return tr.Path(), nil
}
