// Package hmm decodes hidden Markov models with the Viterbi algorithm and
// uses them to correct OCR errors: an n-gram model trained on a corpus
// supplies the hidden states and transitions, and a confusion model supplies
// the emission probabilities of misread characters.
package hmm

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrEmptyObservation = errors.New("observation sequence is empty")
	ErrEmptyModel       = errors.New("model has no states")
	ErrInvalidOrder     = errors.New("n-gram order must be 1 or 2")
)

// Model is a hidden Markov model over named states. Missing entries in the
// probability maps are zero.
type Model struct {
	States []string                      `json:"states" yaml:"states"`
	Start  map[string]float64            `json:"start" yaml:"start"`
	Trans  map[string]map[string]float64 `json:"trans" yaml:"trans"`
	Emit   map[string]map[string]float64 `json:"emit" yaml:"emit"`
}

// Viterbi decodes obs with a freshly compiled Decoder. Use NewDecoder when
// decoding many sequences with the same model.
func (m Model) Viterbi(obs []string) (Path, error) {
	d, err := NewDecoder(m)
	if err != nil {
		return Path{}, err
	}
	return d.Viterbi(obs)
}

// Decoder holds a model compiled to dense log-probability tables. It is
// read-only after construction and safe for concurrent use.
type Decoder struct {
	states   []string
	logStart []float64
	// logTransT is the transposed log transition matrix: row j holds the log
	// probability of reaching state j from every state.
	logTransT *mat.Dense
	// logEmit maps an observation symbol to its log emission column.
	logEmit map[string][]float64
	noEmit  []float64
}

// NewDecoder compiles m.
func NewDecoder(m Model) (*Decoder, error) {
	n := len(m.States)
	if n == 0 {
		return nil, ErrEmptyModel
	}
	index := make(map[string]int, n)
	for i, s := range m.States {
		if _, dup := index[s]; dup {
			return nil, fmt.Errorf("duplicate state %q", s)
		}
		index[s] = i
	}

	d := &Decoder{
		states:    append([]string(nil), m.States...),
		logStart:  make([]float64, n),
		logTransT: mat.NewDense(n, n, nil),
		logEmit:   make(map[string][]float64),
		noEmit:    make([]float64, n),
	}
	for i, s := range m.States {
		d.logStart[i] = logp(m.Start[s])
		d.noEmit[i] = math.Inf(-1)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d.logTransT.Set(j, i, math.Inf(-1))
		}
	}
	for from, row := range m.Trans {
		i, ok := index[from]
		if !ok {
			continue
		}
		for to, p := range row {
			if j, ok := index[to]; ok {
				d.logTransT.Set(j, i, logp(p))
			}
		}
	}
	for st, row := range m.Emit {
		i, ok := index[st]
		if !ok {
			continue
		}
		for sym, p := range row {
			col, ok := d.logEmit[sym]
			if !ok {
				col = make([]float64, n)
				copy(col, d.noEmit)
				d.logEmit[sym] = col
			}
			col[i] = logp(p)
		}
	}
	return d, nil
}

func logp(p float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	return math.Log(p)
}

// States returns the decoder's state names in index order.
func (d *Decoder) States() []string { return append([]string(nil), d.states...) }

func (d *Decoder) emission(sym string) []float64 {
	if col, ok := d.logEmit[sym]; ok {
		return col
	}
	return d.noEmit
}

// Path is a decoded state sequence.
type Path struct {
	States  []string `json:"states" yaml:"states"`
	LogProb float64  `json:"logProb" yaml:"logProb"`
}

// String concatenates the states.
func (p Path) String() string {
	return strings.Join(p.States, "")
}

// Prob returns the path probability.
func (p Path) Prob() float64 {
	return math.Exp(p.LogProb)
}
