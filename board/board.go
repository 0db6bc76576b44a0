// Package board builds the Markov transition matrix of a chutes and ladders
// style race game.
//
// Squares are numbered 0 (off the board) to N (the winning square). Matrices
// are column-stochastic: entry [to][from] is the probability that a token on
// square from ends the turn on square to.
package board

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/comalice/markovx/internal/primitives"
)

// ErrNoAbsorption is returned when the final square cannot be reached.
var ErrNoAbsorption = errors.New("final square is not reachable from every square")

// Board is a validated board layout.
type Board struct {
	cfg primitives.BoardConfig
}

// New validates cfg and returns a Board.
func New(cfg primitives.BoardConfig) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("board config: %w", err)
	}
	return &Board{cfg: cfg}, nil
}

// Default returns the standard chutes and ladders board.
func Default() *Board {
	b, err := New(primitives.DefaultBoard())
	if err != nil {
		panic(err)
	}
	return b
}

// Size returns the number of states, including square 0.
func (b *Board) Size() int { return b.cfg.Squares + 1 }

// Final returns the winning square.
func (b *Board) Final() int { return b.cfg.Squares }

// Config returns the board configuration.
func (b *Board) Config() primitives.BoardConfig { return b.cfg }

// Land returns the square a token ends on after landing on square.
func (b *Board) Land(square int) int {
	if to, ok := b.cfg.Jumps[square]; ok {
		return to
	}
	return square
}

// rollMatrix is the transition matrix of the die alone. Rolls past the final
// square leave the token where it is.
func (b *Board) rollMatrix() *mat.Dense {
	n := b.Size()
	p := 1 / float64(b.cfg.Faces)
	roll := mat.NewDense(n, n, nil)
	for from := 0; from < n; from++ {
		for face := 1; face <= b.cfg.Faces; face++ {
			if to := from + face; to < n {
				roll.Set(to, from, p)
			}
		}
		stay := 1 - mat.Sum(roll.ColView(from))
		roll.Set(from, from, roll.At(from, from)+stay)
	}
	return roll
}

// jumpMatrix moves every square onto its jump destination.
func (b *Board) jumpMatrix() *mat.Dense {
	n := b.Size()
	jump := mat.NewDense(n, n, nil)
	for from := 0; from < n; from++ {
		jump.Set(b.Land(from), from, 1)
	}
	return jump
}

// Matrix returns the one-turn transition matrix: a die roll followed by any
// chute or ladder at the landing square.
func (b *Board) Matrix() *mat.Dense {
	var m mat.Dense
	m.Mul(b.jumpMatrix(), b.rollMatrix())
	return &m
}

// Distribution returns the probability of occupying each square after the
// given number of turns, starting from square 0.
func (b *Board) Distribution(turns int) []float64 {
	n := b.Size()
	t := b.Matrix()
	v := mat.NewVecDense(n, nil)
	next := mat.NewVecDense(n, nil)
	v.SetVec(0, 1)
	for i := 0; i < turns; i++ {
		next.MulVec(t, v)
		v, next = next, v
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

// ExpectedTurns returns the expected number of turns needed to reach the
// final square from square 0, using the fundamental matrix N = (I - Q)^-1 of
// the absorbing chain.
func (b *Board) ExpectedTurns() (float64, error) {
	n := b.Size() - 1 // transient squares 0..Final-1
	t := b.Matrix()
	q := t.Slice(0, n, 0, n)

	var iq mat.Dense
	iq.Sub(eye(n), q)

	var fundamental mat.Dense
	if err := fundamental.Inverse(&iq); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoAbsorption, err)
	}
	return mat.Sum(fundamental.ColView(0)), nil
}

func eye(n int) *mat.Dense {
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, 1)
	}
	return d
}
