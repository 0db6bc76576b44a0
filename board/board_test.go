package board

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/comalice/markovx/internal/primitives"
)

const eps = 1e-12

func mustBoard(t *testing.T, cfg primitives.BoardConfig) *Board {
	t.Helper()
	b, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestNewRejectsInvalid(t *testing.T) {
	if _, err := New(primitives.BoardConfig{Squares: 0, Faces: 6}); err == nil {
		t.Error("expected error for empty board")
	}
}

func TestDefaultMatrixColumnsStochastic(t *testing.T) {
	b := Default()
	m := b.Matrix()
	r, c := m.Dims()
	if r != 101 || c != 101 {
		t.Fatalf("dims = %dx%d, want 101x101", r, c)
	}
	for j := 0; j < c; j++ {
		if s := mat.Sum(m.ColView(j)); s < 1-eps || s > 1+eps {
			t.Errorf("column %d sums to %v", j, s)
		}
	}
	if m.At(100, 100) != 1 {
		t.Errorf("final square not absorbing: %v", m.At(100, 100))
	}
	for _, src := range b.Config().JumpSources() {
		if s := mat.Sum(m.RowView(src)); s != 0 {
			t.Errorf("jump source %d retains mass %v", src, s)
		}
	}
}

func TestDefaultMatrixEntries(t *testing.T) {
	m := Default().Matrix()
	// From 0 a roll of 1 lands on the ladder 1 -> 38, a roll of 4 on 4 -> 14.
	if got := m.At(38, 0); got < 1.0/6-eps || got > 1.0/6+eps {
		t.Errorf("P(0 -> 38) = %v", got)
	}
	if got := m.At(14, 0); got < 1.0/6-eps || got > 1.0/6+eps {
		t.Errorf("P(0 -> 14) = %v", got)
	}
	if got := m.At(1, 0); got != 0 {
		t.Errorf("P(0 -> 1) = %v, want 0", got)
	}
	// From 97: rolls 1 (98 -> 78 chute), 2 (99), 3 (100); 4..6 overshoot.
	if got := m.At(97, 97); got < 0.5-eps || got > 0.5+eps {
		t.Errorf("P(97 stays) = %v", got)
	}
	if got := m.At(78, 97); got < 1.0/6-eps || got > 1.0/6+eps {
		t.Errorf("P(97 -> 78) = %v", got)
	}
}

func TestSmallBoard(t *testing.T) {
	b := mustBoard(t, primitives.BoardConfig{Squares: 2, Faces: 2})

	want := [][]float64{
		{0, 0, 0},
		{0.5, 0.5, 0},
		{0.5, 0.5, 1},
	}
	m := b.Matrix()
	for i := range want {
		for j := range want[i] {
			if got := m.At(i, j); got != want[i][j] {
				t.Errorf("T[%d][%d] = %v, want %v", i, j, got, want[i][j])
			}
		}
	}

	dist := b.Distribution(0)
	if dist[0] != 1 || dist[1] != 0 || dist[2] != 0 {
		t.Errorf("Distribution(0) = %v", dist)
	}
	dist = b.Distribution(1)
	if dist[0] != 0 || dist[1] != 0.5 || dist[2] != 0.5 {
		t.Errorf("Distribution(1) = %v", dist)
	}

	e, err := b.ExpectedTurns()
	if err != nil {
		t.Fatal(err)
	}
	if e < 2-1e-9 || e > 2+1e-9 {
		t.Errorf("ExpectedTurns = %v, want 2", e)
	}
}

func TestSmallBoardWithLadder(t *testing.T) {
	b := mustBoard(t, primitives.BoardConfig{Squares: 2, Faces: 2, Jumps: map[int]int{1: 2}})
	if b.Land(1) != 2 || b.Land(0) != 0 {
		t.Errorf("Land: 1->%d 0->%d", b.Land(1), b.Land(0))
	}
	e, err := b.ExpectedTurns()
	if err != nil {
		t.Fatal(err)
	}
	if e < 1-1e-9 || e > 1+1e-9 {
		t.Errorf("ExpectedTurns = %v, want 1", e)
	}
}

func TestExpectedTurnsNoAbsorption(t *testing.T) {
	// One-sided die: 0 -> 1 -> 2, and 2 slides back to 1 forever.
	b := mustBoard(t, primitives.BoardConfig{Squares: 3, Faces: 1, Jumps: map[int]int{2: 1}})
	if _, err := b.ExpectedTurns(); !errors.Is(err, ErrNoAbsorption) {
		t.Errorf("err = %v, want ErrNoAbsorption", err)
	}
}

func TestDefaultExpectedTurns(t *testing.T) {
	b := Default()
	e, err := b.ExpectedTurns()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(e-39.2251) > 1e-4 {
		t.Errorf("ExpectedTurns = %v, want 39.2251", e)
	}
	// Mass drifts into the final square.
	d := b.Distribution(500)
	if d[b.Final()] < 0.999 {
		t.Errorf("P(finished after 500 turns) = %v", d[b.Final()])
	}
}
