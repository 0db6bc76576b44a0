// Package dice computes outcome probabilities for dice battles where the
// attacker rolls m dice, the defender rolls k dice, and the larger total wins.
package dice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// DefaultFaces is the number of sides on a standard die.
const DefaultFaces = 6

var (
	ErrInvalidCount = errors.New("dice count must be at least 1")
	ErrTooManyDice  = errors.New("too many dice for exact counting")
)

// Dice computes sum distributions for a fair die with a fixed number of faces.
// Safe for concurrent use.
type Dice struct {
	faces  int
	limit  int
	logger *zap.Logger

	mu   sync.Mutex
	ways [][]int64 // ways[m][n]: ordered rolls of m dice with total n
}

// Option configures a Dice.
type Option func(*Dice)

// WithLogger sets the logger used for table computation.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dice) {
		d.logger = l
	}
}

// New creates a Dice with the given number of faces (DefaultFaces when < 1).
func New(faces int, opts ...Option) *Dice {
	if faces < 1 {
		faces = DefaultFaces
	}
	d := &Dice{
		faces:  faces,
		limit:  maxDice(faces),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	// ways[0] is the empty roll: one way to total zero.
	d.ways = [][]int64{{1}}
	return d
}

// Faces returns the number of sides per die.
func (d *Dice) Faces() int { return d.faces }

// MaxDice returns the largest dice count whose outcome space fits in an int64.
func (d *Dice) MaxDice() int { return d.limit }

// maxDice returns the largest m with faces^m <= MaxInt64.
func maxDice(faces int) int {
	if faces == 1 {
		return math.MaxInt32
	}
	m, total := 0, int64(1)
	for total <= math.MaxInt64/int64(faces) {
		total *= int64(faces)
		m++
	}
	return m
}

// distribution returns the counts for m dice, extending the memo as needed.
func (d *Dice) distribution(m int) []int64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	for len(d.ways) <= m {
		prev := d.ways[len(d.ways)-1]
		next := make([]int64, len(prev)+d.faces)
		for total, count := range prev {
			if count == 0 {
				continue
			}
			for face := 1; face <= d.faces; face++ {
				next[total+face] += count
			}
		}
		d.ways = append(d.ways, next)
	}
	return d.ways[m]
}

// Ways returns the number of ordered rolls of m dice that total n.
// It is zero when m < 1, n < m, n > faces*m, or m > MaxDice.
func (d *Dice) Ways(m, n int) int64 {
	if m < 1 || n < m || n > d.faces*m || m > d.limit {
		return 0
	}
	return d.distribution(m)[n]
}

// Prob returns the probability that m dice total n.
func (d *Dice) Prob(m, n int) float64 {
	w := d.Ways(m, n)
	if w == 0 {
		return 0
	}
	return float64(w) / math.Pow(float64(d.faces), float64(m))
}

// Tie returns the probability that m dice and k dice show the same total.
func (d *Dice) Tie(m, k int) float64 {
	if m < 1 || k < 1 || m > d.limit || k > d.limit {
		return 0
	}
	lo, hi := max(m, k), d.faces*min(m, k)
	if m+k <= d.limit {
		var ties int64
		for n := lo; n <= hi; n++ {
			ties += d.Ways(m, n) * d.Ways(k, n)
		}
		return d.ratio(ties, m+k)
	}
	p := 0.0
	for n := lo; n <= hi; n++ {
		p += d.Prob(m, n) * d.Prob(k, n)
	}
	return clamp(p)
}

// Win returns the probability that the attacker's m dice total strictly more
// than the defender's k dice.
func (d *Dice) Win(m, k int) float64 {
	if m < 1 || k < 1 || m > d.limit || k > d.limit {
		return 0
	}
	// above[j]: attacker rolls totalling more than j
	above := make([]int64, d.faces*m+1)
	for j := d.faces*m - 1; j >= 0; j-- {
		above[j] = above[j+1] + d.Ways(m, j+1)
	}
	hi := min(d.faces*k, d.faces*m-1)
	if m+k <= d.limit {
		var wins int64
		for i := k; i <= hi; i++ {
			wins += d.Ways(k, i) * above[i]
		}
		return d.ratio(wins, m+k)
	}
	total := math.Pow(float64(d.faces), float64(m))
	p := 0.0
	for i := k; i <= hi; i++ {
		p += d.Prob(k, i) * float64(above[i]) / total
	}
	return clamp(p)
}

// ratio divides an outcome count by faces^dice. count never exceeds
// faces^dice, so the result stays within [0,1].
func (d *Dice) ratio(count int64, dice int) float64 {
	return float64(count) / math.Pow(float64(d.faces), float64(dice))
}

func clamp(p float64) float64 {
	return min(max(p, 0), 1)
}

// Tables holds win and tie probabilities indexed [m-1][k-1].
type Tables struct {
	Win *mat.Dense
	Tie *mat.Dense
}

// Tables computes size x size win and tie tables. Rows are computed
// concurrently; ctx cancellation stops outstanding rows.
func (d *Dice) Tables(ctx context.Context, size int) (Tables, error) {
	if size < 1 {
		return Tables{}, fmt.Errorf("table size %d: %w", size, ErrInvalidCount)
	}
	if size > d.limit {
		return Tables{}, fmt.Errorf("table size %d exceeds %d: %w", size, d.limit, ErrTooManyDice)
	}

	t := Tables{
		Win: mat.NewDense(size, size, nil),
		Tie: mat.NewDense(size, size, nil),
	}

	g, ctx := errgroup.WithContext(ctx)
	for m := 1; m <= size; m++ {
		g.Go(func() error {
			for k := 1; k <= size; k++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				t.Win.Set(m-1, k-1, d.Win(m, k))
				t.Tie.Set(m-1, k-1, d.Tie(m, k))
			}
			d.logger.Debug("dice row computed", zap.Int("attackers", m))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Tables{}, err
	}
	return t, nil
}
