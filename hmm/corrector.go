package hmm

import (
	"context"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Corrector fixes OCR output word by word with a Viterbi decode over an
// n-gram character model.
type Corrector struct {
	order     int
	model     Model
	decoder   *Decoder
	confusion *Confusion
	valid     map[rune]bool
	workers   int
	logger    *zap.Logger
}

// CorrectorOption configures a Corrector.
type CorrectorOption func(*Corrector)

// WithLogger configures the Corrector logger.
func WithLogger(l *zap.Logger) CorrectorOption {
	return func(c *Corrector) {
		c.logger = l
	}
}

// WithWorkers limits concurrent word decodes (default GOMAXPROCS).
func WithWorkers(n int) CorrectorOption {
	return func(c *Corrector) {
		c.workers = n
	}
}

// NewCorrector trains an order-n model (n is 1 or 2) on corpus.
func NewCorrector(corpus string, n int, confusion *Confusion, opts ...CorrectorOption) (*Corrector, error) {
	c := &Corrector{
		order:     n,
		confusion: confusion,
		valid:     make(map[rune]bool),
		workers:   runtime.GOMAXPROCS(0),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	g, err := BuildNGram(corpus, n, confusion.Alphabet())
	if err != nil {
		return nil, err
	}
	for _, r := range confusion.Alphabet() {
		c.valid[r] = true
	}

	c.model = Model{
		States: g.States,
		Start:  g.Start(),
		Trans:  g.Transitions(),
		Emit:   confusion.Emissions(g.States),
	}
	c.decoder, err = NewDecoder(c.model)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("corrector trained",
		zap.Int("order", n),
		zap.Int("states", len(g.States)),
		zap.Int("corpusRunes", len([]rune(corpus))),
	)
	return c, nil
}

// Model returns the trained model.
func (c *Corrector) Model() Model { return c.model }

// Decoder returns the compiled decoder.
func (c *Corrector) Decoder() *Decoder { return c.decoder }

// Order returns the n-gram order.
func (c *Corrector) Order() int { return c.order }

// Word decodes a single word. Words with symbols outside the alphabet are
// returned unchanged.
func (c *Corrector) Word(word string) (string, error) {
	obs := make([]string, 0, len(word))
	for _, r := range word {
		if !c.valid[r] {
			return word, nil
		}
		obs = append(obs, string(r))
	}
	p, err := c.decoder.Viterbi(obs)
	if err != nil {
		return "", err
	}
	return p.String(), nil
}

// Correct decodes every whitespace-separated word of text independently and
// joins the results with single spaces.
func (c *Corrector) Correct(ctx context.Context, text string) (string, error) {
	words := strings.Fields(text)
	out := make([]string, len(words))

	g, ctx := errgroup.WithContext(ctx)
	if c.workers > 0 {
		g.SetLimit(c.workers)
	}
	for i, w := range words {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fixed, err := c.Word(w)
			if err != nil {
				return err
			}
			out[i] = fixed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	changed := 0
	for i := range words {
		if words[i] != out[i] {
			changed++
		}
	}
	c.logger.Info("text corrected", zap.Int("words", len(words)), zap.Int("changed", changed))
	return strings.Join(out, " "), nil
}

// CountDifferences counts positions where the whitespace-separated words of a
// and b differ. Comparison stops at the end of the shorter text.
func CountDifferences(a, b string) int {
	wa, wb := strings.Fields(a), strings.Fields(b)
	n := min(len(wa), len(wb))
	diffs := 0
	for i := 0; i < n; i++ {
		if wa[i] != wb[i] {
			diffs++
		}
	}
	return diffs
}
