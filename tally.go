package markovx

import "sync"

// Tally counts state visits. Safe for concurrent use, so runs on separate
// goroutines can pool their counts.
type Tally struct {
	mu     sync.RWMutex
	counts map[StateID]int64
	total  int64
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{
		counts: make(map[StateID]int64),
	}
}

// Add records n visits to id.
func (t *Tally) Add(id StateID, n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[id] += n
	t.total += n
}

// Get returns the visit count of id.
func (t *Tally) Get(id StateID) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.counts[id]
}

// Total returns the number of recorded visits.
func (t *Tally) Total() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.total
}

// Frequencies returns visit fractions for states 0..n-1.
// All zeros when nothing has been recorded.
func (t *Tally) Frequencies(n int) []float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]float64, n)
	if t.total == 0 {
		return out
	}
	for i := range out {
		out[i] = float64(t.counts[StateID(i)]) / float64(t.total)
	}
	return out
}

// Snapshot returns a copy of the counts for serialization.
func (t *Tally) Snapshot() map[StateID]int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := make(map[StateID]int64, len(t.counts))
	for k, v := range t.counts {
		snap[k] = v
	}
	return snap
}

// Restore replaces all counts from a snapshot.
func (t *Tally) Restore(snap map[StateID]int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts = make(map[StateID]int64, len(snap))
	t.total = 0
	for k, v := range snap {
		t.counts[k] = v
		t.total += v
	}
}
