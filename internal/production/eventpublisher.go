package production

import (
	"context"
	"sync"

	"github.com/comalice/markovx"
)

// ChannelPublisher forwards simulation steps to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch      chan<- markovx.StepEvent
	mu      sync.Mutex
	dropped int64
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- markovx.StepEvent) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, evt markovx.StepEvent) error {
	select {
	case p.ch <- evt:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.mu.Lock()
		p.dropped++
		p.mu.Unlock()
		return nil
	}
}

// Dropped returns how many events were discarded because the channel was full.
func (p *ChannelPublisher) Dropped() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}

var _ markovx.Publisher = (*ChannelPublisher)(nil)
