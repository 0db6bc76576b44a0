// Tests for ChannelPublisher delivery and Simulator integration.
package production

import (
	"context"
	"testing"

	"github.com/comalice/markovx"
)

func TestChannelPublisher_Delivery(t *testing.T) {
	ch := make(chan markovx.StepEvent, 10)
	p := NewChannelPublisher(ch)

	evt := markovx.StepEvent{ChainID: "a", Start: 0, Step: 1, From: 0, To: 2}
	if err := p.Publish(context.Background(), evt); err != nil {
		t.Errorf("Publish failed: %v", err)
	}

	select {
	case got := <-ch:
		if got != evt {
			t.Errorf("event mismatch: got %+v, want %+v", got, evt)
		}
	default:
		t.Error("no event delivered")
	}
}

func TestChannelPublisher_DropsWhenFull(t *testing.T) {
	ch := make(chan markovx.StepEvent, 1)
	p := NewChannelPublisher(ch)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := p.Publish(ctx, markovx.StepEvent{Step: i}); err != nil {
			t.Fatalf("Publish %d failed: %v", i, err)
		}
	}
	if got := p.Dropped(); got != 2 {
		t.Errorf("expected 2 dropped events, got %d", got)
	}
	if got := (<-ch).Step; got != 0 {
		t.Errorf("expected first event kept, got step %d", got)
	}
}

func TestChannelPublisher_Close(t *testing.T) {
	ch := make(chan markovx.StepEvent)
	p := NewChannelPublisher(ch)
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-ch; ok {
		t.Error("expected closed channel")
	}
}

func TestChannelPublisher_Simulation(t *testing.T) {
	ch := make(chan markovx.StepEvent, 1000)
	p := NewChannelPublisher(ch)

	chain := markovx.DefaultChains()["a"]
	sim := markovx.NewSimulator(chain, markovx.WithPublisher(p), markovx.WithSeed(3))
	if _, err := sim.Run(context.Background(), 100, 0); err != nil {
		t.Fatal(err)
	}
	p.Close()

	n := 0
	prev := markovx.StateID(0)
	for evt := range ch {
		if evt.From != prev {
			t.Errorf("step %d: from %d does not follow previous state %d", evt.Step, evt.From, prev)
		}
		prev = evt.To
		n++
	}
	if n != 99 {
		t.Errorf("expected 99 events, got %d", n)
	}
}
