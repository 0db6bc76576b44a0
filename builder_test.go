package markovx_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	. "github.com/comalice/markovx"
)

func TestBuilderWeather(t *testing.T) {
	b := NewChainBuilder("weather")

	b.State("sunny").To("sunny", 0.8).To("rainy", 0.2)
	b.State("rainy").To("sunny", 0.4).To("rainy", 0.6)

	c, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	if got := c.Names(); !cmp.Equal(got, []string{"sunny", "rainy"}) {
		t.Errorf("names mismatch (-want +got):\n%s", cmp.Diff([]string{"sunny", "rainy"}, got))
	}
	sunny, _ := b.GetID("sunny")
	rainy, _ := b.GetID("rainy")
	if p := c.Prob(sunny, rainy); p != 0.2 {
		t.Errorf("expected P(sunny->rainy)=0.2, got %v", p)
	}
	if p := c.Prob(rainy, rainy); p != 0.6 {
		t.Errorf("expected P(rainy->rainy)=0.6, got %v", p)
	}
}

func TestBuilderAssignsIDsInMentionOrder(t *testing.T) {
	b := NewChainBuilder("order")
	b.State("a").To("c", 1).State("b").Absorbing().State("c").Uniform("a", "b")

	want := map[string]StateID{"a": 0, "c": 1, "b": 2}
	for name, id := range want {
		got, ok := b.GetID(name)
		if !ok {
			t.Errorf("state %q not assigned", name)
			continue
		}
		if got != id {
			t.Errorf("state %q: expected ID %d, got %d", name, id, got)
		}
	}
	if _, ok := b.GetID("missing"); ok {
		t.Error("unexpected ID for unknown state")
	}

	c, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if p := c.Prob(1, 0); p != 0.5 {
		t.Errorf("expected uniform row, got P(c->a)=%v", p)
	}
}

func TestBuilderRestartAndInitial(t *testing.T) {
	b := NewChainBuilder("restart").
		Initial("start").
		Restart("start", "end")
	b.State("start").To("mid", 1)
	b.State("mid").To("end", 1)
	b.State("end").Absorbing()

	c, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if c.Initial() != 0 {
		t.Errorf("expected initial 0, got %d", c.Initial())
	}
	end, _ := c.Lookup("end")
	to, ok := c.Restart(end)
	if !ok || c.Name(to) != "start" {
		t.Errorf("expected end to restart as start, got %q (ok=%v)", c.Name(to), ok)
	}

	eff := c.EffectiveMatrix()
	mid, _ := c.Lookup("mid")
	if eff.At(int(end), int(mid)) != 1 {
		t.Errorf("expected effective end->mid = 1, got %v", eff.At(int(end), int(mid)))
	}
}

func TestBuilderRejectsIncompleteRows(t *testing.T) {
	b := NewChainBuilder("broken")
	b.State("a").To("b", 0.5)
	b.State("b").Absorbing()

	if _, err := b.Build(); err == nil {
		t.Error("expected error for row summing to 0.5")
	}
}

func TestBuilderConfigIsDetached(t *testing.T) {
	b := NewChainBuilder("copy")
	b.State("x").Absorbing()
	cfg := b.Config()
	cfg.Transitions["x"]["x"] = 0

	if _, err := b.Build(); err != nil {
		t.Errorf("mutating Config output changed builder: %v", err)
	}
}
