package production

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/comalice/markovx"
)

func TestExportDOT(t *testing.T) {
	chain := markovx.DefaultChains()["a"]
	v := &DefaultVisualizer{}

	dot := v.ExportDOT(chain, 2, 3)

	for _, want := range []string{
		`digraph "chain_a" {`,
		`"0" [label="0" shape=doublecircle];`,
		`"0" -> "1" [label="0.25"];`,
		`"3" -> "5" [label="0.75"];`,
		`"4" -> "0" [label="restart" style=dashed];`,
		`"2" [label="2" style="filled" fillcolor=lightgreen];`,
		`"3" [label="3" style="dashed,filled" fillcolor=lightgreen];`,
		`"4" [label="4" style="dashed"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT output not terminated")
	}
	for _, line := range strings.Split(dot, "\n") {
		if strings.Count(line, "style=") > 1 {
			t.Errorf("repeated style attribute: %s", line)
		}
	}
	if strings.Contains(dot, `"0" -> "5"`) {
		t.Error("unexpected zero-probability edge")
	}
}

func TestExportJSON(t *testing.T) {
	chain := markovx.DefaultChains()["c"]
	data, err := (&DefaultVisualizer{}).ExportJSON(chain)
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		ID          string                        `json:"id"`
		States      []string                      `json:"states"`
		Transitions map[string]map[string]float64 `json:"transitions"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.ID != "c" || len(out.States) != 6 {
		t.Errorf("unexpected header: %+v", out)
	}
	if p := out.Transitions["2"]["5"]; p != 0.5 {
		t.Errorf("expected 2->5 = 0.5, got %v", p)
	}
	if _, ok := out.Transitions["0"]["0"]; ok {
		t.Error("zero entries should be omitted")
	}
}
