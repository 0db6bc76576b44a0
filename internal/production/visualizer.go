package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/comalice/markovx"
)

// DefaultVisualizer renders chains for Graphviz.
type DefaultVisualizer struct{}

// ExportDOT generates Graphviz DOT source for the chain. Edges carry their
// one-step probability; restart states are drawn dashed with an edge to the
// state they step as.
func (v *DefaultVisualizer) ExportDOT(chain *markovx.Chain, current ...markovx.StateID) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", strconv.Quote("chain_"+chain.ID()))
	buf.WriteString(`  rankdir=LR;
  node [shape=circle, fontsize=10];
  edge [fontsize=9];
`)

	active := make(map[markovx.StateID]bool, len(current))
	for _, id := range current {
		active[id] = true
	}

	for i := 0; i < chain.Len(); i++ {
		id := markovx.StateID(i)
		var attrs string
		var styles []string
		if id == chain.Initial() {
			attrs += " shape=doublecircle"
		}
		if _, ok := chain.Restart(id); ok {
			styles = append(styles, "dashed")
		}
		if active[id] {
			styles = append(styles, "filled")
		}
		if len(styles) > 0 {
			attrs += " style=" + strconv.Quote(strings.Join(styles, ","))
		}
		if active[id] {
			attrs += " fillcolor=lightgreen"
		}
		fmt.Fprintf(&buf, "  %s [label=%s%s];\n", strconv.Quote(chain.Name(id)), strconv.Quote(chain.Name(id)), attrs)
	}

	for _, e := range collectEdges(chain) {
		fmt.Fprintf(&buf, "  %s -> %s [label=%s%s];\n",
			strconv.Quote(e.From), strconv.Quote(e.To), strconv.Quote(e.Label), e.Style)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the chain's transition rows keyed by state name.
func (v *DefaultVisualizer) ExportJSON(chain *markovx.Chain) ([]byte, error) {
	rows := make(map[string]map[string]float64, chain.Len())
	for i := 0; i < chain.Len(); i++ {
		row := make(map[string]float64)
		for j := 0; j < chain.Len(); j++ {
			if p := chain.Prob(markovx.StateID(i), markovx.StateID(j)); p > 0 {
				row[chain.Name(markovx.StateID(j))] = p
			}
		}
		rows[chain.Name(markovx.StateID(i))] = row
	}
	return json.MarshalIndent(map[string]any{
		"id":          chain.ID(),
		"states":      chain.Names(),
		"transitions": rows,
	}, "", "  ")
}

// Edge represents a transition edge.
type Edge struct {
	From  string
	To    string
	Label string
	Style string
}

// collectEdges collects nonzero transitions in state order, followed by
// restart edges.
func collectEdges(chain *markovx.Chain) []Edge {
	var edges []Edge
	for i := 0; i < chain.Len(); i++ {
		from := markovx.StateID(i)
		for j := 0; j < chain.Len(); j++ {
			to := markovx.StateID(j)
			if p := chain.Prob(from, to); p > 0 {
				edges = append(edges, Edge{
					From:  chain.Name(from),
					To:    chain.Name(to),
					Label: strconv.FormatFloat(p, 'g', 4, 64),
				})
			}
		}
	}
	for i := 0; i < chain.Len(); i++ {
		from := markovx.StateID(i)
		if to, ok := chain.Restart(from); ok {
			edges = append(edges, Edge{
				From:  chain.Name(from),
				To:    chain.Name(to),
				Label: "restart",
				Style: " style=dashed",
			})
		}
	}
	return edges
}
