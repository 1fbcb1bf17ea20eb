package layout

import (
	"testing"

	"github.com/matzehuels/kintree/pkg/core/family"
	"github.com/matzehuels/kintree/pkg/graph"
)

func TestExportParse(t *testing.T) {
	tr := family.New()
	a, b, k := add(tr, "A"), add(tr, "B"), add(tr, "K")
	tr.AddPartner(a, b)
	tr.AddChild(b, k)

	l := Build(tr)
	out, err := l.Export(tr, graph.StyleDark)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if out.VizType != graph.VizTypeTree || out.Style != graph.StyleDark {
		t.Errorf("header = %q/%q", out.VizType, out.Style)
	}
	if len(out.Cards) != 3 || len(out.Nodes) != 3 {
		t.Fatalf("got %d cards, %d nodes; want 3, 3", len(out.Cards), len(out.Nodes))
	}
	labels := map[string]bool{}
	for _, c := range out.Cards {
		labels[c.Label] = true
	}
	for _, want := range []string{"A", "B", "K"} {
		if !labels[want] {
			t.Errorf("missing card label %q", want)
		}
	}

	back, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(back.Order) != len(l.Order) {
		t.Fatalf("order length %d, want %d", len(back.Order), len(l.Order))
	}
	for i, id := range l.Order {
		if back.Order[i] != id || back.Positions[id] != l.Positions[id] {
			t.Errorf("card %d differs after parse", i)
		}
	}
	if len(back.Segments) != len(l.Segments) {
		t.Fatalf("segments %d, want %d", len(back.Segments), len(l.Segments))
	}
	for i := range l.Segments {
		if back.Segments[i] != l.Segments[i] {
			t.Errorf("segment %d = %+v, want %+v", i, back.Segments[i], l.Segments[i])
		}
	}
	if back.NodeWidth != l.NodeWidth || back.Width != l.Width || back.Height != l.Height {
		t.Error("dimensions differ after parse")
	}
}

func TestExportWithoutTree(t *testing.T) {
	tr := family.New()
	add(tr, "Solo")
	out, err := Build(tr).Export(nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if out.Cards[0].Label != "" || out.Nodes != nil {
		t.Errorf("unexpected metadata without a tree: %+v", out)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		in   graph.Layout
	}{
		{"WrongViz", graph.Layout{VizType: graph.VizTypeNodelink}},
		{"BadCardID", graph.Layout{Cards: []graph.Card{{ID: "nope"}}}},
		{"BadKind", graph.Layout{Segments: []graph.Segment{{Kind: "sibling"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.in); err == nil {
				t.Error("expected error")
			}
		})
	}
}
