package nodelink

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/kintree/pkg/core/family"
	"github.com/matzehuels/kintree/pkg/core/render"
	"github.com/matzehuels/kintree/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds dates and national id to node labels.
	// When false, only the full name is shown.
	Detailed bool
	// Style picks the color theme; see render.ThemeFor.
	Style string
}

// ToDOT converts a family to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Parent links are arrows from parent to child. Mutual partners are joined
// by an undirected edge and kept on the same rank. Deceased people are drawn
// with a dashed outline.
func ToDOT(t *family.Tree, opts Options) string {
	th := render.ThemeFor(opts.Style)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", th.Background)
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", color=%q, fillcolor=%q, fontcolor=%q, fontsize=18, margin=\"0.2,0.1\"];\n",
		th.Border, th.Card, th.Text)
	fmt.Fprintf(&buf, "  edge [color=%q];\n", th.Parent)
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range t.Members() {
		attrs := fmtAttrs(n.Value, fmtLabel(n.Value, opts.Detailed), th)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID.String(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range t.Members() {
		for _, p := range t.Parents(n.ID) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", p.ID.String(), n.ID.String())
		}
	}

	for _, e := range graph.FromFamily(t).Edges {
		if e.Kind != graph.EdgePartner {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [dir=none, penwidth=2, color=%q];\n", e.From, e.To, th.Couple)
		fmt.Fprintf(&buf, "  { rank=same; %q; %q; }\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(p *family.Person, detailed bool) string {
	name := p.FullName()
	if !detailed {
		return name
	}

	var parts []string
	if !p.BirthDate.IsZero() {
		parts = append(parts, "born: "+p.BirthDate.Format(time.DateOnly))
	}
	if p.DeathDate != nil {
		parts = append(parts, "died: "+p.DeathDate.Format(time.DateOnly))
	}
	if p.NationalID != "" {
		parts = append(parts, "id: "+p.NationalID)
	}
	if len(parts) == 0 {
		return name
	}
	return name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(p *family.Person, label string, th render.Theme) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !p.IsAlive() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", fmt.Sprintf("fillcolor=%q", th.Deceased))
	}
	return attrs
}
