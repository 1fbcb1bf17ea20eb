package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/kintree/pkg/core/family"
	"github.com/matzehuels/kintree/pkg/core/render"
	"github.com/matzehuels/kintree/pkg/core/render/tree/layout"
)

const cardInteractionCSS = `
    .card rect { transition: stroke-width 0.2s ease; }
    .card:hover rect { stroke-width: 3; }
    .card.highlight rect { stroke-width: 3; }
    .name { font-weight: 600; }`

// Card text baselines, measured from the card top.
const (
	nameBaseline  = 0.42
	yearsBaseline = 0.62
	placeBaseline = 0.80
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	tree      *family.Tree
	theme     render.Theme
	highlight map[uuid.UUID]bool
	title     string
}

// WithTree supplies names and dates for the cards. Without it cards are
// drawn blank.
func WithTree(t *family.Tree) SVGOption   { return func(r *svgRenderer) { r.tree = t } }
func WithTheme(th render.Theme) SVGOption { return func(r *svgRenderer) { r.theme = th } }
func WithTitle(s string) SVGOption        { return func(r *svgRenderer) { r.title = s } }

// WithHighlight outlines the given people's cards in the highlight color.
func WithHighlight(ids ...uuid.UUID) SVGOption {
	return func(r *svgRenderer) {
		for _, id := range ids {
			r.highlight[id] = true
		}
	}
}

// RenderSVG draws a tree layout. Lines come first so cards cover the line
// ends.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{theme: render.Dark, highlight: make(map[uuid.UUID]bool)}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", cardInteractionCSS)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.theme.Background)

	buf.WriteString("  <g class=\"links\">\n")
	for _, s := range l.Segments {
		r.renderSegment(&buf, s)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g class=\"cards\">\n")
	for _, id := range l.Order {
		r.renderCard(&buf, l, id)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderSegment(buf *bytes.Buffer, s layout.Segment) {
	color, width := r.theme.Parent, 1.5
	if s.Kind == layout.SegmentCouple {
		color, width = r.theme.Couple, 2.5
	}
	fmt.Fprintf(buf, `    <line class="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>`+"\n",
		s.Kind, s.From.X, s.From.Y, s.To.X, s.To.Y, color, width)
}

func (r *svgRenderer) renderCard(buf *bytes.Buffer, l layout.Layout, id uuid.UUID) {
	pos := l.Positions[id]
	w, h := l.NodeWidth, l.NodeHeight

	var p *family.Person
	if r.tree != nil {
		if n, ok := r.tree.Member(id); ok {
			p = n.Value
		}
	}

	class, fill, stroke := "card", r.theme.Card, r.theme.Border
	if p != nil && !p.IsAlive() {
		fill = r.theme.Deceased
	}
	if r.highlight[id] {
		class, stroke = "card highlight", r.theme.Highlight
	}

	fmt.Fprintf(buf, `    <g class="%s" id="card-%s">`+"\n", class, id)
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="8" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		pos.X, pos.Y, w, h, fill, stroke)

	if p != nil {
		cx := pos.X + w/2
		r.text(buf, "name", cx, pos.Y+h*nameBaseline, 13, r.theme.Text, p.FullName())
		r.text(buf, "years", cx, pos.Y+h*yearsBaseline, 11, r.theme.Muted, lifespan(p))
		if p.NationalID != "" {
			r.text(buf, "nid", cx, pos.Y+h*placeBaseline, 10, r.theme.Muted, p.NationalID)
		}
	}
	buf.WriteString("    </g>\n")
}

func (r *svgRenderer) text(buf *bytes.Buffer, class string, x, y, size float64, color, s string) {
	if s == "" {
		return
	}
	fmt.Fprintf(buf, `      <text class="%s" x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="%.0f" fill="%s">%s</text>`+"\n",
		class, x, y, size, color, escape(s))
}

// lifespan formats "1930 – 2001" for the deceased and "b. 1960" otherwise.
func lifespan(p *family.Person) string {
	if p.BirthDate.IsZero() {
		return ""
	}
	if p.DeathDate != nil {
		return fmt.Sprintf("%d – %d", p.BirthDate.Year(), p.DeathDate.Year())
	}
	return fmt.Sprintf("b. %d", p.BirthDate.Year())
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
