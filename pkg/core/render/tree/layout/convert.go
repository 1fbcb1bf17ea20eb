package layout

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/kintree/pkg/core/family"
	"github.com/matzehuels/kintree/pkg/graph"
)

// Export converts the layout to its serialized form for JSON output, API
// responses and the layout cache. The tree is optional; it supplies card
// labels and the person metadata in Nodes and Edges.
func (l Layout) Export(t *family.Tree, style string) (graph.Layout, error) {
	result := graph.Layout{
		VizType:    graph.VizTypeTree,
		Width:      l.Width,
		Height:     l.Height,
		Style:      style,
		CardWidth:  l.NodeWidth,
		CardHeight: l.NodeHeight,
		Cards:      make([]graph.Card, 0, len(l.Order)),
		Segments:   make([]graph.Segment, 0, len(l.Segments)),
	}

	for _, id := range l.Order {
		p, ok := l.Positions[id]
		if !ok {
			return graph.Layout{}, fmt.Errorf("order lists unplaced person %s", id)
		}
		card := graph.Card{ID: id.String(), X: p.X, Y: p.Y}
		if t != nil {
			if n, ok := t.Member(id); ok {
				card.Label = n.Value.FullName()
			}
		}
		result.Cards = append(result.Cards, card)
	}

	for _, s := range l.Segments {
		result.Segments = append(result.Segments, graph.Segment{
			Kind: s.Kind.String(),
			X1:   s.From.X,
			Y1:   s.From.Y,
			X2:   s.To.X,
			Y2:   s.To.Y,
			A:    s.A.String(),
			B:    s.B.String(),
		})
	}

	if t != nil {
		g := graph.FromFamily(t)
		result.Nodes, result.Edges = g.Nodes, g.Edges
	}
	return result, nil
}

// Parse rebuilds a tree layout from its serialized form, as read back from
// the cache or a JSON artifact. VizType must be "tree" or empty.
func Parse(layout graph.Layout) (Layout, error) {
	if layout.VizType != "" && layout.VizType != graph.VizTypeTree {
		return Layout{}, fmt.Errorf("invalid viz_type for tree layout: %q", layout.VizType)
	}

	l := Layout{
		Positions:  make(map[uuid.UUID]Point, len(layout.Cards)),
		Order:      make([]uuid.UUID, 0, len(layout.Cards)),
		Segments:   make([]Segment, 0, len(layout.Segments)),
		NodeWidth:  layout.CardWidth,
		NodeHeight: layout.CardHeight,
		Width:      layout.Width,
		Height:     layout.Height,
	}

	for _, c := range layout.Cards {
		id, err := uuid.Parse(c.ID)
		if err != nil {
			return Layout{}, fmt.Errorf("card %q: %w", c.ID, err)
		}
		l.Positions[id] = Point{X: c.X, Y: c.Y}
		l.Order = append(l.Order, id)
	}

	for i, s := range layout.Segments {
		kind, err := parseSegmentKind(s.Kind)
		if err != nil {
			return Layout{}, fmt.Errorf("segment %d: %w", i, err)
		}
		a, err := uuid.Parse(s.A)
		if err != nil {
			return Layout{}, fmt.Errorf("segment %d: %w", i, err)
		}
		b, err := uuid.Parse(s.B)
		if err != nil {
			return Layout{}, fmt.Errorf("segment %d: %w", i, err)
		}
		l.Segments = append(l.Segments, Segment{
			Kind: kind,
			From: Point{X: s.X1, Y: s.Y1},
			To:   Point{X: s.X2, Y: s.Y2},
			A:    a,
			B:    b,
		})
	}

	return l, nil
}

func parseSegmentKind(s string) (SegmentKind, error) {
	switch s {
	case graph.SegmentCouple:
		return SegmentCouple, nil
	case graph.SegmentParent:
		return SegmentParent, nil
	}
	return 0, fmt.Errorf("unknown segment kind %q", s)
}
