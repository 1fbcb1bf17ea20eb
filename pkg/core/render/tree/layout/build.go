package layout

import (
	"slices"

	"github.com/google/uuid"
)

// Build lays out every person in src top to bottom by generation and left to
// right by root. It never mutates src.
//
// Roots are laid out in order, each starting where the previous tree ended
// plus the root spacing. A person reachable from several roots is placed
// only the first time. People no root reaches (possible with one-sided
// partner references) are laid out afterwards as extra roots, so every
// member gets exactly one position.
func Build(src Source, opts ...Option) Layout {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &builder{
		src: src,
		cfg: cfg,
		out: Layout{
			Positions:  make(map[uuid.UUID]Point),
			NodeWidth:  cfg.nodeW,
			NodeHeight: cfg.nodeH,
		},
		placed: make(map[uuid.UUID]bool),
		path:   make(map[uuid.UUID]bool),
	}

	x := cfg.originX
	start := func(id uuid.UUID) {
		if b.placed[id] {
			return
		}
		x += b.layout(id, x, cfg.originY) + cfg.rootSpacing
	}
	for _, id := range src.RootIDs() {
		start(id)
	}
	for _, id := range src.MemberIDs() {
		start(id)
	}

	b.measure()
	return b.out
}

type builder struct {
	src    Source
	cfg    config
	out    Layout
	placed map[uuid.UUID]bool
	// path holds the people whose layout call is in progress.
	path map[uuid.UUID]bool
}

func (b *builder) coupleWidth(hasPartner bool) float64 {
	if hasPartner {
		return 2*b.cfg.nodeW + b.cfg.coupleGap
	}
	return b.cfg.nodeW
}

// width returns the horizontal space id's subtree needs: the wider of its
// couple and its children side by side.
//
// path holds the people on the current recursion path only. It stops
// recursion on malformed data, but a person reachable along two different
// paths is counted once per path, so shared descendants are over-counted.
// layout passes its own recursion path, so a child measured there gets the
// same width its parent reserved for it, even when a partner is also an
// ancestor.
func (b *builder) width(id uuid.UUID, path map[uuid.UUID]bool) float64 {
	if path[id] {
		return b.cfg.nodeW
	}
	path[id] = true
	defer delete(path, id)

	_, hasPartner := b.src.PartnerOf(id)
	couple := b.coupleWidth(hasPartner)

	kids := b.children(id)
	if len(kids) == 0 {
		return couple
	}
	var sum float64
	for _, c := range kids {
		sum += b.width(c, path) + b.cfg.gapX
	}
	return max(sum-b.cfg.gapX, couple)
}

// children returns id's children merged with its partner's, deduplicated.
func (b *builder) children(id uuid.UUID) []uuid.UUID {
	kids := b.src.ChildIDs(id)
	if p, ok := b.src.PartnerOf(id); ok {
		for _, c := range b.src.ChildIDs(p) {
			if !slices.Contains(kids, c) {
				kids = append(kids, c)
			}
		}
	}
	return kids
}

// layout places id centered over its subtree starting at x, then its
// partner and children, and returns the width it used.
func (b *builder) layout(id uuid.UUID, x, y float64) float64 {
	cfg := b.cfg
	if b.placed[id] {
		return cfg.nodeW
	}
	b.placed[id] = true
	b.path[id] = true
	defer delete(b.path, id)

	partner, hasPartner := b.src.PartnerOf(id)
	kids := b.children(id)
	widths := make([]float64, len(kids))
	kidsW := -cfg.gapX
	for i, c := range kids {
		widths[i] = b.width(c, b.path)
		kidsW += widths[i] + cfg.gapX
	}
	couple := b.coupleWidth(hasPartner)
	used := max(kidsW, couple)

	nx := x + (used-couple)/2
	b.place(id, nx, y)

	if hasPartner && !b.placed[partner] {
		b.place(partner, nx+cfg.nodeW+cfg.coupleGap, y)
		b.linkCouple(id, partner)
	}

	cx := x
	for i, c := range kids {
		b.layout(c, cx, y+cfg.nodeH+cfg.gapY)
		if hasPartner {
			b.linkCoupleToChild(id, partner, c)
		} else {
			b.linkParentToChild(id, c)
		}
		cx += widths[i] + cfg.gapX
	}
	return used
}

func (b *builder) place(id uuid.UUID, x, y float64) {
	b.placed[id] = true
	b.out.Order = append(b.out.Order, id)
	b.out.Positions[id] = Point{X: x, Y: y}
}

func (b *builder) segment(kind SegmentKind, from, to Point, a, c uuid.UUID) {
	b.out.Segments = append(b.out.Segments, Segment{Kind: kind, From: from, To: to, A: a, B: c})
}

func (b *builder) linkCouple(a, p uuid.UUID) {
	pa, pb := b.out.Positions[a], b.out.Positions[p]
	h := b.cfg.nodeH / 2
	b.segment(SegmentCouple, Point{pa.X + b.cfg.nodeW, pa.Y + h}, Point{pb.X, pb.Y + h}, a, p)
}

func (b *builder) bottom(id uuid.UUID) Point {
	p := b.out.Positions[id]
	return Point{X: p.X + b.cfg.nodeW/2, Y: p.Y + b.cfg.nodeH}
}

func (b *builder) top(id uuid.UUID) Point {
	p := b.out.Positions[id]
	return Point{X: p.X + b.cfg.nodeW/2, Y: p.Y}
}

func (b *builder) linkParentToChild(parent, child uuid.UUID) {
	b.segment(SegmentParent, b.bottom(parent), b.top(child), parent, child)
}

// linkCoupleToChild draws both parents down to a junction just below the
// lower card, then the junction down to the child.
func (b *builder) linkCoupleToChild(a, p, child uuid.UUID) {
	pa, pb := b.bottom(a), b.bottom(p)
	mid := Point{X: (pa.X + pb.X) / 2, Y: max(pa.Y, pb.Y) + junctionDrop}
	b.segment(SegmentParent, pa, mid, a, child)
	b.segment(SegmentParent, pb, mid, p, child)
	b.segment(SegmentParent, mid, b.top(child), a, child)
}

// measure sets the canvas size so every card fits with the origin as margin
// on the right and bottom too.
func (b *builder) measure() {
	var maxX, maxY float64
	for _, p := range b.out.Positions {
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	if len(b.out.Positions) == 0 {
		b.out.Width, b.out.Height = 2*b.cfg.originX, 2*b.cfg.originY
		return
	}
	b.out.Width = maxX + b.cfg.nodeW + b.cfg.originX
	b.out.Height = maxY + b.cfg.nodeH + b.cfg.originY
}
