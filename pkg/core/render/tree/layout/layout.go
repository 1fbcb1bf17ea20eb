package layout

import "github.com/google/uuid"

// Default dimensions in user units.
const (
	DefaultNodeWidth   = 110.0
	DefaultNodeHeight  = 130.0
	DefaultVerticalGap = 130.0
	DefaultSiblingGap  = 35.0
	DefaultCoupleGap   = 30.0
	DefaultOriginX     = 40.0
	DefaultOriginY     = 40.0
	DefaultRootSpacing = 100.0

	// junctionDrop is how far below the lower parent card the couple's
	// descent junction sits.
	junctionDrop = 6.0
)

// Source is the read-only view of a family the layout needs.
// *family.Tree implements it.
type Source interface {
	RootIDs() []uuid.UUID
	ChildIDs(id uuid.UUID) []uuid.UUID
	PartnerOf(id uuid.UUID) (uuid.UUID, bool)
	MemberIDs() []uuid.UUID
}

// Point is a position in user units with a top-left origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SegmentKind tells a couple link from a parent link.
type SegmentKind int

const (
	// SegmentCouple joins two partners' cards at mid-height.
	SegmentCouple SegmentKind = iota
	// SegmentParent is part of a parent-to-child link: either a direct line
	// from a single parent, or one of the three lines through a couple's
	// junction point.
	SegmentParent
)

func (k SegmentKind) String() string {
	if k == SegmentCouple {
		return "couple"
	}
	return "parent"
}

// Segment is a straight line between two points. A and B are the people it
// connects: both partners for a couple link, parent and child for a parent
// link.
type Segment struct {
	Kind     SegmentKind
	From, To Point
	A, B     uuid.UUID
}

// Layout is the complete output of [Build]: a card position for every
// person and the lines to draw between them.
type Layout struct {
	// Positions maps each person to the top-left corner of their card.
	Positions map[uuid.UUID]Point
	// Order lists placed people in placement order.
	Order []uuid.UUID
	// Segments are the couple and parent links in drawing order.
	Segments []Segment

	NodeWidth  float64
	NodeHeight float64
	Width      float64
	Height     float64
}

// Center returns the center of id's card.
func (l Layout) Center(id uuid.UUID) (Point, bool) {
	p, ok := l.Positions[id]
	if !ok {
		return Point{}, false
	}
	return Point{X: p.X + l.NodeWidth/2, Y: p.Y + l.NodeHeight/2}, true
}

// Option configures [Build].
type Option func(*config)

type config struct {
	nodeW, nodeH float64
	gapY, gapX   float64
	coupleGap    float64
	originX      float64
	originY      float64
	rootSpacing  float64
}

func defaults() config {
	return config{
		nodeW:       DefaultNodeWidth,
		nodeH:       DefaultNodeHeight,
		gapY:        DefaultVerticalGap,
		gapX:        DefaultSiblingGap,
		coupleGap:   DefaultCoupleGap,
		originX:     DefaultOriginX,
		originY:     DefaultOriginY,
		rootSpacing: DefaultRootSpacing,
	}
}

// WithNodeSize sets the card size.
func WithNodeSize(w, h float64) Option {
	return func(c *config) { c.nodeW, c.nodeH = w, h }
}

// WithGaps sets the vertical gap between generations, the horizontal gap
// between sibling subtrees and the gap between partners.
func WithGaps(vertical, sibling, couple float64) Option {
	return func(c *config) { c.gapY, c.gapX, c.coupleGap = vertical, sibling, couple }
}

// WithOrigin sets the top-left corner of the first root.
func WithOrigin(x, y float64) Option {
	return func(c *config) { c.originX, c.originY = x, y }
}

// WithRootSpacing sets the horizontal space between separate trees.
func WithRootSpacing(s float64) Option {
	return func(c *config) { c.rootSpacing = s }
}
