package graph

import (
	"encoding/json"

	"github.com/matzehuels/kintree/pkg/errors"
)

// Layout is the serialized form of every visualization. VizType selects
// which of the optional fields are set:
//
//	tree      Cards, Segments, CardWidth, CardHeight
//	nodelink  DOT, Engine
//	map       nothing beyond the shared fields; Width and Height are the canvas
//
// Nodes and Edges always carry the family structure. The tree layout has a
// richer in-memory form keyed by person id in pkg/core/render/tree/layout.
type Layout struct {
	VizType string  `json:"viz_type" bson:"viz_type"`
	Width   float64 `json:"width" bson:"width"`
	Height  float64 `json:"height" bson:"height"`
	Style   string  `json:"style,omitempty" bson:"style,omitempty"`

	Nodes []Node `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Edges []Edge `json:"edges,omitempty" bson:"edges,omitempty"`

	Cards      []Card    `json:"cards,omitempty" bson:"cards,omitempty"`
	Segments   []Segment `json:"segments,omitempty" bson:"segments,omitempty"`
	CardWidth  float64   `json:"card_width,omitempty" bson:"card_width,omitempty"`
	CardHeight float64   `json:"card_height,omitempty" bson:"card_height,omitempty"`

	DOT    string `json:"dot,omitempty" bson:"dot,omitempty"`
	Engine string `json:"engine,omitempty" bson:"engine,omitempty"`
}

func (l *Layout) IsTree() bool     { return l.VizType == VizTypeTree }
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }
func (l *Layout) IsMap() bool      { return l.VizType == VizTypeMap }

// Card is a positioned person in a tree layout. X and Y are the top-left
// corner.
type Card struct {
	ID    string  `json:"id" bson:"id"`
	Label string  `json:"label" bson:"label"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
}

// Segment is a straight line in a tree layout between people A and B.
type Segment struct {
	Kind string  `json:"kind" bson:"kind"`
	X1   float64 `json:"x1" bson:"x1"`
	Y1   float64 `json:"y1" bson:"y1"`
	X2   float64 `json:"x2" bson:"x2"`
	Y2   float64 `json:"y2" bson:"y2"`
	A    string  `json:"a" bson:"a"`
	B    string  `json:"b" bson:"b"`
}

// Validate checks that the fields VizType calls for are present.
func (l *Layout) Validate() error {
	switch l.VizType {
	case VizTypeTree:
		if len(l.Cards) == 0 && len(l.Nodes) > 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "tree layout of %d people has no cards", len(l.Nodes))
		}
	case VizTypeNodelink:
		if l.DOT == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "nodelink layout has no DOT source")
		}
	case VizTypeMap:
		if l.Width <= 0 || l.Height <= 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "map layout needs a positive canvas size")
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown viz_type %q", l.VizType)
	}
	return nil
}

// MarshalLayout encodes l as indented JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout decodes and validates a layout. A missing viz_type means
// tree.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	if l.VizType == "" {
		l.VizType = VizTypeTree
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}
