package graph

import (
	"slices"
	"time"

	"github.com/matzehuels/kintree/pkg/core/family"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeTree     = "tree"
	VizTypeNodelink = "nodelink"
	VizTypeMap      = "map"
)

// Visual styles for rendering.
const (
	StyleDark  = "dark"
	StyleLight = "light"
)

// Edge kinds.
const (
	EdgeParent  = "parent"
	EdgePartner = "partner"
)

// Segment kinds.
const (
	SegmentCouple = "couple"
	SegmentParent = "parent"
)

// =============================================================================
// Graph - Family Structure Serialization
// =============================================================================

// Graph is the read-only serialization of a family's structure, used for API
// responses and layout metadata. It is not a storage format: families are
// persisted as record lists.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// =============================================================================
// Node - Unified Node Type
// =============================================================================

// Node is the unified person type for all serialization contexts.
// Used in both Graph and Layout types for consistency.
type Node struct {
	ID         string  `json:"id" bson:"id"`
	Label      string  `json:"label" bson:"label"`
	NationalID string  `json:"national_id,omitempty" bson:"national_id,omitempty"`
	Born       string  `json:"born,omitempty" bson:"born,omitempty"`
	Died       string  `json:"died,omitempty" bson:"died,omitempty"`
	Age        int     `json:"age" bson:"age"`
	Latitude   float64 `json:"latitude" bson:"latitude"`
	Longitude  float64 `json:"longitude" bson:"longitude"`
	Partner    string  `json:"partner,omitempty" bson:"partner,omitempty"`
}

// IsAlive reports whether no death date was serialized.
func (n *Node) IsAlive() bool { return n.Died == "" }

// =============================================================================
// Edge - Relationship
// =============================================================================

// Edge is a relationship. Parent edges point from parent to child; partner
// edges are emitted once per mutual pair.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
	Kind string `json:"kind" bson:"kind"`
}

// =============================================================================
// Family → Graph Conversion
// =============================================================================

// FromFamily converts a family tree to its serialization format. Nodes keep
// insertion order; parent edges follow each child's parent order.
func FromFamily(t *family.Tree) Graph {
	members := t.Members()
	out := Graph{Nodes: make([]Node, len(members))}

	for i, n := range members {
		out.Nodes[i] = NodeFromPerson(n.Value)
	}
	for _, n := range members {
		for _, p := range t.Parents(n.ID) {
			out.Edges = append(out.Edges, Edge{From: p.ID.String(), To: n.ID.String(), Kind: EdgeParent})
		}
	}
	var paired []string
	for _, n := range members {
		p, ok := t.PartnerOf(n.ID)
		if !ok {
			continue
		}
		if q, _ := t.PartnerOf(p); q != n.ID {
			// One-sided reference left by a partner reassignment.
			continue
		}
		if slices.Contains(paired, n.ID.String()) {
			continue
		}
		paired = append(paired, p.String())
		out.Edges = append(out.Edges, Edge{From: n.ID.String(), To: p.String(), Kind: EdgePartner})
	}
	return out
}

// NodeFromPerson converts one person. This is the single point of
// conversion for all person→Node operations.
func NodeFromPerson(p *family.Person) Node {
	n := Node{
		ID:         p.ID.String(),
		Label:      p.FullName(),
		NationalID: p.NationalID,
		Age:        p.Age(),
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
	}
	if !p.BirthDate.IsZero() {
		n.Born = p.BirthDate.Format(time.DateOnly)
	}
	if p.DeathDate != nil {
		n.Died = p.DeathDate.Format(time.DateOnly)
	}
	if p.HasPartner() {
		n.Partner = p.PartnerID.String()
	}
	return n
}
