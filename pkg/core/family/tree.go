package family

import (
	"bytes"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/kintree/pkg/core/geo"
	"github.com/matzehuels/kintree/pkg/core/graph"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/io"
)

// MaxParents is the number of distinct parents a person may have.
const MaxParents = 2

// Node is a family tree node.
type Node = graph.Node[*Person]

// Tree is a family: people stored in a [graph.Graph] plus parent/child and
// partner relationships. The parent relation, viewed as child→parent edges,
// is acyclic at all times; every mutation that would break this is rejected
// before any state changes.
//
// The zero value is not usable - use New. Tree is not safe for concurrent
// use.
type Tree struct {
	g   *graph.Graph[*Person]
	rel Relations

	listeners    []listener
	nextListener int
}

// Option configures a Tree.
type Option func(*Tree)

// WithRelations replaces the in-memory relation store.
func WithRelations(r Relations) Option {
	return func(t *Tree) { t.rel = r }
}

// WithListener subscribes fn before any member is added, so it also sees
// the mutations of a constructor such as [FromDefinition].
func WithListener(fn func(Event)) Option {
	return func(t *Tree) { t.Subscribe(fn) }
}

// New creates an empty family tree.
func New(opts ...Option) *Tree {
	t := &Tree{g: graph.New[*Person]()}
	for _, opt := range opts {
		opt(t)
	}
	if t.rel == nil {
		t.rel = NewRelations()
	}
	return t
}

// Graph exposes the underlying graph. Callers may read it and query paths
// but should mutate people only through the Tree so listeners are notified.
func (t *Tree) Graph() *graph.Graph[*Person] { return t.g }

// Len returns the number of people.
func (t *Tree) Len() int { return t.g.NodeCount() }

// Member returns the node for id, or nil and false.
func (t *Tree) Member(id uuid.UUID) (*Node, bool) { return t.g.Node(id) }

// Members returns every node in insertion order.
func (t *Tree) Members() []*Node { return t.g.Nodes() }

// AddMember inserts p as a new node, assigns p.ID and notifies listeners.
// A nil p is replaced by an empty person.
func (t *Tree) AddMember(p *Person) *Node {
	if p == nil {
		p = &Person{}
	}
	n := t.g.AddNode(p)
	p.ID = n.ID
	t.notify(MemberAdded, n.ID)
	return n
}

// AddPartner pairs a and b symmetrically. If they are already each other's
// partner nothing changes and no event fires.
//
// A prior partner of either person is overwritten without being detached,
// so that person keeps a one-sided reference.
//
// Returns an [errors.ErrCodeInvalidReference] error for unknown ids and
// [errors.ErrCodeInvalidInput] when a equals b.
func (t *Tree) AddPartner(a, b uuid.UUID) error {
	na, nb, err := t.pair(a, b)
	if err != nil {
		return err
	}
	if a == b {
		return errors.New(errors.ErrCodeInvalidInput, "%s cannot partner with themselves", na.Value.FullName())
	}
	if na.Value.PartnerID == b && nb.Value.PartnerID == a {
		return nil
	}
	na.Value.PartnerID = b
	nb.Value.PartnerID = a
	t.notify(PartnerLinked, a, b)
	return nil
}

// AddChild records parent→child.
//
// The parent's ancestry is walked breadth-first before anything changes; if
// child is the parent or one of its ancestors the call fails with
// [errors.ErrCodeCycleRejected].
// If the child already has two other parents it fails with
// [errors.ErrCodeTooManyParents]. Unknown ids fail with
// [errors.ErrCodeInvalidReference]. A failed call changes nothing.
//
// Linking an existing pair succeeds and still notifies listeners.
func (t *Tree) AddChild(parent, child uuid.UUID) error {
	np, nc, err := t.pair(parent, child)
	if err != nil {
		return err
	}
	if parent == child || t.isAncestor(child, parent) {
		return errors.New(errors.ErrCodeCycleRejected,
			"%s is an ancestor of %s", nc.Value.FullName(), np.Value.FullName())
	}
	parents := t.rel.Parents(child)
	if len(parents) >= MaxParents && !slices.Contains(parents, parent) {
		return errors.New(errors.ErrCodeTooManyParents,
			"%s already has %d parents", nc.Value.FullName(), MaxParents)
	}
	t.rel.Link(parent, child)
	t.notify(ChildLinked, parent, child)
	return nil
}

// isAncestor reports whether candidate is reachable from of by following
// parent links. The walk is breadth-first and visits each person once.
func (t *Tree) isAncestor(candidate, of uuid.UUID) bool {
	visited := map[uuid.UUID]bool{of: true}
	queue := []uuid.UUID{of}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, p := range t.rel.Parents(cur) {
			if p == candidate {
				return true
			}
			if !visited[p] {
				visited[p] = true
				queue = append(queue, p)
			}
		}
	}
	return false
}

func (t *Tree) pair(a, b uuid.UUID) (*Node, *Node, error) {
	na, ok := t.g.Node(a)
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeInvalidReference, "unknown person %s", a)
	}
	nb, ok := t.g.Node(b)
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeInvalidReference, "unknown person %s", b)
	}
	return na, nb, nil
}

// Parents returns up to two parent nodes of child, empty if none.
func (t *Tree) Parents(child uuid.UUID) []*Node {
	return t.nodes(t.rel.Parents(child))
}

// Children returns parent's declared children followed by those declared
// under parent's partner, without duplicates.
func (t *Tree) Children(parent uuid.UUID) []*Node {
	return t.nodes(t.ChildIDs(parent))
}

// ChildIDs is [Tree.Children] by identifier.
func (t *Tree) ChildIDs(parent uuid.UUID) []uuid.UUID {
	ids := t.rel.Children(parent)
	if partner, ok := t.PartnerOf(parent); ok {
		for _, c := range t.rel.Children(partner) {
			if !slices.Contains(ids, c) {
				ids = append(ids, c)
			}
		}
	}
	return ids
}

// PartnerOf returns id's partner if one is set and still present.
func (t *Tree) PartnerOf(id uuid.UUID) (uuid.UUID, bool) {
	n, ok := t.g.Node(id)
	if !ok || !n.Value.HasPartner() {
		return uuid.Nil, false
	}
	if !t.g.Has(n.Value.PartnerID) {
		return uuid.Nil, false
	}
	return n.Value.PartnerID, true
}

// Roots returns the layout starting points in insertion order.
//
// A person is a root candidate if neither they nor their partner has a
// recorded parent. When two candidates are each other's partner only the one
// with the smaller identifier is kept, so a couple without ancestors appears
// once.
func (t *Tree) Roots() []*Node {
	return t.nodes(t.RootIDs())
}

// RootIDs is [Tree.Roots] by identifier.
func (t *Tree) RootIDs() []uuid.UUID {
	orphan := func(id uuid.UUID) bool { return len(t.rel.Parents(id)) == 0 }

	candidate := make(map[uuid.UUID]bool)
	for _, id := range t.g.IDs() {
		if !orphan(id) {
			continue
		}
		if p, ok := t.PartnerOf(id); ok && !orphan(p) {
			continue
		}
		candidate[id] = true
	}

	var roots []uuid.UUID
	for _, id := range t.g.IDs() {
		if !candidate[id] {
			continue
		}
		if p, ok := t.PartnerOf(id); ok && candidate[p] {
			q, _ := t.PartnerOf(p)
			if q == id && bytes.Compare(p[:], id[:]) < 0 {
				continue
			}
		}
		roots = append(roots, id)
	}
	return roots
}

// MemberIDs returns every person's identifier in insertion order.
func (t *Tree) MemberIDs() []uuid.UUID { return t.g.IDs() }

func (t *Tree) nodes(ids []uuid.UUID) []*Node {
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := t.g.Node(id); ok {
			out = append(out, n)
		}
	}
	return out
}

// BuildLocationEdges replaces every edge in the graph with one undirected
// edge per unordered pair of people, weighted by great-circle distance in
// kilometers. The cost is quadratic in the number of people.
func (t *Tree) BuildLocationEdges() {
	t.BuildLocationEdgesWithin(0)
}

// BuildLocationEdgesWithin is [Tree.BuildLocationEdges] restricted to pairs
// at most maxKm apart. A maxKm of zero or less connects every pair.
func (t *Tree) BuildLocationEdgesWithin(maxKm float64) {
	t.g.ClearEdges()
	nodes := t.g.Nodes()
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			d := geo.HaversineKm(a.Value.Latitude, a.Value.Longitude, b.Value.Latitude, b.Value.Longitude)
			if maxKm > 0 && d > maxKm {
				continue
			}
			// Both endpoints come from the graph itself.
			_, _ = t.g.AddEdge(a.ID, b.ID, d, true)
		}
	}
	t.notify(EdgesRebuilt)
}

// UpdateMember applies fn to the person with the given id and notifies
// listeners. Identity and partner link are restored after fn returns; use
// [Tree.AddPartner] to change partners.
//
// Returns an [errors.ErrCodeMemberNotFound] error for unknown ids, or the
// validation error of the edited person, in which case the edit is reverted.
func (t *Tree) UpdateMember(id uuid.UUID, fn func(*Person)) error {
	n, ok := t.g.Node(id)
	if !ok {
		return errors.New(errors.ErrCodeMemberNotFound, "member %s not found", id)
	}
	before := *n.Value
	fn(n.Value)
	n.Value.ID = before.ID
	n.Value.PartnerID = before.PartnerID
	if err := n.Value.Record().Validate(); err != nil {
		*n.Value = before
		return err
	}
	t.notify(MemberUpdated, id)
	return nil
}

// RemoveMember deletes a person with their edges, parent/child links and any
// partner reference pointing at them. It reports whether the person existed.
func (t *Tree) RemoveMember(id uuid.UUID) bool {
	if !t.g.Has(id) {
		return false
	}
	t.rel.Forget(id)
	for _, n := range t.g.Nodes() {
		if n.Value.PartnerID == id {
			n.Value.PartnerID = uuid.Nil
		}
	}
	t.g.RemoveNode(id)
	t.notify(MemberRemoved, id)
	return true
}

// Candidates returns every member except exclude, in insertion order. Pass
// uuid.Nil to get everyone.
func (t *Tree) Candidates(exclude uuid.UUID) []*Node {
	nodes := t.g.Nodes()
	return slices.DeleteFunc(nodes, func(n *Node) bool { return n.ID == exclude })
}

// Lookup finds a person by identifier string, national id or full name
// (case-insensitive), in that order. A name shared by several people does
// not match.
func (t *Tree) Lookup(query string) (*Node, bool) {
	if id, err := uuid.Parse(query); err == nil {
		return t.g.Node(id)
	}
	for _, n := range t.g.Nodes() {
		if n.Value.NationalID != "" && n.Value.NationalID == query {
			return n, true
		}
	}
	var match *Node
	for _, n := range t.g.Nodes() {
		if strings.EqualFold(n.Value.FullName(), query) {
			if match != nil {
				return nil, false
			}
			match = n
		}
	}
	return match, match != nil
}

// Records returns the persisted form of every person in insertion order.
func (t *Tree) Records() []io.Record {
	nodes := t.g.Nodes()
	recs := make([]io.Record, len(nodes))
	for i, n := range nodes {
		recs[i] = n.Value.Record()
	}
	return recs
}

// Load replaces the family with the given records: every existing person
// and relationship is removed, then each record is added in order. Records
// carry no relationships, so the loaded family has none.
func (t *Tree) Load(recs []io.Record) []*Node {
	for _, id := range t.g.IDs() {
		t.g.RemoveNode(id)
	}
	t.rel.Reset()
	t.notify(Cleared)

	out := make([]*Node, len(recs))
	for i, r := range recs {
		out[i] = t.AddMember(FromRecord(r))
	}
	return out
}
