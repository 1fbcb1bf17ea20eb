package graph

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/kintree/pkg/errors"
)

// DefaultWeight is the edge weight used by callers that have no meaningful
// cost to attach to a connection.
const DefaultWeight = 1.0

// Node is a uniquely identified vertex holding a payload value.
// Identity is the ID; Value may be mutated in place without affecting it.
type Node[T any] struct {
	ID    uuid.UUID
	Value T
}

// Edge is a weighted directed connection between two node identifiers.
// Undirected relations are stored as two opposing edges, so callers counting
// edges must account for the duplication.
type Edge struct {
	From   uuid.UUID
	To     uuid.UUID
	Weight float64
}

// Graph is a generic node/edge store over an opaque payload type.
// It never inspects T; payload identity is the node ID.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph[T any] struct {
	nodes map[uuid.UUID]*Node[T]
	order []uuid.UUID          // insertion order of live nodes
	adj   map[uuid.UUID][]Edge // nodeID -> outgoing edges
}

// New creates an empty graph.
func New[T any]() *Graph[T] {
	return &Graph[T]{
		nodes: make(map[uuid.UUID]*Node[T]),
		adj:   make(map[uuid.UUID][]Edge),
	}
}

// AddNode creates a node with a fresh random ID, registers an empty
// neighbor list for it and returns it. AddNode never fails.
func (g *Graph[T]) AddNode(value T) *Node[T] {
	n := &Node[T]{ID: uuid.New(), Value: value}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	g.adj[n.ID] = nil
	return n
}

// Node returns the node with the given ID and true, or nil and false if not
// found. An absent ID is a normal outcome, not an error. The returned pointer
// refers to the stored node, so payload modifications affect the graph.
func (g *Graph[T]) Node(id uuid.UUID) (*Node[T], bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Has reports whether a node with the given ID is registered.
func (g *Graph[T]) Has(id uuid.UUID) bool {
	_, ok := g.nodes[id]
	return ok
}

// RemoveNode removes the node and every edge touching it, in either
// direction, from all adjacency lists. It reports whether the node existed.
//
// This is an O(N+E) operation because every adjacency list is scanned.
func (g *Graph[T]) RemoveNode(id uuid.UUID) bool {
	if _, ok := g.nodes[id]; !ok {
		return false
	}
	delete(g.nodes, id)
	delete(g.adj, id)
	g.order = slices.DeleteFunc(g.order, func(o uuid.UUID) bool { return o == id })
	for from, edges := range g.adj {
		g.adj[from] = slices.DeleteFunc(edges, func(e Edge) bool {
			return e.From == id || e.To == id
		})
	}
	return true
}

// AddEdge adds a weighted edge from→to and returns it. When undirected is
// true the opposing edge to→from is appended as well, with the same weight.
//
// Returns an [errors.ErrCodeInvalidReference] error if either endpoint is not
// registered. Both endpoints are checked before either adjacency list is
// touched, so a failed call leaves the graph unchanged.
func (g *Graph[T]) AddEdge(from, to uuid.UUID, weight float64, undirected bool) (Edge, error) {
	if _, ok := g.nodes[from]; !ok {
		return Edge{}, errors.New(errors.ErrCodeInvalidReference, "unknown source node %s", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return Edge{}, errors.New(errors.ErrCodeInvalidReference, "unknown target node %s", to)
	}

	e := Edge{From: from, To: to, Weight: weight}
	g.adj[from] = append(g.adj[from], e)
	if undirected {
		g.adj[to] = append(g.adj[to], Edge{From: to, To: from, Weight: weight})
	}
	return e, nil
}

// Neighbors returns the outgoing edges of the node. It returns nil, not an
// error, for nodes without edges or unknown IDs. The returned slice should
// not be modified - use it as a read-only view.
func (g *Graph[T]) Neighbors(id uuid.UUID) []Edge { return g.adj[id] }

// ClearEdges empties every adjacency list while preserving all nodes.
func (g *Graph[T]) ClearEdges() {
	for id := range g.adj {
		g.adj[id] = nil
	}
}

// Nodes returns all nodes in insertion order. The returned slice is a fresh
// copy but contains pointers to the stored nodes.
func (g *Graph[T]) Nodes() []*Node[T] {
	out := make([]*Node[T], len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// IDs returns all node IDs in insertion order.
func (g *Graph[T]) IDs() []uuid.UUID { return slices.Clone(g.order) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph[T]) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of directed edges in the graph. An undirected
// connection counts twice.
func (g *Graph[T]) EdgeCount() int {
	n := 0
	for _, edges := range g.adj {
		n += len(edges)
	}
	return n
}
