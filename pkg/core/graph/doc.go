// Package graph provides a generic weighted graph with single-source
// shortest paths.
//
// # Overview
//
// [Graph] stores nodes of an arbitrary payload type T keyed by a random
// [uuid.UUID], plus one outgoing edge list per node. It is the storage layer
// underneath the family model: the same instance holds every person and,
// once built, the proximity edges weighted by great-circle distance.
//
// # Basic Usage
//
//	g := graph.New[string]()
//	a := g.AddNode("a")
//	b := g.AddNode("b")
//	g.AddEdge(a.ID, b.ID, 2.5, true) // undirected: a→b and b→a
//
//	dist, _ := g.Dijkstra(a.ID)
//	fmt.Println(dist[b.ID]) // 2.5
//
// # Undirected Edges
//
// There is no bidirectional edge record. An undirected insertion appends two
// opposing directed edges with the same weight, so [Graph.EdgeCount] reports
// two edges for it.
//
// # Invariants
//
// Every edge endpoint is a registered node. [Graph.AddEdge] rejects unknown
// endpoints with an INVALID_REFERENCE error before mutating anything, and
// [Graph.RemoveNode] purges every edge that references the removed node.
//
// # Concurrency
//
// Graph is not safe for concurrent use. Callers that share a graph across
// goroutines must serialize access externally.
package graph
