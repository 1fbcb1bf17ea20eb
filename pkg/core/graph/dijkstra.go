package graph

import (
	"container/heap"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/kintree/pkg/errors"
)

// Dijkstra computes single-source shortest path distances over non-negative
// edge weights. Every registered node appears in the result; unreachable
// nodes map to +Inf and the source maps to 0.
//
// Nodes are finalized at most once. Parallel edges between the same pair are
// harmless: relaxation keeps the smaller distance.
//
// Returns an [errors.ErrCodeInvalidReference] error if source is unknown.
func (g *Graph[T]) Dijkstra(source uuid.UUID) (map[uuid.UUID]float64, error) {
	dist, _, err := g.shortestPaths(source)
	return dist, err
}

// ShortestPath returns the cheapest route from→to as a sequence of node IDs
// (both endpoints included) and its total weight.
//
// Returns an [errors.ErrCodeInvalidReference] error if either endpoint is
// unknown, or [errors.ErrCodeNotFound] if to is unreachable from from.
func (g *Graph[T]) ShortestPath(from, to uuid.UUID) ([]uuid.UUID, float64, error) {
	if !g.Has(to) {
		return nil, 0, errors.New(errors.ErrCodeInvalidReference, "unknown target node %s", to)
	}
	dist, prev, err := g.shortestPaths(from)
	if err != nil {
		return nil, 0, err
	}
	if math.IsInf(dist[to], 1) {
		return nil, 0, errors.New(errors.ErrCodeNotFound, "no route from %s to %s", from, to)
	}

	path := []uuid.UUID{to}
	for cur := to; cur != from; {
		cur = prev[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path, dist[to], nil
}

func (g *Graph[T]) shortestPaths(source uuid.UUID) (map[uuid.UUID]float64, map[uuid.UUID]uuid.UUID, error) {
	if !g.Has(source) {
		return nil, nil, errors.New(errors.ErrCodeInvalidReference, "unknown source node %s", source)
	}

	dist := make(map[uuid.UUID]float64, len(g.nodes))
	for id := range g.nodes {
		dist[id] = math.Inf(1)
	}
	dist[source] = 0
	prev := make(map[uuid.UUID]uuid.UUID)

	visited := make(map[uuid.UUID]bool, len(g.nodes))
	pq := &frontier{{id: source, dist: 0}}

	for pq.Len() > 0 {
		u := heap.Pop(pq).(item).id
		if visited[u] {
			continue
		}
		visited[u] = true

		for _, e := range g.adj[u] {
			alt := dist[u] + e.Weight
			if alt < dist[e.To] {
				dist[e.To] = alt
				prev[e.To] = u
				heap.Push(pq, item{id: e.To, dist: alt})
			}
		}
	}
	return dist, prev, nil
}

// item is a frontier entry. Stale entries (superseded by a later, smaller
// push) are skipped by the visited check rather than removed.
type item struct {
	id   uuid.UUID
	dist float64
}

// frontier is a min-heap of items ordered by tentative distance.
type frontier []item

func (f frontier) Len() int           { return len(f) }
func (f frontier) Less(i, j int) bool { return f[i].dist < f[j].dist }
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)        { *f = append(*f, x.(item)) }
func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	it := old[n-1]
	*f = old[:n-1]
	return it
}
