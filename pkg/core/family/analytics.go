package family

import (
	"math"
	"slices"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/kintree/pkg/errors"
)

// Pair is two people and the great-circle distance between them.
type Pair struct {
	A  uuid.UUID `json:"a"`
	B  uuid.UUID `json:"b"`
	Km float64   `json:"km"`
}

// Stats summarizes the pairwise distances of a family.
type Stats struct {
	Pairs  int     `json:"pairs"`
	Min    Pair    `json:"min"`
	Max    Pair    `json:"max"`
	Mean   float64 `json:"mean_km"`
	StdDev float64 `json:"stddev_km"`
}

// PairStats computes minimum, maximum, mean and standard deviation of the
// direct distance over every unordered pair of people. It returns false when
// there are fewer than two people. With a single pair StdDev is zero.
func (t *Tree) PairStats() (Stats, bool) {
	nodes := t.g.Nodes()
	if len(nodes) < 2 {
		return Stats{}, false
	}

	n := len(nodes) * (len(nodes) - 1) / 2
	pairs := make([]Pair, 0, n)
	km := make([]float64, 0, n)
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			d := a.Value.Location().DistanceKm(b.Value.Location())
			pairs = append(pairs, Pair{A: a.ID, B: b.ID, Km: d})
			km = append(km, d)
		}
	}

	s := Stats{
		Pairs: len(pairs),
		Min:   pairs[floats.MinIdx(km)],
		Max:   pairs[floats.MaxIdx(km)],
		Mean:  stat.Mean(km, nil),
	}
	if len(km) > 1 {
		s.StdDev = stat.StdDev(km, nil)
	}
	return s, true
}

// Distance is the distance from a reference person to ID.
type Distance struct {
	ID uuid.UUID `json:"id"`
	Km float64   `json:"km"`
}

// Reachable reports whether the distance is finite.
func (d Distance) Reachable() bool { return !math.IsInf(d.Km, 0) && !math.IsNaN(d.Km) }

// DistancesFrom returns the direct great-circle distance from id to every
// other person, nearest first. Ties keep insertion order.
//
// Returns an [errors.ErrCodeMemberNotFound] error for unknown ids.
func (t *Tree) DistancesFrom(id uuid.UUID) ([]Distance, error) {
	from, ok := t.g.Node(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeMemberNotFound, "member %s not found", id)
	}
	origin := from.Value.Location()

	var out []Distance
	for _, n := range t.Candidates(id) {
		out = append(out, Distance{ID: n.ID, Km: origin.DistanceKm(n.Value.Location())})
	}
	sortDistances(out)
	return out, nil
}

// NetworkDistancesFrom returns shortest-path distances from id over the
// current proximity edges, nearest first. People not connected to id have
// an infinite distance and sort last. Call [Tree.BuildLocationEdges] first.
func (t *Tree) NetworkDistancesFrom(id uuid.UUID) ([]Distance, error) {
	dist, err := t.g.Dijkstra(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMemberNotFound, err, "member %s not found", id)
	}
	out := make([]Distance, 0, len(dist))
	for _, other := range t.g.IDs() {
		if other != id {
			out = append(out, Distance{ID: other, Km: dist[other]})
		}
	}
	sortDistances(out)
	return out, nil
}

// Route returns the cheapest chain of people from one person to another
// over the current proximity edges, with its total length in kilometers.
//
// Returns [errors.ErrCodeInvalidReference] for unknown ids and
// [errors.ErrCodeNotFound] when the two are not connected.
func (t *Tree) Route(from, to uuid.UUID) ([]*Node, float64, error) {
	ids, km, err := t.g.ShortestPath(from, to)
	if err != nil {
		return nil, 0, err
	}
	return t.nodes(ids), km, nil
}

func sortDistances(ds []Distance) {
	slices.SortStableFunc(ds, func(a, b Distance) int {
		switch {
		case a.Km < b.Km:
			return -1
		case a.Km > b.Km:
			return 1
		}
		return 0
	})
}
