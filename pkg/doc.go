// Package pkg holds the kintree libraries.
//
// Kintree models a family as a graph of people with birth places, lays it
// out as a generational tree and answers questions about where its members
// live relative to each other.
//
// # Layout
//
//   - [core/geo]: great-circle distance and map projection
//   - [core/graph]: generic adjacency-list graph with Dijkstra
//   - [core/family]: people, partners and children with relationship rules
//   - [core/render/tree]: generational tree layout and SVG cards
//   - [core/render/nodelink], [core/render/geomap]: Graphviz and map renderers
//   - [io]: TOML definitions and JSON/YAML record lists
//   - [pipeline]: load → layout → render with caching
//   - [cache], [store]: artifact cache and dataset store backends
//
// # Quick Start
//
//	fam, err := pipeline.Load("mora.toml")
//	if err != nil {
//	    return err
//	}
//	l := layout.Build(fam.Tree)
//	svg := sink.RenderSVG(l, sink.WithTree(fam.Tree))
//
// Distances from one member to everyone else:
//
//	ana, _ := fam.MustResolve("ana")
//	dists, _ := fam.DistancesFrom(ana.ID)
//
// [core/geo]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/core/geo
// [core/graph]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/core/graph
// [core/family]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/core/family
// [core/render/tree]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/core/render/tree/layout
// [core/render/nodelink]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/core/render/nodelink
// [core/render/geomap]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/core/render/geomap
// [io]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/store
package pkg
