// Package graph holds the wire types for families and layouts: what goes
// into JSON artifacts, API responses, the layout cache and the document
// store.
//
// A [Graph] is the node-link view of a family:
//
//	{
//	  "nodes": [{"id": "…", "label": "Ada Lind", "born": "1930-01-10", …}],
//	  "edges": [{"from": "…", "to": "…", "kind": "parent"}]
//	}
//
// Build one with [FromFamily]. There is no way back from a Graph to a
// family; families travel as record lists (see pkg/io).
//
// A [Layout] is any of the three visualizations. Tree layouts convert to and
// from their in-memory form with the tree layout package's Export and Parse:
//
//	l, _ := layout.Build(tree).Export(tree, graph.StyleDark)
//	data, _ := graph.MarshalLayout(l)
//	l, err := graph.UnmarshalLayout(data)
//
// The VizType* and Style* constants here are the only definition of those
// names; pipeline and the renderers refer to them.
package graph
