// Package nodelink renders families as node-and-edge diagrams using Graphviz.
//
// People appear as boxes. Parent links are arrows from parent to child and
// partners are joined by a plain line on the same rank.
//
// # Architecture
//
// Unlike the tree visualization, which separates layout computation from
// rendering, nodelink lets Graphviz do both in a single step:
//
//	Tree:     family → layout.Build() → Layout → sink.RenderSVG() → SVG
//	Nodelink: family → ToDOT() → DOT → RenderSVG() → SVG
//
// The DOT string serves as the intermediate representation and is what
// [Export] stores in a graph.Layout for caching.
//
// # Usage
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := render.Convert(ctx, svg, render.FormatPNG, 2)
package nodelink
