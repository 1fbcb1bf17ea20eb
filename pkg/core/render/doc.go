// Package render provides visualization rendering for families.
//
// # Overview
//
// This package holds what the renderers share:
//
//   - Color themes ([Dark], [Light], [ThemeFor])
//   - Generic format conversion (SVG to PDF/PNG)
//
// The visualizations live in subpackages:
//
//   - [tree/layout]: card positions and links for the family tree
//   - [tree/sink]: SVG output for tree layouts
//   - [nodelink]: Graphviz node-link diagrams
//   - [geomap]: people on an equirectangular world map
//
// # Format Conversion
//
// [Convert], [ToPDF] and [ToPNG] turn any SVG into other formats using the
// external rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(layout.Build(tree), sink.WithTree(tree))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [tree/layout]: github.com/matzehuels/kintree/pkg/core/render/tree/layout
// [tree/sink]: github.com/matzehuels/kintree/pkg/core/render/tree/sink
// [nodelink]: github.com/matzehuels/kintree/pkg/core/render/nodelink
// [geomap]: github.com/matzehuels/kintree/pkg/core/render/geomap
package render
