package pipeline

import (
	"github.com/matzehuels/kintree/pkg/core/render/nodelink"
	"github.com/matzehuels/kintree/pkg/core/render/tree/layout"
	"github.com/matzehuels/kintree/pkg/graph"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout generates a complete layout for any visualization type.
// This is the unified entry point for generating serializable layout data.
//
// Every layout includes the family structure (nodes and edges). Tree
// layouts add cards and segments, nodelink layouts a DOT string, and map
// layouts only the canvas size.
func GenerateLayout(fam *Family, opts Options) (graph.Layout, error) {
	switch {
	case opts.IsNodelink():
		return generateNodelinkLayout(fam, opts), nil
	case opts.IsMap():
		return generateMapLayout(fam, opts), nil
	}
	return generateTreeLayout(fam, opts)
}

// TreeLayout computes the internal tree layout with the options' sizes.
func TreeLayout(fam *Family, opts Options) layout.Layout {
	return layout.Build(fam.Tree,
		layout.WithNodeSize(opts.NodeWidth, opts.NodeHeight),
		layout.WithGaps(opts.VerticalGap, opts.SiblingGap, opts.CoupleGap),
	)
}

func generateTreeLayout(fam *Family, opts Options) (graph.Layout, error) {
	return TreeLayout(fam, opts).Export(fam.Tree, opts.Style)
}

func generateNodelinkLayout(fam *Family, opts Options) graph.Layout {
	return nodelink.Export(fam.Tree, nodelink.Options{Detailed: opts.Detailed, Style: opts.Style})
}

func generateMapLayout(fam *Family, opts Options) graph.Layout {
	g := graph.FromFamily(fam.Tree)
	return graph.Layout{
		VizType: graph.VizTypeMap,
		Width:   opts.MapWidth,
		Height:  opts.MapHeight,
		Style:   opts.Style,
		Nodes:   g.Nodes,
		Edges:   g.Edges,
	}
}
