package nodelink

import (
	"github.com/matzehuels/kintree/pkg/core/family"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/graph"
)

// Export builds the DOT source for t and packages it, together with the
// family's nodes and edges, as a cacheable layout. Positions are left to
// Graphviz at render time.
func Export(t *family.Tree, opts Options) graph.Layout {
	g := graph.FromFamily(t)
	return graph.Layout{
		VizType: graph.VizTypeNodelink,
		Style:   opts.Style,
		Engine:  "dot",
		DOT:     ToDOT(t, opts),
		Nodes:   g.Nodes,
		Edges:   g.Edges,
	}
}

// Parse returns the DOT source stored in a nodelink layout.
func Parse(l graph.Layout) (string, error) {
	if l.VizType != "" && !l.IsNodelink() {
		return "", errors.New(errors.ErrCodeInvalidFormat, "layout is %q, not nodelink", l.VizType)
	}
	if l.DOT == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "nodelink layout has no DOT source")
	}
	return l.DOT, nil
}
