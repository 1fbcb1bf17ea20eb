// Package pipeline turns a family file into rendered artifacts.
//
// A run has three steps. [Load] reads a TOML definition or a JSON/YAML
// record list into a [Family]. [GenerateLayout] places its members as a
// tree, a Graphviz node-link diagram or a world map. [Render] writes that
// layout as SVG, PNG, PDF, JSON or DOT.
//
// [Runner] chains the steps and caches what it can, keyed by the content
// of the source file:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{Source: "mora.toml"})
//	svg := res.Artifacts[pipeline.FormatSVG]
//
// The CLI and the HTTP server both go through this package.
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/kintree/pkg/core/render/geomap"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/graph"
)

const (
	DefaultVizType   = graph.VizTypeTree
	DefaultStyle     = graph.StyleDark
	DefaultScale     = 2.0
	DefaultMapWidth  = geomap.DefaultWidth
	DefaultMapHeight = geomap.DefaultHeight
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// choices is a closed set of option values and the error code used when a
// value falls outside it.
type choices struct {
	field  string
	code   errors.Code
	values []string
}

func (c choices) has(v string) bool { return slices.Contains(c.values, v) }

func (c choices) check(v string) error {
	if c.has(v) {
		return nil
	}
	return errors.New(c.code, "invalid %s: %q (must be one of: %s)", c.field, v, strings.Join(c.values, ", "))
}

var (
	formats  = choices{"format", errors.ErrCodeInvalidFormat, []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT}}
	styles   = choices{"style", errors.ErrCodeInvalidStyle, []string{graph.StyleDark, graph.StyleLight}}
	vizTypes = choices{"viz_type", errors.ErrCodeInvalidInput, []string{graph.VizTypeTree, graph.VizTypeNodelink, graph.VizTypeMap}}
)

// IsFormat reports whether s names an output format. Matching is exact.
func IsFormat(s string) bool { return formats.has(s) }

// ValidateFormat returns an INVALID_FORMAT error for unknown formats.
func ValidateFormat(format string) error { return formats.check(format) }

// ValidateStyle returns an INVALID_STYLE error for unknown styles.
func ValidateStyle(style string) error { return styles.check(style) }

// ValidateVizType returns an INVALID_INPUT error for unknown visualization types.
func ValidateVizType(vizType string) error { return vizTypes.check(vizType) }

// Result is what a run produced.
type Result struct {
	// Family and Layout stay zero when every artifact was served from cache.
	Family *Family
	Layout graph.Layout

	SourceHash string
	Artifacts  map[string][]byte
	Stats      Stats
	CacheInfo  CacheInfo
}

// Stats counts the family and times each step.
type Stats struct {
	Members    int
	Relations  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // every requested format was cached
}
