package pipeline

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/core/render/tree/layout"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/graph"
)

// Options configures a run. The JSON form is the body of a render request.
type Options struct {
	Source  string `json:"source,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	VizType     string  `json:"viz_type,omitempty"`
	NodeWidth   float64 `json:"node_width,omitempty"`
	NodeHeight  float64 `json:"node_height,omitempty"`
	VerticalGap float64 `json:"vertical_gap,omitempty"`
	SiblingGap  float64 `json:"sibling_gap,omitempty"`
	CoupleGap   float64 `json:"couple_gap,omitempty"`
	MapWidth    float64 `json:"map_width,omitempty"`
	MapHeight   float64 `json:"map_height,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Style   string   `json:"style,omitempty"`
	Title   string   `json:"title,omitempty"`
	// From is the highlighted person of a tree or the origin of map distances.
	From     string  `json:"from,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

func orDefault[T comparable](v *T, def T) {
	var zero T
	if *v == zero {
		*v = def
	}
}

// ValidateAndSetDefaults prepares options for a full run. Only the first
// call does any work.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source is required")
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills zero layout fields.
func (o *Options) SetLayoutDefaults() {
	orDefault(&o.VizType, DefaultVizType)
	orDefault(&o.NodeWidth, layout.DefaultNodeWidth)
	orDefault(&o.NodeHeight, layout.DefaultNodeHeight)
	orDefault(&o.VerticalGap, layout.DefaultVerticalGap)
	orDefault(&o.SiblingGap, layout.DefaultSiblingGap)
	orDefault(&o.CoupleGap, layout.DefaultCoupleGap)
	orDefault(&o.MapWidth, DefaultMapWidth)
	orDefault(&o.MapHeight, DefaultMapHeight)
	o.ensureLogger()
}

// SetRenderDefaults fills zero render fields and lower-cases formats.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for i := range o.Formats {
		o.Formats[i] = strings.ToLower(strings.TrimSpace(o.Formats[i]))
	}
	orDefault(&o.Style, DefaultStyle)
	orDefault(&o.Scale, DefaultScale)
	o.ensureLogger()
}

func (o *Options) ensureLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout applies layout defaults and checks the result.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	for _, v := range [...]float64{o.NodeWidth, o.NodeHeight, o.MapWidth, o.MapHeight} {
		if v < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "layout sizes must be positive")
		}
	}
	return nil
}

// ValidateForRender applies layout and render defaults and checks both.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	for _, f := range o.Formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
		if f == FormatDOT && o.IsMap() {
			return errors.New(errors.ErrCodeInvalidFormat, "map visualizations have no dot output")
		}
	}
	return ValidateStyle(o.Style)
}

// IsTree treats an unset VizType as a tree.
func (o *Options) IsTree() bool     { return o.VizType == "" || o.VizType == graph.VizTypeTree }
func (o *Options) IsNodelink() bool { return o.VizType == graph.VizTypeNodelink }
func (o *Options) IsMap() bool      { return o.VizType == graph.VizTypeMap }

// LayoutKeyOpts lists every option that changes the layout.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		VizType:     o.VizType,
		Style:       o.Style,
		Detailed:    o.Detailed,
		NodeWidth:   o.NodeWidth,
		NodeHeight:  o.NodeHeight,
		VerticalGap: o.VerticalGap,
		SiblingGap:  o.SiblingGap,
		CoupleGap:   o.CoupleGap,
		MapWidth:    o.MapWidth,
		MapHeight:   o.MapHeight,
	}
}

// ArtifactKeyOpts adds the render-only options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Style:    o.Style,
		Title:    o.Title,
		Detailed: o.Detailed,
		From:     o.From,
		Scale:    o.Scale,
		Layout:   o.LayoutKeyOpts(),
	}
}
