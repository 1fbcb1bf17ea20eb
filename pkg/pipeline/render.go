package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/kintree/pkg/core/render"
	"github.com/matzehuels/kintree/pkg/core/render/geomap"
	"github.com/matzehuels/kintree/pkg/core/render/nodelink"
	"github.com/matzehuels/kintree/pkg/core/render/tree/layout"
	"github.com/matzehuels/kintree/pkg/core/render/tree/sink"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/graph"
)

// Render generates output artifacts in the requested formats from a layout
// produced by [GenerateLayout]. The family supplies labels, themes and the
// map's coordinates; it must be the family the layout was computed from.
func Render(ctx context.Context, fam *Family, gl graph.Layout, opts Options) (map[string][]byte, error) {
	var from uuid.UUID
	if opts.From != "" {
		n, err := fam.MustResolve(opts.From)
		if err != nil {
			return nil, err
		}
		from = n.ID
	}

	switch gl.VizType {
	case graph.VizTypeNodelink:
		return renderNodelink(ctx, gl, opts)
	case graph.VizTypeMap:
		return renderMap(ctx, fam, gl, from, opts)
	}
	return renderTree(ctx, fam, gl, from, opts)
}

// renderTree generates tree outputs.
func renderTree(ctx context.Context, fam *Family, gl graph.Layout, from uuid.UUID, opts Options) (map[string][]byte, error) {
	l, err := layout.Parse(gl)
	if err != nil {
		return nil, fmt.Errorf("convert layout: %w", err)
	}

	svgOpts := []sink.SVGOption{
		sink.WithTree(fam.Tree),
		sink.WithTheme(render.ThemeFor(opts.Style)),
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	if from != uuid.Nil {
		svgOpts = append(svgOpts, sink.WithHighlight(from))
	}

	var svg []byte
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case FormatJSON:
			data, err = graph.MarshalLayout(gl)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(fam.Tree, nodelink.Options{Detailed: opts.Detailed, Style: opts.Style}))
		default:
			if svg == nil {
				svg = sink.RenderSVG(l, svgOpts...)
			}
			data, err = render.Convert(ctx, svg, format, opts.Scale)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderNodelink generates nodelink outputs from the layout's DOT string.
func renderNodelink(ctx context.Context, gl graph.Layout, opts Options) (map[string][]byte, error) {
	dot, err := nodelink.Parse(gl)
	if err != nil {
		return nil, fmt.Errorf("convert layout: %w", err)
	}

	var svg []byte
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case FormatJSON:
			data, err = graph.MarshalLayout(gl)
		case FormatDOT:
			data = []byte(dot)
		default:
			if svg == nil {
				if svg, err = nodelink.RenderSVG(ctx, dot); err != nil {
					return nil, fmt.Errorf("render svg: %w", err)
				}
			}
			data, err = render.Convert(ctx, svg, format, opts.Scale)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderMap generates map outputs. The canvas size comes from the layout.
func renderMap(ctx context.Context, fam *Family, gl graph.Layout, from uuid.UUID, opts Options) (map[string][]byte, error) {
	mapOpts := []geomap.Option{
		geomap.WithSize(gl.Width, gl.Height),
		geomap.WithTheme(render.ThemeFor(opts.Style)),
	}
	if from != uuid.Nil {
		mapOpts = append(mapOpts, geomap.WithDistancesFrom(from))
	}

	var svg []byte
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error
		switch format {
		case FormatJSON:
			data, err = graph.MarshalLayout(gl)
		case FormatDOT:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "map visualizations have no dot output")
		default:
			if svg == nil {
				if svg, err = geomap.RenderSVG(fam.Tree, mapOpts...); err != nil {
					return nil, fmt.Errorf("render svg: %w", err)
				}
			}
			data, err = render.Convert(ctx, svg, format, opts.Scale)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
