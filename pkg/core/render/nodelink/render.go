package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// RenderSVG lays out and draws a DOT graph with Graphviz. The result is
// sized in user units and can be converted with render.Convert.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("graphviz: %w", err)
	}
	return tidySVG(buf.Bytes()), nil
}

// tidySVG drops Graphviz's XML prolog and comments and replaces the root
// element, which Graphviz sizes in points with an offset viewBox, by one
// sized to the viewBox. Input without a usable viewBox is only trimmed.
func tidySVG(svg []byte) []byte {
	s := string(svg)
	start := strings.Index(s, "<svg")
	if start < 0 {
		return svg
	}
	s = s[start:]
	end := strings.IndexByte(s, '>')
	if end < 0 {
		return []byte(s)
	}

	w, h, ok := viewBoxSize(s[:end])
	if !ok {
		return []byte(s)
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return []byte(root + s[end+1:])
}

// viewBoxSize reads the width and height of a viewBox attribute in tag.
func viewBoxSize(tag string) (w, h float64, ok bool) {
	const attr = `viewBox="`
	i := strings.Index(tag, attr)
	if i < 0 {
		return 0, 0, false
	}
	rest := tag[i+len(attr):]
	j := strings.IndexByte(rest, '"')
	if j < 0 {
		return 0, 0, false
	}
	fields := strings.Fields(strings.ReplaceAll(rest[:j], ",", " "))
	if len(fields) != 4 {
		return 0, 0, false
	}
	w, err1 := strconv.ParseFloat(fields[2], 64)
	h, err2 := strconv.ParseFloat(fields[3], 64)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
