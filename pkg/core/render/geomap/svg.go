package geomap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/kintree/pkg/core/family"
	"github.com/matzehuels/kintree/pkg/core/geo"
	"github.com/matzehuels/kintree/pkg/core/render"
	"github.com/matzehuels/kintree/pkg/errors"
)

// Default canvas size; 2:1 keeps equirectangular degrees square.
const (
	DefaultWidth  = 1000.0
	DefaultHeight = 500.0

	graticuleStep = 30.0
	markerRadius  = 5.0
)

type Option func(*renderer)

type renderer struct {
	width, height float64
	theme         render.Theme
	from          uuid.UUID
	route         []uuid.UUID
	labels        bool
}

// WithSize sets the canvas size.
func WithSize(w, h float64) Option { return func(r *renderer) { r.width, r.height = w, h } }

// WithTheme sets the colors.
func WithTheme(th render.Theme) Option { return func(r *renderer) { r.theme = th } }

// WithDistancesFrom draws a dashed line from id to every other person,
// labeled with the great-circle distance.
func WithDistancesFrom(id uuid.UUID) Option { return func(r *renderer) { r.from = id } }

// WithRoute draws a polyline through the given people in order.
func WithRoute(ids []uuid.UUID) Option { return func(r *renderer) { r.route = ids } }

// WithoutLabels hides person names.
func WithoutLabels() Option { return func(r *renderer) { r.labels = false } }

// RenderSVG draws every person of t as a marker on an equirectangular world
// canvas.
//
// Returns an [errors.ErrCodeMemberNotFound] error when the distance origin
// or a route stop is not a member.
func RenderSVG(t *family.Tree, opts ...Option) ([]byte, error) {
	r := renderer{width: DefaultWidth, height: DefaultHeight, theme: render.Dark, labels: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.width <= 0 || r.height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "map size must be positive, got %vx%v", r.width, r.height)
	}

	var dists []family.Distance
	if r.from != uuid.Nil {
		var err error
		if dists, err = t.DistancesFrom(r.from); err != nil {
			return nil, err
		}
	}
	for _, id := range r.route {
		if _, ok := t.Member(id); !ok {
			return nil, errors.New(errors.ErrCodeMemberNotFound, "route stop %s not found", id)
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.theme.Background)
	r.renderGraticule(&buf)

	if len(dists) > 0 {
		r.renderDistances(&buf, t, dists)
	}
	if len(r.route) > 1 {
		r.renderRoute(&buf, t)
	}
	r.renderPeople(&buf, t)

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func (r *renderer) project(p *family.Person) (x, y float64) {
	return geo.ToPixel(p.Latitude, p.Longitude, r.width, r.height)
}

func (r *renderer) renderGraticule(buf *bytes.Buffer) {
	buf.WriteString(`  <g class="graticule" stroke-width="0.5" fill="none"`)
	fmt.Fprintf(buf, ` stroke="%s" opacity="0.4">`+"\n", r.theme.Muted)
	for lon := -180.0; lon <= 180; lon += graticuleStep {
		x, _ := geo.ToPixel(0, lon, r.width, r.height)
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="0" x2="%.1f" y2="%.1f"/>`+"\n", x, x, r.height)
	}
	for lat := -90.0; lat <= 90; lat += graticuleStep {
		_, y := geo.ToPixel(lat, 0, r.width, r.height)
		width := 0.5
		if lat == 0 {
			width = 1
		}
		fmt.Fprintf(buf, `    <line x1="0" y1="%.1f" x2="%.1f" y2="%.1f" stroke-width="%.1f"/>`+"\n", y, r.width, y, width)
	}
	buf.WriteString("  </g>\n")
}

func (r *renderer) renderDistances(buf *bytes.Buffer, t *family.Tree, dists []family.Distance) {
	origin, _ := t.Member(r.from)
	ox, oy := r.project(origin.Value)

	fmt.Fprintf(buf, `  <g class="distances" stroke="%s" stroke-dasharray="6 4" stroke-width="1.2">`+"\n", r.theme.Couple)
	for _, d := range dists {
		n, _ := t.Member(d.ID)
		x, y := r.project(n.Value)
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", ox, oy, x, y)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" stroke="none" fill="%s" font-family="sans-serif" font-size="10" text-anchor="middle">%.1f km</text>`+"\n",
			(ox+x)/2, (oy+y)/2-4, r.theme.Muted, d.Km)
	}
	buf.WriteString("  </g>\n")
}

func (r *renderer) renderRoute(buf *bytes.Buffer, t *family.Tree) {
	pts := make([]string, 0, len(r.route))
	for _, id := range r.route {
		n, _ := t.Member(id)
		x, y := r.project(n.Value)
		pts = append(pts, fmt.Sprintf("%.1f,%.1f", x, y))
	}
	fmt.Fprintf(buf, `  <polyline class="route" points="%s" fill="none" stroke="%s" stroke-width="2.5"/>`+"\n",
		strings.Join(pts, " "), r.theme.Highlight)
}

func (r *renderer) renderPeople(buf *bytes.Buffer, t *family.Tree) {
	buf.WriteString("  <g class=\"people\">\n")
	for _, n := range t.Members() {
		x, y := r.project(n.Value)
		fill := r.theme.Text
		if n.ID == r.from {
			fill = r.theme.Highlight
		}
		fmt.Fprintf(buf, `    <circle id="person-%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s"/>`+"\n",
			n.ID, x, y, markerRadius, fill, r.theme.Border)
		if r.labels {
			fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="11">%s</text>`+"\n",
				x+markerRadius+3, y+4, r.theme.Text, escape(n.Value.FullName()))
		}
	}
	buf.WriteString("  </g>\n")
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
