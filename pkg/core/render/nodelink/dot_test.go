package nodelink

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/kintree/pkg/core/family"
	"github.com/matzehuels/kintree/pkg/core/render"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/graph"
)

func couple() (*family.Tree, *family.Node, *family.Node, *family.Node) {
	t := family.New()
	a := t.AddMember(&family.Person{GivenName: "Ines", FamilyName: "Vaz"})
	b := t.AddMember(&family.Person{GivenName: "Rui", FamilyName: "Vaz"})
	c := t.AddMember(&family.Person{GivenName: "Lia", FamilyName: "Vaz"})
	t.AddPartner(a.ID, b.ID)
	t.AddChild(a.ID, c.ID)
	return t, a, b, c
}

func TestToDOT_Basic(t *testing.T) {
	tr, a, b, c := couple()
	dot := ToDOT(tr, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, n := range []*family.Node{a, b, c} {
		if !strings.Contains(dot, `"`+n.ID.String()+`" [label="`+n.Value.FullName()+`"]`) {
			t.Errorf("ToDOT() output missing node %s", n.Value.FullName())
		}
	}
	if !strings.Contains(dot, `"`+a.ID.String()+`" -> "`+c.ID.String()+`";`) {
		t.Error("ToDOT() output missing parent edge")
	}
	if strings.Count(dot, "dir=none") != 1 {
		t.Error("ToDOT() should emit exactly one partner edge")
	}
	if !strings.Contains(dot, "rank=same") {
		t.Error("ToDOT() partners not kept on the same rank")
	}
}

func TestToDOT_Deceased(t *testing.T) {
	tr := family.New()
	died := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	tr.AddMember(&family.Person{GivenName: "Old", DeathDate: &died})

	dot := ToDOT(tr, Options{})
	if !strings.Contains(dot, "dashed") {
		t.Error("ToDOT() deceased missing dashed style")
	}
	if !strings.Contains(dot, `fillcolor="`+render.Dark.Deceased+`"`) {
		t.Error("ToDOT() deceased missing muted fill")
	}
}

func TestToDOT_Style(t *testing.T) {
	tr, _, _, _ := couple()
	dark := ToDOT(tr, Options{Style: graph.StyleDark})
	if !strings.Contains(dark, render.Dark.Background) {
		t.Error("dark style background not applied")
	}
	light := ToDOT(tr, Options{Style: graph.StyleLight})
	if !strings.Contains(light, render.Light.Background) {
		t.Error("light style background not applied")
	}
	if ToDOT(tr, Options{Style: "unknown"}) != dark {
		t.Error("unknown style should fall back to dark")
	}
}

func TestFmtLabel(t *testing.T) {
	died := time.Date(2001, 5, 2, 0, 0, 0, 0, time.UTC)
	p := &family.Person{
		GivenName:  "Ada",
		FamilyName: "Lind",
		NationalID: "A-1",
		BirthDate:  time.Date(1930, 1, 10, 0, 0, 0, 0, time.UTC),
		DeathDate:  &died,
	}

	if got := fmtLabel(p, false); got != "Ada Lind" {
		t.Errorf("fmtLabel() simple = %q", got)
	}
	want := "Ada Lind\nborn: 1930-01-10\ndied: 2001-05-02\nid: A-1"
	if got := fmtLabel(p, true); got != want {
		t.Errorf("fmtLabel() detailed = %q, want %q", got, want)
	}
	if got := fmtLabel(&family.Person{GivenName: "X"}, true); got != "X" {
		t.Errorf("fmtLabel() detailed without data = %q", got)
	}
}

func TestFmtAttrs(t *testing.T) {
	th := render.Light
	if attrs := fmtAttrs(&family.Person{}, "x", th); len(attrs) != 1 {
		t.Errorf("living person should have 1 attr, got %v", attrs)
	}
	died := time.Now()
	if attrs := fmtAttrs(&family.Person{DeathDate: &died}, "x", th); len(attrs) != 3 {
		t.Errorf("deceased person should have 3 attrs, got %v", attrs)
	}
}

func TestTidySVG(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "graphviz output",
			svg: `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<!-- Generated by graphviz -->
<svg width="600pt" height="450pt" viewBox="0.00 0.00 800.00 600.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600"><g/></svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero size",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
		{
			name: "not svg",
			svg:  `plain`,
			want: `plain`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(tidySVG([]byte(tt.svg))); got != tt.want {
				t.Errorf("tidySVG() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	tr, _, _, _ := couple()
	svg, err := RenderSVG(context.Background(), ToDOT(tr, Options{Detailed: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
	if !strings.Contains(string(svg), "Ines Vaz") {
		t.Error("RenderSVG() output missing person label")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), `not valid DOT {{{`)
	if err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}

func TestExportParse(t *testing.T) {
	tr, _, _, _ := couple()
	l := Export(tr, Options{Style: graph.StyleLight})
	dot := ToDOT(tr, Options{Style: graph.StyleLight})
	if !l.IsNodelink() || l.Style != graph.StyleLight || len(l.Nodes) != 3 || len(l.Edges) != 2 {
		t.Errorf("export = %+v", l)
	}
	got, err := Parse(l)
	if err != nil || got != dot {
		t.Errorf("Parse() = %q, %v", got, err)
	}

	if _, err := Parse(graph.Layout{VizType: graph.VizTypeTree, DOT: dot}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Error("Parse() should reject tree layouts")
	}
	if _, err := Parse(graph.Layout{}); err == nil {
		t.Error("Parse() should reject empty DOT")
	}
}
