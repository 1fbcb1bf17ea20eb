package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/graph"
	"github.com/matzehuels/kintree/pkg/observability"
)

const moraTOML = `
[[person]]
key = "ana"
given_name = "Ana"
family_name = "Mora"
national_id = "1-0001-0001"
birth_date = 1920-01-02
death_date = 1999-07-04
latitude = 9.93
longitude = -84.08

[[person]]
key = "luis"
given_name = "Luis"
family_name = "Mora"
birth_date = 1918-05-10
latitude = 9.86
longitude = -83.92

[[person]]
key = "sofia"
given_name = "Sofia"
family_name = "Mora"
birth_date = 1950-03-01
latitude = 40.41
longitude = -3.70

[[partner]]
a = "ana"
b = "luis"

[[child]]
parent = "ana"
child = "sofia"
`

const recordsJSON = `[
  {"given_name": "Ana", "family_name": "Mora", "latitude": 9.93, "longitude": -84.08, "birth_date": "1920-01-02T00:00:00Z"},
  {"given_name": "Sofia", "family_name": "Mora", "latitude": 40.41, "longitude": -3.70, "birth_date": "1950-03-01T00:00:00Z"}
]`

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateStyleAndVizType(t *testing.T) {
	for _, s := range []string{"dark", "light"} {
		if err := ValidateStyle(s); err != nil {
			t.Errorf("ValidateStyle(%q) = %v", s, err)
		}
	}
	if err := ValidateStyle("handdrawn"); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("ValidateStyle(handdrawn) = %v", err)
	}
	for _, v := range []string{"tree", "nodelink", "map"} {
		if err := ValidateVizType(v); err != nil {
			t.Errorf("ValidateVizType(%q) = %v", v, err)
		}
	}
	if err := ValidateVizType("tower"); err == nil {
		t.Error("ValidateVizType(tower) should fail")
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Source: "mora.toml", Formats: []string{" SVG "}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if opts.VizType != DefaultVizType || opts.Style != DefaultStyle || opts.Scale != DefaultScale {
		t.Errorf("defaults not applied: %+v", opts)
	}
	if opts.Formats[0] != FormatSVG {
		t.Errorf("format not normalized: %q", opts.Formats[0])
	}
	if opts.MapWidth != DefaultMapWidth || opts.NodeWidth == 0 {
		t.Errorf("size defaults not applied: %+v", opts)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"MissingSource", Options{}, errors.ErrCodeInvalidInput},
		{"BadVizType", Options{Source: "x", VizType: "tower"}, errors.ErrCodeInvalidInput},
		{"BadStyle", Options{Source: "x", Style: "neon"}, errors.ErrCodeInvalidStyle},
		{"BadFormat", Options{Source: "x", Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"MapDOT", Options{Source: "x", VizType: "map", Formats: []string{"dot"}}, errors.ErrCodeInvalidFormat},
		{"NegativeSize", Options{Source: "x", NodeWidth: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOptionsVizTypePredicates(t *testing.T) {
	opts := Options{}
	if !opts.IsTree() || opts.IsNodelink() || opts.IsMap() {
		t.Error("Empty VizType should be tree")
	}
	opts.VizType = "nodelink"
	if opts.IsTree() || !opts.IsNodelink() {
		t.Error("nodelink VizType should be nodelink")
	}
	opts.VizType = "map"
	if !opts.IsMap() {
		t.Error("map VizType should be map")
	}
}

func TestLayoutKeyOptsIncludeStyle(t *testing.T) {
	dark := Options{Style: "dark"}
	light := Options{Style: "light"}
	k := cache.NewDefaultKeyer()
	if k.LayoutKey("h", dark.LayoutKeyOpts()) == k.LayoutKey("h", light.LayoutKeyOpts()) {
		t.Error("style should change the layout key")
	}
}

func TestLoadDefinition(t *testing.T) {
	fam, err := Load(writeSource(t, "mora.toml", moraTOML))
	if err != nil {
		t.Fatal(err)
	}
	if fam.Len() != 3 {
		t.Fatalf("Len = %d, want 3", fam.Len())
	}

	ana, ok := fam.Resolve("ana")
	if !ok || ana.Value.GivenName != "Ana" {
		t.Fatalf("Resolve(ana) = %v, %v", ana, ok)
	}
	if n, ok := fam.Resolve("Sofia Mora"); !ok || n.Value.GivenName != "Sofia" {
		t.Error("Resolve by full name failed")
	}
	if n, ok := fam.Resolve("1-0001-0001"); !ok || n.ID != ana.ID {
		t.Error("Resolve by national id failed")
	}
	if _, err := fam.MustResolve("nobody"); !errors.Is(err, errors.ErrCodeMemberNotFound) {
		t.Errorf("MustResolve(nobody) = %v", err)
	}
	if key, ok := fam.KeyOf(ana.ID); !ok || key != "ana" {
		t.Errorf("KeyOf = %q, %v", key, ok)
	}

	if len(fam.Children(ana.ID)) != 1 {
		t.Error("child link lost")
	}
	if p, ok := fam.PartnerOf(ana.ID); !ok || fam.Keys["luis"] != p {
		t.Error("partner link lost")
	}
}

func TestLoadRecords(t *testing.T) {
	fam, err := Load(writeSource(t, "people.json", recordsJSON))
	if err != nil {
		t.Fatal(err)
	}
	if fam.Len() != 2 || len(fam.Keys) != 0 {
		t.Errorf("Len = %d, keys = %d", fam.Len(), len(fam.Keys))
	}
	if len(fam.RootIDs()) != 2 {
		t.Error("record lists carry no relationships")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v", err)
	}

	cyclic := moraTOML + "\n[[child]]\nparent = \"sofia\"\nchild = \"ana\"\n"
	if _, err := Load(writeSource(t, "cycle.toml", cyclic)); !errors.Is(err, errors.ErrCodeCycleRejected) {
		t.Errorf("cycle: %v", err)
	}

	if _, err := LoadBytes([]byte("{"), "bad.json"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad json: %v", err)
	}
}

func TestGenerateLayout(t *testing.T) {
	fam, err := LoadBytes([]byte(moraTOML), "mora.toml")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		vizType string
		check   func(t *testing.T, l graph.Layout)
	}{
		{graph.VizTypeTree, func(t *testing.T, l graph.Layout) {
			if len(l.Cards) != 3 {
				t.Errorf("cards = %d, want 3", len(l.Cards))
			}
			if len(l.Segments) == 0 {
				t.Error("tree layout has no segments")
			}
		}},
		{graph.VizTypeNodelink, func(t *testing.T, l graph.Layout) {
			if !strings.HasPrefix(l.DOT, "digraph") {
				t.Errorf("DOT = %.20q", l.DOT)
			}
		}},
		{graph.VizTypeMap, func(t *testing.T, l graph.Layout) {
			if l.Width != DefaultMapWidth || l.Height != DefaultMapHeight {
				t.Errorf("map size = %vx%v", l.Width, l.Height)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.vizType, func(t *testing.T) {
			opts := Options{VizType: tt.vizType}
			opts.SetLayoutDefaults()
			opts.SetRenderDefaults()
			l, err := GenerateLayout(fam, opts)
			if err != nil {
				t.Fatal(err)
			}
			if l.VizType != tt.vizType {
				t.Errorf("VizType = %q", l.VizType)
			}
			if len(l.Nodes) != 3 || len(l.Edges) != 2 {
				t.Errorf("nodes = %d, edges = %d; want 3, 2", len(l.Nodes), len(l.Edges))
			}
			tt.check(t, l)
		})
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	fam, _ := LoadBytes([]byte(moraTOML), "mora.toml")

	opts := Options{Formats: []string{"svg", "json", "dot"}, From: "sofia", Title: "Mora"}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatal(err)
	}
	l, _ := GenerateLayout(fam, opts)
	artifacts, err := Render(ctx, fam, l, opts)
	if err != nil {
		t.Fatal(err)
	}

	svg := string(artifacts["svg"])
	sofia, _ := fam.Resolve("sofia")
	if !strings.Contains(svg, `class="card highlight" id="card-`+sofia.ID.String()) {
		t.Error("highlighted card missing")
	}
	if !strings.Contains(svg, "Mora") {
		t.Error("title missing")
	}
	if _, err := graph.UnmarshalLayout(artifacts["json"]); err != nil {
		t.Errorf("json artifact does not parse: %v", err)
	}
	if !bytes.HasPrefix(artifacts["dot"], []byte("digraph")) {
		t.Error("dot artifact missing")
	}

	opts.From = "nobody"
	if _, err := Render(ctx, fam, l, opts); !errors.Is(err, errors.ErrCodeMemberNotFound) {
		t.Errorf("unknown from = %v", err)
	}
}

func TestRenderMap(t *testing.T) {
	ctx := context.Background()
	fam, _ := LoadBytes([]byte(moraTOML), "mora.toml")

	opts := Options{VizType: "map", From: "ana", Formats: []string{"svg"}}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatal(err)
	}
	l, _ := GenerateLayout(fam, opts)
	artifacts, err := Render(ctx, fam, l, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(artifacts["svg"]), " km") {
		t.Error("distance labels missing from map")
	}
}

func TestRunnerExecuteCachesArtifacts(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	src := writeSource(t, "mora.toml", moraTOML)
	opts := Options{Source: src, Formats: []string{"svg", "json"}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit || first.Family == nil {
		t.Fatal("first run should render")
	}
	if first.Stats.Members != 3 || first.Stats.Relations != 2 {
		t.Errorf("stats = %+v", first.Stats)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit || second.Family != nil {
		t.Error("second run should come from cache")
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached svg differs")
	}

	opts.Refresh = true
	third, _ := r.Execute(ctx, opts)
	if third.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}

	// A changed file is a different source.
	if err := os.WriteFile(src, []byte(moraTOML+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	opts.Refresh = false
	fourth, _ := r.Execute(ctx, opts)
	if fourth.CacheInfo.RenderHit {
		t.Error("edited source should miss")
	}
}

func TestRunnerLayoutCache(t *testing.T) {
	ctx := context.Background()
	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, nil)
	fam, _ := LoadBytes([]byte(moraTOML), "mora.toml")

	_, hit, err := r.LayoutWithCacheInfo(ctx, fam, Options{})
	if err != nil || hit {
		t.Fatalf("first layout: hit %v, err %v", hit, err)
	}
	l, hit, err := r.LayoutWithCacheInfo(ctx, fam, Options{})
	if err != nil || !hit {
		t.Fatalf("second layout: hit %v, err %v", hit, err)
	}
	if len(l.Cards) != 3 {
		t.Errorf("cached layout cards = %d", len(l.Cards))
	}

	ana, _ := fam.Resolve("ana")
	fam.RemoveMember(ana.ID)
	if _, hit, _ = r.LayoutWithCacheInfo(ctx, fam, Options{}); hit {
		t.Error("mutated family should miss")
	}
}

type stageRecorder struct {
	observability.Noop
	mu     sync.Mutex
	stages []string
}

func (s *stageRecorder) OnStageComplete(_ context.Context, stage string, _ time.Duration, _ error) {
	s.mu.Lock()
	s.stages = append(s.stages, stage)
	s.mu.Unlock()
}

func TestRunnerReportsStages(t *testing.T) {
	rec := &stageRecorder{}
	observability.Install(rec)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), Options{Source: writeSource(t, "mora.toml", moraTOML)}); err != nil {
		t.Fatal(err)
	}
	want := []string{observability.StageLoad, observability.StageLayout, observability.StageRender}
	if strings.Join(rec.stages, ",") != strings.Join(want, ",") {
		t.Errorf("stages = %v, want %v", rec.stages, want)
	}
}

type modelRecorder struct {
	observability.Noop
	mutations map[string]int
	rejected  []string
}

func (m *modelRecorder) OnMutation(_ context.Context, kind string, _ int) { m.mutations[kind]++ }
func (m *modelRecorder) OnRejected(_ context.Context, code string)        { m.rejected = append(m.rejected, code) }

func TestLoadReportsModelEvents(t *testing.T) {
	rec := &modelRecorder{mutations: map[string]int{}}
	observability.Install(rec)
	defer observability.Reset()

	if _, err := LoadBytes([]byte(moraTOML), "mora.toml"); err != nil {
		t.Fatal(err)
	}
	if rec.mutations["member_added"] != 3 || rec.mutations["partner_linked"] != 1 || rec.mutations["child_linked"] != 1 {
		t.Errorf("mutations = %v", rec.mutations)
	}

	cyclic := moraTOML + "\n[[child]]\nparent = \"sofia\"\nchild = \"ana\"\n"
	if _, err := LoadBytes([]byte(cyclic), "cycle.toml"); err == nil {
		t.Fatal("cycle accepted")
	}
	if len(rec.rejected) != 1 || rec.rejected[0] != string(errors.ErrCodeCycleRejected) {
		t.Errorf("rejected = %v", rec.rejected)
	}
}
