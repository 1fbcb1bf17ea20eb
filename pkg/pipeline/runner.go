package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/graph"
	"github.com/matzehuels/kintree/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// Artifacts are cached by the content hash of the source file, so an
// unchanged file re-renders without being loaded. Layouts are cached by a
// hash of the loaded family, which includes member identifiers; that only
// pays off for a long-lived family such as the one the server holds.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// ArtifactTTL is how long rendered artifacts stay cached.
	ArtifactTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		ArtifactTTL: cache.TTLArtifact,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	data, err := readSource(opts.Source)
	if err != nil {
		return nil, err
	}
	result := &Result{
		SourceHash: sourceHash(opts.Source, data),
	}

	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, result.SourceHash, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			r.Logger.Debug("artifacts from cache", "source", opts.Source, "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 1: Load
	start := time.Now()
	observability.Pipeline().OnStageStart(ctx, observability.StageLoad)
	fam, err := LoadBytes(data, opts.Source)
	result.Stats.LoadTime = time.Since(start)
	observability.Pipeline().OnStageComplete(ctx, observability.StageLoad, result.Stats.LoadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Family = fam
	result.Stats.Members = fam.Len()
	result.Stats.Relations = len(graph.FromFamily(fam.Tree).Edges)

	r.Logger.Info("loaded family",
		"members", result.Stats.Members,
		"relations", result.Stats.Relations,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	start = time.Now()
	l, err := r.layout(ctx, fam, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(start)

	r.Logger.Info("computed layout",
		"type", l.VizType,
		"width", l.Width,
		"height", l.Height,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	start = time.Now()
	artifacts, err := r.render(ctx, fam, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(result.SourceHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, keyTypeArtifact, key, data, r.ArtifactTTL)
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes a layout for a loaded family, using the
// layout cache, and reports whether it was a cache hit.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, fam *Family, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return graph.Layout{}, false, err
	}

	familyData, err := graph.MarshalGraph(fam.Tree)
	if err != nil {
		return graph.Layout{}, false, fmt.Errorf("serialize family for cache key: %w", err)
	}
	key := r.Keyer.LayoutKey(cache.Hash(familyData), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit := r.get(ctx, keyTypeLayout, key); hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	l, err := r.layout(ctx, fam, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}
	if data, err := graph.MarshalLayout(l); err == nil {
		r.set(ctx, keyTypeLayout, key, data, cache.TTLLayout)
	}
	return l, false, nil
}

// Render renders a layout of a loaded family without artifact caching.
func (r *Runner) Render(ctx context.Context, fam *Family, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	return r.render(ctx, fam, l, opts)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) layout(ctx context.Context, fam *Family, opts Options) (graph.Layout, error) {
	start := time.Now()
	observability.Pipeline().OnStageStart(ctx, observability.StageLayout)
	l, err := GenerateLayout(fam, opts)
	observability.Pipeline().OnStageComplete(ctx, observability.StageLayout, time.Since(start), err)
	return l, err
}

func (r *Runner) render(ctx context.Context, fam *Family, l graph.Layout, opts Options) (map[string][]byte, error) {
	start := time.Now()
	observability.Pipeline().OnStageStart(ctx, observability.StageRender)
	artifacts, err := Render(ctx, fam, l, opts)
	observability.Pipeline().OnStageComplete(ctx, observability.StageRender, time.Since(start), err)
	return artifacts, err
}

// cachedArtifacts returns every requested format from cache, or false if
// any one is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, hash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit := r.get(ctx, keyTypeArtifact, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)))
		if !hit {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, true
}

func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// sourceHash hashes the file contents together with the extension, which
// selects the decoder.
func sourceHash(path string, data []byte) string {
	ext := filepath.Ext(path)
	buf := make([]byte, 0, len(ext)+1+len(data))
	buf = append(buf, ext...)
	buf = append(buf, 0)
	buf = append(buf, data...)
	return cache.Hash(buf)
}
