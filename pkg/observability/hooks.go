// Package observability lets libraries report events without depending on
// a metrics backend.
//
// Code in pkg/ reports through the getters:
//
//	observability.Pipeline().OnStageComplete(ctx, observability.StageLayout, d, err)
//
// Nothing is recorded until a backend is installed. The serve command
// installs its Prometheus collector at startup:
//
//	observability.Install(metrics)
//	defer observability.Reset()
package observability

import (
	"context"
	"sync"
	"time"
)

// Pipeline stages.
const (
	StageLoad   = "load"
	StageLayout = "layout"
	StageRender = "render"
)

// ModelHooks receives family mutation events.
type ModelHooks interface {
	// OnMutation records a successful change, named like family.EventKind.
	// Touched is the number of people the change involved.
	OnMutation(ctx context.Context, kind string, touched int)
	// OnRejected records a mutation refused by validation, by error code.
	OnRejected(ctx context.Context, code string)
}

// PipelineHooks receives events from the load → layout → render pipeline.
type PipelineHooks interface {
	OnStageStart(ctx context.Context, stage string)
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes, labelled by key type
// ("layout" or "artifact").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives served requests. Route is the matched pattern, not the
// raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// Noop implements every hook interface and records nothing. Embed it to
// implement only some methods.
type Noop struct{}

func (Noop) OnMutation(context.Context, string, int)                         {}
func (Noop) OnRejected(context.Context, string)                              {}
func (Noop) OnStageStart(context.Context, string)                            {}
func (Noop) OnStageComplete(context.Context, string, time.Duration, error)   {}
func (Noop) OnCacheHit(context.Context, string)                              {}
func (Noop) OnCacheMiss(context.Context, string)                             {}
func (Noop) OnCacheSet(context.Context, string, int)                         {}
func (Noop) OnRequest(context.Context, string, string)                       {}
func (Noop) OnResponse(context.Context, string, string, int, time.Duration) {}

type slot[T any] struct {
	mu sync.RWMutex
	h  T
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.h
}

func (s *slot[T]) set(h T) {
	s.mu.Lock()
	s.h = h
	s.mu.Unlock()
}

var (
	model    = &slot[ModelHooks]{h: Noop{}}
	pipeline = &slot[PipelineHooks]{h: Noop{}}
	cache    = &slot[CacheHooks]{h: Noop{}}
	httpSlot = &slot[HTTPHooks]{h: Noop{}}
)

// Install registers h for every hook interface it implements and leaves the
// others untouched. It reports whether h implemented any of them.
func Install(h any) bool {
	installed := false
	if m, ok := h.(ModelHooks); ok {
		model.set(m)
		installed = true
	}
	if p, ok := h.(PipelineHooks); ok {
		pipeline.set(p)
		installed = true
	}
	if c, ok := h.(CacheHooks); ok {
		cache.set(c)
		installed = true
	}
	if r, ok := h.(HTTPHooks); ok {
		httpSlot.set(r)
		installed = true
	}
	return installed
}

func Model() ModelHooks       { return model.get() }
func Pipeline() PipelineHooks { return pipeline.get() }
func Cache() CacheHooks       { return cache.get() }
func HTTP() HTTPHooks         { return httpSlot.get() }

// Reset uninstalls every backend.
func Reset() {
	model.set(Noop{})
	pipeline.set(Noop{})
	cache.set(Noop{})
	httpSlot.set(Noop{})
}
