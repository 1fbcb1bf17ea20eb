package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNoopDoesNotPanic(t *testing.T) {
	ctx := context.Background()
	var n Noop
	n.OnMutation(ctx, "member_added", 1)
	n.OnRejected(ctx, "CYCLE_REJECTED")
	n.OnStageStart(ctx, StageLoad)
	n.OnStageComplete(ctx, StageRender, time.Second, errors.New("boom"))
	n.OnCacheHit(ctx, "layout")
	n.OnCacheMiss(ctx, "layout")
	n.OnCacheSet(ctx, "artifact", 1024)
	n.OnRequest(ctx, "GET", "/api/members")
	n.OnResponse(ctx, "GET", "/api/members", 200, time.Second)
}

func TestInstallRoutesEvents(t *testing.T) {
	Reset()
	defer Reset()

	rec := &recorder{}
	if !Install(rec) {
		t.Fatal("Install(recorder) = false")
	}

	ctx := context.Background()
	Model().OnMutation(ctx, "child_linked", 2)
	Pipeline().OnStageStart(ctx, StageLayout)
	Cache().OnCacheMiss(ctx, "artifact")
	HTTP().OnRequest(ctx, "GET", "/healthz")

	want := []string{"mutation:child_linked", "start:layout", "miss:artifact", "req:/healthz"}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, rec.events[i], want[i])
		}
	}

	Reset()
	Pipeline().OnStageStart(ctx, StageLoad)
	if len(rec.events) != len(want) {
		t.Error("events reached the recorder after Reset")
	}
}

type stagesOnly struct {
	started []string
}

func (s *stagesOnly) OnStageStart(_ context.Context, stage string)                { s.started = append(s.started, stage) }
func (s *stagesOnly) OnStageComplete(context.Context, string, time.Duration, error) {}

func TestInstallPartial(t *testing.T) {
	Reset()
	defer Reset()

	if Install(struct{}{}) {
		t.Error("Install of a value with no hook methods reported true")
	}
	if Install(nil) {
		t.Error("Install(nil) reported true")
	}

	s := &stagesOnly{}
	Install(s)
	if Pipeline() != PipelineHooks(s) {
		t.Error("pipeline hooks not installed")
	}
	if _, ok := Model().(Noop); !ok {
		t.Error("model hooks replaced by a partial backend")
	}
}

type recorder struct {
	Noop

	mu     sync.Mutex
	events []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	r.events = append(r.events, s)
	r.mu.Unlock()
}

func (r *recorder) OnMutation(_ context.Context, kind string, _ int) { r.add("mutation:" + kind) }
func (r *recorder) OnStageStart(_ context.Context, stage string)    { r.add("start:" + stage) }
func (r *recorder) OnCacheMiss(_ context.Context, keyType string)   { r.add("miss:" + keyType) }
func (r *recorder) OnRequest(_ context.Context, _, route string)    { r.add("req:" + route) }
