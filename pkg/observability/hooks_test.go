package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

type countingHooks struct {
	Noop
	mu    sync.Mutex
	pages int
}

func (h *countingHooks) OnPageStart(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pages++
}

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	Pipeline().OnPageComplete(ctx, "filename:publiccode.yml", 1, 30, time.Second, nil)
	Pipeline().OnSummary(ctx, "italia/io-app", "generated", time.Second)
	Cache().OnCacheSet(ctx, "summary", 1024)
	HTTP().OnResponse(ctx, "GET", "api.github.com", "/search/code", 200, time.Second)

	if _, ok := Pipeline().(Noop); !ok {
		t.Errorf("Pipeline() = %T, want Noop", Pipeline())
	}
}

func TestRegisterKeepsUnsetCategories(t *testing.T) {
	t.Cleanup(Reset)

	h := &countingHooks{}
	Register(Hooks{Pipeline: h})
	Register(Hooks{Cache: h})

	if Pipeline() != h || Cache() != h {
		t.Error("registered hooks not returned")
	}
	if _, ok := HTTP().(Noop); !ok {
		t.Errorf("HTTP() = %T, want Noop", HTTP())
	}

	Register(Hooks{})
	if Pipeline() != h {
		t.Error("empty registration replaced pipeline hooks")
	}

	Pipeline().OnPageStart(context.Background(), "q", 1)
	if h.pages != 1 {
		t.Errorf("pages = %d, want 1", h.pages)
	}
}

func TestRegisterConcurrent(t *testing.T) {
	t.Cleanup(Reset)

	p, c := &countingHooks{}, &countingHooks{}
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() { defer wg.Done(); Register(Hooks{Pipeline: p}) }()
		go func() { defer wg.Done(); Register(Hooks{Cache: c}) }()
	}
	wg.Wait()

	if Pipeline() != p || Cache() != c {
		t.Error("concurrent registrations lost an update")
	}
}

func TestReset(t *testing.T) {
	Register(Hooks{HTTP: &countingHooks{}})
	Reset()
	if _, ok := HTTP().(Noop); !ok {
		t.Errorf("HTTP() = %T after Reset, want Noop", HTTP())
	}
}
