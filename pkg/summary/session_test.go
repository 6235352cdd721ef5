package summary

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// gatedSummarizer blocks until release is closed.
type gatedSummarizer struct {
	release chan struct{}
	calls   atomic.Int32
	err     error
}

func (g *gatedSummarizer) Summarize(ctx context.Context, id string) (Summary, error) {
	g.calls.Add(1)
	select {
	case <-g.release:
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	}
	if g.err != nil {
		return Summary{}, g.err
	}
	return Summary{RepositoryID: id, Text: "text for " + id}, nil
}

func TestSessionSingleShot(t *testing.T) {
	g := &gatedSummarizer{release: make(chan struct{})}
	s := NewSession(context.Background(), g)
	defer s.Close()

	h := s.Get("a/b")
	if h.State() != Pending {
		t.Fatalf("state = %s, want pending", h.State())
	}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Get("a/b") != h {
				t.Error("same id returned a different handle")
			}
		}()
	}
	wg.Wait()
	close(g.release)

	sum, err := h.Wait(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Text != "text for a/b" || h.State() != Done {
		t.Errorf("summary = %+v, state = %s", sum, h.State())
	}
	if s.Get("a/b") != h || g.calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (handles are not restarted)", g.calls.Load())
	}
}

func TestSessionIndependentIDs(t *testing.T) {
	g := &gatedSummarizer{release: make(chan struct{})}
	close(g.release)
	s := NewSession(context.Background(), g)
	defer s.Close()

	a, b := s.Get("a/x"), s.Get("b/y")
	if a == b {
		t.Fatal("distinct ids share a handle")
	}
	sa, _ := a.Wait(context.Background())
	sb, _ := b.Wait(context.Background())
	if sa.RepositoryID != "a/x" || sb.RepositoryID != "b/y" {
		t.Errorf("got %q and %q", sa.RepositoryID, sb.RepositoryID)
	}
}

func TestSessionFailureIsSticky(t *testing.T) {
	boom := errors.New("boom")
	g := &gatedSummarizer{release: make(chan struct{}), err: boom}
	close(g.release)
	s := NewSession(context.Background(), g)
	defer s.Close()

	h := s.Get("a/b")
	if _, err := h.Wait(context.Background()); err != boom {
		t.Errorf("err = %v, want boom", err)
	}
	if h.State() != Failed {
		t.Errorf("state = %s, want failed", h.State())
	}
	if s.Get("a/b") != h {
		t.Error("failed handle should be returned again")
	}
}

func TestHandleWaitContext(t *testing.T) {
	g := &gatedSummarizer{release: make(chan struct{})}
	s := NewSession(context.Background(), g)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := s.Get("a/b").Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}

	s.Close()
	if _, err := s.Get("a/b").Wait(context.Background()); !errors.Is(err, context.Canceled) {
		t.Errorf("after Close err = %v, want canceled", err)
	}
}
