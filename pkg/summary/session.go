package summary

import (
	"context"
	"sync"
)

// Summarizer is what a [Session] runs; *Resolver implements it.
type Summarizer interface {
	Summarize(ctx context.Context, repositoryID string) (Summary, error)
}

// HandleState reports whether a [Handle] has finished.
type HandleState int

const (
	Pending HandleState = iota
	Done
	Failed
)

func (s HandleState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Handle is one in-flight or finished summary.
type Handle struct {
	done    chan struct{}
	summary Summary
	err     error
}

// State returns Pending until the summary finished, then Done or Failed.
func (h *Handle) State() HandleState {
	select {
	case <-h.done:
		if h.err != nil {
			return Failed
		}
		return Done
	default:
		return Pending
	}
}

// Wait blocks until the summary is ready or ctx ends. Giving up on the
// wait does not cancel the work; other waiters still get the result.
func (h *Handle) Wait(ctx context.Context) (Summary, error) {
	select {
	case <-h.done:
		return h.summary, h.err
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	}
}

// Session starts at most one summary per repository id.
// The same id always returns the same handle, even after it failed.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
	s      Summarizer

	mu      sync.Mutex
	handles map[string]*Handle
}

// NewSession creates a session whose work is bound to ctx.
func NewSession(ctx context.Context, s Summarizer) *Session {
	ctx, cancel := context.WithCancel(ctx)
	return &Session{ctx: ctx, cancel: cancel, s: s, handles: map[string]*Handle{}}
}

// Get returns the handle for repositoryID, starting the work on first use.
func (s *Session) Get(repositoryID string) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.handles[repositoryID]; ok {
		return h
	}

	h := &Handle{done: make(chan struct{})}
	s.handles[repositoryID] = h
	go func() {
		defer close(h.done)
		h.summary, h.err = s.s.Summarize(s.ctx, repositoryID)
	}()
	return h
}

// Close cancels work still in flight.
func (s *Session) Close() {
	s.cancel()
}
