package search

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Token identifies one request started with [View.Begin].
type Token string

// View tracks the request currently driving one screen of results.
//
// Each Begin supersedes the previous request: its context is cancelled and
// its token becomes stale, so a late result can no longer be applied.
//
//	token, ctx := view.Begin(parent)
//	page, err := pipeline.BuildPage(ctx, req)
//	if !view.Apply(token, page) {
//	    return // superseded
//	}
type View struct {
	mu      sync.Mutex
	current Token
	cancel  context.CancelFunc
	page    *PageWindow
}

// NewView creates an empty view.
func NewView() *View {
	return &View{}
}

// Begin starts a new request and cancels the one in flight.
// The returned context is cancelled when the request is superseded or the
// view is closed.
func (v *View) Begin(parent context.Context) (Token, context.Context) {
	ctx, cancel := context.WithCancel(parent)
	token := Token(uuid.NewString())

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
	}
	v.current = token
	v.cancel = cancel
	return token, ctx
}

// Apply stores page if token belongs to the latest request and reports
// whether it did. Results of superseded requests are discarded.
func (v *View) Apply(token Token, page *PageWindow) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if token != v.current {
		return false
	}
	v.page = page
	return true
}

// IsCurrent reports whether token belongs to the latest request.
func (v *View) IsCurrent(token Token) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return token == v.current
}

// Page returns the last applied page, or nil.
func (v *View) Page() *PageWindow {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// Load runs BuildPage under a new token and applies the result.
// It returns context.Canceled if a later Begin superseded this call.
func (v *View) Load(ctx context.Context, p *Pipeline, req PageRequest) (*PageWindow, error) {
	token, ctx := v.Begin(ctx)
	page, err := p.BuildPage(ctx, req)
	if err != nil {
		if !v.IsCurrent(token) {
			return nil, context.Canceled
		}
		return nil, err
	}
	if !v.Apply(token, page) {
		return nil, context.Canceled
	}
	return page, nil
}

// Close cancels the request in flight, if any.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.current = ""
}
