package httputil

import (
	"net/http"
	"strconv"
	"testing"
	"time"
)

func header(kv ...string) http.Header {
	h := http.Header{}
	for i := 0; i+1 < len(kv); i += 2 {
		h.Set(kv[i], kv[i+1])
	}
	return h
}

func TestParseRateLimit(t *testing.T) {
	reset := time.Now().Add(time.Minute).Unix()
	h := header(
		HeaderRateLimit, "5000",
		HeaderRateRemaining, "0",
		HeaderRateReset, strconv.FormatInt(reset, 10),
	)

	rl := ParseRateLimit(h)
	if rl.Limit != 5000 {
		t.Errorf("Limit = %d, want 5000", rl.Limit)
	}
	if !rl.Known() || !rl.Exhausted() {
		t.Errorf("Known/Exhausted = %v/%v, want true/true", rl.Known(), rl.Exhausted())
	}
	if rl.Reset.Unix() != reset {
		t.Errorf("Reset = %v, want %d", rl.Reset, reset)
	}
	if w := rl.Wait(time.Now()); w <= 0 || w > time.Minute {
		t.Errorf("Wait() = %v, want (0, 1m]", w)
	}
}

func TestParseRateLimitMissingHeaders(t *testing.T) {
	rl := ParseRateLimit(http.Header{})
	if rl.Known() {
		t.Error("Known() = true for empty headers")
	}
	if rl.Exhausted() {
		t.Error("Exhausted() = true for empty headers")
	}
	if w := rl.Wait(time.Now()); w != 0 {
		t.Errorf("Wait() = %v, want 0", w)
	}
}

func TestRateLimitWaitPrefersRetryAfter(t *testing.T) {
	h := header(
		HeaderRetryAfter, "7",
		HeaderRateReset, strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10),
	)
	if w := ParseRateLimit(h).Wait(time.Now()); w != 7*time.Second {
		t.Errorf("Wait() = %v, want 7s", w)
	}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name   string
		status int
		h      http.Header
		want   bool
	}{
		{"429", http.StatusTooManyRequests, http.Header{}, true},
		{"403 exhausted", http.StatusForbidden, header(HeaderRateRemaining, "0"), true},
		{"403 retry-after", http.StatusForbidden, header(HeaderRetryAfter, "60"), true},
		{"403 quota left", http.StatusForbidden, header(HeaderRateRemaining, "12"), false},
		{"403 no headers", http.StatusForbidden, http.Header{}, false},
		{"200", http.StatusOK, header(HeaderRateRemaining, "0"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimited(tt.status, tt.h); got != tt.want {
				t.Errorf("IsRateLimited() = %v, want %v", got, tt.want)
			}
		})
	}
}
