package httpserver

import (
	"testing"
)

func TestClientLimiter(t *testing.T) {
	limiter := newClientLimiter(60, 2)

	if !limiter.allow("10.0.0.1:1234") {
		t.Fatalf("first request should pass")
	}
	if !limiter.allow("10.0.0.1:1234") {
		t.Fatalf("second request within burst should pass")
	}
	if limiter.allow("10.0.0.1:1234") {
		t.Fatalf("third request should exceed burst")
	}

	// A different client has its own bucket.
	if !limiter.allow("10.0.0.2:1234") {
		t.Fatalf("other client should not be throttled")
	}
}

func TestClientLimiterDefaults(t *testing.T) {
	limiter := newClientLimiter(0, 0)
	if limiter.limit <= 0 {
		t.Fatalf("limit = %v, want positive default", limiter.limit)
	}
	if limiter.burst <= 0 {
		t.Fatalf("burst = %v, want positive default", limiter.burst)
	}
}
