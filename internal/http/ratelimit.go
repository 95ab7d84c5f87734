package httpserver

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter keeps a token bucket per client address for mutating routes.
type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientBucket
	limit    rate.Limit
	burst    int
}

type clientBucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

const limiterIdleEviction = 10 * time.Minute

func newClientLimiter(perMin, burst int) *clientLimiter {
	if perMin <= 0 {
		perMin = 120
	}
	if burst <= 0 {
		burst = perMin
	}
	return &clientLimiter{
		limiters: make(map[string]*clientBucket),
		limit:    rate.Limit(float64(perMin) / 60.0),
		burst:    burst,
	}
}

func (c *clientLimiter) allow(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	bucket, ok := c.limiters[key]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.limiters[key] = bucket
	}
	bucket.lastAccess = now

	// Opportunistic cleanup keeps the map from growing unbounded.
	for addr, b := range c.limiters {
		if now.Sub(b.lastAccess) > limiterIdleEviction {
			delete(c.limiters, addr)
		}
	}

	return bucket.limiter.Allow()
}

// rateLimit guards mutating routes with a per-client token bucket.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(r.RemoteAddr) {
			s.respondError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
