package api

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiters idle for longer than this are dropped on the next prune.
const visitorIdleTimeout = 30 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// sessionRateLimiter throttles route computation per session. Each route
// costs O(k²) shortest-path queries, so one session must not starve others.
type sessionRateLimiter struct {
	limit rate.Limit
	burst int

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastPrune time.Time
	now       func() time.Time
}

func newSessionRateLimiter(limit rate.Limit, burst int) *sessionRateLimiter {
	return &sessionRateLimiter{
		limit:    limit,
		burst:    burst,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (rl *sessionRateLimiter) getVisitor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPrune) > visitorIdleTimeout {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > visitorIdleTimeout {
				delete(rl.visitors, k)
			}
		}
		rl.lastPrune = now
	}

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Wrap rejects requests over the session's budget with 429.
func (rl *sessionRateLimiter) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.getVisitor(r.PathValue("id")).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded, please slow down"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
