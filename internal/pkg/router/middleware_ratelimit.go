package router

import (
	"net/http"
	"sync"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"golang.org/x/time/rate"
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiters struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	rps      rate.Limit
	burst    int
}

func (rl *rateLimiters) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter
}

func (rl *rateLimiters) sweep(olderThan time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, entry := range rl.limiters {
		if time.Since(entry.lastSeen) > olderThan {
			delete(rl.limiters, ip)
		}
	}
}

func middlewareRateLimit(cfg config.Config) Middleware {
	if cfg == nil || !cfg.GetBool("app.server.rate_limit.enabled") {
		return func(next http.Handler) http.Handler { return next }
	}

	rps := cfg.GetFloat64("app.server.rate_limit.rps")
	if rps <= 0 {
		rps = 10
	}
	burst := int(cfg.GetInt32("app.server.rate_limit.burst"))
	if burst <= 0 {
		burst = 20
	}

	rl := &rateLimiters{
		limiters: make(map[string]*ipLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			rl.sweep(3 * time.Minute)
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.get(r.RemoteAddr).Allow() {
				writeJSON(w, errorResponse{Message: "Too many requests"}, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
