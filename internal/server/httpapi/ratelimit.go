package httpapi

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	limiterCacheSize = 10000
	limiterIdleTTL   = 10 * time.Minute
)

// ipRateLimiter keeps a token bucket per client IP. Idle buckets are
// evicted after limiterIdleTTL.
type ipRateLimiter struct {
	mu        sync.Mutex
	perMinute int
	limiters  *expirable.LRU[string, *rate.Limiter]
}

func newIPRateLimiter(perMinute int) *ipRateLimiter {
	return &ipRateLimiter{
		perMinute: perMinute,
		limiters:  expirable.NewLRU[string, *rate.Limiter](limiterCacheSize, nil, limiterIdleTTL),
	}
}

func (l *ipRateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters.Get(key); ok {
		// refresh the idle deadline
		l.limiters.Add(key, lim)
		return lim
	}
	lim := rate.NewLimiter(rate.Limit(float64(l.perMinute)/60.0), l.perMinute)
	l.limiters.Add(key, lim)
	return lim
}

func (l *ipRateLimiter) Allow(key string) bool {
	return l.limiter(key).Allow()
}

func (l *ipRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(60/max(l.perMinute, 1)+1))
			writeJSON(w, http.StatusTooManyRequests, errorBody{"rate_limited", "Too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
