// Package ratelimit throttles credential endpoints per caller.
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/amitrajade/vidtube-be/internal/api/response"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PerKey keeps one token bucket per key and sweeps idle entries.
type PerKey struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    time.Duration
	burst    int
}

// New creates a limiter allowing one request per `every` with the given
// burst, per key. A background goroutine sweeps entries idle for an hour.
func New(every time.Duration, burst int) *PerKey {
	p := &PerKey{
		visitors: make(map[string]*visitor),
		every:    every,
		burst:    burst,
	}
	go p.sweep()
	return p
}

// Allow reports whether the caller identified by key may proceed.
func (p *PerKey) Allow(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	v, ok := p.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(p.every), p.burst)}
		p.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

func (p *PerKey) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-time.Hour)
		p.mu.Lock()
		for key, v := range p.visitors {
			if v.lastSeen.Before(cutoff) {
				delete(p.visitors, key)
			}
		}
		p.mu.Unlock()
	}
}

// Middleware throttles by client IP, answering 429 with the standard
// error envelope when the bucket is empty.
func (p *PerKey) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !p.Allow(ip) {
			response.Fail(w, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}
