package httpdelivery

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// maxTrackedClients bounds the bucket map; full buckets are dropped first.
const maxTrackedClients = 10000

// RateLimiter implements a token bucket rate limiter per client address.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	refillRate float64 // tokens per second
	maxTokens  float64
	pathLimits map[string]float64
	now        func() time.Time
}

type bucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64
	lastRefill time.Time
}

// NewRateLimiter creates a new rate limiter. A burst smaller than the rate
// defaults to twice the rate.
func NewRateLimiter(requestsPerSecond, burst int) *RateLimiter {
	rate := float64(requestsPerSecond)
	maxTokens := float64(burst)
	if maxTokens < rate {
		maxTokens = rate * 2
	}
	return &RateLimiter{
		buckets:    make(map[string]*bucket),
		refillRate: rate,
		maxTokens:  maxTokens,
		pathLimits: map[string]float64{
			// Auth: strict limits to prevent brute force
			"/api/v1/auth/login":    5,
			"/api/v1/auth/register": 5,
			// Uploads are expensive
			"/api/v1/providers/documents": 2,
		},
		now: time.Now,
	}
}

// Allow checks if a request from client to path is allowed.
func (rl *RateLimiter) Allow(client, path string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	key, rate, maxTokens := client, rl.refillRate, rl.maxTokens
	if class, limit, ok := rl.limitFor(path); ok {
		key = client + "|" + class
		rate, maxTokens = limit, limit*2
	}

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		if len(rl.buckets) >= maxTrackedClients {
			rl.evict(now)
		}
		b = &bucket{tokens: maxTokens, maxTokens: maxTokens, refillRate: rate, lastRefill: now}
		rl.buckets[key] = b
	}

	// Refill tokens
	b.refill(now)

	// Check if we have tokens
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// limitFor returns the strict limit class of path, if any. Document uploads
// are matched on their last segment since the provider id varies.
func (rl *RateLimiter) limitFor(path string) (string, float64, bool) {
	if limit, ok := rl.pathLimits[path]; ok {
		return path, limit, true
	}
	if strings.HasPrefix(path, "/api/v1/providers/") && strings.HasSuffix(path, "/documents") {
		class := "/api/v1/providers/documents"
		return class, rl.pathLimits[class], true
	}
	return "", 0, false
}

func (rl *RateLimiter) evict(now time.Time) {
	for key, b := range rl.buckets {
		b.refill(now)
		if b.tokens >= b.maxTokens {
			delete(rl.buckets, key)
		}
	}
}

func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * b.refillRate
	if b.tokens > b.maxTokens {
		b.tokens = b.maxTokens
	}
	b.lastRefill = now
}

// clientAddress returns the caller address, preferring the first
// X-Forwarded-For entry set by the ingress.
func clientAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
