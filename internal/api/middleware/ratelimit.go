package middleware

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"

	"github.com/delarge95/ai-news-aggregator-sub000/pkg/response"
)

// rateLimitEntry tracks requests for a single client
type rateLimitEntry struct {
	count     int
	resetTime time.Time
}

// RateLimiter is a fixed one-minute window limiter keyed by client
type RateLimiter struct {
	mu              sync.Mutex
	clients         map[string]*rateLimitEntry
	limit           int
	clock           clock.Clock
	cleanupInterval time.Duration
	nextCleanup     time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per minute
func NewRateLimiter(limit int, clk clock.Clock) *RateLimiter {
	if clk == nil {
		clk = clock.New()
	}
	return &RateLimiter{
		clients:         make(map[string]*rateLimitEntry),
		limit:           limit,
		clock:           clk,
		cleanupInterval: 5 * time.Minute,
		nextCleanup:     clk.Now().Add(5 * time.Minute),
	}
}

// sweep drops expired windows. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Before(rl.nextCleanup) {
		return
	}
	for key, entry := range rl.clients {
		if now.After(entry.resetTime) {
			delete(rl.clients, key)
		}
	}
	rl.nextCleanup = now.Add(rl.cleanupInterval)
}

// Allow checks if a request is allowed for the given client
func (rl *RateLimiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	rl.sweep(now)

	entry, exists := rl.clients[clientIP]
	if !exists || now.After(entry.resetTime) {
		rl.clients[clientIP] = &rateLimitEntry{
			count:     1,
			resetTime: now.Add(time.Minute),
		}
		return true
	}

	if entry.count >= rl.limit {
		return false
	}

	entry.count++
	return true
}

// Clients returns the number of tracked clients
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// RateLimitMiddleware creates rate limiting middleware. The burst is added
// on top of the per-minute allowance.
func RateLimitMiddleware(requestsPerMinute, burst int) gin.HandlerFunc {
	return RateLimitWithLimiter(NewRateLimiter(requestsPerMinute+max(burst, 0), nil))
}

// RateLimitWithLimiter wraps an existing limiter
func RateLimitWithLimiter(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			response.TooManyRequests(c, "Rate limit exceeded. Please try again later.")
			c.Abort()
			return
		}
		c.Next()
	}
}
