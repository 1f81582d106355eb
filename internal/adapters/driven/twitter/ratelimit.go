package twitter

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// SearchWindowLimit is the remote quota for the search endpoint
	// (450 requests per 15-minute window with app auth).
	SearchWindowLimit = 450

	// ProactiveRate throttles below the quota (~0.5 req/sec = 450/15min).
	ProactiveRate = 0.5

	// MinBuffer is the minimum remaining requests before waiting for reset.
	MinBuffer = 5

	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "x-rate-limit-limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "x-rate-limit-remaining"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "x-rate-limit-reset"
)

// RateLimiter implements dual-strategy rate limiting for the search API:
// a proactive token bucket plus reactive backoff from response headers.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int
	limit     int
	resetTime time.Time
	bucket    *rate.Limiter
	minBuffer int
}

// NewRateLimiter creates a rate limiter sized to the search quota.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		remaining: SearchWindowLimit, // Assume full quota initially
		limit:     SearchWindowLimit,
		bucket:    rate.NewLimiter(rate.Limit(ProactiveRate), 1),
		minBuffer: MinBuffer,
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	remaining := r.remaining
	resetTime := r.resetTime
	r.mu.Unlock()

	if remaining < r.minBuffer && time.Now().Before(resetTime) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(resetTime)):
		}
	}

	return nil
}

// UpdateFromResponse refreshes the reactive state from quota headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v := resp.Header.Get(HeaderRateLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.limit = n
		}
	}
	if v := resp.Header.Get(HeaderRateRemaining); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.remaining = n
		}
	}
	if v := resp.Header.Get(HeaderRateReset); v != "" {
		if sec, err := strconv.ParseInt(v, 10, 64); err == nil {
			r.resetTime = time.Unix(sec, 0)
		}
	}
}

// Remaining returns the last reported remaining quota.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}
