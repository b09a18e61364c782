// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

type RateLimiter struct {
	ips            map[string]*rate.Limiter
	blockedIPs     map[string]time.Time
	mu             *sync.RWMutex
	defaultLimit   rate.Limit
	defaultBurst   int
	blockDuration  time.Duration
	endpointLimits map[string]endpointLimit
	now            func() time.Time
	done           chan struct{}
	stopOnce       sync.Once
}

// NewRateLimiter limits each client IP to rps requests per second with the
// given burst. Clients that exceed it are blocked for a few minutes.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	limiter := &RateLimiter{
		ips:            make(map[string]*rate.Limiter),
		blockedIPs:     make(map[string]time.Time),
		mu:             &sync.RWMutex{},
		defaultLimit:   rate.Limit(rps),
		defaultBurst:   burst,
		blockDuration:  5 * time.Minute,
		endpointLimits: make(map[string]endpointLimit),
		now:            time.Now,
		done:           make(chan struct{}),
	}

	// Credential endpoints get strict limits against brute force
	limiter.endpointLimits["/api/auth/login"] = endpointLimit{
		limit: rate.Every(2 * time.Second),
		burst: 5,
	}
	limiter.endpointLimits["/api/auth/register"] = endpointLimit{
		limit: rate.Every(500 * time.Millisecond),
		burst: 5,
	}
	limiter.endpointLimits["/api/auth/otp/verify"] = endpointLimit{
		limit: rate.Every(2 * time.Second),
		burst: 5,
	}
	limiter.endpointLimits["/api/auth/password/reset"] = endpointLimit{
		limit: rate.Every(2 * time.Second),
		burst: 5,
	}

	go limiter.cleanupBlockedIPs()

	return limiter
}

// SetEndpointLimit overrides the limit for one route path.
func (r *RateLimiter) SetEndpointLimit(path string, limit rate.Limit, burst int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpointLimits[path] = endpointLimit{limit: limit, burst: burst}
}

// Stop ends the cleanup loop.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

func (r *RateLimiter) cleanupBlockedIPs() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
		}
		r.mu.Lock()
		now := r.now()
		for ip, blockUntil := range r.blockedIPs {
			if now.After(blockUntil) {
				r.forget(ip)
			}
		}
		r.mu.Unlock()
	}
}

func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			// Liveness probes and the socket upgrade are not limited
			p := c.Request().URL.Path
			if p == "/health" || strings.HasPrefix(p, "/api/ws") {
				return next(c)
			}

			r.mu.Lock()
			if blockUntil, blocked := r.blockedIPs[ip]; blocked {
				if r.now().Before(blockUntil) {
					r.mu.Unlock()
					return c.JSON(http.StatusTooManyRequests, map[string]string{
						"message":    "IP address blocked due to too many requests",
						"retryAfter": blockUntil.Format(time.RFC3339),
					})
				}
				r.forget(ip)
			}
			limit, burst := r.defaultLimit, r.defaultBurst
			if el, exists := r.endpointLimits[c.Path()]; exists {
				limit, burst = el.limit, el.burst
			}
			r.mu.Unlock()

			limiter := r.getLimiter(ip+"|"+c.Path(), limit, burst)
			if !limiter.Allow() {
				until := r.now().Add(r.blockDuration)
				r.mu.Lock()
				r.blockedIPs[ip] = until
				r.mu.Unlock()

				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"message":    "Too many requests",
					"retryAfter": until.Format(time.RFC3339),
				})
			}

			return next(c)
		}
	}
}

// forget drops the block and every limiter of ip. Callers hold mu.
func (r *RateLimiter) forget(ip string) {
	delete(r.blockedIPs, ip)
	prefix := ip + "|"
	for key := range r.ips {
		if strings.HasPrefix(key, prefix) {
			delete(r.ips, key)
		}
	}
}

func (r *RateLimiter) getLimiter(key string, limit rate.Limit, burst int) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, exists := r.ips[key]
	if !exists {
		limiter = rate.NewLimiter(limit, burst)
		r.ips[key] = limiter
	}
	return limiter
}
