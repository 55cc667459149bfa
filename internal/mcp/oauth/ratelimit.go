package oauth

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter implements a token bucket rate limiter keyed by client IP.
type RateLimiter struct {
	mu         sync.RWMutex
	limiters   map[string]*bucket
	rate       int           // tokens per second
	burst      int           // max burst size
	cleanup    time.Duration // interval between sweeps of inactive buckets
	trustProxy bool          // whether to trust proxy headers
	logger     *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
}

// bucket holds the token count for a single client.
type bucket struct {
	tokens     float64
	lastUpdate time.Time
	mu         sync.Mutex
}

// NewRateLimiter creates a rate limiter allowing rate tokens per second with
// the given burst capacity. Buckets idle longer than
// InactiveLimiterCleanupWindow are swept every cleanupInterval.
func NewRateLimiter(rate, burst int, trustProxy bool, cleanupInterval time.Duration, logger *slog.Logger) *RateLimiter {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultRateLimitCleanupInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	rl := &RateLimiter{
		limiters:   make(map[string]*bucket),
		rate:       rate,
		burst:      burst,
		cleanup:    cleanupInterval,
		trustProxy: trustProxy,
		logger:     logger,
		stopCh:     make(chan struct{}),
	}

	go rl.cleanupInactiveLimiters()

	return rl
}

// Allow reports whether a request from the given IP should be admitted,
// consuming a token if so.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.RLock()
	b, exists := rl.limiters[ip]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		// Re-check under the write lock; another request for the same IP
		// may have created the bucket in the meantime.
		b, exists = rl.limiters[ip]
		if !exists {
			b = &bucket{
				tokens:     float64(rl.burst),
				lastUpdate: time.Now(),
			}
			rl.limiters[ip] = b
		}
		rl.mu.Unlock()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastUpdate).Seconds()

	b.tokens += elapsed * float64(rl.rate)
	if b.tokens > float64(rl.burst) {
		b.tokens = float64(rl.burst)
	}
	b.lastUpdate = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}

	return false
}

// Stop terminates the background cleanup goroutine. Safe to call more than
// once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
	})
}

// cleanupInactiveLimiters periodically removes buckets that have not been
// touched within InactiveLimiterCleanupWindow.
func (rl *RateLimiter) cleanupInactiveLimiters() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			removed := 0
			for ip, b := range rl.limiters {
				b.mu.Lock()
				if now.Sub(b.lastUpdate) > InactiveLimiterCleanupWindow {
					delete(rl.limiters, ip)
					removed++
				}
				b.mu.Unlock()
			}
			remaining := len(rl.limiters)
			rl.mu.Unlock()

			if removed > 0 {
				rl.logger.Debug("cleaned up inactive rate limiters",
					"removed", removed,
					"remaining", remaining)
			}
		}
	}
}

// RateLimitMiddleware applies per-IP rate limiting before invoking next.
func (h *Handler) RateLimitMiddleware(next http.Handler) http.Handler {
	if h.rateLimiter == nil {
		// No rate limiter configured, pass through
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r, h.rateLimiter.trustProxy)

		if !h.rateLimiter.Allow(ip) {
			if h.auditLogger != nil {
				h.auditLogger.LogRateLimitExceeded(ip, "")
			}
			w.Header().Set("Retry-After", "1")
			h.writeError(w, "rate_limit_exceeded",
				fmt.Sprintf("Rate limit exceeded for %s. Please try again later", ip),
				http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP address from the request. Proxy headers
// are only honored when trustProxy is set: X-Forwarded-For yields the LAST
// entry (appended by the trusted proxy; earlier entries are client-supplied
// and spoofable), then X-Real-IP, then RemoteAddr.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if ip := strings.TrimSpace(parts[len(parts)-1]); ip != "" {
				return ip
			}
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	// RemoteAddr is "IP:port"; it comes from the accepted connection and
	// cannot be spoofed.
	return extractIPFromAddr(r.RemoteAddr)
}

// extractIPFromAddr strips the port from an "IP:port" address, handling
// bracketed IPv6 literals.
func extractIPFromAddr(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
