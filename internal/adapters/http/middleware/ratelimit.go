package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/dto"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
)

const (
	// maxRateLimitClients bounds the number of tracked client addresses.
	maxRateLimitClients = 10000

	// rateLimitIdleTTL drops a client's limiter after this long without requests.
	// Every request renews the entry.
	rateLimitIdleTTL = 5 * time.Minute
)

// clientLimiter hands out one token bucket per client key.
type clientLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newClientLimiter(requestsPerMin int, idleTTL time.Duration) *clientLimiter {
	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}

	return &clientLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](maxRateLimitClients, nil, idleTTL),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burst,
	}
}

func (l *clientLimiter) allow(key string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
	}
	// Add resets the entry's TTL; Get does not.
	l.limiters.Add(key, limiter)
	l.mu.Unlock()

	return limiter.Allow()
}

// RateLimit returns middleware that limits each client IP to requestsPerMin
// requests per minute, with a burst of a tenth of that.
// Rejected requests get 429 with the standard error envelope.
// A non-positive requestsPerMin disables limiting.
func RateLimit(requestsPerMin int) gin.HandlerFunc {
	if requestsPerMin <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newClientLimiter(requestsPerMin, rateLimitIdleTTL)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if limiter.allow(ip) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		logging.FromContext(ctx).WarnContext(ctx, "rate limit exceeded",
			slog.String("client_ip", ip),
			slog.String("path", c.Request.URL.Path),
		)

		dto.AbortWithErrorCode(c, dto.ErrorCodeRateLimited, "too many requests")
	}
}
