package ratelimit

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/errors"
)

// Key is the storage key for endpoint and client ip.
func Key(endpoint, ip string) string {
	return "ratelimit:" + endpoint + ":" + ip
}

// Middleware limits each client IP to r on the named endpoint.
func (rl *RateLimiter) Middleware(endpoint string, r Rate) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		result, err := rl.Allow(c.Request.Context(), Key(endpoint, ip), r)
		if err != nil {
			// a broken limiter never blocks traffic
			slog.Error("Rate limit check failed", "endpoint", endpoint, "ip", ip, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			if rl.metrics != nil {
				rl.metrics.IncrementRateLimitBlock(endpoint)
			}
			retry := strconv.Itoa(int(math.Ceil(result.RetryAfter.Seconds())))
			c.Header("Retry-After", retry)
			errors.Respond(c, errors.NewRateLimitError(retry+"s"))
			return
		}

		c.Next()
	}
}
