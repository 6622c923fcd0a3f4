package handler

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studiokit/backend/internal/config"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware applies a flat process-wide throttle: one token bucket
// shared by every caller, no per-user accounting.
func RateLimitMiddleware(cfg config.RateLimitConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			retryAfterSec := int(math.Ceil(1.0 / cfg.RequestsPerSecond))
			if retryAfterSec < 1 {
				retryAfterSec = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfterSec))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
