package middlewares

import (
	"net/http"

	"learnwords/internal/ratelimit"
	"learnwords/logger"

	"github.com/gin-gonic/gin"
)

// RateLimit throttles per authenticated user. A nil limiter disables it, and
// limiter errors fail open so a Redis outage never blocks learners.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), UserID(c))
		if err != nil {
			logger.Warn("rate limiter unavailable", "error", err, "request_id", RequestID(c))
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Rate limit exceeded. Please try again later."})
			return
		}
		c.Next()
	}
}
