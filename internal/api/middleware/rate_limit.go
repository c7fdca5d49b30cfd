package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joban727/medstintapp-sub005/pkg/ratelimit"
	"github.com/joban727/medstintapp-sub005/pkg/response"
)

// KeyFunc derives the rate-limit bucket for a request.
type KeyFunc func(c *gin.Context) string

// ByClientIP buckets per client IP and route.
func ByClientIP(c *gin.Context) string {
	return c.ClientIP() + ":" + c.FullPath()
}

// RateLimit rejects requests over the limiter's budget with 429.
// A limiter error lets the request through.
func RateLimit(limiter ratelimit.Limiter, key KeyFunc, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), key(c))
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			response.TooManyRequests(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
