package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baabuu/storefront/internal/pkg/ratelimit"
)

// RateLimited throttles a route per client IP. Used on the payment
// endpoints, which are reachable without a session.
func RateLimited(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
