// internal/middleware/ratelimit_middleware.go
package middleware

import (
	"net/http"
	"time"

	xerrors "streambox-service/internal/pkg/errors"
	"streambox-service/internal/pkg/ratelimit"
	"streambox-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitMiddleware limits each client IP to maxRPM requests per minute.
// Redis failures let the request through; the limiter must not take the API
// down with it.
func RateLimitMiddleware(limiter *ratelimit.Limiter, maxRPM int64, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP(), maxRPM, time.Minute)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, "too many requests", xerrors.ErrRateLimited)
			return
		}

		c.Next()
	}
}
