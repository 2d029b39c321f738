package http

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/askbar/askbar/internal/infra/cache"
	"github.com/askbar/askbar/internal/infra/config"
)

const requestIDHeader = "X-Request-ID"

func errorHandlingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		httpErr := asHTTPError(c.Errors.Last().Err)
		message := httpErr.Message
		if message == "" {
			message = httpErr.Error()
		}

		if httpErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed", "code", httpErr.Code, "status", httpErr.Status, "path", c.Request.URL.Path, "error", httpErr.Err)
		} else {
			logger.Warn("request failed", "code", httpErr.Code, "status", httpErr.Status, "path", c.Request.URL.Path, "error", httpErr.Err)
		}

		c.JSON(httpErr.Status, gin.H{
			"error": gin.H{
				"code":    httpErr.Code,
				"message": message,
			},
		})
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"request_id", c.GetString("request_id"),
		)
	}
}

// rateLimitMiddleware enforces a fixed window per client IP. The counter
// lives in the shared cache so every replica sees the same window.
func rateLimitMiddleware(cfg config.RateLimitConfig, counters cache.Cache, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || cfg.MaxRequests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		key := fmt.Sprintf("ratelimit:%s", ip)
		count, err := counters.Incr(c.Request.Context(), key, cfg.Window)
		if err != nil {
			// A broken limiter must not take the widget down.
			logger.Warn("rate limit counter failed", "error", err)
			c.Next()
			return
		}
		if count > int64(cfg.MaxRequests) {
			logger.Warn("rate limit exceeded", "ip", ip, "path", c.Request.URL.Path)
			abortWithError(c, NewHTTPError(http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests", nil))
			return
		}
		c.Next()
	}
}

// adminAuthMiddleware guards maintenance endpoints with a static bearer
// token. An empty configured token disables the endpoints entirely.
func adminAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "not found", nil))
			return
		}
		presented := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid admin token", nil))
			return
		}
		c.Next()
	}
}
