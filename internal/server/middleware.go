package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/grammarstudio/internal/logging"
)

// CORS allows the configured browser origins.
func CORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}

// RequestLogger logs one line per request.
func RequestLogger(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		fields := []any{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if id := c.Param("id"); id != "" {
			fields = append(fields, "session_id", id)
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// Recovery turns panics into the JSON error envelope.
func Recovery(log *logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic in handler", "path", c.Request.URL.Path, "panic", recovered)
		RespondError(c, http.StatusInternalServerError, "internal", errors.New("internal server error"))
	})
}

// RateLimit rejects AI requests beyond the session's budget. It must run
// after the session has been resolved.
func RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		if sess != nil && sess.limiter != nil && !sess.limiter.Allow() {
			RespondError(c, http.StatusTooManyRequests, "rate_limited", errors.New("slow down, hero! too many requests"))
			return
		}
		c.Next()
	}
}

// RequireUnlocked rejects requests for a locked session. The studio tools
// keep their state while locked but cannot be read or used.
func RequireUnlocked() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sessionFrom(c).Studio.RequireUnlocked(); err != nil {
			RespondError(c, http.StatusConflict, "inactive_view", err)
			return
		}
		c.Next()
	}
}
