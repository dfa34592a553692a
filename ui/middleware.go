package ui

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"corrplot/domain/core"
	apperrors "corrplot/internal/errors"
	"corrplot/internal/metrics"
	"corrplot/ui/middleware"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.CustomRecovery(s.recoverPanic))
	if gin.Mode() == gin.DebugMode {
		s.router.Use(gin.Logger())
	}
	s.router.Use(s.requestLogger())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		s.logger.Error("static filesystem unavailable", "error", err)
	} else {
		s.router.StaticFS("/static", http.FS(staticFS))
	}

	// health checks and metric scrapes do not get a session
	ensureSession := middleware.EnsureSession(s.store)
	s.router.Use(func(c *gin.Context) {
		switch c.Request.URL.Path {
		case "/healthz", "/metrics":
			c.Next()
			return
		}
		ensureSession(c)
	})
}

// recoverPanic answers a panicking handler with the JSON error body
func (s *Server) recoverPanic(c *gin.Context, recovered any) {
	s.logger.Error("handler panic", "path", c.Request.URL.Path, "panic", recovered)
	respondError(c, apperrors.InternalError(fmt.Sprintf("panic: %v", recovered)))
}

// uploadLimit applies the upload token bucket
func (s *Server) uploadLimit() gin.HandlerFunc {
	return middleware.RateLimit(s.limiter, func(c *gin.Context) {
		metrics.RecordUploadRateLimited()
		s.logger.Warn("upload rate limited", "session", sessionID(c))
		respondError(c, apperrors.RateLimited())
	})
}

// requestLogger logs API requests at debug level and failures at warn
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"elapsed_ms", float64(time.Since(start).Microseconds()) / 1000,
		}
		if err := c.Errors.Last(); err != nil {
			args = append(args, "error", err.Err)
		}
		if status >= http.StatusInternalServerError {
			s.logger.Warn("request failed", args...)
		} else {
			s.logger.Debug("request served", args...)
		}
	}
}

func sessionID(c *gin.Context) core.SessionID {
	return middleware.SessionID(c)
}
