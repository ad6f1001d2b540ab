package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

const requestIDKey = "request_id"

// requestID reuses a client-supplied X-Request-ID or generates one
func (s *HTTPServerAdapter) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *HTTPServerAdapter) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []ports.Field{
			ports.F("request_id", c.GetString(requestIDKey)),
			ports.F("method", c.Request.Method),
			ports.F("path", c.Request.URL.Path),
			ports.F("status", c.Writer.Status()),
			ports.F("duration_ms", time.Since(start).Milliseconds()),
			ports.F("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			s.logger.Warn("HTTP request", fields...)
			return
		}
		s.logger.Info("HTTP request", fields...)
	}
}

func (s *HTTPServerAdapter) requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

func (s *HTTPServerAdapter) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		s.logger.Error("Panic while handling request",
			ports.F("request_id", c.GetString(requestIDKey)),
			ports.F("path", c.Request.URL.Path),
			ports.F("panic", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	})
}

// requireAdmin compares the x-admin-secret header in constant time. With no
// secret configured every request is rejected.
func (s *HTTPServerAdapter) requireAdmin() gin.HandlerFunc {
	expected := []byte(s.config.AdminSecret)

	return func(c *gin.Context) {
		provided := []byte(c.GetHeader(adminSecretHeader))
		if len(expected) == 0 || subtle.ConstantTimeCompare(provided, expected) != 1 {
			s.handleError(c, errors.NewUnauthorizedError())
			c.Abort()
			return
		}
		c.Next()
	}
}
