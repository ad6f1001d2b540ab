package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"invoice30sec.app/internal/ports"
	errorspkg "invoice30sec.app/pkg/errors"
)

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// handleError handles different types of application errors. Causes are
// logged, never returned to the client.
func (s *HTTPServerAdapter) handleError(c *gin.Context, err error) {
	var appErr *errorspkg.AppError
	if !errors.As(err, &appErr) {
		s.logFailure(c, http.StatusInternalServerError, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	var statusCode int
	response := ErrorResponse{}

	switch appErr.Type {
	case errorspkg.ValidationError:
		if appErr.HasFields() {
			statusCode = http.StatusUnprocessableEntity
			response.Error = "Validation failed"
			response.Details = appErr.Fields
		} else {
			statusCode = http.StatusBadRequest
			response.Error = appErr.Message
		}
	case errorspkg.NotFoundError:
		statusCode = http.StatusNotFound
		response.Error = appErr.Message
	case errorspkg.RateLimitError:
		statusCode = http.StatusTooManyRequests
		response.Error = appErr.Message
	case errorspkg.UnauthorizedError:
		statusCode = http.StatusUnauthorized
		response.Error = "Unauthorized"
	case errorspkg.ConfigurationError:
		statusCode = http.StatusServiceUnavailable
		response.Error = "Service unavailable"
	case errorspkg.ExternalAPIError:
		statusCode = http.StatusServiceUnavailable
		response.Error = "External service unavailable"
	case errorspkg.DatabaseError:
		statusCode = http.StatusInternalServerError
		response.Error = "Internal server error"
	default:
		statusCode = http.StatusInternalServerError
		response.Error = "Internal server error"
	}

	if statusCode >= http.StatusInternalServerError {
		s.logFailure(c, statusCode, err)
	}
	c.JSON(statusCode, response)
}

func (s *HTTPServerAdapter) logFailure(c *gin.Context, status int, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Error("Request failed",
		ports.F("request_id", c.GetString(requestIDKey)),
		ports.F("path", c.Request.URL.Path),
		ports.F("status", status),
		ports.F("error", err))
}
