package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"invoice30sec.app/internal/ports"
)

// HealthResponse reports the aggregate status and every component check
type HealthResponse struct {
	Status     string                        `json:"status"`
	Components map[string]ports.HealthStatus `json:"components"`
}

// getHealth handles GET /api/health requests
func (s *HTTPServerAdapter) getHealth(c *gin.Context) {
	components := s.healthChecker.CheckAll(c.Request.Context())

	status, code := ports.StatusHealthy, http.StatusOK
	for _, component := range components {
		if component.Status != ports.StatusHealthy {
			status, code = ports.StatusUnhealthy, http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, HealthResponse{Status: status, Components: components})
}
