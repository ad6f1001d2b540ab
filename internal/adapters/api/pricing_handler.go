package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"invoice30sec.app/internal/core/pricing"
	"invoice30sec.app/internal/ports"
)

const pricingCacheControl = "public, s-maxage=43200, stale-while-revalidate=86400"

// getPricing handles GET /api/pricing requests. It always answers 200; a
// failed lookup falls back to the default pricing.
func (s *HTTPServerAdapter) getPricing(c *gin.Context) {
	code := c.GetHeader(s.config.CountryHeader)

	result, err := s.pricingUseCase.Lookup(c.Request.Context(), code)
	if err != nil || result == nil {
		s.logger.Warn("Pricing lookup failed, serving default", ports.F("country", code), ports.F("error", err))
		country := pricing.NormalizeCountry(code)
		if country == "" {
			country = pricing.UnknownCountry
		}
		result = &pricing.Result{Country: country, Pricing: pricing.DefaultConfig()}
	}

	c.Header("Cache-Control", pricingCacheControl)
	c.JSON(http.StatusOK, result)
}
