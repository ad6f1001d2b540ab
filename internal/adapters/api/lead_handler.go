package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"invoice30sec.app/internal/core/lead"
	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

// LeadRequest is the survey form payload. Optional fields are pointers so
// absent values stay distinguishable from zero.
type LeadRequest struct {
	Email        string   `json:"email"`
	WillingToPay string   `json:"willingToPay"`
	Price        *float64 `json:"price"`
	Currency     *string  `json:"currency"`
	Reason       *string  `json:"reason"`
}

// leadEnvelope reads only the honeypot, so a bot payload is recognised
// before the other fields are type checked.
type leadEnvelope struct {
	Honeypot json.RawMessage `json:"honeypot"`
}

// LeadCreatedResponse is returned for accepted submissions. Honeypot hits get
// only the status.
type LeadCreatedResponse struct {
	ID          string     `json:"id,omitempty"`
	Status      string     `json:"status"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// LeadResponse is the admin view of a stored lead
type LeadResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	WillingToPay string    `json:"willingToPay"`
	Price        *float64  `json:"price,omitempty"`
	Currency     *string   `json:"currency,omitempty"`
	Reason       *string   `json:"reason,omitempty"`
	Country      string    `json:"country"`
	UserAgent    string    `json:"userAgent"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// LeadListResponse wraps a page of recent leads
type LeadListResponse struct {
	Count int             `json:"count"`
	Leads []*LeadResponse `json:"leads"`
}

// submitLead handles POST /api/leads requests
func (s *HTTPServerAdapter) submitLead(c *gin.Context) {
	var env leadEnvelope
	if err := c.ShouldBindBodyWith(&env, binding.JSON); err != nil {
		s.logger.Debug("Lead request binding error", ports.F("error", err))
		s.handleError(c, errors.NewValidationError("Invalid request body"))
		return
	}

	params := lead.SubmitParams{
		Country:   c.GetHeader(s.config.CountryHeader),
		UserAgent: c.GetHeader("User-Agent"),
	}

	if honeypot := honeypotValue(env.Honeypot); honeypot != "" {
		params.Submission = lead.Submission{Honeypot: honeypot}
	} else {
		var req LeadRequest
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			s.logger.Debug("Lead request binding error", ports.F("error", err))
			s.handleError(c, errors.NewValidationError("Invalid request body"))
			return
		}
		params.Submission = lead.Submission{
			Email:        req.Email,
			WillingToPay: req.WillingToPay,
			Price:        req.Price,
			Currency:     req.Currency,
			Reason:       req.Reason,
		}
	}

	result, err := s.leadUseCase.Submit(c.Request.Context(), params)
	if err != nil {
		s.handleError(c, err)
		return
	}

	if result.Ignored {
		c.JSON(http.StatusOK, LeadCreatedResponse{Status: "ok"})
		return
	}

	submittedAt := result.Lead.SubmittedAt
	c.JSON(http.StatusOK, LeadCreatedResponse{
		ID:          result.Lead.ID,
		Status:      "ok",
		SubmittedAt: &submittedAt,
	})
}

// listLeads handles GET /api/leads requests
func (s *HTTPServerAdapter) listLeads(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := parseLimit(raw)
		if err != nil || n <= 0 {
			s.handleError(c, errors.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	leads, err := s.leadUseCase.ListRecent(c.Request.Context(), lead.ListParams{Limit: limit})
	if err != nil {
		s.handleError(c, err)
		return
	}

	resp := LeadListResponse{Count: len(leads), Leads: make([]*LeadResponse, 0, len(leads))}
	for _, l := range leads {
		resp.Leads = append(resp.Leads, toLeadResponse(l))
	}
	c.JSON(http.StatusOK, resp)
}

// getLead handles GET /api/leads/:id requests
func (s *HTTPServerAdapter) getLead(c *gin.Context) {
	l, err := s.leadUseCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLeadResponse(l))
}

func toLeadResponse(l *lead.Lead) *LeadResponse {
	resp := &LeadResponse{
		ID:           l.ID,
		Email:        l.Email,
		WillingToPay: l.Answer.WillingToPay().String(),
		Country:      l.Country,
		UserAgent:    l.UserAgent,
		SubmittedAt:  l.SubmittedAt,
	}
	if price, currency, ok := l.Price(); ok {
		resp.Price = &price
		resp.Currency = &currency
	}
	if reason, ok := l.Reason(); ok {
		resp.Reason = &reason
	}
	return resp
}

// honeypotValue returns the honeypot as text, or "" when the value is falsy:
// absent, null, false, 0 or the empty string.
func honeypotValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}

	switch string(raw) {
	case "null", "false":
		return ""
	}
	if n, err := strconv.ParseFloat(string(raw), 64); err == nil && n == 0 {
		return ""
	}
	return string(raw)
}

// parseLimit parses a limit query value. Digit strings too large for an int
// become math.MaxInt and are clamped later.
func parseLimit(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange &&
		strings.Trim(raw, "0123456789") == "" {
		return math.MaxInt, nil
	}
	return n, err
}
