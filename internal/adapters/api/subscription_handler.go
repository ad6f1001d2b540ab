package api

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"invoice30sec.app/internal/core/newsletter"
	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

// SubscriptionRequest represents the HTTP request for a newsletter signup
type SubscriptionRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SubscriptionResponse is returned for a stored subscription
type SubscriptionResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// subscribe handles POST /api/subscribe requests
func (s *HTTPServerAdapter) subscribe(c *gin.Context) {
	var httpReq SubscriptionRequest
	if err := c.ShouldBindJSON(&httpReq); err != nil {
		s.logger.Debug("Subscription request binding error", ports.F("error", err))
		s.handleError(c, errors.NewValidationError(bindingMessage(err)))
		return
	}

	sub, err := s.newsletterUseCase.Subscribe(c.Request.Context(), newsletter.SubscribeParams{Email: httpReq.Email})
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubscriptionResponse{
		Success: true,
		ID:      sub.ID,
		Message: "Successfully subscribed to newsletter",
	})
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return "Invalid request body"
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return "Email is required"
		}
	}
	return "Invalid email address"
}
