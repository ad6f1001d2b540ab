package newsletter

import (
	"time"

	"invoice30sec.app/pkg/validation"
)

// Subscription is a newsletter signup. An email maps to at most one row.
type Subscription struct {
	ID             string
	Email          string
	IsActive       bool
	SubscribedAt   time.Time
	UnsubscribedAt *time.Time
}

// SubscribeParams carries the raw client input
type SubscribeParams struct {
	Email string
}

// Validate returns the user-facing message for an unusable address, or ""
func (p SubscribeParams) Validate() string {
	if !validation.IsNotEmpty(p.Email) {
		return "Email is required"
	}
	if !validation.IsValidEmail(p.Email) {
		return "Invalid email address"
	}
	return ""
}

// Normalize trims and lower-cases the email in place
func (p *SubscribeParams) Normalize() {
	p.Email = validation.NormalizeEmail(p.Email)
}
