package lead

import (
	"encoding/json"
	"strings"
	"time"

	"invoice30sec.app/pkg/validation"
)

// Unknown is stored when a request carries no country or user agent signal
const Unknown = "Unknown"

// WillingToPay represents the visitor's answer to the pricing question
type WillingToPay int

const (
	WillingToPayUnknown WillingToPay = iota
	WillingToPayYes
	WillingToPayMaybe
	WillingToPayNo
)

// String returns the string representation of the answer
func (w WillingToPay) String() string {
	switch w {
	case WillingToPayYes:
		return "yes"
	case WillingToPayMaybe:
		return "maybe"
	case WillingToPayNo:
		return "no"
	default:
		return "unknown"
	}
}

// IsValid checks if the value is one of the three survey answers
func (w WillingToPay) IsValid() bool {
	return w == WillingToPayYes || w == WillingToPayMaybe || w == WillingToPayNo
}

// WillingToPayFromString converts string to WillingToPay enum
func WillingToPayFromString(s string) WillingToPay {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return WillingToPayYes
	case "maybe":
		return WillingToPayMaybe
	case "no":
		return WillingToPayNo
	default:
		return WillingToPayUnknown
	}
}

// MarshalJSON implements json.Marshaler interface
func (w WillingToPay) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}

// UnmarshalJSON implements json.Unmarshaler interface
func (w *WillingToPay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*w = WillingToPayFromString(s)
	return nil
}

// Answer is the closed set of survey outcomes. Each variant carries only the
// fields that are meaningful for it.
type Answer interface {
	WillingToPay() WillingToPay
	sealed()
}

// YesAnswer is an early-access commitment at the fixed price
type YesAnswer struct {
	Price    float64
	Currency string
}

// MaybeAnswer is a conditional interest at a visitor-chosen price
type MaybeAnswer struct {
	Price    float64
	Currency string
}

// NoAnswer is a refusal with the visitor's reason
type NoAnswer struct {
	Reason string
}

func (YesAnswer) WillingToPay() WillingToPay   { return WillingToPayYes }
func (MaybeAnswer) WillingToPay() WillingToPay { return WillingToPayMaybe }
func (NoAnswer) WillingToPay() WillingToPay    { return WillingToPayNo }

func (YesAnswer) sealed()   {}
func (MaybeAnswer) sealed() {}
func (NoAnswer) sealed()    {}

// Lead represents one persisted survey response
type Lead struct {
	ID          string
	Email       string
	Answer      Answer
	Country     string
	UserAgent   string
	SubmittedAt time.Time
}

// Price returns the price and currency of the answer, if it has one
func (l *Lead) Price() (float64, string, bool) {
	switch a := l.Answer.(type) {
	case YesAnswer:
		return a.Price, a.Currency, true
	case MaybeAnswer:
		return a.Price, a.Currency, true
	default:
		return 0, "", false
	}
}

// Reason returns the refusal reason, if the answer is NoAnswer
func (l *Lead) Reason() (string, bool) {
	if a, ok := l.Answer.(NoAnswer); ok {
		return a.Reason, true
	}
	return "", false
}

// Policy holds the configurable intake rules
type Policy struct {
	YesPrice         float64
	DefaultCurrency  string
	RateLimitEnabled bool
	RateLimitWindow  time.Duration
	DefaultListLimit int
	MaxListLimit     int
}

// DefaultPolicy mirrors the shipped landing page behaviour
func DefaultPolicy() Policy {
	return Policy{
		YesPrice:         199,
		DefaultCurrency:  "INR",
		RateLimitEnabled: true,
		RateLimitWindow:  60 * time.Second,
		DefaultListLimit: 50,
		MaxListLimit:     200,
	}
}

// FieldErrors maps request field names to user-facing messages
type FieldErrors map[string]string

// Submission is the client payload before validation. Optional fields are
// pointers so that "absent" and "zero" can be told apart.
type Submission struct {
	Email        string
	WillingToPay string
	Price        *float64
	Currency     *string
	Reason       *string
	Honeypot     string
}

// IsBot reports whether the hidden honeypot field was filled in. Any
// non-empty value counts, whitespace included.
func (s Submission) IsBot() bool {
	return s.Honeypot != ""
}

// Validate checks the payload and builds the matching Answer
func (s Submission) Validate(policy Policy) (Answer, FieldErrors) {
	errs := FieldErrors{}

	if !validation.IsNotEmpty(s.Email) {
		errs["email"] = "Email is required"
	} else if !validation.IsValidEmail(s.Email) {
		errs["email"] = "Invalid email address"
	}

	wtp := WillingToPayFromString(s.WillingToPay)
	switch {
	case !validation.IsNotEmpty(s.WillingToPay):
		errs["willingToPay"] = "Please select an option"
	case !wtp.IsValid():
		errs["willingToPay"] = "Invalid option"
	}

	var answer Answer
	switch wtp {
	case WillingToPayYes:
		answer = YesAnswer{Price: policy.YesPrice, Currency: s.currencyOr(policy.DefaultCurrency)}
	case WillingToPayMaybe:
		if s.Price == nil || *s.Price <= 0 {
			errs["price"] = "Please select a price option"
			break
		}
		answer = MaybeAnswer{Price: *s.Price, Currency: s.currencyOr(policy.DefaultCurrency)}
	case WillingToPayNo:
		reason, ok := "", false
		if s.Reason != nil {
			reason, ok = validation.TrimAndValidate(*s.Reason)
		}
		if !ok {
			errs["reason"] = "Please select a reason"
			break
		}
		answer = NoAnswer{Reason: reason}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return answer, nil
}

func (s Submission) currencyOr(fallback string) string {
	if s.Currency != nil {
		if c, ok := validation.TrimAndValidate(*s.Currency); ok {
			return strings.ToUpper(c)
		}
	}
	return fallback
}

// NewLead creates a lead stamped with the current time
func NewLead(email string, answer Answer, country, userAgent string) *Lead {
	return &Lead{
		Email:       strings.TrimSpace(email),
		Answer:      answer,
		Country:     orUnknown(country),
		UserAgent:   orUnknown(userAgent),
		SubmittedAt: time.Now().UTC(),
	}
}

func orUnknown(s string) string {
	if v, ok := validation.TrimAndValidate(s); ok {
		return v
	}
	return Unknown
}
