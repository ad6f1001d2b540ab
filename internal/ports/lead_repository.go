package ports

import (
	"context"
	"time"
)

// LeadData represents a lead record for persistence. Price, Currency and
// Reason are zero when absent for the record's WillingToPay value.
type LeadData struct {
	ID           string
	Email        string
	WillingToPay string
	Price        float64
	Currency     string
	Reason       string
	Country      string
	UserAgent    string
	SubmittedAt  time.Time
}

// LeadRepository defines the storage port for leads. Insert assigns ID.
type LeadRepository interface {
	Insert(ctx context.Context, lead *LeadData) error
	ListRecent(ctx context.Context, limit int) ([]*LeadData, error)
	GetByID(ctx context.Context, id string) (*LeadData, error)
}
