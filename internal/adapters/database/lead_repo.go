package database

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"gorm.io/gorm"
	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

// LeadModel represents the database model for leads. Price and currency are
// NULL for "no" answers, reason is NULL otherwise.
type LeadModel struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"size:320;not null;index"`
	WillingToPay string    `gorm:"size:16;not null"`
	Price        *float64  `gorm:"type:numeric(12,2)"`
	Currency     *string   `gorm:"size:3"`
	Reason       *string   `gorm:"size:255"`
	Country      string    `gorm:"size:64;not null;default:Unknown"`
	UserAgent    string    `gorm:"type:text;not null"`
	SubmittedAt  time.Time `gorm:"not null;index"`
}

func (LeadModel) TableName() string {
	return "leads"
}

// LeadRepositoryAdapter implements the LeadRepository port using GORM
type LeadRepositoryAdapter struct {
	db *gorm.DB
}

// NewLeadRepositoryAdapter creates a new lead repository adapter
func NewLeadRepositoryAdapter(db *gorm.DB) ports.LeadRepository {
	return &LeadRepositoryAdapter{db: db}
}

// Insert persists a lead and assigns its ID
func (r *LeadRepositoryAdapter) Insert(ctx context.Context, lead *ports.LeadData) error {
	if lead == nil {
		return errors.NewValidationError("lead cannot be nil")
	}

	model := leadToModel(lead)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return errors.NewDatabaseError("failed to insert lead", err)
	}

	lead.ID = strconv.FormatUint(model.ID, 10)
	return nil
}

// ListRecent returns up to limit leads, newest first
func (r *LeadRepositoryAdapter) ListRecent(ctx context.Context, limit int) ([]*ports.LeadData, error) {
	if limit <= 0 {
		return nil, errors.NewValidationError("limit must be positive")
	}

	var models []LeadModel
	result := r.db.WithContext(ctx).
		Order("submitted_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, errors.NewDatabaseError("failed to list leads", result.Error)
	}

	leads := make([]*ports.LeadData, len(models))
	for i := range models {
		leads[i] = modelToLead(&models[i])
	}
	return leads, nil
}

// GetByID retrieves a lead by its ID
func (r *LeadRepositoryAdapter) GetByID(ctx context.Context, id string) (*ports.LeadData, error) {
	numericID, err := strconv.ParseUint(id, 10, 64)
	if err != nil || numericID == 0 {
		return nil, errors.NewNotFoundError("lead not found")
	}

	var model LeadModel
	result := r.db.WithContext(ctx).First(&model, numericID)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("lead not found")
		}
		return nil, errors.NewDatabaseError("failed to find lead", result.Error)
	}

	return modelToLead(&model), nil
}

func leadToModel(data *ports.LeadData) *LeadModel {
	model := &LeadModel{
		Email:        data.Email,
		WillingToPay: data.WillingToPay,
		Country:      data.Country,
		UserAgent:    data.UserAgent,
		SubmittedAt:  data.SubmittedAt,
	}
	if data.Currency != "" {
		price, currency := data.Price, data.Currency
		model.Price = &price
		model.Currency = &currency
	}
	if data.Reason != "" {
		reason := data.Reason
		model.Reason = &reason
	}
	return model
}

func modelToLead(model *LeadModel) *ports.LeadData {
	data := &ports.LeadData{
		ID:           strconv.FormatUint(model.ID, 10),
		Email:        model.Email,
		WillingToPay: model.WillingToPay,
		Country:      model.Country,
		UserAgent:    model.UserAgent,
		SubmittedAt:  model.SubmittedAt.UTC(),
	}
	if model.Price != nil {
		data.Price = *model.Price
	}
	if model.Currency != nil {
		data.Currency = *model.Currency
	}
	if model.Reason != nil {
		data.Reason = *model.Reason
	}
	return data
}
