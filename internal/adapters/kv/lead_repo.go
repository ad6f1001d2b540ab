// Package kv implements the storage ports on a Redis keyspace.
package kv

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

const (
	leadCounterKey = "leads:counter"
	leadListKey    = "leads:list"
	leadKeyPrefix  = "lead:"

	// DefaultListCap bounds the id index; older ids drop off the tail.
	DefaultListCap = 10000
)

// leadRecord is the JSON document stored under lead:<id>
type leadRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	WillingToPay string    `json:"willingToPay"`
	Price        *float64  `json:"price,omitempty"`
	Currency     string    `json:"currency,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	Country      string    `json:"country"`
	UserAgent    string    `json:"userAgent"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// LeadRepositoryAdapter implements the LeadRepository port on Redis
type LeadRepositoryAdapter struct {
	client  *redis.Client
	listCap int64
}

// NewLeadRepositoryAdapter creates a lead repository. listCap <= 0 uses DefaultListCap.
func NewLeadRepositoryAdapter(client *redis.Client, listCap int) ports.LeadRepository {
	if listCap <= 0 {
		listCap = DefaultListCap
	}
	return &LeadRepositoryAdapter{client: client, listCap: int64(listCap)}
}

func leadKey(id string) string {
	return leadKeyPrefix + id
}

// Insert allocates an id from the counter, stores the document and pushes the
// id to the head of the recency list.
func (r *LeadRepositoryAdapter) Insert(ctx context.Context, lead *ports.LeadData) error {
	if lead == nil {
		return errors.NewValidationError("lead cannot be nil")
	}

	n, err := r.client.Incr(ctx, leadCounterKey).Result()
	if err != nil {
		return errors.NewDatabaseError("failed to allocate lead id", err)
	}
	id := strconv.FormatInt(n, 10)

	rec := toRecord(id, lead)
	payload, err := json.Marshal(rec)
	if err != nil {
		return errors.NewDatabaseError("failed to encode lead", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, leadKey(id), payload, 0)
		pipe.LPush(ctx, leadListKey, id)
		pipe.LTrim(ctx, leadListKey, 0, r.listCap-1)
		return nil
	})
	if err != nil {
		return errors.NewDatabaseError("failed to store lead", err)
	}

	lead.ID = id
	return nil
}

// ListRecent reads the newest ids from the list and fetches their documents
// in one MGET. Ids whose document is missing are skipped.
func (r *LeadRepositoryAdapter) ListRecent(ctx context.Context, limit int) ([]*ports.LeadData, error) {
	if limit <= 0 {
		return nil, errors.NewValidationError("limit must be positive")
	}

	ids, err := r.client.LRange(ctx, leadListKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, errors.NewDatabaseError("failed to read lead index", err)
	}
	if len(ids) == 0 {
		return []*ports.LeadData{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = leadKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.NewDatabaseError("failed to fetch leads", err)
	}

	leads := make([]*ports.LeadData, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		data, decodeErr := decodeLead(s)
		if decodeErr != nil {
			continue
		}
		leads = append(leads, data)
	}
	return leads, nil
}

// GetByID retrieves a lead by its ID
func (r *LeadRepositoryAdapter) GetByID(ctx context.Context, id string) (*ports.LeadData, error) {
	if id == "" {
		return nil, errors.NewNotFoundError("lead not found")
	}

	s, err := r.client.Get(ctx, leadKey(id)).Result()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.NewNotFoundError("lead not found")
		}
		return nil, errors.NewDatabaseError("failed to fetch lead", err)
	}

	data, err := decodeLead(s)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to decode lead", err)
	}
	return data, nil
}

func toRecord(id string, lead *ports.LeadData) leadRecord {
	rec := leadRecord{
		ID:           id,
		Email:        lead.Email,
		WillingToPay: lead.WillingToPay,
		Currency:     lead.Currency,
		Reason:       lead.Reason,
		Country:      lead.Country,
		UserAgent:    lead.UserAgent,
		SubmittedAt:  lead.SubmittedAt.UTC(),
	}
	if lead.Currency != "" {
		price := lead.Price
		rec.Price = &price
	}
	return rec
}

func decodeLead(s string) (*ports.LeadData, error) {
	var rec leadRecord
	if err := json.Unmarshal([]byte(s), &rec); err != nil {
		return nil, err
	}

	data := &ports.LeadData{
		ID:           rec.ID,
		Email:        rec.Email,
		WillingToPay: rec.WillingToPay,
		Currency:     rec.Currency,
		Reason:       rec.Reason,
		Country:      rec.Country,
		UserAgent:    rec.UserAgent,
		SubmittedAt:  rec.SubmittedAt,
	}
	if rec.Price != nil {
		data.Price = *rec.Price
	}
	return data, nil
}
