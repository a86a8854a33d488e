package ports

import (
	"context"
	"encoding/json"
	"errors"

	"valuator/internal/domain"
)

// ErrNotFound is returned by stores and repositories for unknown ids.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned by stores when a record changed since it was read.
var ErrConflict = errors.New("record changed concurrently")

// DealRecord is a stored deal: its index entry plus the raw snapshot JSON.
// Data stays raw so callers can validate it before decoding.
type DealRecord struct {
	domain.DealSummary
	Data json.RawMessage
}

// DealRepository stores named deals and their index.
type DealRepository interface {
	SaveDeal(ctx context.Context, rec DealRecord) error
	GetDeal(ctx context.Context, id string) (DealRecord, error)
	ListDeals(ctx context.Context) ([]domain.DealSummary, error)
}
