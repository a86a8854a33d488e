package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"valuator/internal/domain"
	"valuator/internal/ports"
)

// DealStore keeps deals in the deals table; the snapshot is stored as jsonb.
type DealStore struct {
	db *DB
}

func NewDealStore(db *DB) *DealStore { return &DealStore{db: db} }

func (s *DealStore) SaveDeal(ctx context.Context, rec ports.DealRecord) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO deals (id, name, deal_date, data)
		VALUES ($1, $2, $3::date, $4::jsonb)
	`, rec.ID, rec.Name, rec.Date, string(rec.Data))
	if err != nil {
		return fmt.Errorf("insert deal: %w", err)
	}
	return nil
}

func (s *DealStore) GetDeal(ctx context.Context, id string) (ports.DealRecord, error) {
	var (
		rec  ports.DealRecord
		data string
	)
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, to_char(deal_date, 'YYYY-MM-DD'), data::text
		FROM deals
		WHERE id = $1
	`, id).Scan(&rec.ID, &rec.Name, &rec.Date, &data)
	if errors.Is(err, pgx.ErrNoRows) {
		return ports.DealRecord{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.DealRecord{}, fmt.Errorf("select deal: %w", err)
	}
	rec.Data = []byte(data)
	return rec, nil
}

// ListDeals returns the index in save order.
func (s *DealStore) ListDeals(ctx context.Context) ([]domain.DealSummary, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, name, to_char(deal_date, 'YYYY-MM-DD')
		FROM deals
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DealSummary, error) {
		var d domain.DealSummary
		err := row.Scan(&d.ID, &d.Name, &d.Date)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan deals: %w", err)
	}
	return out, nil
}
