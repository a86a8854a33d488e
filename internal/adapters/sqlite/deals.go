package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"valuator/internal/domain"
	"valuator/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS deals (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	deal_date  TEXT NOT NULL,
	data       TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);
`

// Open opens the database file and creates the schema if needed.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

type dealRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
	Date string `db:"deal_date"`
	Data string `db:"data"`
}

// DealStore keeps deals in a single sqlite table with the snapshot as JSON
// text.
type DealStore struct {
	db *sqlx.DB
}

func NewDealStore(db *sqlx.DB) *DealStore { return &DealStore{db: db} }

func (s *DealStore) SaveDeal(ctx context.Context, rec ports.DealRecord) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO deals (id, name, deal_date, data) VALUES (:id, :name, :deal_date, :data)`,
		dealRow{ID: rec.ID, Name: rec.Name, Date: rec.Date, Data: string(rec.Data)})
	if err != nil {
		return fmt.Errorf("insert deal: %w", err)
	}
	return nil
}

func (s *DealStore) GetDeal(ctx context.Context, id string) (ports.DealRecord, error) {
	var row dealRow
	err := s.db.GetContext(ctx, &row, `SELECT id, name, deal_date, data FROM deals WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.DealRecord{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.DealRecord{}, fmt.Errorf("select deal: %w", err)
	}
	return ports.DealRecord{
		DealSummary: domain.DealSummary{ID: row.ID, Name: row.Name, Date: row.Date},
		Data:        []byte(row.Data),
	}, nil
}

func (s *DealStore) ListDeals(ctx context.Context) ([]domain.DealSummary, error) {
	var rows []dealRow
	err := s.db.SelectContext(ctx, &rows, `SELECT id, name, deal_date FROM deals ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	out := make([]domain.DealSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.DealSummary{ID: r.ID, Name: r.Name, Date: r.Date})
	}
	return out, nil
}
