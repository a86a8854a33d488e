package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"valuator/internal/domain"
	"valuator/internal/ports"
)

// Keys follow the browser storage layout the deals were first kept in: one
// value per deal plus a JSON index of summaries.
const (
	dealKeyPrefix = "deal_"
	dealIndexKey  = "valuation_deals"

	maxIndexRetries = 5
)

var ErrIndexContention = errors.New("deal index updated concurrently")

type storedDeal struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Date string          `json:"date"`
	Data json.RawMessage `json:"data"`
}

type DealStore struct {
	rdb *goredis.Client
}

func NewDealStore(rdb *goredis.Client) *DealStore {
	return &DealStore{rdb: rdb}
}

// SaveDeal writes the deal and appends it to the index in one transaction,
// retrying when another writer changes the index first.
func (s *DealStore) SaveDeal(ctx context.Context, rec ports.DealRecord) error {
	payload, err := json.Marshal(storedDeal{ID: rec.ID, Name: rec.Name, Date: rec.Date, Data: rec.Data})
	if err != nil {
		return err
	}

	txf := func(tx *goredis.Tx) error {
		index, err := readIndex(ctx, tx)
		if err != nil {
			return err
		}
		index = append(index, rec.DealSummary)
		rawIndex, err := json.Marshal(index)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, dealKeyPrefix+rec.ID, payload, 0)
			pipe.Set(ctx, dealIndexKey, rawIndex, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxIndexRetries; i++ {
		err := s.rdb.Watch(ctx, txf, dealIndexKey)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("redis save deal: %w", err)
		}
		return nil
	}
	return ErrIndexContention
}

func (s *DealStore) GetDeal(ctx context.Context, id string) (ports.DealRecord, error) {
	raw, err := s.rdb.Get(ctx, dealKeyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return ports.DealRecord{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.DealRecord{}, fmt.Errorf("redis get deal: %w", err)
	}
	var d storedDeal
	if err := json.Unmarshal(raw, &d); err != nil {
		return ports.DealRecord{}, fmt.Errorf("decode deal %s: %w", id, err)
	}
	return ports.DealRecord{
		DealSummary: domain.DealSummary{ID: d.ID, Name: d.Name, Date: d.Date},
		Data:        d.Data,
	}, nil
}

func (s *DealStore) ListDeals(ctx context.Context) ([]domain.DealSummary, error) {
	index, err := readIndex(ctx, s.rdb)
	if err != nil {
		return nil, err
	}
	return index, nil
}

type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func readIndex(ctx context.Context, c getter) ([]domain.DealSummary, error) {
	raw, err := c.Get(ctx, dealIndexKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return []domain.DealSummary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get index: %w", err)
	}
	var index []domain.DealSummary
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("decode deal index: %w", err)
	}
	return index, nil
}
