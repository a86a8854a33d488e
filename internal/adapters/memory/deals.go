package memory

import (
	"context"
	"fmt"
	"sync"

	"valuator/internal/domain"
	"valuator/internal/ports"
)

// DealStore keeps deals in process, listed in save order.
type DealStore struct {
	mu    sync.RWMutex
	order []string
	deals map[string]ports.DealRecord
}

func NewDealStore() *DealStore {
	return &DealStore{deals: make(map[string]ports.DealRecord)}
}

func (m *DealStore) SaveDeal(_ context.Context, rec ports.DealRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.deals[rec.ID]; exists {
		return fmt.Errorf("deal %s already exists", rec.ID)
	}
	rec.Data = append([]byte(nil), rec.Data...)
	m.deals[rec.ID] = rec
	m.order = append(m.order, rec.ID)
	return nil
}

func (m *DealStore) GetDeal(_ context.Context, id string) (ports.DealRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.deals[id]
	if !ok {
		return ports.DealRecord{}, ports.ErrNotFound
	}
	rec.Data = append([]byte(nil), rec.Data...)
	return rec, nil
}

func (m *DealStore) ListDeals(context.Context) ([]domain.DealSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.DealSummary, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.deals[id].DealSummary)
	}
	return out, nil
}
