package pos

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository used when the service runs
// without a database.
type MemoryRepository struct {
	mu    sync.RWMutex
	sales map[string]*Sale
}

// NewMemoryRepository creates an empty in-memory sale repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sales: make(map[string]*Sale)}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) CreateSale(ctx context.Context, sale *Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := copySale(sale)
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	m.sales[sale.ID.String()] = cp
	sale.CreatedAt = cp.CreatedAt
	sale.UpdatedAt = cp.UpdatedAt
	return nil
}

func (m *MemoryRepository) GetSaleByID(ctx context.Context, id string) (*Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sale, ok := m.sales[id]
	if !ok {
		return nil, fmt.Errorf("sale %s not found", id)
	}
	return copySale(sale), nil
}

func (m *MemoryRepository) ListSalesByBand(ctx context.Context, bandID string) ([]*Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Sale
	for _, sale := range m.sales {
		if sale.BandID.String() == bandID {
			out = append(out, copySale(sale))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (m *MemoryRepository) ReplaceSale(ctx context.Context, sale *Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.sales[sale.ID.String()]
	if !ok {
		return fmt.Errorf("sale %s not found", sale.ID)
	}
	cp := copySale(sale)
	cp.CreatedAt = stored.CreatedAt
	cp.UpdatedAt = time.Now().UTC()
	m.sales[sale.ID.String()] = cp
	return nil
}

func (m *MemoryRepository) DeleteSale(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sales[id]; !ok {
		return fmt.Errorf("sale %s not found", id)
	}
	delete(m.sales, id)
	return nil
}

func copySale(sale *Sale) *Sale {
	cp := *sale
	cp.Items = make([]SaleItem, len(sale.Items))
	copy(cp.Items, sale.Items)
	return &cp
}
