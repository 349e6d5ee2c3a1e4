package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository used when the service runs
// without a database.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*Item
}

// NewMemoryRepository creates an empty in-memory inventory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]*Item)}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) CreateItem(ctx context.Context, item *Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := copyItem(item)
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	m.items[item.ID.String()] = cp
	item.CreatedAt = cp.CreatedAt
	item.UpdatedAt = cp.UpdatedAt
	return nil
}

func (m *MemoryRepository) GetItemByID(ctx context.Context, id string) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s not found", id)
	}
	return copyItem(item), nil
}

func (m *MemoryRepository) ListItems(ctx context.Context, bandID string) ([]*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Item
	for _, item := range m.items {
		if item.BandID.String() == bandID {
			out = append(out, copyItem(item))
		}
	}
	return out, nil
}

func (m *MemoryRepository) UpdateItem(ctx context.Context, item *Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.items[item.ID.String()]
	if !ok {
		return fmt.Errorf("item %s not found", item.ID)
	}
	cp := copyItem(item)
	cp.CreatedAt = stored.CreatedAt
	cp.UpdatedAt = time.Now().UTC()
	m.items[item.ID.String()] = cp
	return nil
}

func (m *MemoryRepository) DeleteItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("item %s not found", id)
	}
	delete(m.items, id)
	return nil
}

func (m *MemoryRepository) AdjustStock(ctx context.Context, itemID, label string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemID]
	if !ok {
		return fmt.Errorf("item %s not found", itemID)
	}
	v, ok := item.Variant(label)
	if !ok {
		return fmt.Errorf("variant %q not found for item %s", label, itemID)
	}
	v.Stock += delta
	item.UpdatedAt = time.Now().UTC()
	return nil
}

func copyItem(item *Item) *Item {
	cp := *item
	cp.Variants = make([]Variant, len(item.Variants))
	copy(cp.Variants, item.Variants)
	return &cp
}
