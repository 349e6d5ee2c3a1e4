package inventory

import "context"

// Repository defines item and variant data storage.
type Repository interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItemByID(ctx context.Context, id string) (*Item, error)
	ListItems(ctx context.Context, bandID string) ([]*Item, error)
	// UpdateItem rewrites the item row and its whole variants collection.
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, id string) error
	// AdjustStock applies a relative stock delta to one variant. Negative
	// results are allowed.
	AdjustStock(ctx context.Context, itemID, label string, delta int) error
}
