package pos

import "context"

// Repository defines sale data storage.
type Repository interface {
	CreateSale(ctx context.Context, sale *Sale) error
	GetSaleByID(ctx context.Context, id string) (*Sale, error)
	ListSalesByBand(ctx context.Context, bandID string) ([]*Sale, error)
	// ReplaceSale rewrites the sale row and its whole line-item collection.
	ReplaceSale(ctx context.Context, sale *Sale) error
	DeleteSale(ctx context.Context, id string) error
}
