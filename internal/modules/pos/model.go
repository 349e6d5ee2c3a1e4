package pos

import (
	"time"

	"github.com/google/uuid"
)

// Sale is a completed checkout. It is immutable in intent: the only way to
// change one is the explicit edit/delete-and-reconcile path, which reverses
// and reapplies its stock effect.
type Sale struct {
	ID         uuid.UUID  `json:"id"`
	BandID     uuid.UUID  `json:"band_id"`
	Items      []SaleItem `json:"items"`
	Total      float64    `json:"total"`
	SellerID   uuid.UUID  `json:"seller_id"`
	SellerName string     `json:"seller_name"`
	Timestamp  time.Time  `json:"timestamp"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// SaleItem is a denormalized snapshot of one sold line. Catalog price or name
// changes after the sale never touch it.
type SaleItem struct {
	ItemID       uuid.UUID `json:"item_id"`
	VariantLabel string    `json:"variant_label"`
	Quantity     int       `json:"quantity"`
	PriceAtSale  float64   `json:"price_at_sale"`
	Name         string    `json:"name"`
}

// CartLine describes what the seller is ringing up; prices and names are
// resolved from inventory at record time.
type CartLine struct {
	ItemID       string `json:"item_id"`
	VariantLabel string `json:"variant_label"`
	Quantity     int    `json:"quantity"`
}

// RecordSaleRequest is the payload for checking out a cart.
type RecordSaleRequest struct {
	BandID string     `json:"band_id"`
	Items  []CartLine `json:"items"`
}

// UpdateSaleRequest is the payload for editing a past sale. An empty item
// list is not a valid update; callers route that case to delete.
type UpdateSaleRequest struct {
	Items []CartLine `json:"items"`
}
