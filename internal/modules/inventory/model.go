package inventory

import (
	"time"

	"github.com/google/uuid"
)

// UniversalLabel is the sentinel variant label for items without size
// distinctions. A universal item has exactly one variant with this label and
// its stock arithmetic is identical to a sized item's.
const UniversalLabel = "Universal"

// Item is a merch article owned by a band. Labels are unique within an item.
type Item struct {
	ID        uuid.UUID `json:"id"`
	BandID    uuid.UUID `json:"band_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	ImageURL  string    `json:"image_url,omitempty"`
	Variants  []Variant `json:"variants"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Variant is a stock-tracked sub-unit of an item (e.g. a size). Stock is
// intended to stay non-negative but is not floored: oversell drives it below
// zero rather than failing the sale.
type Variant struct {
	Label string `json:"label"`
	Stock int    `json:"stock"`
}

// Variant returns the variant with the given label, if present.
func (i *Item) Variant(label string) (*Variant, bool) {
	for idx := range i.Variants {
		if i.Variants[idx].Label == label {
			return &i.Variants[idx], true
		}
	}
	return nil, false
}
