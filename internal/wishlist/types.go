package wishlist

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mobimart/mobimart-backend/pkg/types"
)

// EntryDTO is one hydrated wishlist entry.
type EntryDTO struct {
	Ref      types.ItemRef   `json:"ref"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
	InStock  bool            `json:"in_stock"`
	SavedAt  time.Time       `json:"saved_at"`
}

// WishlistDTO is the full hydrated wishlist.
type WishlistDTO struct {
	Items []EntryDTO `json:"items"`
	Total int        `json:"total"`
}

// entry is the storage-level view of one saved item.
type entry struct {
	Ref     types.ItemRef
	SavedAt time.Time
}
