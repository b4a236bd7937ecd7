package types

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mobimart/mobimart-backend/pkg/enums"
)

// ItemRef is the canonical tagged identifier for a catalog entry. Products
// and accessories live in separate tables but share one addressable item
// space in carts and wishlists; the kind tag disambiguates them exactly
// once, at the catalog boundary, so nothing downstream re-derives type from
// loosely shaped fields.
type ItemRef struct {
	Kind enums.ItemKind `json:"kind"`
	ID   uuid.UUID      `json:"id"`
}

// NewItemRef builds a validated reference.
func NewItemRef(kind enums.ItemKind, id uuid.UUID) (ItemRef, error) {
	if !kind.IsValid() {
		return ItemRef{}, fmt.Errorf("invalid item kind %q", kind)
	}
	if id == uuid.Nil {
		return ItemRef{}, fmt.Errorf("item id is required")
	}
	return ItemRef{Kind: kind, ID: id}, nil
}

// Equal reports whether both kind and id match.
func (r ItemRef) Equal(other ItemRef) bool {
	return r.Kind == other.Kind && r.ID == other.ID
}

// IsZero reports whether the reference is unset.
func (r ItemRef) IsZero() bool {
	return r.Kind == "" && r.ID == uuid.Nil
}

// String implements fmt.Stringer.
func (r ItemRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}
