package cart

import (
	"context"

	"github.com/google/uuid"

	"github.com/mobimart/mobimart-backend/pkg/types"
)

// Line is one authoritative cart line keyed by item reference.
type Line struct {
	Ref      types.ItemRef `json:"ref"`
	Quantity int           `json:"quantity"`
}

// Store is the persistence strategy for cart lines. The server store keeps
// authenticated carts in Postgres; the guest store keeps anonymous carts in
// Redis until they are merged into an account.
type Store interface {
	// List returns all lines for the owner in insertion order.
	List(ctx context.Context, owner string) ([]Line, error)
	// Add inserts a line or bumps the quantity of an existing one. It
	// returns the resulting quantity.
	Add(ctx context.Context, owner string, ref types.ItemRef, quantity int) (int, error)
	// Remove deletes the line and reports whether it existed.
	Remove(ctx context.Context, owner string, ref types.ItemRef) (bool, error)
	// Replace swaps the entire cart for the provided lines atomically.
	Replace(ctx context.Context, owner string, lines []Line) error
	// Clear removes every line for the owner.
	Clear(ctx context.Context, owner string) error
}

// Owner identifies whose cart an operation targets. Exactly one of the two
// fields is set: UserID for authenticated requests, GuestToken for anonymous
// ones.
type Owner struct {
	UserID     uuid.UUID
	GuestToken string
}

// IsGuest reports whether the owner is an anonymous session.
func (o Owner) IsGuest() bool {
	return o.UserID == uuid.Nil
}

// Key returns the stable storage key for the owner.
func (o Owner) Key() string {
	if o.IsGuest() {
		return o.GuestToken
	}
	return o.UserID.String()
}

// IsZero reports whether neither identity is set.
func (o Owner) IsZero() bool {
	return o.UserID == uuid.Nil && o.GuestToken == ""
}
