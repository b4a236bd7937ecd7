package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mobimart/mobimart-backend/pkg/enums"
	pkgerrors "github.com/mobimart/mobimart-backend/pkg/errors"
	"github.com/mobimart/mobimart-backend/pkg/types"
)

// RawRef is an untrusted item reference as it arrives from clients. Kind and
// Category are optional hints; ID is required.
type RawRef struct {
	ID       string `json:"id" validate:"required"`
	Kind     string `json:"kind,omitempty"`
	Category string `json:"category,omitempty"`
}

type existsLookup interface {
	ProductExists(ctx context.Context, id uuid.UUID) (bool, error)
	AccessoryExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Resolver turns raw client references into canonical tagged ItemRefs. It is
// the single place where kind ambiguity is settled; everything downstream
// works with the resolved tag only.
type Resolver struct {
	lookup existsLookup
}

// NewResolver builds a resolver backed by the catalog repository.
func NewResolver(lookup existsLookup) (*Resolver, error) {
	if lookup == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog lookup is required")
	}
	return &Resolver{lookup: lookup}, nil
}

// Resolve settles a raw reference into a canonical ItemRef.
//
// Precedence: an explicit kind hint wins, then a category containing
// "accessor" marks the accessory collection, otherwise the bare id is probed
// against products first and accessories second. A reference that resolves
// to no existing row in either collection is a not-found error, never a
// silent default.
func (r *Resolver) Resolve(ctx context.Context, raw RawRef) (types.ItemRef, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw.ID))
	if err != nil || id == uuid.Nil {
		return types.ItemRef{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid item id")
	}

	if hint := strings.ToLower(strings.TrimSpace(raw.Kind)); hint != "" {
		kind, err := enums.ParseItemKind(hint)
		if err != nil {
			return types.ItemRef{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid item kind")
		}
		return r.verified(ctx, kind, id)
	}

	if category := strings.ToLower(strings.TrimSpace(raw.Category)); strings.Contains(category, "accessor") {
		return r.verified(ctx, enums.ItemKindAccessory, id)
	}

	// Bare id: the primary collection is probed first so a product is never
	// shadowed by an accessory that shares its id.
	found, err := r.lookup.ProductExists(ctx, id)
	if err != nil {
		return types.ItemRef{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "probe products")
	}
	if found {
		return types.ItemRef{Kind: enums.ItemKindProduct, ID: id}, nil
	}

	found, err = r.lookup.AccessoryExists(ctx, id)
	if err != nil {
		return types.ItemRef{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "probe accessories")
	}
	if found {
		return types.ItemRef{Kind: enums.ItemKindAccessory, ID: id}, nil
	}

	return types.ItemRef{}, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
}

func (r *Resolver) verified(ctx context.Context, kind enums.ItemKind, id uuid.UUID) (types.ItemRef, error) {
	var (
		found bool
		err   error
	)
	switch kind {
	case enums.ItemKindProduct:
		found, err = r.lookup.ProductExists(ctx, id)
	case enums.ItemKindAccessory:
		found, err = r.lookup.AccessoryExists(ctx, id)
	default:
		return types.ItemRef{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid item kind")
	}
	if err != nil {
		return types.ItemRef{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "probe catalog")
	}
	if !found {
		return types.ItemRef{}, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return types.ItemRef{Kind: kind, ID: id}, nil
}
