package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/mobimart/mobimart-backend/pkg/enums"
	pkgerrors "github.com/mobimart/mobimart-backend/pkg/errors"
)

type stubLookup struct {
	products    map[uuid.UUID]bool
	accessories map[uuid.UUID]bool
}

func (s *stubLookup) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.products[id], nil
}

func (s *stubLookup) AccessoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.accessories[id], nil
}

func newStubLookup() *stubLookup {
	return &stubLookup{
		products:    map[uuid.UUID]bool{},
		accessories: map[uuid.UUID]bool{},
	}
}

func TestResolveExplicitKindHint(t *testing.T) {
	lookup := newStubLookup()
	id := uuid.New()
	lookup.accessories[id] = true

	resolver, err := NewResolver(lookup)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	ref, err := resolver.Resolve(context.Background(), RawRef{ID: id.String(), Kind: "accessory"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ref.Kind != enums.ItemKindAccessory || ref.ID != id {
		t.Fatalf("unexpected ref %s", ref)
	}
}

func TestResolveKindHintBeatsCategory(t *testing.T) {
	lookup := newStubLookup()
	id := uuid.New()
	lookup.products[id] = true

	resolver, _ := NewResolver(lookup)

	// Category says accessory but the explicit hint wins.
	ref, err := resolver.Resolve(context.Background(), RawRef{ID: id.String(), Kind: "product", Category: "Accessories"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ref.Kind != enums.ItemKindProduct {
		t.Fatalf("expected product kind, got %s", ref.Kind)
	}
}

func TestResolveCategoryHint(t *testing.T) {
	lookup := newStubLookup()
	id := uuid.New()
	lookup.accessories[id] = true

	resolver, _ := NewResolver(lookup)

	for _, category := range []string{"Accessories", "accessory", "Phone Accessor Add-ons"} {
		ref, err := resolver.Resolve(context.Background(), RawRef{ID: id.String(), Category: category})
		if err != nil {
			t.Fatalf("resolve with category %q: %v", category, err)
		}
		if ref.Kind != enums.ItemKindAccessory {
			t.Fatalf("category %q: expected accessory kind, got %s", category, ref.Kind)
		}
	}
}

func TestResolveBareIDProbesProductsFirst(t *testing.T) {
	lookup := newStubLookup()
	id := uuid.New()
	lookup.products[id] = true
	lookup.accessories[id] = true

	resolver, _ := NewResolver(lookup)

	ref, err := resolver.Resolve(context.Background(), RawRef{ID: id.String()})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ref.Kind != enums.ItemKindProduct {
		t.Fatalf("expected product to win the bare-id probe, got %s", ref.Kind)
	}
}

func TestResolveBareIDFallsBackToAccessories(t *testing.T) {
	lookup := newStubLookup()
	id := uuid.New()
	lookup.accessories[id] = true

	resolver, _ := NewResolver(lookup)

	ref, err := resolver.Resolve(context.Background(), RawRef{ID: id.String()})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ref.Kind != enums.ItemKindAccessory {
		t.Fatalf("expected accessory, got %s", ref.Kind)
	}
}

func TestResolveMissIsNotFound(t *testing.T) {
	resolver, _ := NewResolver(newStubLookup())

	_, err := resolver.Resolve(context.Background(), RawRef{ID: uuid.NewString()})
	if err == nil {
		t.Fatal("expected not found error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestResolveHintedMissIsNotFound(t *testing.T) {
	lookup := newStubLookup()
	id := uuid.New()
	// The item exists only as a product, but the client claims accessory.
	lookup.products[id] = true

	resolver, _ := NewResolver(lookup)

	_, err := resolver.Resolve(context.Background(), RawRef{ID: id.String(), Kind: "accessory"})
	if err == nil {
		t.Fatal("expected not found error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestResolveRejectsBadInput(t *testing.T) {
	resolver, _ := NewResolver(newStubLookup())

	cases := []struct {
		name string
		raw  RawRef
	}{
		{name: "empty id", raw: RawRef{ID: ""}},
		{name: "malformed id", raw: RawRef{ID: "not-a-uuid"}},
		{name: "unknown kind", raw: RawRef{ID: uuid.NewString(), Kind: "bundle"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), tc.raw)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}
