package cart

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mobimart/mobimart-backend/internal/catalog"
	syncbus "github.com/mobimart/mobimart-backend/internal/sync"
	"github.com/mobimart/mobimart-backend/pkg/enums"
	pkgerrors "github.com/mobimart/mobimart-backend/pkg/errors"
	"github.com/mobimart/mobimart-backend/pkg/logger"
	"github.com/mobimart/mobimart-backend/pkg/types"
)

type memStore struct {
	carts map[string][]Line
}

func newMemStore() *memStore {
	return &memStore{carts: map[string][]Line{}}
}

func (m *memStore) List(ctx context.Context, owner string) ([]Line, error) {
	lines := m.carts[owner]
	out := make([]Line, len(lines))
	copy(out, lines)
	return out, nil
}

func (m *memStore) Add(ctx context.Context, owner string, ref types.ItemRef, quantity int) (int, error) {
	lines := m.carts[owner]
	for i := range lines {
		if lines[i].Ref.Equal(ref) {
			lines[i].Quantity += quantity
			m.carts[owner] = lines
			return lines[i].Quantity, nil
		}
	}
	m.carts[owner] = append(lines, Line{Ref: ref, Quantity: quantity})
	return quantity, nil
}

func (m *memStore) Remove(ctx context.Context, owner string, ref types.ItemRef) (bool, error) {
	lines := m.carts[owner]
	for i := range lines {
		if lines[i].Ref.Equal(ref) {
			m.carts[owner] = append(lines[:i], lines[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Replace(ctx context.Context, owner string, lines []Line) error {
	out := make([]Line, len(lines))
	copy(out, lines)
	m.carts[owner] = out
	return nil
}

func (m *memStore) Clear(ctx context.Context, owner string) error {
	delete(m.carts, owner)
	return nil
}

type stubResolver struct {
	known map[uuid.UUID]enums.ItemKind
}

func (s *stubResolver) Resolve(ctx context.Context, raw catalog.RawRef) (types.ItemRef, error) {
	id, err := uuid.Parse(raw.ID)
	if err != nil {
		return types.ItemRef{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid item id")
	}
	kind, ok := s.known[id]
	if !ok {
		return types.ItemRef{}, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return types.ItemRef{Kind: kind, ID: id}, nil
}

type stubCatalog struct {
	summaries map[types.ItemRef]catalog.ItemSummary
}

func (s *stubCatalog) FindSummaries(ctx context.Context, refs []types.ItemRef) (map[types.ItemRef]catalog.ItemSummary, error) {
	out := map[types.ItemRef]catalog.ItemSummary{}
	for _, ref := range refs {
		if summary, ok := s.summaries[ref]; ok {
			out[ref] = summary
		}
	}
	return out, nil
}

type fixture struct {
	service  Service
	server   *memStore
	guest    *memStore
	resolver *stubResolver
	catalog  *stubCatalog
	bus      *syncbus.Bus
	logs     *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	server := newMemStore()
	guest := newMemStore()
	resolver := &stubResolver{known: map[uuid.UUID]enums.ItemKind{}}
	cat := &stubCatalog{summaries: map[types.ItemRef]catalog.ItemSummary{}}
	bus := syncbus.NewBus(16)
	t.Cleanup(bus.Close)
	logs := &bytes.Buffer{}

	service, err := NewService(ServiceParams{
		Logger:      logger.New(logger.Options{ServiceName: "cart-test", Output: logs}),
		ServerStore: server,
		GuestStore:  guest,
		Resolver:    resolver,
		Catalog:     cat,
		Bus:         bus,
		MaxQuantity: 10,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return &fixture{
		service:  service,
		server:   server,
		guest:    guest,
		resolver: resolver,
		catalog:  cat,
		bus:      bus,
		logs:     logs,
	}
}

func (f *fixture) addKnownItem(kind enums.ItemKind, price string) types.ItemRef {
	id := uuid.New()
	f.resolver.known[id] = kind
	ref := types.ItemRef{Kind: kind, ID: id}
	f.catalog.summaries[ref] = catalog.ItemSummary{
		Ref:      ref,
		Name:     "Item " + id.String()[:8],
		Price:    decimal.RequireFromString(price),
		Image:    "https://cdn.example.com/item.png",
		Category: "Phones",
		InStock:  true,
	}
	return ref
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	f := newFixture(t)
	owner := Owner{UserID: uuid.New()}
	ref := f.addKnownItem(enums.ItemKindProduct, "499.00")
	ctx := context.Background()

	if _, err := f.service.AddItem(ctx, owner, catalog.RawRef{ID: ref.ID.String()}, 1); err != nil {
		t.Fatalf("first add: %v", err)
	}
	dto, err := f.service.AddItem(ctx, owner, catalog.RawRef{ID: ref.ID.String()}, 2)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(dto.Items) != 1 {
		t.Fatalf("expected a single line, got %d", len(dto.Items))
	}
	if dto.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", dto.Items[0].Quantity)
	}
	if want := decimal.RequireFromString("1497.00"); !dto.Subtotal.Equal(want) {
		t.Fatalf("expected subtotal %s, got %s", want, dto.Subtotal)
	}
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	f := newFixture(t)
	owner := Owner{UserID: uuid.New()}
	ref := f.addKnownItem(enums.ItemKindAccessory, "19.99")

	dto, err := f.service.AddItem(context.Background(), owner, catalog.RawRef{ID: ref.ID.String()}, 0)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if dto.TotalQuantity != 1 {
		t.Fatalf("expected quantity 1, got %d", dto.TotalQuantity)
	}
}

func TestAddItemRejectsUnknownItem(t *testing.T) {
	f := newFixture(t)
	owner := Owner{UserID: uuid.New()}

	_, err := f.service.AddItem(context.Background(), owner, catalog.RawRef{ID: uuid.NewString()}, 1)
	if err == nil {
		t.Fatal("expected not found error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestAddItemEnforcesQuantityLimit(t *testing.T) {
	f := newFixture(t)
	owner := Owner{UserID: uuid.New()}
	ref := f.addKnownItem(enums.ItemKindProduct, "100.00")
	ctx := context.Background()

	if _, err := f.service.AddItem(ctx, owner, catalog.RawRef{ID: ref.ID.String()}, 8); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err := f.service.AddItem(ctx, owner, catalog.RawRef{ID: ref.ID.String()}, 5)
	if err == nil {
		t.Fatal("expected limit error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}

	// The prior quantity survives the rejected bump.
	dto, err := f.service.GetCart(ctx, owner)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if dto.TotalQuantity != 8 {
		t.Fatalf("expected quantity 8 after rejected add, got %d", dto.TotalQuantity)
	}
}

func TestRemoveItemAbsentIsNotFound(t *testing.T) {
	f := newFixture(t)
	owner := Owner{UserID: uuid.New()}

	_, err := f.service.RemoveItem(context.Background(), owner, catalog.RawRef{ID: uuid.NewString()})
	if err == nil {
		t.Fatal("expected not found error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestRemoveItemWorksForDelistedItem(t *testing.T) {
	f := newFixture(t)
	owner := Owner{UserID: uuid.New()}
	ctx := context.Background()

	// Line exists in the cart but the catalog no longer knows the item.
	ref := types.ItemRef{Kind: enums.ItemKindProduct, ID: uuid.New()}
	if _, err := f.server.Add(ctx, owner.Key(), ref, 2); err != nil {
		t.Fatalf("seed line: %v", err)
	}

	if _, err := f.service.RemoveItem(ctx, owner, catalog.RawRef{ID: ref.ID.String()}); err != nil {
		t.Fatalf("remove: %v", err)
	}

	lines, _ := f.server.List(ctx, owner.Key())
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(lines))
	}
}

func TestReplaceCartRejectsPayloadAsUnit(t *testing.T) {
	f := newFixture(t)
	owner := Owner{UserID: uuid.New()}
	good := f.addKnownItem(enums.ItemKindProduct, "100.00")
	ctx := context.Background()

	if _, err := f.service.AddItem(ctx, owner, catalog.RawRef{ID: good.ID.String()}, 2); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	_, err := f.service.ReplaceCart(ctx, owner, []RawLine{
		{Item: catalog.RawRef{ID: good.ID.String()}, Quantity: 1},
		{Item: catalog.RawRef{ID: uuid.NewString()}, Quantity: 1}, // unknown
		{Item: catalog.RawRef{ID: "garbage"}, Quantity: 1},        // malformed
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
	details, ok := typed.Details().([]string)
	if !ok || len(details) != 2 {
		t.Fatalf("expected two aggregated line errors, got %#v", typed.Details())
	}

	// The stored cart is untouched.
	dto, err := f.service.GetCart(ctx, owner)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if dto.TotalQuantity != 2 {
		t.Fatalf("expected cart unchanged at quantity 2, got %d", dto.TotalQuantity)
	}
}

func TestReplaceCartCollapsesDuplicateRefs(t *testing.T) {
	f := newFixture(t)
	owner := Owner{UserID: uuid.New()}
	ref := f.addKnownItem(enums.ItemKindProduct, "50.00")

	dto, err := f.service.ReplaceCart(context.Background(), owner, []RawLine{
		{Item: catalog.RawRef{ID: ref.ID.String()}, Quantity: 2},
		{Item: catalog.RawRef{ID: ref.ID.String()}, Quantity: 3},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if len(dto.Items) != 1 {
		t.Fatalf("expected one collapsed line, got %d", len(dto.Items))
	}
	if dto.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", dto.Items[0].Quantity)
	}
}

func TestGetCartDropsStaleLines(t *testing.T) {
	f := newFixture(t)
	owner := Owner{UserID: uuid.New()}
	ctx := context.Background()

	live := f.addKnownItem(enums.ItemKindProduct, "100.00")
	stale := types.ItemRef{Kind: enums.ItemKindAccessory, ID: uuid.New()}
	if _, err := f.server.Add(ctx, owner.Key(), live, 1); err != nil {
		t.Fatalf("seed live line: %v", err)
	}
	if _, err := f.server.Add(ctx, owner.Key(), stale, 1); err != nil {
		t.Fatalf("seed stale line: %v", err)
	}

	dto, err := f.service.GetCart(ctx, owner)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(dto.Items) != 1 {
		t.Fatalf("expected stale line dropped, got %d items", len(dto.Items))
	}
	if dto.Items[0].Ref != live {
		t.Fatalf("unexpected surviving ref %s", dto.Items[0].Ref)
	}
	if !strings.Contains(f.logs.String(), stale.ID.String()) {
		t.Fatal("expected a warning naming the skipped line")
	}
}

func TestGuestOwnerUsesGuestStore(t *testing.T) {
	f := newFixture(t)
	owner := Owner{GuestToken: "guest-abc"}
	ref := f.addKnownItem(enums.ItemKindProduct, "10.00")
	ctx := context.Background()

	if _, err := f.service.AddItem(ctx, owner, catalog.RawRef{ID: ref.ID.String()}, 1); err != nil {
		t.Fatalf("guest add: %v", err)
	}

	if len(f.guest.carts["guest-abc"]) != 1 {
		t.Fatal("expected line in guest store")
	}
	if len(f.server.carts) != 0 {
		t.Fatal("server store must stay empty for guest adds")
	}
}

func TestMergeGuestCartSumsQuantitiesAndClearsGuest(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	guestToken := "guest-xyz"
	ref := f.addKnownItem(enums.ItemKindProduct, "10.00")
	other := f.addKnownItem(enums.ItemKindAccessory, "5.00")
	ctx := context.Background()

	// User already has one of the items; guest has both.
	if _, err := f.server.Add(ctx, userID.String(), ref, 2); err != nil {
		t.Fatalf("seed user cart: %v", err)
	}
	if _, err := f.guest.Add(ctx, guestToken, ref, 3); err != nil {
		t.Fatalf("seed guest cart: %v", err)
	}
	if _, err := f.guest.Add(ctx, guestToken, other, 1); err != nil {
		t.Fatalf("seed guest cart: %v", err)
	}

	if err := f.service.MergeGuestCart(ctx, guestToken, userID); err != nil {
		t.Fatalf("merge: %v", err)
	}

	dto, err := f.service.GetCart(ctx, Owner{UserID: userID})
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if dto.TotalQuantity != 6 {
		t.Fatalf("expected merged quantity 6, got %d", dto.TotalQuantity)
	}
	if len(f.guest.carts[guestToken]) != 0 {
		t.Fatal("expected guest cart cleared after merge")
	}
}

func TestMutationsPublishBusEvents(t *testing.T) {
	f := newFixture(t)
	owner := Owner{UserID: uuid.New()}
	ref := f.addKnownItem(enums.ItemKindProduct, "10.00")

	events, cancel := f.bus.Subscribe(owner.Key())
	defer cancel()

	if _, err := f.service.AddItem(context.Background(), owner, catalog.RawRef{ID: ref.ID.String()}, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	select {
	case event := <-events:
		if event.Scope != syncbus.ScopeCart || event.Action != "added" {
			t.Fatalf("unexpected event %+v", event)
		}
	default:
		t.Fatal("expected a cart event on the bus")
	}
}
