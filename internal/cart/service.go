package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/mobimart/mobimart-backend/internal/catalog"
	syncbus "github.com/mobimart/mobimart-backend/internal/sync"
	"github.com/mobimart/mobimart-backend/pkg/enums"
	pkgerrors "github.com/mobimart/mobimart-backend/pkg/errors"
	"github.com/mobimart/mobimart-backend/pkg/logger"
	"github.com/mobimart/mobimart-backend/pkg/types"
)

type refResolver interface {
	Resolve(ctx context.Context, raw catalog.RawRef) (types.ItemRef, error)
}

type summaryFinder interface {
	FindSummaries(ctx context.Context, refs []types.ItemRef) (map[types.ItemRef]catalog.ItemSummary, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Logger      *logger.Logger
	ServerStore Store
	GuestStore  Store
	Resolver    refResolver
	Catalog     summaryFinder
	Bus         *syncbus.Bus
	MaxQuantity int
}

// Service exposes business rules for cart management.
type Service interface {
	GetCart(ctx context.Context, owner Owner) (CartDTO, error)
	AddItem(ctx context.Context, owner Owner, raw catalog.RawRef, quantity int) (CartDTO, error)
	RemoveItem(ctx context.Context, owner Owner, raw catalog.RawRef) (CartDTO, error)
	ReplaceCart(ctx context.Context, owner Owner, lines []RawLine) (CartDTO, error)
	ClearCart(ctx context.Context, owner Owner) error
	MergeGuestCart(ctx context.Context, guestToken string, userID uuid.UUID) error
}

type service struct {
	logg        *logger.Logger
	serverStore Store
	guestStore  Store
	resolver    refResolver
	catalog     summaryFinder
	bus         *syncbus.Bus
	maxQuantity int
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.ServerStore == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "server store is required")
	}
	if params.GuestStore == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest store is required")
	}
	if params.Resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resolver is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog is required")
	}
	if params.Bus == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bus is required")
	}
	if params.MaxQuantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max quantity must be positive")
	}
	return &service{
		logg:        params.Logger,
		serverStore: params.ServerStore,
		guestStore:  params.GuestStore,
		resolver:    params.Resolver,
		catalog:     params.Catalog,
		bus:         params.Bus,
		maxQuantity: params.MaxQuantity,
	}, nil
}

// GetCart returns the hydrated cart for the owner.
func (s *service) GetCart(ctx context.Context, owner Owner) (CartDTO, error) {
	store, err := s.storeFor(owner)
	if err != nil {
		return CartDTO{}, err
	}

	lines, err := store.List(ctx, owner.Key())
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}
	return s.hydrate(ctx, lines)
}

// AddItem resolves the reference and adds it to the cart. Repeat adds of the
// same item bump its quantity instead of creating a second line.
func (s *service) AddItem(ctx context.Context, owner Owner, raw catalog.RawRef, quantity int) (CartDTO, error) {
	store, err := s.storeFor(owner)
	if err != nil {
		return CartDTO{}, err
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 || quantity > s.maxQuantity {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be between 1 and %d", s.maxQuantity))
	}

	ref, err := s.resolver.Resolve(ctx, raw)
	if err != nil {
		return CartDTO{}, err
	}

	current, err := store.Add(ctx, owner.Key(), ref, quantity)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart line")
	}
	if current > s.maxQuantity {
		// Roll the bump back rather than persisting an over-limit line.
		if _, err := store.Remove(ctx, owner.Key(), ref); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revert over-limit add")
		}
		if current-quantity > 0 {
			if _, err := store.Add(ctx, owner.Key(), ref, current-quantity); err != nil {
				return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore cart line")
			}
		}
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity limit of %d exceeded", s.maxQuantity))
	}

	s.publish(owner, "added")
	return s.GetCart(ctx, owner)
}

// RemoveItem drops a line from the cart. Removing an item that is not in the
// cart is a not-found error.
func (s *service) RemoveItem(ctx context.Context, owner Owner, raw catalog.RawRef) (CartDTO, error) {
	store, err := s.storeFor(owner)
	if err != nil {
		return CartDTO{}, err
	}

	refs, err := removalCandidates(raw)
	if err != nil {
		return CartDTO{}, err
	}

	removed := false
	for _, ref := range refs {
		hit, err := store.Remove(ctx, owner.Key(), ref)
		if err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
		}
		if hit {
			removed = true
			break
		}
	}
	if !removed {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}

	s.publish(owner, "removed")
	return s.GetCart(ctx, owner)
}

// ReplaceCart swaps the whole cart for the provided lines. The payload is
// validated as a unit: any invalid line rejects the entire replacement and
// the stored cart is left untouched.
func (s *service) ReplaceCart(ctx context.Context, owner Owner, rawLines []RawLine) (CartDTO, error) {
	store, err := s.storeFor(owner)
	if err != nil {
		return CartDTO{}, err
	}

	var validationErr error
	resolved := make([]Line, 0, len(rawLines))
	seen := make(map[types.ItemRef]int, len(rawLines))

	for i, rawLine := range rawLines {
		quantity := rawLine.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 0 || quantity > s.maxQuantity {
			validationErr = multierr.Append(validationErr, fmt.Errorf("line %d: quantity must be between 1 and %d", i, s.maxQuantity))
			continue
		}

		ref, err := s.resolver.Resolve(ctx, rawLine.Item)
		if err != nil {
			validationErr = multierr.Append(validationErr, fmt.Errorf("line %d: %w", i, err))
			continue
		}

		// Duplicate references collapse into one line.
		if idx, ok := seen[ref]; ok {
			resolved[idx].Quantity += quantity
			if resolved[idx].Quantity > s.maxQuantity {
				validationErr = multierr.Append(validationErr, fmt.Errorf("line %d: quantity limit of %d exceeded", i, s.maxQuantity))
			}
			continue
		}
		seen[ref] = len(resolved)
		resolved = append(resolved, Line{Ref: ref, Quantity: quantity})
	}

	if validationErr != nil {
		typed := pkgerrors.New(pkgerrors.CodeValidation, "invalid cart payload")
		details := make([]string, 0)
		for _, err := range multierr.Errors(validationErr) {
			details = append(details, err.Error())
		}
		return CartDTO{}, typed.WithDetails(details)
	}

	if err := store.Replace(ctx, owner.Key(), resolved); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace cart")
	}

	s.publish(owner, "replaced")
	return s.GetCart(ctx, owner)
}

// ClearCart removes every line for the owner.
func (s *service) ClearCart(ctx context.Context, owner Owner) error {
	store, err := s.storeFor(owner)
	if err != nil {
		return err
	}
	if err := store.Clear(ctx, owner.Key()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	s.publish(owner, "cleared")
	return nil
}

// MergeGuestCart folds a guest cart into the user's server cart, summing
// quantities for lines present in both, then deletes the guest state.
func (s *service) MergeGuestCart(ctx context.Context, guestToken string, userID uuid.UUID) error {
	if guestToken == "" {
		return nil
	}
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	guestLines, err := s.guestStore.List(ctx, guestToken)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list guest cart")
	}
	if len(guestLines) == 0 {
		return nil
	}

	userKey := userID.String()
	for _, line := range guestLines {
		if line.Quantity <= 0 {
			continue
		}
		if _, err := s.serverStore.Add(ctx, userKey, line.Ref, line.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge guest line")
		}
	}

	if err := s.guestStore.Clear(ctx, guestToken); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear guest cart")
	}

	s.publish(Owner{UserID: userID}, "merged")
	return nil
}

func (s *service) hydrate(ctx context.Context, lines []Line) (CartDTO, error) {
	if len(lines) == 0 {
		dto, _ := buildCartDTO(nil, nil)
		return dto, nil
	}

	refs := make([]types.ItemRef, 0, len(lines))
	for _, line := range lines {
		refs = append(refs, line.Ref)
	}

	summaries, err := s.catalog.FindSummaries(ctx, refs)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "hydrate cart lines")
	}

	dto, skipped := buildCartDTO(lines, summaries)
	for _, ref := range skipped {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"item_kind": string(ref.Kind),
			"item_id":   ref.ID.String(),
		})
		s.logg.Warn(logCtx, "cart line skipped, listing no longer in catalog")
	}
	return dto, nil
}

func (s *service) storeFor(owner Owner) (Store, error) {
	if owner.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if owner.IsGuest() {
		return s.guestStore, nil
	}
	return s.serverStore, nil
}

func (s *service) publish(owner Owner, action string) {
	s.bus.Publish(syncbus.Event{
		Owner:  owner.Key(),
		Scope:  syncbus.ScopeCart,
		Action: action,
	})
}

// removalCandidates builds the refs to try for a removal without requiring a
// catalog round-trip: a delisted item must still be removable from the cart.
func removalCandidates(raw catalog.RawRef) ([]types.ItemRef, error) {
	id, err := uuid.Parse(raw.ID)
	if err != nil || id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid item id")
	}

	if hint := strings.ToLower(strings.TrimSpace(raw.Kind)); hint != "" {
		kind, err := enums.ParseItemKind(hint)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid item kind")
		}
		return []types.ItemRef{{Kind: kind, ID: id}}, nil
	}

	return []types.ItemRef{
		{Kind: enums.ItemKindProduct, ID: id},
		{Kind: enums.ItemKindAccessory, ID: id},
	}, nil
}
