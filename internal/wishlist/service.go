package wishlist

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

type entryStore interface {
	AddEntry(ctx context.Context, userID uuid.UUID, ref types.ItemRef) error
	Contains(ctx context.Context, userID uuid.UUID, ref types.ItemRef) (bool, error)
	RemoveEntry(ctx context.Context, userID uuid.UUID, ref types.ItemRef) (bool, error)
	ListEntries(ctx context.Context, userID uuid.UUID) ([]entry, error)
	ReplaceEntries(ctx context.Context, userID uuid.UUID, refs []types.ItemRef) error
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Logger   *logger.Logger
	Repo     entryStore
	Resolver refResolver
	Catalog  summaryFinder
	Bus      *syncbus.Bus
}

// Service exposes business rules for wishlist management. The wishlist is a
// set: adds are idempotent and removals of absent items succeed quietly.
type Service interface {
	GetWishlist(ctx context.Context, userID uuid.UUID) (WishlistDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, raw catalog.RawRef) (WishlistDTO, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, raw catalog.RawRef) (WishlistDTO, error)
	ReplaceWishlist(ctx context.Context, userID uuid.UUID, rawRefs []catalog.RawRef) (WishlistDTO, error)
}

type service struct {
	logg     *logger.Logger
	repo     entryStore
	resolver refResolver
	catalog  summaryFinder
	bus      *syncbus.Bus
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
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
	return &service{
		logg:     params.Logger,
		repo:     params.Repo,
		resolver: params.Resolver,
		catalog:  params.Catalog,
		bus:      params.Bus,
	}, nil
}

// GetWishlist returns the hydrated wishlist for the user.
func (s *service) GetWishlist(ctx context.Context, userID uuid.UUID) (WishlistDTO, error) {
	if userID == uuid.Nil {
		return WishlistDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	entries, err := s.repo.ListEntries(ctx, userID)
	if err != nil {
		return WishlistDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist entries")
	}
	return s.hydrate(ctx, entries)
}

// AddItem resolves the reference and saves it. Saving an already-saved item
// is a quiet success.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, raw catalog.RawRef) (WishlistDTO, error) {
	if userID == uuid.Nil {
		return WishlistDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	ref, err := s.resolver.Resolve(ctx, raw)
	if err != nil {
		return WishlistDTO{}, err
	}

	saved, err := s.repo.Contains(ctx, userID, ref)
	if err != nil {
		return WishlistDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist entry")
	}
	if saved {
		// Nothing changed, so mirrors have nothing to refetch.
		return s.GetWishlist(ctx, userID)
	}

	if err := s.repo.AddEntry(ctx, userID, ref); err != nil {
		return WishlistDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist entry")
	}

	s.publish(userID, "added")
	return s.GetWishlist(ctx, userID)
}

// RemoveItem drops the entry. Removing an item that was never saved is a
// quiet success, not an error.
func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, raw catalog.RawRef) (WishlistDTO, error) {
	if userID == uuid.Nil {
		return WishlistDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	refs, err := removalCandidates(raw)
	if err != nil {
		return WishlistDTO{}, err
	}

	for _, ref := range refs {
		hit, err := s.repo.RemoveEntry(ctx, userID, ref)
		if err != nil {
			return WishlistDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist entry")
		}
		if hit {
			break
		}
	}

	s.publish(userID, "removed")
	return s.GetWishlist(ctx, userID)
}

// ReplaceWishlist swaps the whole set for the provided references. The
// payload is validated as a unit before anything is written.
func (s *service) ReplaceWishlist(ctx context.Context, userID uuid.UUID, rawRefs []catalog.RawRef) (WishlistDTO, error) {
	if userID == uuid.Nil {
		return WishlistDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var validationErr error
	resolved := make([]types.ItemRef, 0, len(rawRefs))
	seen := make(map[types.ItemRef]struct{}, len(rawRefs))

	for i, raw := range rawRefs {
		ref, err := s.resolver.Resolve(ctx, raw)
		if err != nil {
			validationErr = multierr.Append(validationErr, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		resolved = append(resolved, ref)
	}

	if validationErr != nil {
		typed := pkgerrors.New(pkgerrors.CodeValidation, "invalid wishlist payload")
		details := make([]string, 0)
		for _, err := range multierr.Errors(validationErr) {
			details = append(details, err.Error())
		}
		return WishlistDTO{}, typed.WithDetails(details)
	}

	if err := s.repo.ReplaceEntries(ctx, userID, resolved); err != nil {
		return WishlistDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace wishlist")
	}

	s.publish(userID, "replaced")
	return s.GetWishlist(ctx, userID)
}

func (s *service) hydrate(ctx context.Context, entries []entry) (WishlistDTO, error) {
	if len(entries) == 0 {
		return WishlistDTO{Items: []EntryDTO{}}, nil
	}

	refs := make([]types.ItemRef, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, e.Ref)
	}

	summaries, err := s.catalog.FindSummaries(ctx, refs)
	if err != nil {
		return WishlistDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "hydrate wishlist entries")
	}

	items := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		summary, ok := summaries[e.Ref]
		if !ok {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"item_kind": string(e.Ref.Kind),
				"item_id":   e.Ref.ID.String(),
			})
			s.logg.Warn(logCtx, "wishlist entry skipped, listing no longer in catalog")
			continue
		}
		items = append(items, EntryDTO{
			Ref:      e.Ref,
			Name:     summary.Name,
			Price:    summary.Price,
			Image:    summary.Image,
			Category: summary.Category,
			InStock:  summary.InStock,
			SavedAt:  e.SavedAt,
		})
	}

	return WishlistDTO{Items: items, Total: len(items)}, nil
}

func (s *service) publish(userID uuid.UUID, action string) {
	s.bus.Publish(syncbus.Event{
		Owner:  userID.String(),
		Scope:  syncbus.ScopeWishlist,
		Action: action,
	})
}

// removalCandidates builds the refs to try for a removal without a catalog
// round-trip so delisted items can still be unsaved.
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
