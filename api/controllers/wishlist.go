package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mobimart/mobimart-backend/api/middleware"
	"github.com/mobimart/mobimart-backend/api/responses"
	"github.com/mobimart/mobimart-backend/api/validators"
	"github.com/mobimart/mobimart-backend/internal/catalog"
	"github.com/mobimart/mobimart-backend/internal/wishlist"
	pkgerrors "github.com/mobimart/mobimart-backend/pkg/errors"
	"github.com/mobimart/mobimart-backend/pkg/logger"
)

type wishlistAddRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Kind      string `json:"kind,omitempty"`
	Category  string `json:"category,omitempty"`
}

type wishlistReplaceRequest struct {
	Items []wishlistAddRequest `json:"items" validate:"required,dive"`
}

func wishlistUser(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user context")
	}
	return id, nil
}

// WishlistFetch serves GET /wishlist/{userId}.
func WishlistFetch(svc wishlist.Service, users UserFinder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		userID, err := wishlistUser(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := checkPathUser(r, users, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetWishlist(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "wishlist fetched", dto)
	}
}

// WishlistAdd serves POST /wishlist/add. Re-adding a saved item reports
// success without creating a second entry.
func WishlistAdd(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		userID, err := wishlistUser(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body wishlistAddRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.AddItem(r.Context(), userID, catalog.RawRef{
			ID:       strings.TrimSpace(body.ProductID),
			Kind:     strings.TrimSpace(body.Kind),
			Category: strings.TrimSpace(body.Category),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "item saved to wishlist", dto)
	}
}

// WishlistReplace serves PUT /wishlist.
func WishlistReplace(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		userID, err := wishlistUser(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body wishlistReplaceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		refs := make([]catalog.RawRef, 0, len(body.Items))
		for _, item := range body.Items {
			refs = append(refs, catalog.RawRef{
				ID:       strings.TrimSpace(item.ProductID),
				Kind:     strings.TrimSpace(item.Kind),
				Category: strings.TrimSpace(item.Category),
			})
		}

		dto, err := svc.ReplaceWishlist(r.Context(), userID, refs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "wishlist replaced", dto)
	}
}

// WishlistRemove serves DELETE /wishlist/items/{productId}. Removing an item
// that was never saved still succeeds.
func WishlistRemove(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		userID, err := wishlistUser(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw := catalog.RawRef{
			ID:       strings.TrimSpace(chi.URLParam(r, "productId")),
			Kind:     strings.TrimSpace(r.URL.Query().Get("kind")),
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
		}

		dto, err := svc.RemoveItem(r.Context(), userID, raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "item removed from wishlist", dto)
	}
}
