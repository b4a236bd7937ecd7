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
	"github.com/mobimart/mobimart-backend/internal/cart"
	"github.com/mobimart/mobimart-backend/internal/catalog"
	"github.com/mobimart/mobimart-backend/pkg/db/models"
	pkgerrors "github.com/mobimart/mobimart-backend/pkg/errors"
	"github.com/mobimart/mobimart-backend/pkg/logger"
)

// UserFinder verifies the path user segment against the users table.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type cartAddRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Kind      string `json:"kind,omitempty"`
	Category  string `json:"category,omitempty"`
	Quantity  int    `json:"quantity,omitempty" validate:"omitempty,min=1"`
}

func (r cartAddRequest) rawRef() catalog.RawRef {
	return catalog.RawRef{
		ID:       strings.TrimSpace(r.ProductID),
		Kind:     strings.TrimSpace(r.Kind),
		Category: strings.TrimSpace(r.Category),
	}
}

type cartReplaceRequest struct {
	Items []cartReplaceLine `json:"items" validate:"required,dive"`
}

type cartReplaceLine struct {
	ProductID string `json:"product_id" validate:"required"`
	Kind      string `json:"kind,omitempty"`
	Category  string `json:"category,omitempty"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// cartOwner resolves the acting cart owner: the authenticated user wins,
// then the guest token. Neither present means the caller has no cart.
func cartOwner(ctx context.Context) (cart.Owner, error) {
	if raw := middleware.UserIDFromContext(ctx); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return cart.Owner{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user context")
		}
		return cart.Owner{UserID: id}, nil
	}
	if token := middleware.GuestTokenFromContext(ctx); token != "" {
		return cart.Owner{GuestToken: token}, nil
	}
	return cart.Owner{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
}

// CartFetch serves GET /cart/{userId}. Signed-in callers may only read their
// own cart and the path user must exist; guests read the cart tied to their
// token and the path segment is ignored.
func CartFetch(svc cart.Service, users UserFinder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := cartOwner(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !owner.IsGuest() {
			if err := checkPathUser(r, users, owner.UserID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		dto, err := svc.GetCart(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "cart fetched", dto)
	}
}

// CartAdd serves POST /cart/add. A repeat add bumps the quantity of the
// existing line.
func CartAdd(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := cartOwner(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cartAddRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.AddItem(r.Context(), owner, body.rawRef(), body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "item added to cart", dto)
	}
}

// CartReplace serves PUT /cart: the payload becomes the entire cart. The
// whole batch is validated before any row changes.
func CartReplace(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := cartOwner(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cartReplaceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]cart.RawLine, 0, len(body.Items))
		for _, item := range body.Items {
			lines = append(lines, cart.RawLine{
				Item: catalog.RawRef{
					ID:       strings.TrimSpace(item.ProductID),
					Kind:     strings.TrimSpace(item.Kind),
					Category: strings.TrimSpace(item.Category),
				},
				Quantity: item.Quantity,
			})
		}

		dto, err := svc.ReplaceCart(r.Context(), owner, lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "cart replaced", dto)
	}
}

// CartRemoveItem serves DELETE /cart/items/{productId}. Removing something
// that is not in the cart is a NotFound, not a silent success.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := cartOwner(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw := catalog.RawRef{
			ID:       strings.TrimSpace(chi.URLParam(r, "productId")),
			Kind:     strings.TrimSpace(r.URL.Query().Get("kind")),
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
		}

		dto, err := svc.RemoveItem(r.Context(), owner, raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "item removed from cart", dto)
	}
}

// CartClear serves DELETE /cart.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := cartOwner(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ClearCart(r.Context(), owner); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "cart cleared", cart.CartDTO{Items: []cart.LineDTO{}})
	}
}

func checkPathUser(r *http.Request, users UserFinder, actor uuid.UUID) error {
	rawPathID := strings.TrimSpace(chi.URLParam(r, "userId"))
	if rawPathID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	pathID, err := uuid.Parse(rawPathID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	if pathID != actor {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot access another user's data")
	}
	if users != nil {
		if _, err := users.FindByID(r.Context(), pathID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
	}
	return nil
}
