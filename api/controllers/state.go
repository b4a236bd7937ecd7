package controllers

import (
	"net/http"

	"github.com/mobimart/mobimart-backend/api/responses"
	syncbus "github.com/mobimart/mobimart-backend/internal/sync"
	pkgerrors "github.com/mobimart/mobimart-backend/pkg/errors"
	"github.com/mobimart/mobimart-backend/pkg/logger"
)

// StateSnapshot serves GET /state: the combined cart and wishlist snapshot a
// client hydrates its badges from. Responses come from the mirror cache and
// are rebuilt after any mutation invalidates the owner's entry.
func StateSnapshot(mirror *syncbus.Mirror, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mirror == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "state mirror unavailable"))
			return
		}

		owner, err := cartOwner(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := mirror.Get(r.Context(), owner.Key())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "state fetched", snapshot)
	}
}
