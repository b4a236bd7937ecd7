package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/mobimart/mobimart-backend/internal/cart"
	"github.com/mobimart/mobimart-backend/internal/catalog"
	"github.com/mobimart/mobimart-backend/pkg/config"
)

type noopCartService struct{}

func (noopCartService) GetCart(context.Context, cart.Owner) (cart.CartDTO, error) {
	return cart.CartDTO{}, nil
}

func (noopCartService) AddItem(context.Context, cart.Owner, catalog.RawRef, int) (cart.CartDTO, error) {
	return cart.CartDTO{}, nil
}

func (noopCartService) RemoveItem(context.Context, cart.Owner, catalog.RawRef) (cart.CartDTO, error) {
	return cart.CartDTO{}, nil
}

func (noopCartService) ReplaceCart(context.Context, cart.Owner, []cart.RawLine) (cart.CartDTO, error) {
	return cart.CartDTO{}, nil
}

func (noopCartService) ClearCart(context.Context, cart.Owner) error { return nil }

func (noopCartService) MergeGuestCart(context.Context, string, uuid.UUID) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "mobimart-test",
			ExpirationMinutes: 15,
			CookieName:        "mobimart_token",
		},
	}
}

func TestRouterServesLiveness(t *testing.T) {
	router := NewRouter(Deps{Config: testConfig()})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-MobiMart-Env"); got != "test" {
		t.Fatalf("expected env header test got %q", got)
	}
}

func TestRouterRejectsUnauthenticatedWishlist(t *testing.T) {
	router := NewRouter(Deps{Config: testConfig()})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/wishlist/add", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRouterRejectsCartAddWithoutAnyIdentity(t *testing.T) {
	router := NewRouter(Deps{Config: testConfig(), CartService: noopCartService{}})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/cart/add", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := NewRouter(Deps{Config: testConfig()})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestRouterSkipsMetricsWhenUnconfigured(t *testing.T) {
	router := NewRouter(Deps{Config: testConfig()})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
