package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGuestTokenFromHeader(t *testing.T) {
	var captured string
	handler := GuestToken()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GuestTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Guest-Token", "guest-abc")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured != "guest-abc" {
		t.Fatalf("expected guest-abc got %q", captured)
	}
}

func TestGuestTokenHeaderWinsOverCookie(t *testing.T) {
	var captured string
	handler := GuestToken()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GuestTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Guest-Token", "from-header")
	req.AddCookie(&http.Cookie{Name: "mobimart_guest", Value: "from-cookie"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured != "from-header" {
		t.Fatalf("expected from-header got %q", captured)
	}
}

func TestGuestTokenAbsentLeavesContextEmpty(t *testing.T) {
	var captured string
	handler := GuestToken()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GuestTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if captured != "" {
		t.Fatalf("expected empty token got %q", captured)
	}
}
