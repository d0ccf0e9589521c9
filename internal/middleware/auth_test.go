package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"primaries-backend/internal/auth"
	"primaries-backend/internal/config"
)

func testAuthMiddleware() (*AuthMiddleware, *auth.Service) {
	authSvc := auth.NewService(&config.JWTConfig{
		Secret:            "test-secret",
		Expiration:        time.Hour,
		RefreshExpiration: 24 * time.Hour,
	})
	return NewAuthMiddleware(authSvc, nil), authSvc
}

func TestAuthenticateMissingHeader(t *testing.T) {
	mw, _ := testAuthMiddleware()

	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	mw, _ := testAuthMiddleware()

	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called with a malformed header")
	}))

	for _, header := range []string{"garbage", "Basic abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestAuthenticateValidToken(t *testing.T) {
	mw, authSvc := testAuthMiddleware()

	token, err := authSvc.GenerateToken(42, "voter@test.com")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	var gotID uint
	var gotEmail string
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserID(r)
		gotEmail, _ = GetUserEmail(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if gotID != 42 {
		t.Errorf("Expected user ID 42 in context, got %d", gotID)
	}
	if gotEmail != "voter@test.com" {
		t.Errorf("Expected email in context, got %q", gotEmail)
	}
}
