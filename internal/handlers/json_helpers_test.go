package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"primaries-backend/internal/models"
)

func TestRespondWithJSONNilSlice(t *testing.T) {
	var items []models.News

	rec := httptest.NewRecorder()
	respondWithJSON(rec, http.StatusOK, items)

	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("Expected empty array body, got %q", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}
}

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWithError(rec, http.StatusNotFound, "not here")

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"not here"`) {
		t.Errorf("Unexpected body: %q", rec.Body.String())
	}
}

func TestGetIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if ip := getIP(req); ip != "10.0.0.1:1234" {
		t.Errorf("Expected remote addr fallback, got %q", ip)
	}

	req.Header.Set("X-Real-IP", "10.0.0.2")
	if ip := getIP(req); ip != "10.0.0.2" {
		t.Errorf("Expected X-Real-IP, got %q", ip)
	}

	req.Header.Set("X-Forwarded-For", "10.0.0.3")
	if ip := getIP(req); ip != "10.0.0.3" {
		t.Errorf("Expected X-Forwarded-For to win, got %q", ip)
	}
}

func TestGatewayCallbackMissingFields(t *testing.T) {
	h := &PaymentHandler{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pay/gateway", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.GatewayCallback(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	if body := rec.Body.String(); body == GatewayResponseOK {
		t.Error("Missing fields must not produce an OK response")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Expected plain-text gateway response, got %q", ct)
	}
}
