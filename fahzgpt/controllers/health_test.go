package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/config"
)

func TestHealthCheck(t *testing.T) {
	ctrl := NewHealthController()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	ctrl.HealthCheck(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), config.Version) {
		t.Errorf("health body should carry the product version, got %q", rec.Body.String())
	}
}
