package controllers

import (
	"net/http"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/config"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// HealthCheck reports liveness and the running product version.
func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok", "version": "` + config.Version + `"}`))
}
