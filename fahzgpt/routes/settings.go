package routes

import (
	"encoding/json"
	"net/http"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/config"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/controllers"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/middlewares"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/types"

	"github.com/go-chi/chi/v5"
)

func ConfigRoutes(ctrl *controllers.SettingsController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Get("/", handleJSON(func(r *http.Request) (any, int, error) {
			aiCfg, err := ctrl.GetConfig(r.Context(), userID(r))
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return aiCfg, http.StatusOK, nil
		}))

		gr.Put("/", handleJSON(func(r *http.Request) (any, int, error) {
			var req types.AIConfig
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			aiCfg, err := ctrl.UpdateConfig(r.Context(), userID(r), req)
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			return aiCfg, http.StatusOK, nil
		}))

		gr.Post("/template", handleJSON(func(r *http.Request) (any, int, error) {
			var req types.ApplyTemplateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			aiCfg, err := ctrl.ApplyTemplate(r.Context(), userID(r), req.TemplateID)
			if err != nil {
				return nil, http.StatusNotFound, err
			}
			return aiCfg, http.StatusOK, nil
		}))
	})
	return r
}

func TemplateRoutes(ctrl *controllers.SettingsController) chi.Router {
	r := chi.NewRouter()
	r.Get("/", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.ListTemplates(), http.StatusOK, nil
	}))
	return r
}
