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

func AuthRoutes(ctrl *controllers.AuthController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		var req types.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Username == "" {
			http.Error(w, "username required", http.StatusBadRequest)
			return
		}
		token, err := ctrl.Login(r.Context(), req.Username, req.Email)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	})
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))
		gr.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
			userID := r.Context().Value(middlewares.UserIDKey).(string)
			ctrl.Logout(r.Context(), userID)
			w.WriteHeader(http.StatusNoContent)
		})
	})
	return r
}
