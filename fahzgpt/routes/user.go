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

// generic wrapper to reduce boilerplate
func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			http.Error(w, err.Error(), status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(res)
	}
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(middlewares.UserIDKey).(string)
	return id
}

func UserRoutes(ctrl *controllers.UserController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Get("/me", handleJSON(func(r *http.Request) (any, int, error) {
			user, err := ctrl.GetUser(r.Context(), userID(r))
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return user, http.StatusOK, nil
		}))

		gr.Put("/me", handleJSON(func(r *http.Request) (any, int, error) {
			var req types.UpdateUserRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			user, err := ctrl.UpdateUser(r.Context(), userID(r), req)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return user, http.StatusOK, nil
		}))
	})

	return r
}
