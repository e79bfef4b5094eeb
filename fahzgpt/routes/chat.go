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

func ChatRoutes(chatCtrl *controllers.ChatController, sessionCtrl *controllers.SessionController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// POST /chat/ : send one chat turn
		gr.Post("/", handleJSON(func(r *http.Request) (any, int, error) {
			var req types.ChatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			session, appended, err := chatCtrl.SendMessage(r.Context(), userID(r), req)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return map[string]any{"session": session, "appended": appended}, http.StatusOK, nil
		}))

		gr.Post("/image", handleJSON(func(r *http.Request) (any, int, error) {
			var req types.GenerateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			session, appended, err := chatCtrl.GenerateImage(r.Context(), userID(r), req)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return map[string]any{"session": session, "appended": appended}, http.StatusOK, nil
		}))

		gr.Post("/video", handleJSON(func(r *http.Request) (any, int, error) {
			var req types.GenerateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			session, appended, err := chatCtrl.GenerateVideo(r.Context(), userID(r), req)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return map[string]any{"session": session, "appended": appended}, http.StatusOK, nil
		}))

		gr.Get("/sessions", handleJSON(func(r *http.Request) (any, int, error) {
			sessions, err := sessionCtrl.ListSessions(r.Context(), userID(r))
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return sessions, http.StatusOK, nil
		}))

		// POST /chat/sessions : new empty chat, switched to
		gr.Post("/sessions", handleJSON(func(r *http.Request) (any, int, error) {
			session, err := sessionCtrl.NewChat(r.Context(), userID(r))
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return session, http.StatusOK, nil
		}))

		gr.Get("/sessions/active", handleJSON(func(r *http.Request) (any, int, error) {
			session, err := sessionCtrl.ActiveSession(r.Context(), userID(r))
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			// A dangling or unset pointer is simply "no active session".
			return map[string]any{"session": session}, http.StatusOK, nil
		}))

		gr.Put("/sessions/active", handleJSON(func(r *http.Request) (any, int, error) {
			var req types.SetActiveRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			if err := sessionCtrl.SetActive(r.Context(), userID(r), req.SessionID); err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return map[string]string{"active": req.SessionID}, http.StatusOK, nil
		}))
	})
	return r
}
