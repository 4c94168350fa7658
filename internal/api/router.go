package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Session routes
		r.Post("/sessions", apiHandler.CreateSessionHandler)
		r.Get("/sessions", apiHandler.ListSessionsHandler)
		r.Get("/sessions/{sessionID}", apiHandler.GetSessionHandler)
		r.Delete("/sessions/{sessionID}", apiHandler.DeleteSessionHandler)

		// Message submission streams the reply back as SSE
		r.Post("/sessions/{sessionID}/messages", apiHandler.PostMessageHandler)
	})

	return r
}
