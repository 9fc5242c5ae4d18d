// Package handlers exposes the catalog over a JSON HTTP API.
package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/gamezone/portal/internal/catalog"
)

// Options configures NewRouter.
type Options struct {
	// AllowedOrigins lists the CORS origins. Empty means no CORS headers.
	AllowedOrigins []string
	// StaticDir, when set, is served at / with an index.html fallback.
	StaticDir string
	// Logger receives access and error logs. Nil discards them.
	Logger *slog.Logger
}

// NewRouter builds the full HTTP surface over svc.
func NewRouter(svc *catalog.Service, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(requestID(logger))
	r.Use(accessLog)
	r.Use(recoverer)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
			ExposedHeaders: []string{RequestIDHeader},
			MaxAge:         300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/games", ListGames(svc))
		r.Get("/games/featured", ListFeaturedGames(svc))
		r.Get("/games/upcoming", ListUpcomingGames(svc))
		r.Get("/games/{id}", GetGame(svc))
		r.Get("/games/{id}/comments", ListComments(svc))
		r.Post("/games/{id}/comments", PostComment(svc))
		r.Patch("/comments/{id}/like", LikeComment(svc))
		r.Get("/search", SearchGames(svc))
		r.Post("/contact", SubmitContact(svc))

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			errorJSON(w, r, http.StatusNotFound, "Not found")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			errorJSON(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]any{"ok": true})
	})

	if opts.StaticDir != "" {
		r.Get("/*", spaHandler(opts.StaticDir))
	} else {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			errorJSON(w, r, http.StatusNotFound, "Not found")
		})
	}
	return r
}
