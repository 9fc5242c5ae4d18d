package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gamezone/portal/internal/catalog"
	"github.com/gamezone/portal/internal/models"
)

// listGames serves one of the game list queries. All three share the same
// failure message.
func listGames(query func(context.Context) ([]models.Game, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := query(r.Context())
		if err != nil {
			serverError(w, r, "Failed to fetch games", err)
			return
		}
		writeJSON(w, r, http.StatusOK, games)
	}
}

// ListGames handles GET /api/games.
func ListGames(svc *catalog.Service) http.HandlerFunc {
	return listGames(svc.ListAllGames)
}

// ListFeaturedGames handles GET /api/games/featured.
func ListFeaturedGames(svc *catalog.Service) http.HandlerFunc {
	return listGames(svc.ListFeaturedGames)
}

// ListUpcomingGames handles GET /api/games/upcoming.
func ListUpcomingGames(svc *catalog.Service) http.HandlerFunc {
	return listGames(svc.ListUpcomingGames)
}

// GetGame handles GET /api/games/{id}.
func GetGame(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			errorJSON(w, r, http.StatusBadRequest, "Invalid game ID")
			return
		}

		game, found, err := svc.GetGame(r.Context(), id)
		if err != nil {
			serverError(w, r, "Failed to fetch game", err)
			return
		}
		if !found {
			errorJSON(w, r, http.StatusNotFound, "Game not found")
			return
		}
		writeJSON(w, r, http.StatusOK, game)
	}
}

// SearchGames handles GET /api/search?q=. A blank query is rejected.
func SearchGames(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if strings.TrimSpace(q) == "" {
			errorJSON(w, r, http.StatusBadRequest, "Search query is required")
			return
		}

		games, err := svc.SearchGames(r.Context(), q)
		if err != nil {
			serverError(w, r, "Failed to search games", err)
			return
		}
		writeJSON(w, r, http.StatusOK, games)
	}
}
