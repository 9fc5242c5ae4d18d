package handlers

import (
	"errors"
	"net/http"

	"github.com/gamezone/portal/internal/catalog"
)

// ListComments handles GET /api/games/{id}/comments. An unknown game simply
// has no comments.
func ListComments(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, ok := pathID(r, "id")
		if !ok {
			errorJSON(w, r, http.StatusBadRequest, "Invalid game ID")
			return
		}

		comments, err := svc.ListCommentsForGame(r.Context(), gameID)
		if err != nil {
			serverError(w, r, "Failed to fetch comments", err)
			return
		}
		writeJSON(w, r, http.StatusOK, comments)
	}
}

// PostComment handles POST /api/games/{id}/comments. The game must exist
// before the body is looked at.
func PostComment(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, ok := pathID(r, "id")
		if !ok {
			errorJSON(w, r, http.StatusBadRequest, "Invalid game ID")
			return
		}

		_, found, err := svc.GetGame(r.Context(), gameID)
		if err != nil {
			serverError(w, r, "Failed to add comment", err)
			return
		}
		if !found {
			errorJSON(w, r, http.StatusNotFound, "Game not found")
			return
		}

		req, err := decodeComment(w, r)
		var ve *catalog.ValidationError
		if errors.As(err, &ve) {
			validationJSON(w, r, ve)
			return
		}

		comment, err := svc.AddComment(r.Context(), gameID, req.Author, req.Content)
		var nf *catalog.NotFoundError
		switch {
		case errors.As(err, &nf):
			errorJSON(w, r, http.StatusNotFound, "Game not found")
			return
		case err != nil:
			serverError(w, r, "Failed to add comment", err)
			return
		}
		writeJSON(w, r, http.StatusCreated, comment)
	}
}

// LikeComment handles PATCH /api/comments/{id}/like.
func LikeComment(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			errorJSON(w, r, http.StatusBadRequest, "Invalid comment ID")
			return
		}

		comment, found, err := svc.IncrementLike(r.Context(), id)
		if err != nil {
			serverError(w, r, "Failed to like comment", err)
			return
		}
		if !found {
			errorJSON(w, r, http.StatusNotFound, "Comment not found")
			return
		}
		writeJSON(w, r, http.StatusOK, comment)
	}
}
