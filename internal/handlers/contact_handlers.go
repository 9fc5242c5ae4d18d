package handlers

import (
	"errors"
	"net/http"

	"github.com/gamezone/portal/internal/catalog"
)

// SubmitContact handles POST /api/contact. The stored record is not echoed.
func SubmitContact(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contact, err := decodeContact(w, r)
		var ve *catalog.ValidationError
		if errors.As(err, &ve) {
			validationJSON(w, r, ve)
			return
		}

		if _, err := svc.AddContact(r.Context(), contact); err != nil {
			serverError(w, r, "Failed to submit contact form", err)
			return
		}
		writeJSON(w, r, http.StatusCreated, messageResponse{Message: "Contact form submitted successfully"})
	}
}
