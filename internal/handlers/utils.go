package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gamezone/portal/internal/catalog"
)

type messageResponse struct {
	Message string               `json:"message"`
	Errors  []catalog.FieldError `json:"errors,omitempty"`
}

// writeJSON encodes v as the response body. Encoding failures after the
// header is written can only be logged.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		loggerFrom(r.Context()).Warn("write response", "err", err)
	}
}

func errorJSON(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, messageResponse{Message: message})
}

// validationJSON writes a 400 carrying every rejected field.
func validationJSON(w http.ResponseWriter, r *http.Request, ve *catalog.ValidationError) {
	writeJSON(w, r, http.StatusBadRequest, messageResponse{Message: ve.Message, Errors: ve.Fields})
}

// serverError logs err against the request and answers 500 with a generic message.
func serverError(w http.ResponseWriter, r *http.Request, message string, err error) {
	loggerFrom(r.Context()).Error(message, "err", err, "method", r.Method, "path", r.URL.Path)
	errorJSON(w, r, http.StatusInternalServerError, message)
}

// pathID parses the named URL parameter as a base-10 int64.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

type loggerKey struct{}

func withLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// loggerFrom returns the request-scoped logger, or slog.Default outside a request.
func loggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
