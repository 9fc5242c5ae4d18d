package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gamezone/portal/internal/catalog"
	"github.com/gamezone/portal/internal/models"
)

const maxBodyBytes = 1 << 20

type commentRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

type contactRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	Newsletter bool   `json:"newsletter"`
}

// decodeBody reads a single JSON value into dst. Decoding problems come back
// as field errors: the offending field for a type mismatch, "body" otherwise.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) []catalog.FieldError {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return []catalog.FieldError{{Field: typeErr.Field, Message: "must be a " + typeErr.Type.String()}}
	case errors.Is(err, io.EOF):
		return []catalog.FieldError{{Field: "body", Message: "request body is required"}}
	case errors.As(err, &maxErr):
		return []catalog.FieldError{{Field: "body", Message: "request body is too large"}}
	default:
		return []catalog.FieldError{{Field: "body", Message: "must be a JSON object"}}
	}
}

func decodeComment(w http.ResponseWriter, r *http.Request) (commentRequest, error) {
	var req commentRequest
	if fields := decodeBody(w, r, &req); fields != nil {
		return req, &catalog.ValidationError{Message: "Invalid comment data", Fields: fields}
	}

	var fields []catalog.FieldError
	if strings.TrimSpace(req.Author) == "" {
		fields = append(fields, catalog.FieldError{Field: "author", Message: "is required"})
	}
	if strings.TrimSpace(req.Content) == "" {
		fields = append(fields, catalog.FieldError{Field: "content", Message: "is required"})
	}
	if fields != nil {
		return req, &catalog.ValidationError{Message: "Invalid comment data", Fields: fields}
	}
	return req, nil
}

func decodeContact(w http.ResponseWriter, r *http.Request) (models.Contact, error) {
	var req contactRequest
	if fields := decodeBody(w, r, &req); fields != nil {
		return models.Contact{}, &catalog.ValidationError{Message: "Invalid contact data", Fields: fields}
	}

	var fields []catalog.FieldError
	minLen := func(field, value string, n int) {
		if utf8.RuneCountInString(value) < n {
			fields = append(fields, catalog.FieldError{Field: field, Message: "must be at least " + strconv.Itoa(n) + " characters"})
		}
	}
	minLen("name", req.Name, 2)
	if !validEmail(req.Email) {
		fields = append(fields, catalog.FieldError{Field: "email", Message: "must be a valid email address"})
	}
	minLen("subject", req.Subject, 3)
	minLen("message", req.Message, 10)
	if fields != nil {
		return models.Contact{}, &catalog.ValidationError{Message: "Invalid contact data", Fields: fields}
	}

	return models.Contact{
		Name:       req.Name,
		Email:      req.Email,
		Subject:    req.Subject,
		Message:    req.Message,
		Newsletter: req.Newsletter,
	}, nil
}

// validEmail accepts a bare address with a dotted domain. Display-name
// forms such as "Ana <ana@example.com>" are rejected.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}
