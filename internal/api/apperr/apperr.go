// Package apperr turns handler and store errors into JSON error responses.
package apperr

import (
	"errors"
	"log"
	"net/http"

	"github.com/eldieng/Fawsayni-Tech/internal/api/httpx"
	"github.com/eldieng/Fawsayni-Tech/internal/store"
	"github.com/eldieng/Fawsayni-Tech/internal/validate"
)

const internalMessage = "Une erreur interne est survenue"

// Error is an error with a client-facing status and message.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, message string) *Error { return &Error{Status: status, Message: message} }

func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func Forbidden(message string) *Error    { return New(http.StatusForbidden, message) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message) }

// Wrap attaches a client-facing status and message to err.
func Wrap(err error, status int, message string) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

// Write maps err to a status and message and writes the envelope.
// Unexpected errors are logged and reported without detail.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := Classify(err)
	if status >= 500 {
		log.Printf("[ERROR] rid=%s %s %s: %v", r.Header.Get("X-Request-ID"), r.Method, r.URL.Path, err)
	}
	httpx.Error(w, status, msg)
}

// Classify returns the status and message Write would use for err.
func Classify(err error) (int, string) {
	var (
		ae *Error
		ve *validate.Error
		ce *store.ConflictError
		mb *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ae):
		return ae.Status, ae.Message
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.As(err, &ce):
		return http.StatusBadRequest, ce.Error()
	case errors.As(err, &mb):
		return http.StatusRequestEntityTooLarge, "Le corps de la requête est trop volumineux"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "Ressource introuvable"
	case errors.Is(err, store.ErrInvalid):
		return http.StatusBadRequest, "Données invalides"
	}
	return http.StatusInternalServerError, internalMessage
}
