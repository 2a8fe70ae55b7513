// Package apperr defines the closed error taxonomy shared by services and
// controllers. Services return these errors; controllers forward every error
// to Respond, which logs full request context and writes the JSON envelope.
//
// Classification uses errors.Is against the exported sentinels:
//
//	if errors.Is(err, apperr.ErrInvalidTransition) { ... }
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/roadassist/roadassist/config"
	"github.com/roadassist/roadassist/pkg/logger"
	"github.com/roadassist/roadassist/pkg/response"
)

// Error is a domain error carrying its HTTP mapping.
type Error struct {
	Code    string            // stable machine-readable code
	Status  int               // HTTP status to respond with
	Message string            // client-facing message
	Fields  map[string]string // per-field messages for validation errors
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Code + ": " + e.cause.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches two *Error values by code, so wrapped instances compare equal
// to their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels. Compare with errors.Is; never mutate.
var (
	ErrDuplicateUsername  = &Error{Code: "duplicate_username", Status: http.StatusBadRequest, Message: "Username already exists"}
	ErrInvalidCredentials = &Error{Code: "invalid_credentials", Status: http.StatusUnauthorized, Message: "Invalid username or password"}
	ErrUnauthenticated    = &Error{Code: "unauthenticated", Status: http.StatusUnauthorized, Message: "Not authenticated"}
	ErrForbidden          = &Error{Code: "forbidden", Status: http.StatusForbidden, Message: "You do not have permission to access this resource"}
	ErrNotFound           = &Error{Code: "not_found", Status: http.StatusNotFound, Message: "The requested resource could not be found"}
	ErrInvalidTransition  = &Error{Code: "invalid_transition", Status: http.StatusConflict, Message: "Status transition not allowed"}
	ErrValidation         = &Error{Code: "validation", Status: http.StatusBadRequest, Message: "Validation failed"}
	ErrRateLimited        = &Error{Code: "rate_limited", Status: http.StatusTooManyRequests, Message: "Too many requests"}
	ErrInternal           = &Error{Code: "internal", Status: http.StatusInternalServerError, Message: "Internal Server Error"}
)

// NotFound returns a not-found error naming the missing resource.
func NotFound(what string) *Error {
	return &Error{Code: ErrNotFound.Code, Status: ErrNotFound.Status, Message: what + " not found"}
}

// Forbidden returns a forbidden error with a specific message.
func Forbidden(msg string) *Error {
	return &Error{Code: ErrForbidden.Code, Status: ErrForbidden.Status, Message: msg}
}

// InvalidTransition names the rejected status change.
func InvalidTransition(from, to string) *Error {
	return &Error{
		Code:    ErrInvalidTransition.Code,
		Status:  ErrInvalidTransition.Status,
		Message: fmt.Sprintf("cannot transition service request from %q to %q", from, to),
	}
}

// Validation wraps per-field messages from the validator.
func Validation(fields map[string]string) *Error {
	return &Error{Code: ErrValidation.Code, Status: ErrValidation.Status, Message: ErrValidation.Message, Fields: fields}
}

// BadRequest reports a malformed request body or parameter.
func BadRequest(msg string) *Error {
	return &Error{Code: "bad_request", Status: http.StatusBadRequest, Message: msg}
}

// Internal wraps an unexpected error. The cause is logged, never sent to
// clients in production.
func Internal(err error) *Error {
	return &Error{Code: ErrInternal.Code, Status: ErrInternal.Status, Message: ErrInternal.Message, cause: err}
}

// From normalises any error into an *Error. gorm's record-not-found maps to
// 404; everything unrecognised becomes a 500.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return Internal(err)
}

// Respond is the single exit path for handler errors. It logs method, path,
// ip and user id alongside the error, then writes the JSON envelope. In
// production the 500 message is the generic one; in development the real
// error text is included.
func Respond(w http.ResponseWriter, r *http.Request, userID uint, err error) {
	e := From(err)

	log := logger.WithCtx(r.Context())
	attrs := []any{
		"code", e.Code,
		"status", e.Status,
		"method", r.Method,
		"path", r.URL.Path,
		"ip", r.RemoteAddr,
		"user_id", userID,
	}

	if e.Status >= http.StatusInternalServerError {
		log.Error(e.Error(), attrs...)

		msg := e.Message
		if !config.Production() && e.cause != nil {
			msg = e.cause.Error()
		}
		response.Error(w, e.Status, msg)
		return
	}

	log.Warn(e.Error(), attrs...)

	if e.Fields != nil {
		response.ValidationError(w, e.Status, e.Message, e.Fields)
		return
	}
	response.Error(w, e.Status, e.Message)
}
