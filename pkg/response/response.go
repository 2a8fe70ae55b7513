// Package response writes the JSON envelope used by every endpoint.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/roadassist/roadassist/pkg/orm"
)

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, envelope{Status: http.StatusCreated, Data: data})
}

// Message sends a 200 with a human-readable message and optional data.
func Message(w http.ResponseWriter, msg string, data interface{}) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Message: msg, Data: data})
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Status: status, Message: message})
}

// ValidationError sends field-level error messages.
func ValidationError(w http.ResponseWriter, status int, message string, errs map[string]string) {
	write(w, status, envelope{Status: status, Message: message, Errors: errs})
}

// Page is the paginated collection shape: data plus the counters clients
// need to render pagers.
type Page struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
}

// Paginated sends a 200 response with data and pagination counters.
func Paginated(w http.ResponseWriter, data interface{}, p orm.Pagination) {
	write(w, http.StatusOK, envelope{
		Status: http.StatusOK,
		Data: Page{
			Data:       data,
			Total:      p.Total,
			Page:       p.Page,
			TotalPages: p.TotalPages,
		},
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}
