// Package response writes the API's JSON bodies.
//
// Success bodies are the resource itself (no envelope); every error body is
// {"error": "<message>"}.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/storefront/pkg/orm"
)

// ErrorBody is the single error shape returned by the API.
type ErrorBody struct {
	Error string `json:"error"`
}

// PageBody is the list shape returned for offset-paginated collections.
type PageBody struct {
	Data       interface{}    `json:"data"`
	Pagination orm.Pagination `json:"pagination"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Success sends a 200 with data.
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Created sends a 201 with data.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// NoContent sends a 204 with an empty body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error sends {"error": message} with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// Paginated sends a 200 {"data": [...], "pagination": {...}}.
func Paginated(w http.ResponseWriter, data interface{}, pagination orm.Pagination) {
	JSON(w, http.StatusOK, PageBody{Data: data, Pagination: pagination})
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// InternalError sends the generic 500.
func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Internal Server Error")
}

// TooManyRequests sends a 429.
func TooManyRequests(w http.ResponseWriter) {
	Error(w, http.StatusTooManyRequests, "Too Many Requests")
}
