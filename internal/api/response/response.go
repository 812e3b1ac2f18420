package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edvin/retailpos/internal/ghl"
	"github.com/edvin/retailpos/internal/model"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// ListResponse wraps a page of items with offset pagination metadata.
type ListResponse struct {
	Items  any   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

func WriteList(w http.ResponseWriter, items any, total, limit, offset int64) {
	WriteJSON(w, http.StatusOK, ListResponse{Items: items, Total: total, Limit: limit, Offset: offset})
}

// WriteServiceError maps service errors to HTTP status codes.
func WriteServiceError(w http.ResponseWriter, err error) {
	WriteError(w, StatusFor(err), err.Error())
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict), errors.Is(err, model.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalid), errors.Is(err, model.ErrDefaultFolder):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, ghl.ErrUnauthorized), errors.Is(err, ghl.ErrNoToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
