package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/retailpos/internal/ghl"
	"github.com/edvin/retailpos/internal/model"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	payload := map[string]string{"hello": "world"}

	WriteJSON(w, http.StatusOK, payload)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "world", body["hello"])
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusBadRequest, "something went wrong")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "something went wrong", body["error"])
}

func TestWriteList(t *testing.T) {
	w := httptest.NewRecorder()

	WriteList(w, []string{"a", "b"}, 12, 2, 4)

	var body struct {
		Items  []string `json:"items"`
		Total  int64    `json:"total"`
		Limit  int64    `json:"limit"`
		Offset int64    `json:"offset"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"a", "b"}, body.Items)
	assert.Equal(t, int64(12), body.Total)
	assert.Equal(t, int64(4), body.Offset)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("product x: %w", model.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("folder name: %w", model.ErrConflict), http.StatusConflict},
		{model.ErrInsufficientStock, http.StatusConflict},
		{model.ErrInvalid, http.StatusBadRequest},
		{model.ErrDefaultFolder, http.StatusBadRequest},
		{model.ErrNotConfigured, http.StatusServiceUnavailable},
		{fmt.Errorf("%w: refresh failed", ghl.ErrUnauthorized), http.StatusUnauthorized},
		{ghl.ErrNoToken, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestWriteServiceError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteServiceError(w, fmt.Errorf("payment for intent pi_1: %w", model.ErrConflict))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "pi_1")
}
