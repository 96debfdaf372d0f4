package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	type entry struct {
		ID    string   `json:"id"`
		Title string   `json:"title"`
		Tags  []string `json:"tags,omitempty"`
	}

	tests := []struct {
		name     string
		data     any
		status   int
		wantBody string
	}{
		{
			name:     "entry",
			data:     entry{ID: "e-1", Title: "mail"},
			status:   http.StatusCreated,
			wantBody: `{"id":"e-1","title":"mail"}`,
		},
		{
			name:     "list",
			data:     []entry{{ID: "a", Title: "A", Tags: []string{"x"}}},
			status:   http.StatusOK,
			wantBody: `[{"id":"a","title":"A","tags":["x"]}]`,
		},
		{
			name:     "empty list",
			data:     []entry{},
			status:   http.StatusOK,
			wantBody: `[]`,
		},
		{
			name:     "nil",
			data:     nil,
			status:   http.StatusOK,
			wantBody: `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			n, err := WriteJSON(w, tt.data, tt.status)

			require.NoError(t, err)
			assert.Equal(t, len(tt.wantBody), n)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestWriteJSON_Unmarshalable(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, map[string]any{"ch": make(chan int)}, http.StatusOK)

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, "entry not found", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"entry not found"}`, w.Body.String())
}
