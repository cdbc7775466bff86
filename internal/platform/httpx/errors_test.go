package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantTitle  string
	}{
		{"not found", fmt.Errorf("repair 7: %w", ErrNotFound), http.StatusNotFound, "Not Found"},
		{"duplicate", fmt.Errorf("valuation for repair 7: %w", ErrDuplicate), http.StatusConflict, "Conflict"},
		{"validation", fmt.Errorf("status %q: %w", "X", ErrValidation), http.StatusBadRequest, "Validation Failed"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var problem ProblemDetail
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, tc.wantTitle, problem.Title)
			assert.Equal(t, tc.wantStatus, problem.Status)
		})
	}
}

func TestRespondErrorWithholdsInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("password=hunter2 leaked into an error"))

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Empty(t, problem.Detail)
}
