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

func TestRespondError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		detail string
	}{
		{fmt.Errorf("start_date: %w", ErrValidation), http.StatusBadRequest, "start_date: validation failed"},
		{ErrUnauthorized, http.StatusUnauthorized, "sign-in required"},
		{ErrForbidden, http.StatusForbidden, "forbidden"},
		{ErrConflict, http.StatusConflict, "superseded by a newer request"},
		{ErrUnavailable, http.StatusServiceUnavailable, "service unavailable"},
		{fmt.Errorf("%w: Error fetching data", ErrUpstream), http.StatusBadGateway, "upstream request failed: Error fetching data"},
		{errors.New("database exploded"), http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, tc.err)

		require.Equal(t, tc.status, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		var body ProblemDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tc.status, body.Status)
		assert.Equal(t, tc.detail, body.Detail)
	}
}
