package render

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "yt-summarizer/internal/errors"
)

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody map[string]string
	}{
		{
			name:     "not found",
			err:      apperrors.New(apperrors.CodeNotFound, "Channel not found"),
			wantCode: http.StatusNotFound,
			wantBody: map[string]string{"error": "Channel not found", "code": "NOT_FOUND"},
		},
		{
			name:     "expired token",
			err:      apperrors.New(apperrors.CodeExpiredToken, "Expired authentication token"),
			wantCode: http.StatusUnauthorized,
			wantBody: map[string]string{"error": "Expired authentication token", "code": "EXPIRED_TOKEN"},
		},
		{
			name:     "plain error hides detail",
			err:      errors.New("pq: password authentication failed"),
			wantCode: http.StatusInternalServerError,
			wantBody: map[string]string{"error": "Internal server error", "code": "INTERNAL_ERROR"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Error(rr, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
