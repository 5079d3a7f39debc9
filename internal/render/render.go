package render

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	apperrors "yt-summarizer/internal/errors"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err as {"error", "code"}. Server-side failures are logged with
// their cause; the body only carries the public message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.CodeOf(err)
	status := apperrors.HTTPStatus(code)

	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("code", code).Msg("request failed")
	}
	JSON(w, status, errorBody{Error: apperrors.PublicMessage(err), Code: code})
}
