package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"yt-summarizer/internal/models"
	"yt-summarizer/internal/render"
)

type contextKey string

// IdentityContextKey is the key for the verified identity in the context.
const IdentityContextKey = contextKey("identity")

// IdentityVerifier resolves an Authorization header to an identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, header string) (*models.Identity, error)
}

// Auth rejects requests without a valid ID token and stores the caller's
// identity in the request context.
func Auth(verifier IdentityVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := verifier.Verify(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				zerolog.Ctx(r.Context()).Debug().Err(err).Msg("authentication failed")
				render.Error(w, r, err)
				return
			}

			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("user_id", identity.UserID)
			})

			ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the identity stored by Auth.
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(*models.Identity)
	return identity, ok && identity != nil
}
