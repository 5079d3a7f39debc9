package auth

import (
	"context"
	"strings"

	apperrors "yt-summarizer/internal/errors"
	"yt-summarizer/internal/models"
)

const bearerPrefix = "Bearer "

// TokenVerifier checks a raw ID token and returns the identity it proves.
// Errors carry one of the token error codes of apperrors.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*models.Identity, error)
}

// Verifier turns an Authorization header value into a verified identity.
type Verifier struct {
	tokens TokenVerifier
}

func NewVerifier(tokens TokenVerifier) *Verifier {
	return &Verifier{tokens: tokens}
}

// Verify accepts "Bearer <token>" or a bare token.
func (v *Verifier) Verify(ctx context.Context, header string) (*models.Identity, error) {
	token := strings.TrimSpace(header)
	if token == "" {
		return nil, apperrors.New(apperrors.CodeUnauthenticated, "Authorization header is missing")
	}
	token = strings.TrimSpace(strings.TrimPrefix(token, bearerPrefix))
	if token == "" {
		return nil, apperrors.New(apperrors.CodeUnauthenticated, "Authorization token is missing")
	}

	identity, err := v.tokens.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return identity, nil
}
