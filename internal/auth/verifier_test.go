package auth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "yt-summarizer/internal/errors"
	"yt-summarizer/internal/models"
)

type fakeTokens struct {
	identity *models.Identity
	err      error
	got      string
}

func (f *fakeTokens) VerifyIDToken(ctx context.Context, idToken string) (*models.Identity, error) {
	f.got = idToken
	return f.identity, f.err
}

func TestVerify(t *testing.T) {
	identity := &models.Identity{UserID: "uid-1", Email: "a@example.com", EmailVerified: true, AuthTime: 1700000000}

	t.Run("bearer token", func(t *testing.T) {
		tokens := &fakeTokens{identity: identity}
		got, err := NewVerifier(tokens).Verify(context.Background(), "Bearer abc.def.ghi")
		require.NoError(t, err)
		assert.Equal(t, identity, got)
		assert.Equal(t, "abc.def.ghi", tokens.got)
	})

	t.Run("bare token", func(t *testing.T) {
		tokens := &fakeTokens{identity: identity}
		_, err := NewVerifier(tokens).Verify(context.Background(), "abc.def.ghi")
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", tokens.got)
	})

	t.Run("missing header", func(t *testing.T) {
		tokens := &fakeTokens{identity: identity}
		_, err := NewVerifier(tokens).Verify(context.Background(), "")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
		assert.Empty(t, tokens.got)
	})

	t.Run("bearer without token", func(t *testing.T) {
		_, err := NewVerifier(&fakeTokens{}).Verify(context.Background(), "Bearer ")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
	})

	t.Run("verifier errors pass through", func(t *testing.T) {
		expired := apperrors.New(apperrors.CodeExpiredToken, "Expired authentication token")
		_, err := NewVerifier(&fakeTokens{err: expired}).Verify(context.Background(), "Bearer old")
		assert.ErrorIs(t, err, expired)
	})
}

func TestClassifyUnknownError(t *testing.T) {
	err := classifyTokenError(errors.New("dial tcp: i/o timeout"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeVerificationInfra))
}

func TestIdentityFromToken(t *testing.T) {
	token := &fbauth.Token{
		UID:      "uid-9",
		AuthTime: 1700000123,
		Claims:   map[string]interface{}{"email": "x@example.com", "email_verified": true},
	}
	identity := identityFromToken(token)
	assert.Equal(t, &models.Identity{UserID: "uid-9", Email: "x@example.com", EmailVerified: true, AuthTime: 1700000123}, identity)

	anonymous := identityFromToken(&fbauth.Token{UID: "anon"})
	assert.Equal(t, "anon", anonymous.UserID)
	assert.Empty(t, anonymous.Email)
	assert.False(t, anonymous.EmailVerified)
}

func TestCredentialOptions(t *testing.T) {
	opts, err := credentialOptions(FirebaseOptions{CredentialsFile: "/etc/firebase.json"})
	require.NoError(t, err)
	assert.Len(t, opts, 1)

	opts, err = credentialOptions(FirebaseOptions{})
	require.NoError(t, err)
	assert.Empty(t, opts)

	_, err = credentialOptions(FirebaseOptions{PrivateKey: "k"})
	assert.Error(t, err)

	opts, err = credentialOptions(FirebaseOptions{ProjectID: "p", ClientEmail: "sa@p.iam.gserviceaccount.com", PrivateKey: `line1\nline2`})
	require.NoError(t, err)
	assert.Len(t, opts, 1)
}

func TestIdentityJSON(t *testing.T) {
	data, err := json.Marshal(models.Identity{UserID: "u", EmailVerified: false, AuthTime: 5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"uid":"u","email":"","email_verified":false,"auth_time":5}`, string(data))
}
