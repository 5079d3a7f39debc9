package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	apperrors "yt-summarizer/internal/errors"
	"yt-summarizer/internal/models"
)

// FirebaseOptions are the Admin SDK settings. Credentials come from
// CredentialsFile, else from the service-account fields when PrivateKey is
// set, else from application default credentials.
type FirebaseOptions struct {
	ProjectID       string
	CredentialsFile string
	PrivateKeyID    string
	PrivateKey      string
	ClientEmail     string
	ClientID        string
	AuthURI         string
	TokenURI        string
	CertURL         string
	CheckRevoked    bool
}

// FirebaseVerifier verifies Firebase Authentication ID tokens.
type FirebaseVerifier struct {
	client       *fbauth.Client
	checkRevoked bool
}

func NewFirebaseVerifier(ctx context.Context, opts FirebaseOptions) (*FirebaseVerifier, error) {
	clientOpts, err := credentialOptions(opts)
	if err != nil {
		return nil, err
	}

	var cfg *firebase.Config
	if opts.ProjectID != "" {
		cfg = &firebase.Config{ProjectID: opts.ProjectID}
	}

	app, err := firebase.NewApp(ctx, cfg, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
	}
	return &FirebaseVerifier{client: client, checkRevoked: opts.CheckRevoked}, nil
}

func (f *FirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*models.Identity, error) {
	var (
		token *fbauth.Token
		err   error
	)
	if f.checkRevoked {
		token, err = f.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	} else {
		token, err = f.client.VerifyIDToken(ctx, idToken)
	}
	if err != nil {
		return nil, classifyTokenError(err)
	}
	return identityFromToken(token), nil
}

// classifyTokenError maps Admin SDK failures to token error codes. Expiry and
// revocation are checked before the generic invalid case.
func classifyTokenError(err error) error {
	switch {
	case fbauth.IsIDTokenExpired(err):
		return apperrors.Wrap(err, apperrors.CodeExpiredToken, "Expired authentication token")
	case fbauth.IsIDTokenRevoked(err):
		return apperrors.Wrap(err, apperrors.CodeRevokedToken, "Revoked authentication token")
	case fbauth.IsCertificateFetchFailed(err):
		return apperrors.Wrap(err, apperrors.CodeVerificationInfra, "Error fetching certificates")
	case fbauth.IsIDTokenInvalid(err):
		return apperrors.Wrap(err, apperrors.CodeInvalidToken, "Invalid authentication token")
	default:
		return apperrors.Wrap(err, apperrors.CodeVerificationInfra, "Authentication error")
	}
}

func identityFromToken(token *fbauth.Token) *models.Identity {
	identity := &models.Identity{
		UserID:   token.UID,
		AuthTime: token.AuthTime,
	}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok {
		identity.EmailVerified = verified
	}
	return identity
}

func credentialOptions(opts FirebaseOptions) ([]option.ClientOption, error) {
	if opts.CredentialsFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(opts.CredentialsFile)}, nil
	}
	if opts.PrivateKey == "" {
		return nil, nil
	}
	if opts.ProjectID == "" || opts.ClientEmail == "" {
		return nil, fmt.Errorf("firebase service account needs FIREBASE_PROJECT_ID and FIREBASE_CLIENT_EMAIL")
	}

	serviceAccount := map[string]string{
		"type":                        "service_account",
		"project_id":                  opts.ProjectID,
		"private_key_id":              opts.PrivateKeyID,
		"private_key":                 strings.ReplaceAll(opts.PrivateKey, `\n`, "\n"),
		"client_email":                opts.ClientEmail,
		"client_id":                   opts.ClientID,
		"auth_uri":                    opts.AuthURI,
		"token_uri":                   opts.TokenURI,
		"auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
		"client_x509_cert_url":        opts.CertURL,
	}
	data, err := json.Marshal(serviceAccount)
	if err != nil {
		return nil, fmt.Errorf("failed to encode firebase service account: %w", err)
	}
	return []option.ClientOption{option.WithCredentialsJSON(data)}, nil
}
