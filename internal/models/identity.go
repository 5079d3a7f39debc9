package models

// Identity is the authenticated caller, derived from a verified ID token.
type Identity struct {
	UserID        string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	// AuthTime is the Unix time (seconds) of the sign-in that minted the token.
	AuthTime int64 `json:"auth_time"`
}
