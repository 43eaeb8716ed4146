package domain

import "time"

// TokenPair is what a successful login or refresh returns: a short-lived JWT
// access token and an opaque rotating refresh token. JSON field names match
// the original API surface.
type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// RefreshToken is the stored record backing an opaque refresh token. Only the
// SHA-256 fingerprint of the token is persisted.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MFAEnrollment is returned by TOTP enrollment; the URL is suitable for QR
// rendering by the client.
type MFAEnrollment struct {
	Secret  string `json:"secret"`
	URL     string `json:"url"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}
