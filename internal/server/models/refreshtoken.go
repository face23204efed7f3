package models

import "time"

// RefreshToken is a persisted refresh credential. The stored row doubles as
// the revocation list: a token with no row can never be rotated.
type RefreshToken struct {
	Token     string
	UserID    string
	TenantID  string
	ExpiresAt time.Time
	CreatedAt time.Time
}
