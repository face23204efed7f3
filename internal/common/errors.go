// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Session-resolution errors (referential integrity of a verified token).
	ErrUserNotFound   = errors.New("user not found")
	ErrTenantNotFound = errors.New("tenant not found")

	// Tenant-scoping errors.
	ErrTenantMismatch = errors.New("tenant mismatch")

	// Plan/quota errors.
	ErrQuotaExceeded = errors.New("note limit reached")
	ErrAlreadyOnPlan = errors.New("already on plan")
)
