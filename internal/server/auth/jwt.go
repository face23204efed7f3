// Package auth provides JWT token generation/verification and password
// hashing helpers used by the session layer.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkravets/tenantnotes/internal/common"
)

// TokenPayload is the signed content of both access and refresh tokens.
type TokenPayload struct {
	UserID   string
	TenantID string
	Role     string
}

// Claims wraps the registered claim set with the token payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	TenantID string `json:"tid"`
	Role     string `json:"role"`
}

// GenerateToken signs payload with secretKey (HS256) and the given validity.
// Access and refresh tokens use the same shape but distinct secrets and
// lifetimes; the secret decides which kind a verifier accepts.
func GenerateToken(payload TokenPayload, secretKey []byte, validityDuration time.Duration) (string, error) {
	// a random jti keeps tokens unique even when two are issued within the
	// same second for the same payload; refresh tokens are keyed by value
	jti, err := common.MakeRandHexString(16)
	if err != nil {
		return "", err
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:   payload.UserID,
		TenantID: payload.TenantID,
		Role:     payload.Role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies tokenString against secretKey and returns its payload.
// Expired tokens yield common.ErrTokenExpired; any other verification
// failure yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*TokenPayload, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return &TokenPayload{UserID: claims.UserID, TenantID: claims.TenantID, Role: claims.Role}, nil
}
