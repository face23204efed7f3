// Package refreshtokens declares the repository contract for persisted
// refresh tokens. The stored rows double as the revocation list.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dkravets/tenantnotes/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// refresh tokens.
type Repository interface {
	// Create stores a new refresh token with an expiry of now+validity.
	Create(ctx context.Context, userID, tenantID, token string, validity time.Duration) error

	// Find looks a refresh token up by its token string.
	// Returns common.ErrorNotFound when absent (i.e. revoked or never issued).
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token. Deleting an absent token is not an
	// error; revocation is idempotent.
	Delete(ctx context.Context, token string) error

	// DeleteExpired purges tokens whose expiry has passed and returns how
	// many rows were removed. Garbage collection only; Find never returns
	// a token it would have removed as valid.
	DeleteExpired(ctx context.Context) (int64, error)
}
