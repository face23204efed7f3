// Package users declares the repository contract for persisted user records.
package users

import (
	"context"

	"github.com/dkravets/tenantnotes/internal/server/models"
)

// Repository defines operations on user records. Emails are unique
// case-insensitively; implementations should match accordingly.
type Repository interface {
	// Create stores a new user and returns it with its generated fields set.
	// A duplicate email yields common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks a user up by email, case-insensitively.
	// Returns common.ErrorNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks a user up by its ID.
	// Returns common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
