// Package notes declares the repository contract for note records. Every
// operation takes the scoping tenant ID; there is deliberately no way to
// query notes without one.
package notes

import (
	"context"

	"github.com/dkravets/tenantnotes/internal/server/models"
)

// Repository defines tenant-scoped operations on notes.
type Repository interface {
	// CreateWithinQuota inserts the note only while the tenant is under its
	// note quota (or has the unlimited sentinel). The quota check and the
	// insert are one statement, so concurrent creates cannot overshoot.
	// Returns common.ErrQuotaExceeded when the quota blocks the insert.
	CreateWithinQuota(ctx context.Context, note *models.Note) (*models.Note, error)

	// List returns notes of the tenant ordered by creation time descending,
	// author email included, plus the total tenant-wide note count.
	List(ctx context.Context, tenantID string, offset, limit int) ([]*models.Note, int, error)

	// Get returns the note only when it belongs to the tenant.
	// Returns common.ErrorNotFound otherwise.
	Get(ctx context.Context, tenantID, id string) (*models.Note, error)

	// Update modifies title/content of the caller's own note. Missing,
	// cross-tenant and non-owned notes all yield common.ErrorNotFound.
	Update(ctx context.Context, tenantID, authorID, id, title, content string) (*models.Note, error)

	// Delete removes the caller's own note with the same failure semantics
	// as Update.
	Delete(ctx context.Context, tenantID, authorID, id string) error
}
