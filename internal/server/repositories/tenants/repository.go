// Package tenants declares the repository contract for tenant records.
package tenants

import (
	"context"

	"github.com/dkravets/tenantnotes/internal/server/models"
)

// Repository defines operations on tenant records. The plan/max_notes pair
// may only change through Upgrade, which keeps the two consistent.
type Repository interface {
	// Create stores a new tenant. A duplicate slug yields common.ErrorConflict.
	Create(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error)

	// GetByID looks a tenant up by its ID.
	// Returns common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.Tenant, error)

	// GetBySlug looks a tenant up by its unique slug.
	// Returns common.ErrorNotFound when absent.
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)

	// Upgrade atomically moves a free tenant to the pro plan with unlimited
	// notes. Returns common.ErrAlreadyOnPlan when the tenant is not on the
	// free plan, common.ErrorNotFound when it does not exist.
	Upgrade(ctx context.Context, id string) (*models.Tenant, error)

	// Count returns the number of tenants. Used by the seeder to decide
	// whether the database is already populated.
	Count(ctx context.Context) (int, error)
}
