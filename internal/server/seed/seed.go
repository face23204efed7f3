// Package seed populates the demo dataset: two free tenants and an admin
// plus a member user for each. Running against a non-empty database is a
// no-op.
package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dkravets/tenantnotes/internal/logging"
	"github.com/dkravets/tenantnotes/internal/server/auth"
	"github.com/dkravets/tenantnotes/internal/server/models"
	"github.com/dkravets/tenantnotes/internal/server/repositories/repomanager"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password"

type seedTenant struct {
	name  string
	slug  string
	users []seedUser
}

type seedUser struct {
	email string
	role  models.Role
}

var dataset = []seedTenant{
	{
		name: "Acme Corporation",
		slug: "acme",
		users: []seedUser{
			{email: "admin@acme.test", role: models.RoleAdmin},
			{email: "user@acme.test", role: models.RoleMember},
		},
	},
	{
		name: "Globex Corporation",
		slug: "globex",
		users: []seedUser{
			{email: "admin@globex.test", role: models.RoleAdmin},
			{email: "user@globex.test", role: models.RoleMember},
		},
	},
}

// Run inserts the dataset unless tenants already exist.
func Run(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) error {

	tenantRepo := rm.Tenants(db)
	userRepo := rm.Users(db)

	existing, err := tenantRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("error counting tenants: %w", err)
	}
	if existing > 0 {
		logger.Info(ctx, "database already seeded", "tenants", existing)
		return nil
	}

	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		return fmt.Errorf("error hashing seed password: %w", err)
	}

	for _, st := range dataset {
		tenant, err := tenantRepo.Create(ctx, &models.Tenant{
			Name:     st.name,
			Slug:     st.slug,
			Plan:     models.PlanFree,
			MaxNotes: models.FreeMaxNotes,
		})
		if err != nil {
			return fmt.Errorf("error creating tenant %q: %w", st.slug, err)
		}

		for _, su := range st.users {
			_, err := userRepo.Create(ctx, &models.User{
				Email:        su.email,
				PasswordHash: hash,
				Role:         su.role,
				TenantID:     tenant.ID,
			})
			if err != nil {
				return fmt.Errorf("error creating user %q: %w", su.email, err)
			}
		}

		logger.Info(ctx, "tenant seeded", "tenant", st.slug, "users", len(st.users))
	}

	logger.Info(ctx, "database seeded successfully")
	return nil
}
