package services

import (
	"context"
	"database/sql"

	"github.com/dkravets/tenantnotes/internal/common"
	"github.com/dkravets/tenantnotes/internal/server/models"
	"github.com/dkravets/tenantnotes/internal/server/repositories/repomanager"
)

type TenantService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTenantService(db *sql.DB, m repomanager.RepositoryManager) *TenantService {
	return &TenantService{db: db, repomanager: m}
}

// ResolveSlug loads the tenant a request path refers to.
// Returns common.ErrorNotFound for unknown slugs.
func (s *TenantService) ResolveSlug(ctx context.Context, slug string) (*models.Tenant, error) {
	return s.repomanager.Tenants(s.db).GetBySlug(ctx, slug)
}

// Upgrade moves the session tenant from free to pro. The slug must resolve
// to the session tenant itself; upgrading someone else's tenant is a
// tenant-mismatch, not a not-found, once the slug exists.
func (s *TenantService) Upgrade(ctx context.Context, sess *Session, slug string) (*models.Tenant, error) {

	requested, err := s.ResolveSlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if requested.ID != sess.Tenant.ID {
		return nil, common.ErrTenantMismatch
	}

	return s.repomanager.Tenants(s.db).Upgrade(ctx, requested.ID)
}
