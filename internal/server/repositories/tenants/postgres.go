package tenants

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dkravets/tenantnotes/internal/common"
	"github.com/dkravets/tenantnotes/internal/dbx"
	"github.com/dkravets/tenantnotes/internal/server/models"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error) {

	if tenant.ID == "" {
		tenant.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO tenants (id, name, slug, plan, max_notes)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		tenant.ID, tenant.Name, tenant.Slug, tenant.Plan, tenant.MaxNotes).
		Scan(&tenant.CreatedAt, &tenant.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tenant, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	query :=
		`SELECT id, name, slug, plan, max_notes, created_at, updated_at FROM tenants
		 WHERE id = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	query :=
		`SELECT id, name, slug, plan, max_notes, created_at, updated_at FROM tenants
		 WHERE slug = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

// Upgrade flips plan and quota in a single conditional UPDATE so two
// concurrent upgrades cannot both succeed.
func (r *PostgresRepository) Upgrade(ctx context.Context, id string) (*models.Tenant, error) {
	query :=
		`UPDATE tenants
		 SET plan = $2, max_notes = $3, updated_at = now()
		 WHERE id = $1 AND plan = $4
		 RETURNING id, name, slug, plan, max_notes, created_at, updated_at
		 `

	tenant, err := r.scanOne(r.db.QueryRowContext(ctx, query,
		id, models.PlanPro, models.UnlimitedNotes, models.PlanFree))

	if errors.Is(err, common.ErrorNotFound) {
		// no row matched: either the tenant is gone or it is already pro
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, common.ErrAlreadyOnPlan
	}

	return tenant, err
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM tenants`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	err := row.Scan(&tenant.ID, &tenant.Name, &tenant.Slug,
		&tenant.Plan, &tenant.MaxNotes, &tenant.CreatedAt, &tenant.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tenant, nil
}
