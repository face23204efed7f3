package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkravets/tenantnotes/internal/common"
	"github.com/dkravets/tenantnotes/internal/dbx"
	"github.com/dkravets/tenantnotes/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateWithinQuota(ctx context.Context, note *models.Note) (*models.Note, error) {

	if note.ID == "" {
		note.ID = uuid.NewString()
	}

	// Single-statement quota check: the insert happens only while the
	// current count is below max_notes, or max_notes is the unlimited
	// sentinel. No read-then-write window.
	query :=
		`INSERT INTO notes (id, title, content, author_id, tenant_id)
		 SELECT $1, $2, $3, $4, $5
		 WHERE (SELECT t.max_notes FROM tenants t WHERE t.id = $5) = $6
		    OR (SELECT count(*) FROM notes n WHERE n.tenant_id = $5) <
		       (SELECT t.max_notes FROM tenants t WHERE t.id = $5)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		note.ID, note.Title, note.Content, note.AuthorID, note.TenantID, models.UnlimitedNotes).
		Scan(&note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrQuotaExceeded
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

func (r *PostgresRepository) List(ctx context.Context, tenantID string, offset, limit int) ([]*models.Note, int, error) {
	query :=
		`SELECT n.id, n.title, n.content, n.author_id, u.email, n.tenant_id, n.created_at, n.updated_at
		 FROM notes n
		 JOIN users u ON u.id = n.author_id
		 WHERE n.tenant_id = $1
		 ORDER BY n.created_at DESC
		 LIMIT $2 OFFSET $3
		 `

	rows, err := r.db.QueryContext(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Note{}
	for rows.Next() {
		note := &models.Note{}
		if err := rows.Scan(&note.ID, &note.Title, &note.Content, &note.AuthorID,
			&note.AuthorEmail, &note.TenantID, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, note)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	var total int
	err = r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM notes WHERE tenant_id = $1`, tenantID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return result, total, nil
}

func (r *PostgresRepository) Get(ctx context.Context, tenantID, id string) (*models.Note, error) {
	query :=
		`SELECT n.id, n.title, n.content, n.author_id, u.email, n.tenant_id, n.created_at, n.updated_at
		 FROM notes n
		 JOIN users u ON u.id = n.author_id
		 WHERE n.id = $1 AND n.tenant_id = $2
		 `

	note := &models.Note{}
	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(
		&note.ID, &note.Title, &note.Content, &note.AuthorID,
		&note.AuthorEmail, &note.TenantID, &note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

func (r *PostgresRepository) Update(ctx context.Context, tenantID, authorID, id, title, content string) (*models.Note, error) {
	// author_id in the predicate keeps ownership failures indistinguishable
	// from missing notes
	query :=
		`UPDATE notes
		 SET title = $4, content = $5, updated_at = now()
		 WHERE id = $1 AND tenant_id = $2 AND author_id = $3
		 RETURNING id, title, content, author_id, tenant_id, created_at, updated_at
		 `

	note := &models.Note{}
	err := r.db.QueryRowContext(ctx, query, id, tenantID, authorID, title, content).Scan(
		&note.ID, &note.Title, &note.Content, &note.AuthorID,
		&note.TenantID, &note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, tenantID, authorID, id string) error {
	query :=
		`DELETE FROM notes
		 WHERE id = $1 AND tenant_id = $2 AND author_id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, id, tenantID, authorID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
