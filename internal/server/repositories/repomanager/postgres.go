package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dkravets/tenantnotes/internal/dbx"
	"github.com/dkravets/tenantnotes/internal/server/migrations"
	"github.com/dkravets/tenantnotes/internal/server/repositories/notes"
	"github.com/dkravets/tenantnotes/internal/server/repositories/refreshtokens"
	"github.com/dkravets/tenantnotes/internal/server/repositories/tenants"
	"github.com/dkravets/tenantnotes/internal/server/repositories/users"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// OpenDB opens a database/sql pool backed by the pgx stdlib driver.
func OpenDB(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Tenants(db dbx.DBTX) tenants.Repository {
	return tenants.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Notes(db dbx.DBTX) notes.Repository {
	return notes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
