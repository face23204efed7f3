// Package repomanager wires the per-aggregate repositories to a database
// handle. Services hand it a *sql.DB for plain calls or a transaction
// handle from dbx.WithTx for multi-step writes.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dkravets/tenantnotes/internal/dbx"
	"github.com/dkravets/tenantnotes/internal/server/repositories/notes"
	"github.com/dkravets/tenantnotes/internal/server/repositories/refreshtokens"
	"github.com/dkravets/tenantnotes/internal/server/repositories/tenants"
	"github.com/dkravets/tenantnotes/internal/server/repositories/users"
)

// RepositoryManager builds repositories bound to the given database handle.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Tenants(db dbx.DBTX) tenants.Repository
	Notes(db dbx.DBTX) notes.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
