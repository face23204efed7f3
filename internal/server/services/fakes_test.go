package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dkravets/tenantnotes/internal/common"
	"github.com/dkravets/tenantnotes/internal/dbx"
	"github.com/dkravets/tenantnotes/internal/server/models"
	notesrepo "github.com/dkravets/tenantnotes/internal/server/repositories/notes"
	refreshtokensrepo "github.com/dkravets/tenantnotes/internal/server/repositories/refreshtokens"
	tenantsrepo "github.com/dkravets/tenantnotes/internal/server/repositories/tenants"
	usersrepo "github.com/dkravets/tenantnotes/internal/server/repositories/users"
)

// --- fakes shared by the service tests ---

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	err     error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	return u, f.err
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type fakeTenantsRepo struct {
	byID       map[string]*models.Tenant
	bySlug     map[string]*models.Tenant
	upgradeOut *models.Tenant
	upgradeErr error
}

func (f *fakeTenantsRepo) Create(ctx context.Context, t *models.Tenant) (*models.Tenant, error) {
	return t, nil
}

func (f *fakeTenantsRepo) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTenantsRepo) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	if t, ok := f.bySlug[slug]; ok {
		return t, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTenantsRepo) Upgrade(ctx context.Context, id string) (*models.Tenant, error) {
	if f.upgradeErr != nil {
		return nil, f.upgradeErr
	}
	return f.upgradeOut, nil
}

func (f *fakeTenantsRepo) Count(ctx context.Context) (int, error) {
	return len(f.byID), nil
}

type fakeNotesRepo struct {
	createOut *models.Note
	createErr error

	listOut   []*models.Note
	listTotal int
	listErr   error

	getOut *models.Note
	getErr error

	updateOut *models.Note
	updateErr error

	deleteErr error

	gotTenantID string
	gotOffset   int
	gotLimit    int
}

func (f *fakeNotesRepo) CreateWithinQuota(ctx context.Context, n *models.Note) (*models.Note, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return n, nil
}

func (f *fakeNotesRepo) List(ctx context.Context, tenantID string, offset, limit int) ([]*models.Note, int, error) {
	f.gotTenantID, f.gotOffset, f.gotLimit = tenantID, offset, limit
	return f.listOut, f.listTotal, f.listErr
}

func (f *fakeNotesRepo) Get(ctx context.Context, tenantID, id string) (*models.Note, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeNotesRepo) Update(ctx context.Context, tenantID, authorID, id, title, content string) (*models.Note, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

func (f *fakeNotesRepo) Delete(ctx context.Context, tenantID, authorID, id string) error {
	return f.deleteErr
}

type fakeRefreshRepo struct {
	stored map[string]*models.RefreshToken

	createErr error
	findErr   error
	delErr    error

	deleted []string
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID, tenantID, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.stored == nil {
		f.stored = map[string]*models.RefreshToken{}
	}
	f.stored[token] = &models.RefreshToken{
		Token: token, UserID: userID, TenantID: tenantID, ExpiresAt: time.Now().Add(validity),
	}
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if rt, ok := f.stored[token]; ok {
		return rt, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, token)
	delete(f.stored, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(ctx context.Context) (int64, error) {
	var n int64
	for tok, rt := range f.stored {
		if rt.ExpiresAt.Before(time.Now()) {
			delete(f.stored, tok)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	tn *fakeTenantsRepo
	n  *fakeNotesRepo
	rt *fakeRefreshRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) Tenants(db dbx.DBTX) tenantsrepo.Repository  { return m.tn }
func (m *fakeRepoManager) Notes(db dbx.DBTX) notesrepo.Repository      { return m.n }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.rt
}
