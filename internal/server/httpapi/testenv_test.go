package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dkravets/tenantnotes/internal/common"
	"github.com/dkravets/tenantnotes/internal/dbx"
	"github.com/dkravets/tenantnotes/internal/logging"
	"github.com/dkravets/tenantnotes/internal/server/auth"
	"github.com/dkravets/tenantnotes/internal/server/config"
	"github.com/dkravets/tenantnotes/internal/server/models"
	notesrepo "github.com/dkravets/tenantnotes/internal/server/repositories/notes"
	refreshtokensrepo "github.com/dkravets/tenantnotes/internal/server/repositories/refreshtokens"
	tenantsrepo "github.com/dkravets/tenantnotes/internal/server/repositories/tenants"
	usersrepo "github.com/dkravets/tenantnotes/internal/server/repositories/users"
	"github.com/dkravets/tenantnotes/internal/server/services"
)

// In-memory repositories backing the full HTTP stack in tests. The handler
// only accepts concrete services, so the fakes sit below real service code.

type fakeUsersRepo struct {
	users map[string]*models.User
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeTenantsRepo struct {
	tenants map[string]*models.Tenant
}

func (f *fakeTenantsRepo) Create(ctx context.Context, t *models.Tenant) (*models.Tenant, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	f.tenants[t.ID] = t
	return t, nil
}

func (f *fakeTenantsRepo) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (f *fakeTenantsRepo) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	for _, t := range f.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTenantsRepo) Upgrade(ctx context.Context, id string) (*models.Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if t.Plan != models.PlanFree {
		return nil, common.ErrAlreadyOnPlan
	}
	t.Plan = models.PlanPro
	t.MaxNotes = models.UnlimitedNotes
	t.UpdatedAt = time.Now()
	return t, nil
}

func (f *fakeTenantsRepo) Count(ctx context.Context) (int, error) {
	return len(f.tenants), nil
}

type fakeNotesRepo struct {
	notes   []*models.Note
	tenants *fakeTenantsRepo
	users   *fakeUsersRepo
}

func (f *fakeNotesRepo) countForTenant(tenantID string) int {
	n := 0
	for _, note := range f.notes {
		if note.TenantID == tenantID {
			n++
		}
	}
	return n
}

func (f *fakeNotesRepo) CreateWithinQuota(ctx context.Context, note *models.Note) (*models.Note, error) {
	tenant, ok := f.tenants.tenants[note.TenantID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if !tenant.Unlimited() && f.countForTenant(note.TenantID) >= tenant.MaxNotes {
		return nil, common.ErrQuotaExceeded
	}
	note.ID = uuid.NewString()
	note.CreatedAt = time.Now()
	note.UpdatedAt = note.CreatedAt
	f.notes = append(f.notes, note)
	return note, nil
}

func (f *fakeNotesRepo) List(ctx context.Context, tenantID string, offset, limit int) ([]*models.Note, int, error) {
	var scoped []*models.Note
	for i := len(f.notes) - 1; i >= 0; i-- { // newest first
		if f.notes[i].TenantID == tenantID {
			n := *f.notes[i]
			if u, ok := f.users.users[n.AuthorID]; ok {
				n.AuthorEmail = u.Email
			}
			scoped = append(scoped, &n)
		}
	}
	total := len(scoped)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return scoped[offset:end], total, nil
}

func (f *fakeNotesRepo) Get(ctx context.Context, tenantID, id string) (*models.Note, error) {
	for _, note := range f.notes {
		if note.ID == id && note.TenantID == tenantID {
			return note, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeNotesRepo) Update(ctx context.Context, tenantID, authorID, id, title, content string) (*models.Note, error) {
	for _, note := range f.notes {
		if note.ID == id && note.TenantID == tenantID && note.AuthorID == authorID {
			note.Title = title
			note.Content = content
			note.UpdatedAt = time.Now()
			return note, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeNotesRepo) Delete(ctx context.Context, tenantID, authorID, id string) error {
	for i, note := range f.notes {
		if note.ID == id && note.TenantID == tenantID && note.AuthorID == authorID {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeRefreshRepo struct {
	stored map[string]*models.RefreshToken
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID, tenantID, token string, validity time.Duration) error {
	f.stored[token] = &models.RefreshToken{
		Token:     token,
		UserID:    userID,
		TenantID:  tenantID,
		ExpiresAt: time.Now().Add(validity),
		CreatedAt: time.Now(),
	}
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := f.stored[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return rt, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	delete(f.stored, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(ctx context.Context) (int64, error) {
	var n int64
	for token, rt := range f.stored {
		if rt.ExpiresAt.Before(time.Now()) {
			delete(f.stored, token)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	users   *fakeUsersRepo
	tenants *fakeTenantsRepo
	notes   *fakeNotesRepo
	refresh *fakeRefreshRepo
}

func (f *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository                 { return f.users }
func (f *fakeRepoManager) Tenants(dbx.DBTX) tenantsrepo.Repository             { return f.tenants }
func (f *fakeRepoManager) Notes(dbx.DBTX) notesrepo.Repository                 { return f.notes }
func (f *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository { return f.refresh }
func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error        { return nil }

type testEnv struct {
	t       *testing.T
	cfg     *config.Config
	mock    sqlmock.Sqlmock
	router  *gin.Engine
	users   *fakeUsersRepo
	tenants *fakeTenantsRepo
	notes   *fakeNotesRepo
	refresh *fakeRefreshRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()

	users := &fakeUsersRepo{users: make(map[string]*models.User)}
	tenants := &fakeTenantsRepo{tenants: make(map[string]*models.Tenant)}
	notes := &fakeNotesRepo{tenants: tenants, users: users}
	refresh := &fakeRefreshRepo{stored: make(map[string]*models.RefreshToken)}
	rm := &fakeRepoManager{users: users, tenants: tenants, notes: notes, refresh: refresh}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	handler := NewHandler(
		services.NewAuthService(db, rm, cfg),
		services.NewNoteService(db, rm),
		services.NewTenantService(db, rm),
		db, logger, cfg,
	)

	return &testEnv{
		t:       t,
		cfg:     cfg,
		mock:    mock,
		router:  handler.InitRoutes(),
		users:   users,
		tenants: tenants,
		notes:   notes,
		refresh: refresh,
	}
}

func (e *testEnv) addTenant(slug string, plan models.Plan) *models.Tenant {
	maxNotes := models.FreeMaxNotes
	if plan == models.PlanPro {
		maxNotes = models.UnlimitedNotes
	}
	tenant, err := e.tenants.Create(context.Background(), &models.Tenant{
		Name:     strings.ToUpper(slug[:1]) + slug[1:],
		Slug:     slug,
		Plan:     plan,
		MaxNotes: maxNotes,
	})
	require.NoError(e.t, err)
	return tenant
}

func (e *testEnv) addUser(email string, role models.Role, tenantID, password string) *models.User {
	hash, err := auth.HashPassword(password)
	require.NoError(e.t, err)
	user, err := e.users.Create(context.Background(), &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		TenantID:     tenantID,
	})
	require.NoError(e.t, err)
	return user
}

func (e *testEnv) addNote(user *models.User, title string) *models.Note {
	note, err := e.notes.CreateWithinQuota(context.Background(), &models.Note{
		Title:    title,
		Content:  "content of " + title,
		AuthorID: user.ID,
		TenantID: user.TenantID,
	})
	require.NoError(e.t, err)
	return note
}

// accessToken mints a valid access token for the user, the way login would.
func (e *testEnv) accessToken(user *models.User) string {
	token, err := auth.GenerateToken(
		auth.TokenPayload{UserID: user.ID, TenantID: user.TenantID, Role: string(user.Role)},
		[]byte(e.cfg.AccessTokenSecret), e.cfg.AccessTokenValidityDuration)
	require.NoError(e.t, err)
	return token
}

func (e *testEnv) do(method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, *Response) {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp Response
	if w.Body.Len() > 0 {
		require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, &resp
}

func accessCookie(token string) *http.Cookie {
	return &http.Cookie{Name: accessTokenCookie, Value: token}
}

func refreshCookie(token string) *http.Cookie {
	return &http.Cookie{Name: refreshTokenCookie, Value: token}
}

func responseCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func dataMap(t *testing.T, resp *Response) map[string]any {
	t.Helper()
	m, ok := resp.Data.(map[string]any)
	require.True(t, ok, "expected object data, got %T", resp.Data)
	return m
}
