package services

import (
	"context"
	"database/sql"

	"github.com/dkravets/tenantnotes/internal/common"
	"github.com/dkravets/tenantnotes/internal/server/models"
	"github.com/dkravets/tenantnotes/internal/server/repositories/repomanager"
)

const (
	defaultPageSize = 6
	maxPageSize     = 100
)

// Pagination describes a page of the tenant's notes.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalNotes  int
	HasMore     bool
}

type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager) *NoteService {
	return &NoteService{db: db, repomanager: m}
}

// Create inserts a note for the session user within the session tenant.
// The quota check happens inside the repository's conditional insert.
func (s *NoteService) Create(ctx context.Context, sess *Session, title, content string) (*models.Note, error) {

	if title == "" || content == "" {
		return nil, common.ErrorValidation
	}

	note := &models.Note{
		Title:    title,
		Content:  content,
		AuthorID: sess.User.ID,
		TenantID: sess.Tenant.ID,
	}

	note, err := s.repomanager.Notes(s.db).CreateWithinQuota(ctx, note)
	if err != nil {
		return nil, err
	}

	note.AuthorEmail = sess.User.Email
	return note, nil
}

// List returns the requested page of the tenant's notes, newest first.
// Notes are a shared tenant resource for reading, so all authors' notes
// are visible.
func (s *NoteService) List(ctx context.Context, sess *Session, page, limit int) ([]*models.Note, *Pagination, error) {

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	offset := (page - 1) * limit

	notes, total, err := s.repomanager.Notes(s.db).List(ctx, sess.Tenant.ID, offset, limit)
	if err != nil {
		return nil, nil, err
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	p := &Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalNotes:  total,
		HasMore:     offset+len(notes) < total,
	}

	return notes, p, nil
}

// Get returns one of the tenant's notes.
func (s *NoteService) Get(ctx context.Context, sess *Session, id string) (*models.Note, error) {
	return s.repomanager.Notes(s.db).Get(ctx, sess.Tenant.ID, id)
}

// Update modifies a note owned by the session user. Ownership and existence
// failures are both common.ErrorNotFound.
func (s *NoteService) Update(ctx context.Context, sess *Session, id, title, content string) (*models.Note, error) {

	if title == "" || content == "" {
		return nil, common.ErrorValidation
	}

	note, err := s.repomanager.Notes(s.db).Update(ctx, sess.Tenant.ID, sess.User.ID, id, title, content)
	if err != nil {
		return nil, err
	}

	note.AuthorEmail = sess.User.Email
	return note, nil
}

// Delete removes a note owned by the session user, with the same failure
// semantics as Update.
func (s *NoteService) Delete(ctx context.Context, sess *Session, id string) error {
	return s.repomanager.Notes(s.db).Delete(ctx, sess.Tenant.ID, sess.User.ID, id)
}
