package httpapi

import (
	"time"

	"github.com/dkravets/tenantnotes/internal/server/models"
	"github.com/dkravets/tenantnotes/internal/server/services"
)

type userJSON struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type tenantJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Plan     string `json:"plan"`
	MaxNotes int    `json:"maxNotes"`
}

type noteJSON struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	AuthorID    string    `json:"authorId"`
	AuthorEmail string    `json:"authorEmail,omitempty"`
	TenantID    string    `json:"tenantId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type sessionJSON struct {
	User   userJSON   `json:"user"`
	Tenant tenantJSON `json:"tenant"`
}

type paginationJSON struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalNotes  int  `json:"totalNotes"`
	HasMore     bool `json:"hasMore"`
}

type notesPageJSON struct {
	Notes      []noteJSON     `json:"notes"`
	Pagination paginationJSON `json:"pagination"`
}

func toUserJSON(u *models.User) userJSON {
	return userJSON{ID: u.ID, Email: u.Email, Role: string(u.Role)}
}

func toTenantJSON(t *models.Tenant) tenantJSON {
	return tenantJSON{ID: t.ID, Name: t.Name, Slug: t.Slug, Plan: string(t.Plan), MaxNotes: t.MaxNotes}
}

func toNoteJSON(n *models.Note) noteJSON {
	return noteJSON{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		AuthorID:    n.AuthorID,
		AuthorEmail: n.AuthorEmail,
		TenantID:    n.TenantID,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func toSessionJSON(s *services.Session) sessionJSON {
	return sessionJSON{User: toUserJSON(s.User), Tenant: toTenantJSON(s.Tenant)}
}

func toNotesPageJSON(notes []*models.Note, p *services.Pagination) notesPageJSON {
	out := make([]noteJSON, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteJSON(n))
	}
	return notesPageJSON{
		Notes: out,
		Pagination: paginationJSON{
			CurrentPage: p.CurrentPage,
			TotalPages:  p.TotalPages,
			TotalNotes:  p.TotalNotes,
			HasMore:     p.HasMore,
		},
	}
}
