package models

import "time"

// Note always belongs to the same tenant as its author. The pairing is fixed
// at creation and never reassigned.
type Note struct {
	ID          string
	Title       string
	Content     string
	AuthorID    string
	AuthorEmail string
	TenantID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
