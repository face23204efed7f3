package models

import "time"

// Plan is a tenant's subscription plan.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Note limits per plan. UnlimitedNotes is the max_notes sentinel for pro.
const (
	FreeMaxNotes   = 3
	UnlimitedNotes = -1
)

type Tenant struct {
	ID        string
	Name      string
	Slug      string
	Plan      Plan
	MaxNotes  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Unlimited reports whether the tenant has no note quota.
func (t *Tenant) Unlimited() bool {
	return t.MaxNotes == UnlimitedNotes
}
