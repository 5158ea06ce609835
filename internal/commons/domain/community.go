package domain

import "time"

type CommunityStatus string

const (
	CommunityActive   CommunityStatus = "active"
	CommunityArchived CommunityStatus = "archived"
)

// Community is a tenant. The id is a UUID; the slug is the canonical
// human-readable address that gated pages redirect to.
type Community struct {
	ID        string // UUID
	Slug      string
	Name      string
	Status    CommunityStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
