package domain

import "time"

type MemberRole string

const (
	MemberAdmin     MemberRole = "admin"
	MemberModerator MemberRole = "moderator"
	MemberMember    MemberRole = "member"
)

func (r MemberRole) Valid() bool {
	switch r {
	case MemberAdmin, MemberModerator, MemberMember:
		return true
	}
	return false
}

type MemberStatus string

const (
	MemberActive    MemberStatus = "active"
	MemberInactive  MemberStatus = "inactive"
	MemberPending   MemberStatus = "pending"
	MemberSuspended MemberStatus = "suspended"
)

func (s MemberStatus) Valid() bool {
	switch s {
	case MemberActive, MemberInactive, MemberPending, MemberSuspended:
		return true
	}
	return false
}

// Membership relates a user to a community. Only an active membership grants
// access; a suspended one always denies, regardless of role.
type Membership struct {
	ID           string
	CommunityID  string
	UserID       string
	Role         MemberRole
	Status       MemberStatus
	LastActiveAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
