package domain

import "time"

// PlatformRole is the coarse platform-wide role used for admin gating. It is
// unrelated to per-community membership roles.
type PlatformRole string

const (
	RoleUser       PlatformRole = "user"
	RoleAdmin      PlatformRole = "admin"
	RoleSuperadmin PlatformRole = "superadmin"
)

// Valid reports whether r is one of the known platform roles.
func (r PlatformRole) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// IsAdmin reports whether r grants access to the platform admin surface.
func (r PlatformRole) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string // argon2id PHC string
	PlatformRole PlatformRole

	// TOTPEnabled is set when enrollment completes; nil means two-factor is
	// not (or not yet) active for this user.
	TOTPEnabled *time.Time

	// TOTPSecretEnc holds the encrypted shared secret in envelope form.
	// The plaintext secret is never persisted.
	TOTPSecretEnc *string

	// TOTPPendingAt marks when a not-yet-verified enrollment was started,
	// so stale pending secrets can be swept.
	TOTPPendingAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TOTPActive reports whether the user has a completed two-factor enrollment.
func (u User) TOTPActive() bool {
	return u.TOTPEnabled != nil && u.TOTPSecretEnc != nil && *u.TOTPSecretEnc != ""
}
