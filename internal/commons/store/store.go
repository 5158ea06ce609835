package store

import (
	"context"
	"errors"
	"time"

	"github.com/commonsapp/commons/internal/commons/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. Sub-repositories keep concerns tidy and let transactions be
// scoped explicitly.
type Store interface {
	Users() Users
	Communities() Communities
	Members() Members
	RecoveryCodes() RecoveryCodes

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing on nil and rolling
	// back on error. Preferred over Tx for multi-step operations.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns all users, newest first.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// IsEmpty reports whether any user exists; guards the bootstrap path.
	IsEmpty(ctx context.Context) (bool, error)

	// SetPendingTOTPSecret stores a freshly encrypted secret in pending form.
	// Fails with ErrAlreadyExists when enrollment is already completed; a
	// still-pending secret may be overwritten.
	SetPendingTOTPSecret(ctx context.Context, userID string, secretEnc string) error

	// EnableTOTP completes enrollment: stamps totp_enabled and clears the
	// pending marker.
	EnableTOTP(ctx context.Context, userID string) error

	// DisableTOTP clears the secret, the enabled stamp and the pending
	// marker.
	DisableTOTP(ctx context.Context, userID string) error

	// DeleteStalePendingTOTP clears pending secrets whose enrollment never
	// completed and started before cutoff. Returns the number of users
	// affected.
	DeleteStalePendingTOTP(ctx context.Context, cutoff time.Time) (int64, error)
}

type Communities interface {
	// CreateCommunity inserts a new community (id is a UUID).
	CreateCommunity(ctx context.Context, c domain.Community) error

	GetCommunityBySlug(ctx context.Context, slug string) (domain.Community, error)
	GetCommunityByID(ctx context.Context, id string) (domain.Community, error)

	// ListCommunities returns all communities, newest first.
	ListCommunities(ctx context.Context) ([]domain.Community, error)
}

type Members interface {
	// UpsertMembership inserts or updates the (community, user) membership
	// row with the given role and status.
	UpsertMembership(ctx context.Context, m domain.Membership) error

	GetMembership(ctx context.Context, communityID, userID string) (domain.Membership, error)

	// TouchLastActive stamps last_active_at to now. Concurrent stamps are
	// last-writer-wins; losing one is harmless.
	TouchLastActive(ctx context.Context, communityID, userID string) error
}

type RecoveryCodes interface {
	// CreateRecoveryCode stores one code fingerprint for a user.
	CreateRecoveryCode(ctx context.Context, userID, codeHash string) error

	// ConsumeRecoveryCode atomically removes the code if it is still
	// present. Returns true only for the one request that actually removed
	// it; concurrent consumers of the same code see false. This is the
	// check-then-mark the single-use guarantee rests on, so it must be a
	// conditional write, not a read followed by a delete.
	ConsumeRecoveryCode(ctx context.Context, userID, codeHash string) (bool, error)

	// DeleteAllRecoveryCodes removes every code for a user (regeneration,
	// disable).
	DeleteAllRecoveryCodes(ctx context.Context, userID string) error

	// CountRecoveryCodes returns how many unused codes remain.
	CountRecoveryCodes(ctx context.Context, userID string) (int, error)
}
