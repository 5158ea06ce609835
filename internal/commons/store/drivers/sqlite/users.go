package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/commonsapp/commons/internal/commons/domain"
	"github.com/commonsapp/commons/internal/commons/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, display_name, password_hash, platform_role,
	totp_enabled, totp_secret_enc, totp_pending_at, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM user_profiles WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM user_profiles WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_profiles (id, email, display_name, password_hash, platform_role)
		 VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.DisplayName, u.PasswordHash, string(u.PlatformRole))
	return err
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM user_profiles ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var (
			u         domain.User
			role      string
			enabled   sql.NullTime
			secretEnc sql.NullString
			pendingAt sql.NullTime
		)
		if err := rows.Scan(
			&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &role,
			&enabled, &secretEnc, &pendingAt, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		u.PlatformRole = domain.PlatformRole(role)
		u.TOTPEnabled = mapNullTimePtr(enabled)
		u.TOTPSecretEnc = mapNullStringPtr(secretEnc)
		u.TOTPPendingAt = mapNullTimePtr(pendingAt)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_profiles`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *usersRepo) SetPendingTOTPSecret(ctx context.Context, userID string, secretEnc string) error {
	// The WHERE clause refuses the write once enrollment has completed, so a
	// fresh setup cannot silently replace an active secret.
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_profiles
		 SET totp_secret_enc = ?, totp_pending_at = CURRENT_TIMESTAMP,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND totp_enabled IS NULL`,
		secretEnc, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the user does not exist or two-factor is already enabled.
		if _, err := (&usersRepo{db: r.db}).GetUserByID(ctx, userID); err != nil {
			return err
		}
		return store.ErrAlreadyExists
	}
	return nil
}

func (r *usersRepo) EnableTOTP(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_profiles
		 SET totp_enabled = CURRENT_TIMESTAMP, totp_pending_at = NULL,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND totp_secret_enc IS NOT NULL`,
		userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) DisableTOTP(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE user_profiles
		 SET totp_enabled = NULL, totp_secret_enc = NULL, totp_pending_at = NULL,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		userID)
	return err
}

func (r *usersRepo) DeleteStalePendingTOTP(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_profiles
		 SET totp_secret_enc = NULL, totp_pending_at = NULL,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE totp_enabled IS NULL
		   AND totp_pending_at IS NOT NULL
		   AND totp_pending_at < ?`,
		cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u         domain.User
		role      string
		enabled   sql.NullTime
		secretEnc sql.NullString
		pendingAt sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &role,
		&enabled, &secretEnc, &pendingAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.PlatformRole = domain.PlatformRole(role)
	u.TOTPEnabled = mapNullTimePtr(enabled)
	u.TOTPSecretEnc = mapNullStringPtr(secretEnc)
	u.TOTPPendingAt = mapNullTimePtr(pendingAt)
	return u, nil
}
