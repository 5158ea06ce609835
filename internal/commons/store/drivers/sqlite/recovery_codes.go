package sqlite

import (
	"context"

	"github.com/commonsapp/commons/pkg/idx"
)

type recoveryCodesRepo struct {
	db dbtx
}

func (r *recoveryCodesRepo) CreateRecoveryCode(ctx context.Context, userID, codeHash string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recovery_codes (id, user_id, code_hash) VALUES (?, ?, ?)`,
		idx.New().String(), userID, codeHash)
	return err
}

func (r *recoveryCodesRepo) ConsumeRecoveryCode(ctx context.Context, userID, codeHash string) (bool, error) {
	// Conditional delete: exactly one caller can win for a given code, even
	// under concurrent requests. Anything other than one affected row means
	// the code was already spent (or never existed).
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM recovery_codes WHERE user_id = ? AND code_hash = ?`,
		userID, codeHash)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *recoveryCodesRepo) DeleteAllRecoveryCodes(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM recovery_codes WHERE user_id = ?`, userID)
	return err
}

func (r *recoveryCodesRepo) CountRecoveryCodes(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recovery_codes WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
