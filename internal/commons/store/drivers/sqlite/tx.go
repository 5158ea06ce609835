package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/commonsapp/commons/internal/commons/store"
)

// txStore provides the Store interface scoped to a single transaction.
type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Users() store.Users                 { return &usersRepo{db: t.tx} }
func (t *txStore) Communities() store.Communities     { return &communitiesRepo{db: t.tx} }
func (t *txStore) Members() store.Members             { return &membersRepo{db: t.tx} }
func (t *txStore) RecoveryCodes() store.RecoveryCodes { return &recoveryCodesRepo{db: t.tx} }

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) ApplyMigrations() error {
	return errors.New("sqlite: migrations cannot run inside a transaction")
}

func (t *txStore) Close() error { return t.tx.Rollback() }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, errors.New("sqlite: nested transactions are not supported")
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return fn(t)
}
