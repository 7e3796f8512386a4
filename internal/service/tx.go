package service

import (
	"context"

	"github.com/iliyamo/event-lodging/internal/repository"
)

// inTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func inTx(ctx context.Context, store repository.Store, opts repository.TxOptions, fn func(tx repository.Tx) error) error {
	tx, err := store.Begin(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
