package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UnitOfWork выполняет fn в одной транзакции. Делегаты используют его, чтобы
// запись документа и запись outbox-события фиксировались атомарно.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(exec SQLExecutor) error) error
}

type sqlUnitOfWork struct {
	db *sql.DB
}

func NewUnitOfWork(db *sql.DB) UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) WithinTx(ctx context.Context, fn func(exec SQLExecutor) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback failed: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
