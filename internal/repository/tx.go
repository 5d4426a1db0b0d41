package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is satisfied by *pgxpool.Pool and by pgxmock pools.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repositories are the repositories bound to a single transaction
type Repositories struct {
	Users      UserRepository
	Portfolios PortfolioRepository
}

// Transactor runs writes that span several statements atomically
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

type pgTransactor struct {
	db TxBeginner
}

// NewTransactor creates a Transactor over db
func NewTransactor(db TxBeginner) Transactor {
	return &pgTransactor{db: db}
}

// WithinTx begins a transaction and runs fn with repositories bound to it. It
// commits when fn returns nil and rolls back on error or panic.
func (t *pgTransactor) WithinTx(ctx context.Context, fn func(repos Repositories) error) (err error) {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	return fn(Repositories{
		Users:      NewUserRepository(tx),
		Portfolios: NewPortfolioRepository(tx),
	})
}
