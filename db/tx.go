package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// Querier is the subset of database operations shared by *sql.DB and *sql.Tx.
// Repository methods take a Querier so the same code runs inside or outside a
// transaction, and so business components never touch the pool directly.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// TxFunc runs inside a transaction. Returning an error rolls everything back.
type TxFunc func(ctx context.Context, q Querier) error

// TxManager scopes a function to a single database transaction. The connection
// is always returned to the pool: rollback on error or panic, commit otherwise.
type TxManager interface {
	WithTransaction(ctx context.Context, fn TxFunc) error
}

// sqlTxManager is the production TxManager backed by a *sql.DB pool.
type sqlTxManager struct {
	db *sql.DB
}

// NewTxManager creates a TxManager over the given connection pool.
func NewTxManager(database *sql.DB) TxManager {
	return &sqlTxManager{db: database}
}

func (m *sqlTxManager) WithTransaction(ctx context.Context, fn TxFunc) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				log.Printf("❌ WithTransaction: rollback after panic failed: %v", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			log.Printf("❌ WithTransaction: rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
