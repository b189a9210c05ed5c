package repository

import (
	"context"
	"database/sql"
	"fmt"

	"distrimaxi-api/db"
)

// ClienteRepository handles database operations on clientes
type ClienteRepository struct{}

// NewClienteRepository creates a new ClienteRepository
func NewClienteRepository() *ClienteRepository {
	return &ClienteRepository{}
}

var _ ClienteRepositoryInterface = (*ClienteRepository)(nil)

// Existe reports whether the cliente row exists. The order builder refuses to
// create a pedido for an unknown cliente so offline-created local ids get
// synced first instead of producing orphaned pedidos.
func (r *ClienteRepository) Existe(ctx context.Context, q db.Querier, clienteID int64) (bool, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM clientes WHERE id = $1`, clienteID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check cliente %d: %w", clienteID, err)
	}
	return true, nil
}
