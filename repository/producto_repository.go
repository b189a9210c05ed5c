package repository

import (
	"context"
	"database/sql"
	"fmt"

	"distrimaxi-api/db"
	"distrimaxi-api/models"
)

// ProductoRepository handles database operations on the productos catalog
type ProductoRepository struct{}

// NewProductoRepository creates a new ProductoRepository
func NewProductoRepository() *ProductoRepository {
	return &ProductoRepository{}
}

// Ensure ProductoRepository implements ProductoRepositoryInterface
var _ ProductoRepositoryInterface = (*ProductoRepository)(nil)

// SnapshotParaPedido reads the catalog facts that get frozen into an order
// line. Returns nil when the producto does not exist or is archived.
func (r *ProductoRepository) SnapshotParaPedido(ctx context.Context, q db.Querier, productoID int64) (*models.ProductoSnapshot, error) {
	query := `
		SELECT id, nombre, COALESCE(codigo_sku, ''), precio_unitario, disponible
		FROM productos
		WHERE id = $1 AND archivado = false
	`

	var snap models.ProductoSnapshot
	err := q.QueryRowContext(ctx, query, productoID).Scan(
		&snap.ID,
		&snap.Nombre,
		&snap.CodigoSKU,
		&snap.PrecioUnitario,
		&snap.Disponible,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch producto %d: %w", productoID, err)
	}
	return &snap, nil
}

// Activos lists every non-archived producto, the candidate pool for orphan
// reconciliation.
func (r *ProductoRepository) Activos(ctx context.Context, q db.Querier) ([]models.ProductoResumen, error) {
	query := `
		SELECT id, nombre, COALESCE(codigo_sku, '')
		FROM productos
		WHERE archivado = false
		ORDER BY id ASC
	`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active productos: %w", err)
	}
	defer rows.Close()

	var productos []models.ProductoResumen
	for rows.Next() {
		var p models.ProductoResumen
		if err := rows.Scan(&p.ID, &p.Nombre, &p.CodigoSKU); err != nil {
			return nil, fmt.Errorf("failed to scan producto: %w", err)
		}
		productos = append(productos, p)
	}
	return productos, rows.Err()
}

// DescontarStock decrements stock_actual for a stock-tracked producto.
// Productos without tracking are left untouched.
func (r *ProductoRepository) DescontarStock(ctx context.Context, q db.Querier, productoID int64, cantidad int) error {
	query := `
		UPDATE productos
		SET stock_actual = stock_actual - $1
		WHERE id = $2 AND maneja_stock = true
	`
	if _, err := q.ExecContext(ctx, query, cantidad, productoID); err != nil {
		return fmt.Errorf("failed to decrement stock for producto %d: %w", productoID, err)
	}
	return nil
}

// ImagenURL returns the stored image URL of a producto.
func (r *ProductoRepository) ImagenURL(ctx context.Context, q db.Querier, productoID int64) (string, bool, error) {
	var url sql.NullString
	err := q.QueryRowContext(ctx, `SELECT imagen_url FROM productos WHERE id = $1`, productoID).Scan(&url)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to fetch imagen_url for producto %d: %w", productoID, err)
	}
	if !url.Valid || url.String == "" {
		return "", false, nil
	}
	return url.String, true, nil
}
