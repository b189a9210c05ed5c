package repository

import (
	"context"
	"database/sql"
	"fmt"

	"distrimaxi-api/db"
	"distrimaxi-api/models"
)

// ListaPreciosRepository handles database operations for price lists
type ListaPreciosRepository struct{}

// NewListaPreciosRepository creates a new ListaPreciosRepository
func NewListaPreciosRepository() *ListaPreciosRepository {
	return &ListaPreciosRepository{}
}

var _ ListaPreciosRepositoryInterface = (*ListaPreciosRepository)(nil)

// Existe reports whether the lista exists.
func (r *ListaPreciosRepository) Existe(ctx context.Context, q db.Querier, listaID int64) (bool, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM listas_de_precios WHERE id = $1`, listaID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check lista %d: %w", listaID, err)
	}
	return true, nil
}

// IDPorNombre finds a lista by exact name.
func (r *ListaPreciosRepository) IDPorNombre(ctx context.Context, q db.Querier, nombre string) (int64, bool, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM listas_de_precios WHERE nombre = $1 ORDER BY id ASC LIMIT 1`, nombre).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to find lista %q: %w", nombre, err)
	}
	return id, true, nil
}

// MenorID returns the lowest lista id, the builder's last fallback before the
// legacy no-lista path.
func (r *ListaPreciosRepository) MenorID(ctx context.Context, q db.Querier) (int64, bool, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM listas_de_precios ORDER BY id ASC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to find lowest lista id: %w", err)
	}
	return id, true, nil
}

// PrecioDeProducto looks up the (lista, producto) price pair.
func (r *ListaPreciosRepository) PrecioDeProducto(ctx context.Context, q db.Querier, listaID, productoID int64) (int64, bool, error) {
	var precio int64
	query := `SELECT precio FROM lista_precios_items WHERE lista_id = $1 AND producto_id = $2`
	err := q.QueryRowContext(ctx, query, listaID, productoID).Scan(&precio)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to fetch price lista=%d producto=%d: %w", listaID, productoID, err)
	}
	return precio, true, nil
}

// Listar returns every lista ordered by creation date, newest first.
func (r *ListaPreciosRepository) Listar(ctx context.Context, q db.Querier) ([]models.ListaDePrecios, error) {
	query := `SELECT id, nombre, activa, fecha_creacion FROM listas_de_precios ORDER BY fecha_creacion DESC`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list listas: %w", err)
	}
	defer rows.Close()

	var listas []models.ListaDePrecios
	for rows.Next() {
		var l models.ListaDePrecios
		if err := rows.Scan(&l.ID, &l.Nombre, &l.Activa, &l.FechaCreacion); err != nil {
			return nil, fmt.Errorf("failed to scan lista: %w", err)
		}
		listas = append(listas, l)
	}
	return listas, rows.Err()
}

// PorID returns one lista header without its items.
func (r *ListaPreciosRepository) PorID(ctx context.Context, q db.Querier, listaID int64) (*models.ListaDePrecios, error) {
	var l models.ListaDePrecios
	query := `SELECT id, nombre, activa, fecha_creacion FROM listas_de_precios WHERE id = $1`
	err := q.QueryRowContext(ctx, query, listaID).Scan(&l.ID, &l.Nombre, &l.Activa, &l.FechaCreacion)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lista %d: %w", listaID, err)
	}
	return &l, nil
}

// Items returns the priced productos of a lista, joined with their current
// catalog names for display.
func (r *ListaPreciosRepository) Items(ctx context.Context, q db.Querier, listaID int64) ([]models.ListaPrecioItem, error) {
	query := `
		SELECT li.producto_id, p.nombre, COALESCE(p.codigo_sku, ''), li.precio
		FROM lista_precios_items li
		JOIN productos p ON li.producto_id = p.id
		WHERE li.lista_id = $1
		ORDER BY p.nombre ASC
	`

	rows, err := q.QueryContext(ctx, query, listaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items of lista %d: %w", listaID, err)
	}
	defer rows.Close()

	var items []models.ListaPrecioItem
	for rows.Next() {
		var it models.ListaPrecioItem
		if err := rows.Scan(&it.ProductoID, &it.NombreProducto, &it.CodigoSKU, &it.Precio); err != nil {
			return nil, fmt.Errorf("failed to scan lista item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Crear inserts a new lista. Listas are always created inactive; activation is
// a separate explicit step.
func (r *ListaPreciosRepository) Crear(ctx context.Context, q db.Querier, nombre string) (int64, error) {
	var id int64
	query := `INSERT INTO listas_de_precios (nombre, activa) VALUES ($1, false) RETURNING id`
	if err := q.QueryRowContext(ctx, query, nombre).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create lista %q: %w", nombre, err)
	}
	return id, nil
}

// DuplicarItems copies every item of origenID into destinoID and returns the
// number of copied rows.
func (r *ListaPreciosRepository) DuplicarItems(ctx context.Context, q db.Querier, destinoID, origenID int64) (int64, error) {
	query := `
		INSERT INTO lista_precios_items (lista_id, producto_id, precio)
		SELECT $1, producto_id, precio
		FROM lista_precios_items
		WHERE lista_id = $2
	`
	result, err := q.ExecContext(ctx, query, destinoID, origenID)
	if err != nil {
		return 0, fmt.Errorf("failed to duplicate items from lista %d: %w", origenID, err)
	}
	copiados, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count duplicated items: %w", err)
	}
	return copiados, nil
}

// DesactivarTodas clears the active flag on every lista. Run inside the same
// transaction as Activar to keep the at-most-one-active invariant.
func (r *ListaPreciosRepository) DesactivarTodas(ctx context.Context, q db.Querier) error {
	if _, err := q.ExecContext(ctx, `UPDATE listas_de_precios SET activa = false`); err != nil {
		return fmt.Errorf("failed to deactivate listas: %w", err)
	}
	return nil
}

// Activar marks one lista active and returns its name.
func (r *ListaPreciosRepository) Activar(ctx context.Context, q db.Querier, listaID int64) (string, bool, error) {
	var nombre string
	query := `UPDATE listas_de_precios SET activa = true WHERE id = $1 RETURNING nombre`
	err := q.QueryRowContext(ctx, query, listaID).Scan(&nombre)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to activate lista %d: %w", listaID, err)
	}
	return nombre, true, nil
}
