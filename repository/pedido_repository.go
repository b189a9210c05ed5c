package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"distrimaxi-api/db"
	"distrimaxi-api/models"
)

// PedidoRepository handles database operations for pedidos and their items
type PedidoRepository struct{}

// NewPedidoRepository creates a new PedidoRepository
func NewPedidoRepository() *PedidoRepository {
	return &PedidoRepository{}
}

// Ensure PedidoRepository implements PedidoRepositoryInterface
var _ PedidoRepositoryInterface = (*PedidoRepository)(nil)

// placeholders renders "$1, $2, ..." for n parameters starting at desde.
func placeholders(desde, n int) string {
	marcas := make([]string, n)
	for i := 0; i < n; i++ {
		marcas[i] = fmt.Sprintf("$%d", desde+i)
	}
	return strings.Join(marcas, ", ")
}

func idsComoArgs(pedidoIDs []int64) []any {
	args := make([]any, len(pedidoIDs))
	for i, id := range pedidoIDs {
		args[i] = id
	}
	return args
}

// Insertar persists the pedido header and fills in its id and creation date.
func (r *PedidoRepository) Insertar(ctx context.Context, q db.Querier, pedido *models.Pedido) error {
	query := `
		INSERT INTO pedidos (cliente_id, usuario_id, estado, notas_entrega, lista_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, fecha_creacion
	`

	var listaID sql.NullInt64
	if pedido.ListaID != nil {
		listaID = sql.NullInt64{Int64: *pedido.ListaID, Valid: true}
	}

	err := q.QueryRowContext(ctx, query,
		pedido.ClienteID,
		pedido.UsuarioID,
		string(pedido.Estado),
		pedido.NotasEntrega,
		listaID,
	).Scan(&pedido.ID, &pedido.FechaCreacion)
	if err != nil {
		return fmt.Errorf("failed to insert pedido: %w", err)
	}
	return nil
}

// InsertarItem persists one frozen order line.
func (r *PedidoRepository) InsertarItem(ctx context.Context, q db.Querier, item *models.PedidoItem) error {
	query := `
		INSERT INTO pedido_items (pedido_id, producto_id, cantidad, precio_congelado, nombre_producto, codigo_sku, aviso_faltante)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := q.QueryRowContext(ctx, query,
		item.PedidoID,
		item.ProductoID,
		item.Cantidad,
		item.PrecioCongelado,
		item.NombreProducto,
		item.CodigoSKU,
		item.AvisoFaltante,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to insert pedido item: %w", err)
	}
	return nil
}

const pedidoColumnas = `id, cliente_id, usuario_id, estado, COALESCE(notas_entrega, ''), fecha_creacion, lista_id, pedido_maestro_id`

func scanPedido(row interface{ Scan(...any) error }) (*models.Pedido, error) {
	var p models.Pedido
	var listaID, maestroID sql.NullInt64
	err := row.Scan(
		&p.ID,
		&p.ClienteID,
		&p.UsuarioID,
		&p.Estado,
		&p.NotasEntrega,
		&p.FechaCreacion,
		&listaID,
		&maestroID,
	)
	if err != nil {
		return nil, err
	}
	if listaID.Valid {
		p.ListaID = &listaID.Int64
	}
	if maestroID.Valid {
		p.PedidoMaestroID = &maestroID.Int64
	}
	return &p, nil
}

// PorID returns the bare pedido row, or nil when it does not exist.
func (r *PedidoRepository) PorID(ctx context.Context, q db.Querier, pedidoID int64) (*models.Pedido, error) {
	query := `SELECT ` + pedidoColumnas + ` FROM pedidos WHERE id = $1`
	p, err := scanPedido(q.QueryRowContext(ctx, query, pedidoID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pedido %d: %w", pedidoID, err)
	}
	return p, nil
}

// PorIDParaActualizar locks the pedido row for the rest of the transaction so
// a status change and its stock side effect observe a stable estado.
func (r *PedidoRepository) PorIDParaActualizar(ctx context.Context, q db.Querier, pedidoID int64) (*models.Pedido, error) {
	query := `SELECT ` + pedidoColumnas + ` FROM pedidos WHERE id = $1 FOR UPDATE`
	p, err := scanPedido(q.QueryRowContext(ctx, query, pedidoID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock pedido %d: %w", pedidoID, err)
	}
	return p, nil
}

// PorIDs returns the pedidos matching the given ids, in id order.
func (r *PedidoRepository) PorIDs(ctx context.Context, q db.Querier, pedidoIDs []int64) ([]models.Pedido, error) {
	if len(pedidoIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + pedidoColumnas + ` FROM pedidos WHERE id IN (` + placeholders(1, len(pedidoIDs)) + `) ORDER BY id ASC`
	rows, err := q.QueryContext(ctx, query, idsComoArgs(pedidoIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pedidos: %w", err)
	}
	defer rows.Close()

	var pedidos []models.Pedido
	for rows.Next() {
		p, err := scanPedido(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pedido: %w", err)
		}
		pedidos = append(pedidos, *p)
	}
	return pedidos, rows.Err()
}

// DetallePorID returns the pedido with client/seller names and all its items,
// each item annotated with the producto's current availability.
func (r *PedidoRepository) DetallePorID(ctx context.Context, q db.Querier, pedidoID int64) (*models.Pedido, error) {
	query := `
		SELECT p.id, p.cliente_id, p.usuario_id, p.estado, COALESCE(p.notas_entrega, ''),
		       p.fecha_creacion, p.lista_id, p.pedido_maestro_id,
		       COALESCE(c.nombre_comercio, ''), COALESCE(u.nombre, '')
		FROM pedidos p
		LEFT JOIN clientes c ON p.cliente_id = c.id
		LEFT JOIN usuarios u ON p.usuario_id = u.id
		WHERE p.id = $1
	`

	var p models.Pedido
	var listaID, maestroID sql.NullInt64
	err := q.QueryRowContext(ctx, query, pedidoID).Scan(
		&p.ID,
		&p.ClienteID,
		&p.UsuarioID,
		&p.Estado,
		&p.NotasEntrega,
		&p.FechaCreacion,
		&listaID,
		&maestroID,
		&p.NombreComercio,
		&p.NombreVendedor,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pedido detail %d: %w", pedidoID, err)
	}
	if listaID.Valid {
		p.ListaID = &listaID.Int64
	}
	if maestroID.Valid {
		p.PedidoMaestroID = &maestroID.Int64
	}

	itemsQuery := `
		SELECT pi.id, pi.pedido_id, pi.producto_id, pi.cantidad, pi.precio_congelado,
		       pi.nombre_producto, COALESCE(pi.codigo_sku, ''), pi.aviso_faltante, pr.disponible
		FROM pedido_items pi
		LEFT JOIN productos pr ON pi.producto_id = pr.id
		WHERE pi.pedido_id = $1
		ORDER BY pi.id ASC
	`

	rows, err := q.QueryContext(ctx, itemsQuery, pedidoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items of pedido %d: %w", pedidoID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var it models.PedidoItem
		var disponible sql.NullBool
		err := rows.Scan(&it.ID, &it.PedidoID, &it.ProductoID, &it.Cantidad, &it.PrecioCongelado,
			&it.NombreProducto, &it.CodigoSKU, &it.AvisoFaltante, &disponible)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pedido item: %w", err)
		}
		if disponible.Valid {
			it.DisponibleActual = &disponible.Bool
		}
		p.Items = append(p.Items, it)
	}
	return &p, rows.Err()
}

// Listar returns the pedidos visible to the actor: vendedores see their own,
// deposito sees the working statuses, admins see everything.
func (r *PedidoRepository) Listar(ctx context.Context, q db.Querier, actor models.Actor) ([]models.Pedido, error) {
	query := `
		SELECT p.id, p.cliente_id, p.usuario_id, p.estado, COALESCE(p.notas_entrega, ''),
		       p.fecha_creacion, p.lista_id, p.pedido_maestro_id,
		       COALESCE(c.nombre_comercio, ''), COALESCE(u.nombre, '')
		FROM pedidos p
		LEFT JOIN clientes c ON p.cliente_id = c.id
		LEFT JOIN usuarios u ON p.usuario_id = u.id
	`
	var args []any

	switch actor.Rol {
	case models.RolVendedor:
		query += ` WHERE p.usuario_id = $1`
		args = append(args, actor.ID)
	case models.RolDeposito:
		query += ` WHERE p.estado IN ('pendiente', 'visto', 'en_preparacion', 'listo_para_entrega', 'entregado')`
	}

	query += ` ORDER BY p.fecha_creacion DESC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pedidos: %w", err)
	}
	defer rows.Close()

	return scanPedidosConNombres(rows)
}

// ListarDeUsuario returns a seller's own order history, newest first.
func (r *PedidoRepository) ListarDeUsuario(ctx context.Context, q db.Querier, usuarioID int64) ([]models.Pedido, error) {
	query := `
		SELECT p.id, p.cliente_id, p.usuario_id, p.estado, COALESCE(p.notas_entrega, ''),
		       p.fecha_creacion, p.lista_id, p.pedido_maestro_id,
		       COALESCE(c.nombre_comercio, ''), ''
		FROM pedidos p
		LEFT JOIN clientes c ON p.cliente_id = c.id
		WHERE p.usuario_id = $1
		ORDER BY p.fecha_creacion DESC
	`

	rows, err := q.QueryContext(ctx, query, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pedidos of usuario %d: %w", usuarioID, err)
	}
	defer rows.Close()

	return scanPedidosConNombres(rows)
}

func scanPedidosConNombres(rows *sql.Rows) ([]models.Pedido, error) {
	var pedidos []models.Pedido
	for rows.Next() {
		var p models.Pedido
		var listaID, maestroID sql.NullInt64
		err := rows.Scan(&p.ID, &p.ClienteID, &p.UsuarioID, &p.Estado, &p.NotasEntrega,
			&p.FechaCreacion, &listaID, &maestroID, &p.NombreComercio, &p.NombreVendedor)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pedido: %w", err)
		}
		if listaID.Valid {
			p.ListaID = &listaID.Int64
		}
		if maestroID.Valid {
			p.PedidoMaestroID = &maestroID.Int64
		}
		pedidos = append(pedidos, p)
	}
	return pedidos, rows.Err()
}

// ItemsDePedido returns the lines of one pedido in insertion order.
func (r *PedidoRepository) ItemsDePedido(ctx context.Context, q db.Querier, pedidoID int64) ([]models.PedidoItem, error) {
	return r.ItemsDePedidos(ctx, q, []int64{pedidoID})
}

// ItemsDePedidos returns every line of the given pedidos ordered by pedido id
// then line id, so consolidation during a merge is deterministic: the earliest
// pedido's line is always seen first.
func (r *PedidoRepository) ItemsDePedidos(ctx context.Context, q db.Querier, pedidoIDs []int64) ([]models.PedidoItem, error) {
	if len(pedidoIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, pedido_id, producto_id, cantidad, precio_congelado, nombre_producto, COALESCE(codigo_sku, ''), aviso_faltante
		FROM pedido_items
		WHERE pedido_id IN (` + placeholders(1, len(pedidoIDs)) + `)
		ORDER BY pedido_id ASC, id ASC
	`

	rows, err := q.QueryContext(ctx, query, idsComoArgs(pedidoIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pedido items: %w", err)
	}
	defer rows.Close()

	var items []models.PedidoItem
	for rows.Next() {
		var it models.PedidoItem
		err := rows.Scan(&it.ID, &it.PedidoID, &it.ProductoID, &it.Cantidad, &it.PrecioCongelado,
			&it.NombreProducto, &it.CodigoSKU, &it.AvisoFaltante)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pedido item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// BorrarItems removes every line of a pedido. Edits replace the full set.
func (r *PedidoRepository) BorrarItems(ctx context.Context, q db.Querier, pedidoID int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM pedido_items WHERE pedido_id = $1`, pedidoID); err != nil {
		return fmt.Errorf("failed to delete items of pedido %d: %w", pedidoID, err)
	}
	return nil
}

// ActualizarNotas updates the delivery notes.
func (r *PedidoRepository) ActualizarNotas(ctx context.Context, q db.Querier, pedidoID int64, notas string) (bool, error) {
	result, err := q.ExecContext(ctx, `UPDATE pedidos SET notas_entrega = $1 WHERE id = $2`, notas, pedidoID)
	if err != nil {
		return false, fmt.Errorf("failed to update notas of pedido %d: %w", pedidoID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count updated rows: %w", err)
	}
	return n > 0, nil
}

// ActualizarEstado sets the estado column.
func (r *PedidoRepository) ActualizarEstado(ctx context.Context, q db.Querier, pedidoID int64, estado models.Estado) (bool, error) {
	result, err := q.ExecContext(ctx, `UPDATE pedidos SET estado = $1 WHERE id = $2`, string(estado), pedidoID)
	if err != nil {
		return false, fmt.Errorf("failed to update estado of pedido %d: %w", pedidoID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count updated rows: %w", err)
	}
	return n > 0, nil
}

// MarcarCombinados flags the source pedidos of a merge as combinado and points
// them at the new master.
func (r *PedidoRepository) MarcarCombinados(ctx context.Context, q db.Querier, pedidoIDs []int64, maestroID int64) error {
	query := `
		UPDATE pedidos
		SET estado = 'combinado', pedido_maestro_id = $1
		WHERE id IN (` + placeholders(2, len(pedidoIDs)) + `)
	`
	args := append([]any{maestroID}, idsComoArgs(pedidoIDs)...)
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark pedidos as combinados: %w", err)
	}
	return nil
}

// Desarchivar moves an archived pedido back to pendiente. Returns false when
// the pedido does not exist or is not archived.
func (r *PedidoRepository) Desarchivar(ctx context.Context, q db.Querier, pedidoID int64) (bool, error) {
	query := `UPDATE pedidos SET estado = 'pendiente' WHERE id = $1 AND estado = 'archivado'`
	result, err := q.ExecContext(ctx, query, pedidoID)
	if err != nil {
		return false, fmt.Errorf("failed to unarchive pedido %d: %w", pedidoID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count updated rows: %w", err)
	}
	return n > 0, nil
}

// IDsArchivados returns the ids of every archived pedido.
func (r *PedidoRepository) IDsArchivados(ctx context.Context, q db.Querier) ([]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM pedidos WHERE estado = 'archivado'`)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived pedidos: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan pedido id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// EliminarConItems hard-deletes the given pedidos and their lines. Items go
// first because of the foreign key. Returns the number of deleted pedidos.
func (r *PedidoRepository) EliminarConItems(ctx context.Context, q db.Querier, pedidoIDs []int64) (int64, error) {
	if len(pedidoIDs) == 0 {
		return 0, nil
	}

	args := idsComoArgs(pedidoIDs)
	marcas := placeholders(1, len(pedidoIDs))

	if _, err := q.ExecContext(ctx, `DELETE FROM pedido_items WHERE pedido_id IN (`+marcas+`)`, args...); err != nil {
		return 0, fmt.Errorf("failed to delete items of archived pedidos: %w", err)
	}

	result, err := q.ExecContext(ctx, `DELETE FROM pedidos WHERE id IN (`+marcas+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete archived pedidos: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted pedidos: %w", err)
	}
	return n, nil
}

// ItemsHuerfanos finds every order line whose producto reference no longer
// resolves to an active producto row, with enough order/client context for
// human review. Newest pedidos first.
func (r *PedidoRepository) ItemsHuerfanos(ctx context.Context, q db.Querier) ([]models.ItemHuerfano, error) {
	query := `
		SELECT pi.id, pi.pedido_id, pi.producto_id, pi.nombre_producto, COALESCE(pi.codigo_sku, ''),
		       pi.cantidad, pi.precio_congelado, p_pedido.fecha_creacion, COALESCE(c.nombre_comercio, '')
		FROM pedido_items pi
		LEFT JOIN productos p ON pi.producto_id = p.id AND p.archivado = false
		LEFT JOIN pedidos p_pedido ON pi.pedido_id = p_pedido.id
		LEFT JOIN clientes c ON p_pedido.cliente_id = c.id
		WHERE p.id IS NULL
		ORDER BY p_pedido.fecha_creacion DESC
	`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orphaned items: %w", err)
	}
	defer rows.Close()

	var huerfanos []models.ItemHuerfano
	for rows.Next() {
		var h models.ItemHuerfano
		err := rows.Scan(&h.ItemID, &h.PedidoID, &h.ProductoID, &h.NombreProducto, &h.CodigoSKU,
			&h.Cantidad, &h.PrecioCongelado, &h.FechaCreacion, &h.NombreComercio)
		if err != nil {
			return nil, fmt.Errorf("failed to scan orphaned item: %w", err)
		}
		huerfanos = append(huerfanos, h)
	}
	return huerfanos, rows.Err()
}

// RepuntarItem repoints one order line at another producto. The frozen price,
// name and SKU stay untouched.
func (r *PedidoRepository) RepuntarItem(ctx context.Context, q db.Querier, itemID, productoNuevoID int64) (bool, error) {
	result, err := q.ExecContext(ctx, `UPDATE pedido_items SET producto_id = $1 WHERE id = $2`, productoNuevoID, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to repoint item %d: %w", itemID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count updated rows: %w", err)
	}
	return n > 0, nil
}
