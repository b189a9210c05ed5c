package repository

import (
	"context"
	"fmt"

	"distrimaxi-api/db"
	"distrimaxi-api/models"
)

// FaltantesRepository handles database operations for shortage records
type FaltantesRepository struct{}

// NewFaltantesRepository creates a new FaltantesRepository
func NewFaltantesRepository() *FaltantesRepository {
	return &FaltantesRepository{}
}

// Ensure FaltantesRepository implements FaltantesRepositoryInterface
var _ FaltantesRepositoryInterface = (*FaltantesRepository)(nil)

// Registrar appends one shortage record and fills in its id and timestamp.
func (r *FaltantesRepository) Registrar(ctx context.Context, q db.Querier, faltante *models.RegistroFaltante) error {
	query := `
		INSERT INTO registro_faltantes (pedido_id, producto_id, nombre_producto, cantidad_original, id_usuario, nombre_usuario)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, fecha_registro
	`

	err := q.QueryRowContext(ctx, query,
		faltante.PedidoID,
		faltante.ProductoID,
		faltante.NombreProducto,
		faltante.CantidadOriginal,
		faltante.IDUsuario,
		faltante.NombreUsuario,
	).Scan(&faltante.ID, &faltante.FechaRegistro)
	if err != nil {
		return fmt.Errorf("failed to record faltante: %w", err)
	}
	return nil
}

// ReporteUltimas24h aggregates shortage quantities per product over the last
// 24 hours, biggest shortage first.
func (r *FaltantesRepository) ReporteUltimas24h(ctx context.Context, q db.Querier) ([]models.FaltanteAgregado, error) {
	query := `
		SELECT nombre_producto, SUM(cantidad_original) AS total
		FROM registro_faltantes
		WHERE fecha_registro >= NOW() - INTERVAL '24 hours'
		GROUP BY nombre_producto
		ORDER BY total DESC, nombre_producto ASC
	`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to build faltantes report: %w", err)
	}
	defer rows.Close()

	var reporte []models.FaltanteAgregado
	for rows.Next() {
		var f models.FaltanteAgregado
		if err := rows.Scan(&f.NombreProducto, &f.TotalFaltante); err != nil {
			return nil, fmt.Errorf("failed to scan faltante row: %w", err)
		}
		reporte = append(reporte, f)
	}
	return reporte, rows.Err()
}
