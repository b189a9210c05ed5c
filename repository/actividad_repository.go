package repository

import (
	"context"
	"fmt"

	"distrimaxi-api/db"
	"distrimaxi-api/models"
)

// ActividadRepository handles database operations for the activity log
type ActividadRepository struct{}

// NewActividadRepository creates a new ActividadRepository
func NewActividadRepository() *ActividadRepository {
	return &ActividadRepository{}
}

// Ensure ActividadRepository implements ActividadRepositoryInterface
var _ ActividadRepositoryInterface = (*ActividadRepository)(nil)

// Registrar appends one audit entry. It runs inside the caller's transaction
// so the entry commits with the mutation it describes.
func (r *ActividadRepository) Registrar(ctx context.Context, q db.Querier, actor models.Actor, accion, detalle string) error {
	query := `
		INSERT INTO actividad (id_usuario, nombre_usuario, accion, detalle)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := q.ExecContext(ctx, query, actor.ID, actor.Nombre, accion, detalle); err != nil {
		return fmt.Errorf("failed to record actividad %s: %w", accion, err)
	}
	return nil
}

// Ultimas returns the most recent audit entries, newest first.
func (r *ActividadRepository) Ultimas(ctx context.Context, q db.Querier, limite int) ([]models.Actividad, error) {
	query := `
		SELECT id, id_usuario, nombre_usuario, accion, COALESCE(detalle, ''), fecha_creacion
		FROM actividad
		ORDER BY fecha_creacion DESC, id DESC
		LIMIT $1
	`

	rows, err := q.QueryContext(ctx, query, limite)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch actividad entries: %w", err)
	}
	defer rows.Close()

	var entradas []models.Actividad
	for rows.Next() {
		var a models.Actividad
		err := rows.Scan(&a.ID, &a.IDUsuario, &a.NombreUsuario, &a.Accion, &a.Detalle, &a.FechaCreacion)
		if err != nil {
			return nil, fmt.Errorf("failed to scan actividad entry: %w", err)
		}
		entradas = append(entradas, a)
	}
	return entradas, rows.Err()
}
