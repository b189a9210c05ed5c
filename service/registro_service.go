package service

import (
	"context"

	"distrimaxi-api/db"
	"distrimaxi-api/models"
	"distrimaxi-api/repository"
)

// ActividadLimite is how many audit rows the log endpoint returns.
const ActividadLimite = 50

// RegistroService exposes the read side of the audit trail and the shortage
// report. Everything here is read-only.
type RegistroService struct {
	database  db.Querier
	actividad repository.ActividadRepositoryInterface
	faltantes repository.FaltantesRepositoryInterface
}

// NewRegistroService creates a new RegistroService
func NewRegistroService(
	database db.Querier,
	actividad repository.ActividadRepositoryInterface,
	faltantes repository.FaltantesRepositoryInterface,
) *RegistroService {
	return &RegistroService{
		database:  database,
		actividad: actividad,
		faltantes: faltantes,
	}
}

// ActividadReciente returns the latest audit entries, newest first.
func (s *RegistroService) ActividadReciente(ctx context.Context) ([]models.Actividad, error) {
	return s.actividad.Ultimas(ctx, s.database, ActividadLimite)
}

// ReporteFaltantes aggregates the shortages recorded in the last 24 hours.
func (s *RegistroService) ReporteFaltantes(ctx context.Context) ([]models.FaltanteAgregado, error) {
	return s.faltantes.ReporteUltimas24h(ctx, s.database)
}
