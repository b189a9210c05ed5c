package service

import (
	"context"
	"fmt"
	"log"

	"distrimaxi-api/db"
	"distrimaxi-api/models"
	"distrimaxi-api/pricing"
	"distrimaxi-api/repository"
)

// ListasService manages price lists. Lists are created inactive; activation
// deactivates every other list first, so at most one is active at a time.
type ListasService struct {
	database  db.Querier
	tx        db.TxManager
	listas    repository.ListaPreciosRepositoryInterface
	actividad repository.ActividadRepositoryInterface
}

// NewListasService creates a new ListasService
func NewListasService(
	database db.Querier,
	tx db.TxManager,
	listas repository.ListaPreciosRepositoryInterface,
	actividad repository.ActividadRepositoryInterface,
) *ListasService {
	return &ListasService{
		database:  database,
		tx:        tx,
		listas:    listas,
		actividad: actividad,
	}
}

// Listar returns every price list, without items.
func (s *ListasService) Listar(ctx context.Context) ([]models.ListaDePrecios, error) {
	return s.listas.Listar(ctx, s.database)
}

// Obtener returns one price list with its items.
func (s *ListasService) Obtener(ctx context.Context, listaID int64) (*models.ListaDePrecios, error) {
	lista, err := s.listas.PorID(ctx, s.database, listaID)
	if err != nil {
		return nil, err
	}
	if lista == nil {
		return nil, fmt.Errorf("%w: id=%d", pricing.ErrListaNoEncontrada, listaID)
	}

	items, err := s.listas.Items(ctx, s.database, listaID)
	if err != nil {
		return nil, err
	}
	lista.Items = items
	return lista, nil
}

// Crear creates an inactive price list, optionally copying every item of a
// source list. Admin only.
func (s *ListasService) Crear(ctx context.Context, actor models.Actor, req models.CrearListaRequest) (int64, error) {
	if !actor.EsAdmin() {
		return 0, ErrSinPermiso
	}
	if req.Nombre == "" {
		return 0, ErrNombreRequerido
	}

	var listaID int64
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		if req.SourceListID != nil {
			existe, err := s.listas.Existe(ctx, q, *req.SourceListID)
			if err != nil {
				return err
			}
			if !existe {
				return fmt.Errorf("%w: id=%d", pricing.ErrListaNoEncontrada, *req.SourceListID)
			}
		}

		var err error
		listaID, err = s.listas.Crear(ctx, q, req.Nombre)
		if err != nil {
			return err
		}

		detalle := fmt.Sprintf("Creó la lista de precios %q (#%d)", req.Nombre, listaID)
		if req.SourceListID != nil {
			copiados, err := s.listas.DuplicarItems(ctx, q, listaID, *req.SourceListID)
			if err != nil {
				return err
			}
			detalle = fmt.Sprintf("Creó la lista de precios %q (#%d) copiando %d precios de la lista #%d",
				req.Nombre, listaID, copiados, *req.SourceListID)
		}

		return s.actividad.Registrar(ctx, q, actor, models.AccionCrearLista, detalle)
	})
	if err != nil {
		return 0, err
	}

	log.Printf("✅ Lista de precios %q creada con id %d", req.Nombre, listaID)
	return listaID, nil
}

// Activar makes the given list the single active one. Admin only.
func (s *ListasService) Activar(ctx context.Context, actor models.Actor, listaID int64) error {
	if !actor.EsAdmin() {
		return ErrSinPermiso
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		if err := s.listas.DesactivarTodas(ctx, q); err != nil {
			return err
		}

		nombre, ok, err := s.listas.Activar(ctx, q, listaID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: id=%d", pricing.ErrListaNoEncontrada, listaID)
		}

		detalle := fmt.Sprintf("Activó la lista de precios %q (#%d)", nombre, listaID)
		return s.actividad.Registrar(ctx, q, actor, models.AccionActivarLista, detalle)
	})
}
