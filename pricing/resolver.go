package pricing

import (
	"context"
	"errors"
	"fmt"
	"log"

	"distrimaxi-api/db"
	"distrimaxi-api/models"
)

var (
	// ErrProductoNoEncontrado means a requested line references a producto
	// that does not exist; the enclosing transaction must abort.
	ErrProductoNoEncontrado = errors.New("producto no encontrado")

	// ErrProductoSinPrecio means the producto exists but has no price in the
	// selected lista. An order is never created with an unpriced line.
	ErrProductoSinPrecio = errors.New("producto sin precio en la lista seleccionada")

	// ErrListaNoEncontrada means an explicitly requested lista does not exist.
	ErrListaNoEncontrada = errors.New("lista de precios no encontrada")
)

// NombreListaGeneral is the lista the builder falls back to when the request
// does not name one.
const NombreListaGeneral = "General"

// CatalogoLector reads the current catalog facts for a producto.
type CatalogoLector interface {
	SnapshotParaPedido(ctx context.Context, q db.Querier, productoID int64) (*models.ProductoSnapshot, error)
}

// ListasLector reads price lists and their per-producto prices.
type ListasLector interface {
	Existe(ctx context.Context, q db.Querier, listaID int64) (bool, error)
	IDPorNombre(ctx context.Context, q db.Querier, nombre string) (int64, bool, error)
	MenorID(ctx context.Context, q db.Querier) (int64, bool, error)
	PrecioDeProducto(ctx context.Context, q db.Querier, listaID, productoID int64) (int64, bool, error)
}

// Resolver freezes the unit price and descriptive snapshot for an order line.
// With a lista it prices strictly from lista_precios_items; without one it
// falls back to the producto's base price (legacy path). Read-only.
type Resolver struct {
	productos CatalogoLector
	listas    ListasLector
}

// NewResolver creates a Resolver over the given readers.
func NewResolver(productos CatalogoLector, listas ListasLector) *Resolver {
	return &Resolver{productos: productos, listas: listas}
}

// Resolve returns the frozen line for productoID under listaID. A nil listaID
// selects the legacy catalog price. Availability always reflects the producto
// row at resolution time, regardless of where the price came from.
func (r *Resolver) Resolve(ctx context.Context, q db.Querier, productoID int64, listaID *int64) (*models.LineaCongelada, error) {
	snap, err := r.productos.SnapshotParaPedido(ctx, q, productoID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: id=%d", ErrProductoNoEncontrado, productoID)
	}

	linea := &models.LineaCongelada{
		ProductoID:     snap.ID,
		PrecioUnitario: snap.PrecioUnitario,
		NombreProducto: snap.Nombre,
		CodigoSKU:      snap.CodigoSKU,
		AvisoFaltante:  !snap.Disponible,
	}

	if listaID == nil {
		return linea, nil
	}

	precio, ok, err := r.listas.PrecioDeProducto(ctx, q, *listaID, productoID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: lista=%d producto=%d", ErrProductoSinPrecio, *listaID, productoID)
	}
	linea.PrecioUnitario = precio
	return linea, nil
}

// ListaEfectiva decides which lista prices a new pedido: the requested one if
// given (it must exist), otherwise the lista named "General", otherwise the
// lowest-id lista, otherwise nil for the legacy no-lista path.
func (r *Resolver) ListaEfectiva(ctx context.Context, q db.Querier, solicitada *int64) (*int64, error) {
	if solicitada != nil {
		ok, err := r.listas.Existe(ctx, q, *solicitada)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: id=%d", ErrListaNoEncontrada, *solicitada)
		}
		return solicitada, nil
	}

	id, ok, err := r.listas.IDPorNombre(ctx, q, NombreListaGeneral)
	if err != nil {
		return nil, err
	}
	if ok {
		return &id, nil
	}

	id, ok, err = r.listas.MenorID(ctx, q)
	if err != nil {
		return nil, err
	}
	if ok {
		return &id, nil
	}

	log.Printf("⚠️  ListaEfectiva: no hay listas de precios, usando precios de catálogo")
	return nil, nil
}
