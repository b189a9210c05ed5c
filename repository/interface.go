package repository

import (
	"context"

	"distrimaxi-api/db"
	"distrimaxi-api/models"
)

// Every method takes a db.Querier so it runs against either the pool or the
// caller's transaction; repositories never open connections on their own.

// ProductoRepositoryInterface defines the catalog reads and the stock
// mutation used by the order lifecycle.
type ProductoRepositoryInterface interface {
	SnapshotParaPedido(ctx context.Context, q db.Querier, productoID int64) (*models.ProductoSnapshot, error)
	Activos(ctx context.Context, q db.Querier) ([]models.ProductoResumen, error)
	DescontarStock(ctx context.Context, q db.Querier, productoID int64, cantidad int) error
	ImagenURL(ctx context.Context, q db.Querier, productoID int64) (string, bool, error)
}

// ClienteRepositoryInterface defines the client existence check used before
// accepting a pedido.
type ClienteRepositoryInterface interface {
	Existe(ctx context.Context, q db.Querier, clienteID int64) (bool, error)
}

// ListaPreciosRepositoryInterface defines price list operations.
type ListaPreciosRepositoryInterface interface {
	Existe(ctx context.Context, q db.Querier, listaID int64) (bool, error)
	IDPorNombre(ctx context.Context, q db.Querier, nombre string) (int64, bool, error)
	MenorID(ctx context.Context, q db.Querier) (int64, bool, error)
	PrecioDeProducto(ctx context.Context, q db.Querier, listaID, productoID int64) (int64, bool, error)
	Listar(ctx context.Context, q db.Querier) ([]models.ListaDePrecios, error)
	PorID(ctx context.Context, q db.Querier, listaID int64) (*models.ListaDePrecios, error)
	Items(ctx context.Context, q db.Querier, listaID int64) ([]models.ListaPrecioItem, error)
	Crear(ctx context.Context, q db.Querier, nombre string) (int64, error)
	DuplicarItems(ctx context.Context, q db.Querier, destinoID, origenID int64) (int64, error)
	DesactivarTodas(ctx context.Context, q db.Querier) error
	Activar(ctx context.Context, q db.Querier, listaID int64) (string, bool, error)
}

// PedidoRepositoryInterface defines order persistence. Lines are only written
// whole: insert on creation, delete-all/insert-all on edits.
type PedidoRepositoryInterface interface {
	Insertar(ctx context.Context, q db.Querier, pedido *models.Pedido) error
	InsertarItem(ctx context.Context, q db.Querier, item *models.PedidoItem) error
	PorID(ctx context.Context, q db.Querier, pedidoID int64) (*models.Pedido, error)
	PorIDParaActualizar(ctx context.Context, q db.Querier, pedidoID int64) (*models.Pedido, error)
	PorIDs(ctx context.Context, q db.Querier, pedidoIDs []int64) ([]models.Pedido, error)
	DetallePorID(ctx context.Context, q db.Querier, pedidoID int64) (*models.Pedido, error)
	Listar(ctx context.Context, q db.Querier, actor models.Actor) ([]models.Pedido, error)
	ListarDeUsuario(ctx context.Context, q db.Querier, usuarioID int64) ([]models.Pedido, error)
	ItemsDePedido(ctx context.Context, q db.Querier, pedidoID int64) ([]models.PedidoItem, error)
	ItemsDePedidos(ctx context.Context, q db.Querier, pedidoIDs []int64) ([]models.PedidoItem, error)
	BorrarItems(ctx context.Context, q db.Querier, pedidoID int64) error
	ActualizarNotas(ctx context.Context, q db.Querier, pedidoID int64, notas string) (bool, error)
	ActualizarEstado(ctx context.Context, q db.Querier, pedidoID int64, estado models.Estado) (bool, error)
	MarcarCombinados(ctx context.Context, q db.Querier, pedidoIDs []int64, maestroID int64) error
	Desarchivar(ctx context.Context, q db.Querier, pedidoID int64) (bool, error)
	IDsArchivados(ctx context.Context, q db.Querier) ([]int64, error)
	EliminarConItems(ctx context.Context, q db.Querier, pedidoIDs []int64) (int64, error)
	ItemsHuerfanos(ctx context.Context, q db.Querier) ([]models.ItemHuerfano, error)
	RepuntarItem(ctx context.Context, q db.Querier, itemID, productoNuevoID int64) (bool, error)
}

// ActividadRepositoryInterface is the append-only audit sink.
type ActividadRepositoryInterface interface {
	Registrar(ctx context.Context, q db.Querier, actor models.Actor, accion, detalle string) error
	Ultimas(ctx context.Context, q db.Querier, limite int) ([]models.Actividad, error)
}

// FaltantesRepositoryInterface records and reports shortage events.
type FaltantesRepositoryInterface interface {
	Registrar(ctx context.Context, q db.Querier, faltante *models.RegistroFaltante) error
	ReporteUltimas24h(ctx context.Context, q db.Querier) ([]models.FaltanteAgregado, error)
}
