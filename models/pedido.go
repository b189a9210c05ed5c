package models

import "time"

// Pedido is an order header. Once persisted it always owns at least one item;
// the builder refuses to create empty pedidos.
type Pedido struct {
	ID              int64     `json:"id"`
	ClienteID       int64     `json:"cliente_id"`
	UsuarioID       int64     `json:"usuario_id"`
	Estado          Estado    `json:"estado"`
	NotasEntrega    string    `json:"notas_entrega"`
	FechaCreacion   time.Time `json:"fecha_creacion"`
	ListaID         *int64    `json:"lista_id,omitempty"`
	PedidoMaestroID *int64    `json:"pedido_maestro_id,omitempty"`

	// Denormalized read-only fields filled by joined queries.
	NombreComercio string `json:"nombre_comercio,omitempty"`
	NombreVendedor string `json:"nombre_vendedor,omitempty"`

	Items []PedidoItem `json:"items,omitempty"`
}

// PedidoItem is an order line. Nombre, SKU and price are frozen copies taken
// from the catalog at creation time: they never change afterwards, even if the
// referenced producto is edited or deleted. Lines are only ever replaced as a
// whole set, never patched individually.
type PedidoItem struct {
	ID              int64  `json:"id"`
	PedidoID        int64  `json:"pedido_id"`
	ProductoID      int64  `json:"producto_id"`
	Cantidad        int    `json:"cantidad"`
	PrecioCongelado int64  `json:"precio_congelado"`
	NombreProducto  string `json:"nombre_producto"`
	CodigoSKU       string `json:"codigo_sku"`
	AvisoFaltante   bool   `json:"aviso_faltante"`

	// DisponibleActual mirrors the producto's current availability on reads;
	// nil when the producto no longer exists.
	DisponibleActual *bool `json:"stock_actual,omitempty"`
}
