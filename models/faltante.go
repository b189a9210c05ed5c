package models

import "time"

// RegistroFaltante is written when an edit reduces a line's quantity from >0
// to exactly 0. It feeds the shortage report; the API never updates it.
type RegistroFaltante struct {
	ID               int64     `json:"id"`
	PedidoID         int64     `json:"pedido_id"`
	ProductoID       int64     `json:"producto_id"`
	NombreProducto   string    `json:"nombre_producto"`
	CantidadOriginal int       `json:"cantidad_original"`
	IDUsuario        int64     `json:"id_usuario"`
	NombreUsuario    string    `json:"nombre_usuario"`
	FechaRegistro    time.Time `json:"fecha_registro"`
}

// FaltanteAgregado is one row of the 24-hour shortage report.
type FaltanteAgregado struct {
	NombreProducto string `json:"nombre_producto"`
	TotalFaltante  int    `json:"total_faltante"`
}
