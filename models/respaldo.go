package models

import (
	"fmt"
	"strings"
	"time"
)

// RespaldoPedido accumulates the human-readable snapshot of a newly created
// pedido that gets written to the backup file after commit.
type RespaldoPedido struct {
	PedidoID  int64
	contenido strings.Builder
}

// NuevoRespaldo starts the backup document with the pedido header.
func NuevoRespaldo(pedidoID int64, fecha time.Time, clienteID int64, notas string) *RespaldoPedido {
	r := &RespaldoPedido{PedidoID: pedidoID}
	fmt.Fprintf(&r.contenido, "Pedido ID: %d\n", pedidoID)
	fmt.Fprintf(&r.contenido, "Fecha: %s\n", fecha.Format("02/01/2006 15:04:05"))
	fmt.Fprintf(&r.contenido, "Cliente ID: %d\n", clienteID)
	fmt.Fprintf(&r.contenido, "Notas: %s\n\nItems:\n", notas)
	return r
}

// AgregarLinea appends one frozen line to the document.
func (r *RespaldoPedido) AgregarLinea(cantidad int, nombre, sku, precio string) {
	if sku == "" {
		sku = "N/A"
	}
	fmt.Fprintf(&r.contenido, "- (%dx) %s (SKU: %s) @ %s\n", cantidad, nombre, sku, precio)
}

// Contenido returns the accumulated document.
func (r *RespaldoPedido) Contenido() string {
	return r.contenido.String()
}
