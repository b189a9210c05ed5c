package models

import "time"

// Action tags recorded in the actividad trail.
const (
	AccionCrearPedido       = "CREAR_PEDIDO"
	AccionModificarPedido   = "MODIFICAR_PEDIDO"
	AccionCambiarEstado     = "CAMBIAR_ESTADO_PEDIDO"
	AccionModificarNotas    = "MODIFICAR_NOTAS_PEDIDO"
	AccionCombinarPedidos   = "COMBINAR_PEDIDOS"
	AccionArchivarPedido    = "ARCHIVAR_PEDIDO"
	AccionDesarchivarPedido = "DESARCHIVAR_PEDIDO"
	AccionLimpiarArchivados = "LIMPIAR_ARCHIVADOS"
	AccionCrearLista        = "CREAR_LISTA_PRECIOS"
	AccionActivarLista      = "ACTIVAR_LISTA_PRECIOS"
	AccionCorregirHuerfanos = "CORREGIR_HUERFANOS"
)

// Actividad is one append-only audit entry. Entries are never updated or
// deleted by the API.
type Actividad struct {
	ID            int64     `json:"id"`
	IDUsuario     int64     `json:"id_usuario"`
	NombreUsuario string    `json:"nombre_usuario"`
	Accion        string    `json:"accion"`
	Detalle       string    `json:"detalle"`
	FechaCreacion time.Time `json:"fecha_creacion"`
}
