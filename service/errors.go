package service

import "errors"

// Business errors. Controllers map these to HTTP status codes; anything else
// coming out of a service is a server fault.
var (
	// Validation errors. The caller can fix its input and retry.
	ErrPedidoSinItems    = errors.New("el pedido debe tener al menos un item")
	ErrClienteRequerido  = errors.New("cliente_id es requerido")
	ErrCantidadInvalida  = errors.New("la cantidad debe ser mayor a cero")
	ErrNombreRequerido   = errors.New("nombre es requerido")
	ErrNotasRequeridas   = errors.New("notas_entrega es requerido")
	ErrEstadoInvalido    = errors.New("estado no reconocido")
	ErrCandidatoInvalido = errors.New("candidato de corrección incompleto")

	// ErrClienteNoSincronizado means the referenced client does not exist in
	// the database. The client app is probably holding a stale local catalog,
	// so this maps to 422 instead of a plain 400.
	ErrClienteNoSincronizado = errors.New("el cliente no existe en el servidor")

	// Authorization errors. Distinct from validation so the caller can tell
	// "fix your input" apart from "you may not do this".
	ErrSinPermiso             = errors.New("no tiene permiso para esta operación")
	ErrVentanaEdicionExpirada = errors.New("la ventana de edición de 12 horas expiró")
	ErrTransicionNoPermitida  = errors.New("transición de estado no permitida")

	// Not-found and merge errors.
	ErrPedidoNoEncontrado   = errors.New("pedido no encontrado")
	ErrPedidosInsuficientes = errors.New("se requieren al menos dos pedidos para combinar")
	ErrClientesDistintos    = errors.New("los pedidos pertenecen a clientes distintos")
	ErrNoArchivado          = errors.New("el pedido no está archivado")
)
