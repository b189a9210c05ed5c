package models

// ItemPedidoInput is one requested order line. Quantities must be positive on
// creation; an edit may omit a producto (or send 0) to drop its line.
type ItemPedidoInput struct {
	ProductoID int64 `json:"producto_id"`
	Cantidad   int   `json:"cantidad"`
}

// CrearPedidoRequest is the payload for creating a pedido.
type CrearPedidoRequest struct {
	ClienteID    int64             `json:"cliente_id"`
	Items        []ItemPedidoInput `json:"items"`
	NotasEntrega string            `json:"notas_entrega"`
	ListaID      *int64            `json:"lista_id"`
}

// ActualizarPedidoRequest replaces a pedido's lines and notes.
type ActualizarPedidoRequest struct {
	Items        []ItemPedidoInput `json:"items"`
	NotasEntrega string            `json:"notas_entrega"`
}

// CambiarEstadoRequest moves a pedido to a new estado.
type CambiarEstadoRequest struct {
	Estado string `json:"estado"`
}

// ActualizarNotasRequest updates only the delivery notes. The pointer
// distinguishes an absent field from an empty string.
type ActualizarNotasRequest struct {
	NotasEntrega *string `json:"notas_entrega"`
}

// CombinarPedidosRequest merges two or more pedidos of the same client.
type CombinarPedidosRequest struct {
	PedidoIDs []int64 `json:"pedido_ids"`
}

// CrearListaRequest creates a price list, optionally copying the items of an
// existing one. Lists are always created inactive.
type CrearListaRequest struct {
	Nombre       string `json:"nombre"`
	SourceListID *int64 `json:"source_list_id"`
}

// CorregirHuerfanosRequest applies a batch of orphan repairs.
type CorregirHuerfanosRequest struct {
	Candidatos []CandidatoCorreccion `json:"candidatos"`
}
