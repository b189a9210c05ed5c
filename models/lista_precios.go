package models

import "time"

// ListaDePrecios is a named price table. At most one lista is active at any
// time; activating one deactivates all others first.
type ListaDePrecios struct {
	ID            int64     `json:"id"`
	Nombre        string    `json:"nombre"`
	Activa        bool      `json:"activa"`
	FechaCreacion time.Time `json:"fecha_creacion"`

	Items []ListaPrecioItem `json:"items,omitempty"`
}

// ListaPrecioItem is one producto's price inside a lista.
type ListaPrecioItem struct {
	ProductoID     int64  `json:"producto_id"`
	NombreProducto string `json:"nombre_producto"`
	CodigoSKU      string `json:"codigo_sku"`
	Precio         int64  `json:"precio"`
}
