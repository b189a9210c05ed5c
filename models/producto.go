package models

// ProductoSnapshot carries the catalog facts frozen into an order line at
// creation time.
type ProductoSnapshot struct {
	ID             int64
	Nombre         string
	CodigoSKU      string
	PrecioUnitario int64
	Disponible     bool
}

// ProductoResumen is the short form used when offering repair candidates for
// orphaned order lines.
type ProductoResumen struct {
	ID        int64  `json:"id"`
	Nombre    string `json:"nombre"`
	CodigoSKU string `json:"codigo_sku"`
}

// LineaCongelada is the result of resolving one order line: the unit price and
// descriptive snapshot that get persisted with the item.
type LineaCongelada struct {
	ProductoID     int64
	PrecioUnitario int64
	NombreProducto string
	CodigoSKU      string
	AvisoFaltante  bool
}
