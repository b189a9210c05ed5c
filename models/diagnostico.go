package models

import "time"

// Motivo explains why an orphaned line needs human intervention.
type Motivo string

const (
	MotivoNombreDuplicado Motivo = "NOMBRE_DUPLICADO"
	MotivoSKUDuplicado    Motivo = "SKU_DUPLICADO"
	MotivoSinCoincidencia Motivo = "SIN_COINCIDENCIA"
)

// ItemHuerfano is an order line whose producto reference no longer resolves to
// an active producto row. The frozen nombre/SKU are all that is left to match
// it back to the catalog.
type ItemHuerfano struct {
	ItemID          int64     `json:"item_id"`
	PedidoID        int64     `json:"pedido_id"`
	ProductoID      int64     `json:"producto_id"`
	NombreProducto  string    `json:"nombre_producto"`
	CodigoSKU       string    `json:"codigo_sku"`
	Cantidad        int       `json:"cantidad"`
	PrecioCongelado int64     `json:"precio_congelado"`
	FechaCreacion   time.Time `json:"fecha_creacion"`
	NombreComercio  string    `json:"nombre_comercio"`
}

// HuerfanoClasificado pairs an orphaned line with its repair classification.
// ProductoSugerido is set for automatic and manual candidates; Motivo and
// Coincidencias only for the intervention bucket.
type HuerfanoClasificado struct {
	Item             ItemHuerfano      `json:"item"`
	ProductoSugerido *ProductoResumen  `json:"producto_sugerido,omitempty"`
	Motivo           Motivo            `json:"motivo,omitempty"`
	Coincidencias    []ProductoResumen `json:"coincidencias,omitempty"`
}

// ResultadoDiagnostico buckets every orphaned line into exactly one category.
type ResultadoDiagnostico struct {
	CorreccionAutomatica []HuerfanoClasificado `json:"correccion_automatica"`
	CorreccionManual     []HuerfanoClasificado `json:"correccion_manual"`
	RequiereIntervencion []HuerfanoClasificado `json:"requiere_intervencion"`
}

// CandidatoCorreccion repoints one orphaned line at an existing producto.
type CandidatoCorreccion struct {
	ItemID          int64 `json:"item_id"`
	ProductoNuevoID int64 `json:"producto_id_nuevo"`
}
