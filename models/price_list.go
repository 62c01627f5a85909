package models

// PrecioProducto is a computed price list row, one per active product.
type PrecioProducto struct {
	ProductoID     int     `json:"producto_id"`
	Codigo         string  `json:"codigo"`
	Nombre         string  `json:"nombre"`
	PrecioCosto    float64 `json:"precio_costo"`
	MargenTeorico  float64 `json:"margen_teorico"`
	PrecioSugerido float64 `json:"precio_sugerido"`
	PrecioFinal    float64 `json:"precio_final"`
	MargenReal     float64 `json:"margen_real"`
}
