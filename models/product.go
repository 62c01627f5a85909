package models

import "time"

type Producto struct {
	ID           int       `json:"id"`
	Codigo       string    `json:"codigo"`
	Nombre       string    `json:"nombre"`
	CategoriaID  *int      `json:"categoria_id"`
	ProveedorID  *int      `json:"proveedor_id"`
	Marca        *string   `json:"marca"`
	Variedad     *string   `json:"variedad"`
	Presentacion *string   `json:"presentacion"`
	Unidad       string    `json:"unidad"`
	Ubicacion    *string   `json:"ubicacion"`
	Detalle      *string   `json:"detalle"`
	PrecioCompra float64   `json:"precio_compra"`
	StockActual  int       `json:"stock_actual"`
	StockMinimo  int       `json:"stock_minimo"`
	Activo       bool      `json:"activo"`
	Pausado      bool      `json:"pausado"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// joined names, filled by list queries
	Categoria *string `json:"categoria,omitempty"`
	Proveedor *string `json:"proveedor,omitempty"`
}
