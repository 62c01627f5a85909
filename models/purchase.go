package models

import "time"

type Compra struct {
	ID             int       `json:"id"`
	ProductoID     int       `json:"producto_id"`
	Cantidad       int       `json:"cantidad"`
	PrecioUnitario float64   `json:"precio_unitario"`
	Total          float64   `json:"total"`
	Fecha          time.Time `json:"fecha"`
	CreatedAt      time.Time `json:"created_at"`

	Producto       *string `json:"producto,omitempty"`
	ProductoCodigo *string `json:"producto_codigo,omitempty"`
}
