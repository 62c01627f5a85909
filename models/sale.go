package models

import "time"

type Venta struct {
	ID               int       `json:"id"`
	ProductoID       int       `json:"producto_id"`
	ClienteID        *int      `json:"cliente_id"`
	Cantidad         int       `json:"cantidad"`
	PrecioUnitario   float64   `json:"precio_unitario"`
	Subtotal         float64   `json:"subtotal"`
	Ganancia         float64   `json:"ganancia"`
	MargenPorcentaje float64   `json:"margen_porcentaje"`
	Fecha            time.Time `json:"fecha"`
	CreatedAt        time.Time `json:"created_at"`

	Producto       *string `json:"producto,omitempty"`
	ProductoCodigo *string `json:"producto_codigo,omitempty"`
	Cliente        *string `json:"cliente,omitempty"`
	ClienteDNI     *string `json:"cliente_dni,omitempty"`
}
