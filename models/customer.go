package models

import "time"

type Cliente struct {
	ID           int        `json:"id"`
	DNI          string     `json:"dni"`
	Nombre       string     `json:"nombre"`
	Telefono     *string    `json:"telefono"`
	Email        *string    `json:"email"`
	Notas        *string    `json:"notas"`
	TotalCompras int        `json:"total_compras"`
	TotalGastado float64    `json:"total_gastado"`
	UltimaCompra *time.Time `json:"ultima_compra"`
	CreatedAt    time.Time  `json:"created_at"`
}
