package models

import "time"

// AjusteInventario records a manual stock correction.
type AjusteInventario struct {
	ID               int       `json:"id"`
	ProductoID       int       `json:"producto_id"`
	CantidadAnterior int       `json:"cantidad_anterior"`
	CantidadNueva    int       `json:"cantidad_nueva"`
	Diferencia       int       `json:"diferencia"`
	Motivo           string    `json:"motivo"`
	Notas            *string   `json:"notas"`
	Fecha            time.Time `json:"fecha"`
	CreatedAt        time.Time `json:"created_at"`
}
