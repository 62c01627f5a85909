package models

import "time"

// Frecuencia values: mensual, anual, unico.
type CostoFijo struct {
	ID          int        `json:"id"`
	Nombre      string     `json:"nombre"`
	Monto       float64    `json:"monto"`
	Frecuencia  string     `json:"frecuencia"`
	FechaInicio time.Time  `json:"fecha_inicio"`
	FechaFin    *time.Time `json:"fecha_fin"`
	Descripcion *string    `json:"descripcion"`
	Activo      bool       `json:"activo"`
	CreatedAt   time.Time  `json:"created_at"`
}
