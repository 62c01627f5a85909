package models

import "time"

type Categoria struct {
	ID              int       `json:"id"`
	Nombre          string    `json:"nombre"`
	Descripcion     *string   `json:"descripcion"`
	CodigoCategoria string    `json:"codigo_categoria"`
	CreatedAt       time.Time `json:"created_at"`
}
