package models

import "time"

type Proveedor struct {
	ID        int       `json:"id"`
	Nombre    string    `json:"nombre"`
	Contacto  *string   `json:"contacto"`
	Telefono  *string   `json:"telefono"`
	Email     *string   `json:"email"`
	Notas     *string   `json:"notas"`
	CreatedAt time.Time `json:"created_at"`
}
