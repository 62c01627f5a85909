package models

import "time"

type Usuario struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Nombre       string    `json:"nombre"`
	PasswordHash string    `json:"-"`
	Rol          string    `json:"rol"`
	Activo       bool      `json:"activo"`
	CreatedAt    time.Time `json:"created_at"`
}

// UsuarioEmprendimiento is a team member operating under an owner account.
type UsuarioEmprendimiento struct {
	ID                 int       `json:"id"`
	UsuarioPrincipalID int       `json:"usuario_principal_id"`
	Email              string    `json:"email"`
	Nombre             string    `json:"nombre"`
	Rol                string    `json:"rol"`
	Activo             bool      `json:"activo"`
	CreatedAt          time.Time `json:"created_at"`
}
