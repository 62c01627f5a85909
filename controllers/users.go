package controllers

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/emmaotero/APPreventa/condb"
	"github.com/emmaotero/APPreventa/models"
	"github.com/emmaotero/APPreventa/utils"
)

// categoriasIniciales are seeded for every new owner account.
var categoriasIniciales = []string{"Electrónica", "Ropa", "Hogar", "Otros"}

// Register creates an owner account and seeds its starter categories.
func Register(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Nombre   string `json:"nombre" validate:"required"`
		Password string `json:"password" validate:"required,min=6"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	tx, err := condb.Pool().Begin(context.Background())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start transaction"})
	}
	defer tx.Rollback(context.Background())

	var usuarioID int
	err = tx.QueryRow(context.Background(),
		`INSERT INTO usuarios (email, nombre, password_hash, rol)
		 VALUES ($1, $2, $3, 'admin') RETURNING id`,
		input.Email, input.Nombre, string(hash),
	).Scan(&usuarioID)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
	}

	var codigos []string
	for _, nombre := range categoriasIniciales {
		codigo := utils.GenerateCategoryCode(nombre, codigos)
		codigos = append(codigos, codigo)
		_, err = tx.Exec(context.Background(),
			`INSERT INTO categorias (usuario_id, nombre, codigo_categoria) VALUES ($1, $2, $3)`,
			usuarioID, nombre, codigo)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Insert failed: " + err.Error()})
		}
	}

	if err := tx.Commit(context.Background()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Account created", "id": usuarioID})
}

// Login authenticates an owner or a team member. Team members get a token
// scoped to their owner's tenant, carrying their own role.
func Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var u models.Usuario
	err := condb.Pool().QueryRow(context.Background(),
		`SELECT id, email, nombre, password_hash, rol, activo, created_at
		 FROM usuarios WHERE email = $1`, input.Email,
	).Scan(&u.ID, &u.Email, &u.Nombre, &u.PasswordHash, &u.Rol, &u.Activo, &u.CreatedAt)
	if err != nil && err != pgx.ErrNoRows {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	tenant := u.ID
	rol := u.Rol
	nombre := u.Nombre
	hash := u.PasswordHash
	activo := u.Activo

	if err == pgx.ErrNoRows {
		// Not an owner. Try the team member table.
		var miembro models.UsuarioEmprendimiento
		err = condb.Pool().QueryRow(context.Background(),
			`SELECT id, usuario_principal_id, email, nombre, password_hash, rol, activo
			 FROM usuarios_emprendimiento WHERE email = $1`, input.Email,
		).Scan(&miembro.ID, &miembro.UsuarioPrincipalID, &miembro.Email, &miembro.Nombre,
			&hash, &miembro.Rol, &miembro.Activo)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		tenant = miembro.UsuarioPrincipalID
		rol = miembro.Rol
		nombre = miembro.Nombre
		activo = miembro.Activo
	}

	if !activo {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Account is disabled"})
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(input.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	token, err := utils.GenerateJWTToken(strconv.Itoa(tenant), rol)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}
	utils.SetJWTCookie(c, token)

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"nombre":  nombre,
		"rol":     rol,
	})
}

func GetEquipo(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	rows, err := condb.Pool().Query(context.Background(),
		`SELECT id, usuario_principal_id, email, nombre, rol, activo, created_at
		 FROM usuarios_emprendimiento WHERE usuario_principal_id = $1 ORDER BY nombre`, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	defer rows.Close()

	var equipo []models.UsuarioEmprendimiento
	for rows.Next() {
		var m models.UsuarioEmprendimiento
		if err := rows.Scan(&m.ID, &m.UsuarioPrincipalID, &m.Email, &m.Nombre, &m.Rol, &m.Activo, &m.CreatedAt); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		equipo = append(equipo, m)
	}

	return c.JSON(fiber.Map{"equipo": equipo})
}

func CreateMiembro(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Nombre   string `json:"nombre" validate:"required"`
		Password string `json:"password" validate:"required,min=6"`
		Rol      string `json:"rol" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	var miembroID int
	err = condb.Pool().QueryRow(context.Background(),
		`INSERT INTO usuarios_emprendimiento (usuario_principal_id, email, nombre, password_hash, rol)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		usuarioID, input.Email, input.Nombre, string(hash), input.Rol,
	).Scan(&miembroID)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Miembro created", "id": miembroID})
}

func UpdateMiembro(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	miembroID, err := c.ParamsInt("miembro_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid miembro_id"})
	}

	var input struct {
		Nombre string `json:"nombre" validate:"required"`
		Rol    string `json:"rol" validate:"required"`
		Activo *bool  `json:"activo"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	activo := true
	if input.Activo != nil {
		activo = *input.Activo
	}

	commandTag, err := condb.Pool().Exec(context.Background(),
		`UPDATE usuarios_emprendimiento SET nombre = $1, rol = $2, activo = $3
		 WHERE id = $4 AND usuario_principal_id = $5`,
		input.Nombre, input.Rol, activo, miembroID, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Update failed"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Miembro not found"})
	}

	return c.JSON(fiber.Map{"message": "Miembro updated"})
}

// DeleteMiembro deactivates the member so their history stays attributable.
func DeleteMiembro(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	miembroID, err := c.ParamsInt("miembro_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid miembro_id"})
	}

	commandTag, err := condb.Pool().Exec(context.Background(),
		`UPDATE usuarios_emprendimiento SET activo = FALSE
		 WHERE id = $1 AND usuario_principal_id = $2`, miembroID, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Delete failed"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Miembro not found"})
	}

	return c.JSON(fiber.Map{"message": "Miembro deactivated"})
}

// GetPermisosRol returns the permission map of one role.
func GetPermisosRol(c *fiber.Ctx) error {
	rol := c.Params("rol")

	var raw []byte
	err := condb.Pool().QueryRow(context.Background(),
		`SELECT permisos FROM permisos_roles WHERE rol = $1`, rol).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Rol not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	permisos := map[string]bool{}
	if err := json.Unmarshal(raw, &permisos); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
	}

	return c.JSON(fiber.Map{"rol": rol, "permisos": permisos})
}

// GetRolePermissions lists every role with its permission map.
func GetRolePermissions(c *fiber.Ctx) error {
	rows, err := condb.Pool().Query(context.Background(),
		`SELECT rol, permisos FROM permisos_roles ORDER BY rol`)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	defer rows.Close()

	roles := map[string]map[string]bool{}
	for rows.Next() {
		var (
			rol string
			raw []byte
		)
		if err := rows.Scan(&rol, &raw); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		permisos := map[string]bool{}
		if err := json.Unmarshal(raw, &permisos); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		roles[rol] = permisos
	}

	return c.JSON(fiber.Map{"roles": roles})
}
