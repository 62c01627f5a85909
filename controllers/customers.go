package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v4"

	"github.com/emmaotero/APPreventa/condb"
	"github.com/emmaotero/APPreventa/models"
)

const clienteColumns = `id, dni, nombre, telefono, email, notas, total_compras, total_gastado, ultima_compra, created_at`

func scanCliente(row pgx.Row) (models.Cliente, error) {
	var cl models.Cliente
	err := row.Scan(&cl.ID, &cl.DNI, &cl.Nombre, &cl.Telefono, &cl.Email, &cl.Notas,
		&cl.TotalCompras, &cl.TotalGastado, &cl.UltimaCompra, &cl.CreatedAt)
	return cl, err
}

func clientesFromRows(rows pgx.Rows) ([]models.Cliente, error) {
	defer rows.Close()
	var clientes []models.Cliente
	for rows.Next() {
		cl, err := scanCliente(rows)
		if err != nil {
			return nil, err
		}
		clientes = append(clientes, cl)
	}
	return clientes, nil
}

func GetClientes(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	rows, err := condb.Pool().Query(context.Background(),
		`SELECT `+clienteColumns+` FROM clientes WHERE usuario_id = $1 ORDER BY nombre`, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	clientes, err := clientesFromRows(rows)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
	}

	return c.JSON(fiber.Map{"clientes": clientes})
}

func GetClienteByDNI(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	dni := c.Params("dni")

	cl, err := scanCliente(condb.Pool().QueryRow(context.Background(),
		`SELECT `+clienteColumns+` FROM clientes WHERE dni = $1 AND usuario_id = $2`, dni, usuarioID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cliente not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	return c.JSON(cl)
}

// SearchClientes matches DNI, name or phone, limited to ten rows.
func SearchClientes(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	termino := c.Query("q")
	if termino == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "q is required"})
	}

	rows, err := condb.Pool().Query(context.Background(),
		`SELECT `+clienteColumns+`
		 FROM clientes
		 WHERE usuario_id = $1 AND (dni ILIKE $2 OR nombre ILIKE $2 OR telefono ILIKE $2)
		 ORDER BY nombre LIMIT 10`, usuarioID, "%"+termino+"%")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	clientes, err := clientesFromRows(rows)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
	}

	return c.JSON(fiber.Map{"clientes": clientes})
}

func CreateCliente(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	var input struct {
		DNI      string  `json:"dni" validate:"required"`
		Nombre   string  `json:"nombre" validate:"required"`
		Telefono *string `json:"telefono"`
		Email    *string `json:"email" validate:"omitempty,email"`
		Notas    *string `json:"notas"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	cl, err := scanCliente(condb.Pool().QueryRow(context.Background(),
		`INSERT INTO clientes (usuario_id, dni, nombre, telefono, email, notas)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+clienteColumns,
		usuarioID, input.DNI, input.Nombre, input.Telefono, input.Email, input.Notas))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Insert failed: " + err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Cliente created", "cliente": cl})
}

func UpdateCliente(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	clienteID, err := c.ParamsInt("cliente_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid cliente_id"})
	}

	var input struct {
		Nombre   string  `json:"nombre" validate:"required"`
		Telefono *string `json:"telefono"`
		Email    *string `json:"email" validate:"omitempty,email"`
		Notas    *string `json:"notas"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	commandTag, err := condb.Pool().Exec(context.Background(),
		`UPDATE clientes SET nombre = $1, telefono = $2, email = $3, notas = $4
		 WHERE id = $5 AND usuario_id = $6`,
		input.Nombre, input.Telefono, input.Email, input.Notas, clienteID, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Update failed"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cliente not found"})
	}

	return c.JSON(fiber.Map{"message": "Cliente updated"})
}

// GetHistorialCliente lists the customer's sales, newest first.
func GetHistorialCliente(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	clienteID, err := c.ParamsInt("cliente_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid cliente_id"})
	}

	rows, err := condb.Pool().Query(context.Background(),
		ventaSelect+` WHERE v.usuario_id = $1 AND v.cliente_id = $2 ORDER BY v.fecha DESC, v.id DESC`,
		usuarioID, clienteID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	ventas, err := scanVentas(rows)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
	}

	return c.JSON(fiber.Map{"ventas": ventas})
}

// GetClientesFrecuentes: three or more purchases, biggest spenders first.
func GetClientesFrecuentes(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	rows, err := condb.Pool().Query(context.Background(),
		`SELECT `+clienteColumns+`
		 FROM clientes
		 WHERE usuario_id = $1 AND total_compras >= 3
		 ORDER BY total_gastado DESC`, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	clientes, err := clientesFromRows(rows)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
	}

	return c.JSON(fiber.Map{"clientes": clientes})
}

// GetClientesInactivos: customers with purchases but none in the last 30 days.
func GetClientesInactivos(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	rows, err := condb.Pool().Query(context.Background(),
		`SELECT `+clienteColumns+`
		 FROM clientes
		 WHERE usuario_id = $1 AND total_compras > 0
		   AND ultima_compra < CURRENT_DATE - INTERVAL '30 days'
		 ORDER BY ultima_compra`, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	clientes, err := clientesFromRows(rows)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
	}

	return c.JSON(fiber.Map{"clientes": clientes})
}
