package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/emmaotero/APPreventa/condb"
	"github.com/emmaotero/APPreventa/models"
)

func GetProveedores(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	rows, err := condb.Pool().Query(context.Background(),
		`SELECT id, nombre, contacto, telefono, email, notas, created_at
		 FROM proveedores WHERE usuario_id = $1 ORDER BY nombre`, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	defer rows.Close()

	var proveedores []models.Proveedor
	for rows.Next() {
		var p models.Proveedor
		if err := rows.Scan(&p.ID, &p.Nombre, &p.Contacto, &p.Telefono, &p.Email, &p.Notas, &p.CreatedAt); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		proveedores = append(proveedores, p)
	}

	return c.JSON(fiber.Map{"proveedores": proveedores})
}

func CreateProveedor(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	var input struct {
		Nombre   string  `json:"nombre" validate:"required"`
		Contacto *string `json:"contacto"`
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

	var p models.Proveedor
	err = condb.Pool().QueryRow(context.Background(),
		`INSERT INTO proveedores (usuario_id, nombre, contacto, telefono, email, notas)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, nombre, contacto, telefono, email, notas, created_at`,
		usuarioID, input.Nombre, input.Contacto, input.Telefono, input.Email, input.Notas,
	).Scan(&p.ID, &p.Nombre, &p.Contacto, &p.Telefono, &p.Email, &p.Notas, &p.CreatedAt)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Insert failed: " + err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Proveedor created", "proveedor": p})
}

func UpdateProveedor(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	proveedorID, err := c.ParamsInt("proveedor_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid proveedor_id"})
	}

	var input struct {
		Nombre   string  `json:"nombre" validate:"required"`
		Contacto *string `json:"contacto"`
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
		`UPDATE proveedores SET nombre = $1, contacto = $2, telefono = $3, email = $4, notas = $5
		 WHERE id = $6 AND usuario_id = $7`,
		input.Nombre, input.Contacto, input.Telefono, input.Email, input.Notas, proveedorID, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Update failed"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Proveedor not found"})
	}

	return c.JSON(fiber.Map{"message": "Proveedor updated"})
}

func DeleteProveedor(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	proveedorID, err := c.ParamsInt("proveedor_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid proveedor_id"})
	}

	commandTag, err := condb.Pool().Exec(context.Background(),
		`DELETE FROM proveedores WHERE id = $1 AND usuario_id = $2`, proveedorID, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Delete failed"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Proveedor not found"})
	}

	return c.JSON(fiber.Map{"message": "Proveedor deleted"})
}
