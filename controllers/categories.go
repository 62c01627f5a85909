package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/emmaotero/APPreventa/condb"
	"github.com/emmaotero/APPreventa/models"
	"github.com/emmaotero/APPreventa/utils"
)

func GetCategorias(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	rows, err := condb.Pool().Query(context.Background(),
		`SELECT id, nombre, descripcion, codigo_categoria, created_at
		 FROM categorias WHERE usuario_id = $1 ORDER BY nombre`, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	defer rows.Close()

	var categorias []models.Categoria
	for rows.Next() {
		var cat models.Categoria
		if err := rows.Scan(&cat.ID, &cat.Nombre, &cat.Descripcion, &cat.CodigoCategoria, &cat.CreatedAt); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		categorias = append(categorias, cat)
	}

	return c.JSON(fiber.Map{"categorias": categorias})
}

// categoryCodes returns every category code already assigned to the tenant.
func categoryCodes(ctx context.Context, usuarioID int) ([]string, error) {
	rows, err := condb.Pool().Query(ctx,
		`SELECT codigo_categoria FROM categorias WHERE usuario_id = $1`, usuarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codigos []string
	for rows.Next() {
		var codigo string
		if err := rows.Scan(&codigo); err != nil {
			return nil, err
		}
		codigos = append(codigos, codigo)
	}
	return codigos, nil
}

func CreateCategoria(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	var input struct {
		Nombre      string `json:"nombre" validate:"required"`
		Descripcion string `json:"descripcion"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	codigos, err := categoryCodes(context.Background(), usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	codigo := utils.GenerateCategoryCode(input.Nombre, codigos)

	var cat models.Categoria
	err = condb.Pool().QueryRow(context.Background(),
		`INSERT INTO categorias (usuario_id, nombre, descripcion, codigo_categoria)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, nombre, descripcion, codigo_categoria, created_at`,
		usuarioID, input.Nombre, input.Descripcion, codigo,
	).Scan(&cat.ID, &cat.Nombre, &cat.Descripcion, &cat.CodigoCategoria, &cat.CreatedAt)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Insert failed: " + err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Categoria created", "categoria": cat})
}

func UpdateCategoria(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	categoriaID, err := c.ParamsInt("categoria_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid categoria_id"})
	}

	var input struct {
		Nombre      string `json:"nombre" validate:"required"`
		Descripcion string `json:"descripcion"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	commandTag, err := condb.Pool().Exec(context.Background(),
		`UPDATE categorias SET nombre = $1, descripcion = $2 WHERE id = $3 AND usuario_id = $4`,
		input.Nombre, input.Descripcion, categoriaID, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Update failed"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Categoria not found"})
	}

	return c.JSON(fiber.Map{"message": "Categoria updated"})
}

func DeleteCategoria(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	categoriaID, err := c.ParamsInt("categoria_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid categoria_id"})
	}

	commandTag, err := condb.Pool().Exec(context.Background(),
		`DELETE FROM categorias WHERE id = $1 AND usuario_id = $2`, categoriaID, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Delete failed"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Categoria not found"})
	}

	return c.JSON(fiber.Map{"message": "Categoria deleted"})
}
