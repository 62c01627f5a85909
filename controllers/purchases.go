package controllers

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/emmaotero/APPreventa/condb"
	"github.com/emmaotero/APPreventa/models"
	"github.com/emmaotero/APPreventa/utils"
)

// CreateCompra logs a purchase and adds the quantity to stock in one
// transaction.
func CreateCompra(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	var input struct {
		ProductoID     int     `json:"producto_id" validate:"required,gt=0"`
		Cantidad       int     `json:"cantidad" validate:"required,gt=0"`
		PrecioUnitario float64 `json:"precio_unitario" validate:"gt=0"`
		Fecha          string  `json:"fecha"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	fecha, err := parseFecha(input.Fecha)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fecha must be YYYY-MM-DD"})
	}

	total := utils.Subtotal(input.Cantidad, input.PrecioUnitario)

	tx, err := condb.Pool().Begin(context.Background())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start transaction"})
	}
	defer tx.Rollback(context.Background())

	commandTag, err := tx.Exec(context.Background(),
		`UPDATE productos SET stock_actual = stock_actual + $1, updated_at = NOW()
		 WHERE id = $2 AND usuario_id = $3`,
		input.Cantidad, input.ProductoID, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Update failed"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Producto not found"})
	}

	var compraID int
	err = tx.QueryRow(context.Background(),
		`INSERT INTO compras (usuario_id, producto_id, cantidad, precio_unitario, total, fecha)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		usuarioID, input.ProductoID, input.Cantidad, input.PrecioUnitario, total, fecha,
	).Scan(&compraID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Insert failed: " + err.Error()})
	}

	if err := tx.Commit(context.Background()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Compra registered and stock updated",
		"id":      compraID,
		"total":   total,
	})
}

// GetCompras lists purchases, newest first, with optional desde/hasta
// date filters.
func GetCompras(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	query := `SELECT co.id, co.producto_id, co.cantidad, co.precio_unitario, co.total, co.fecha,
			co.created_at, p.nombre, p.codigo
		FROM compras co
		JOIN productos p ON p.id = co.producto_id
		WHERE co.usuario_id = $1`
	args := []interface{}{usuarioID}

	if desde := c.Query("desde"); desde != "" {
		args = append(args, desde)
		query += fmt.Sprintf(" AND co.fecha >= $%d", len(args))
	}
	if hasta := c.Query("hasta"); hasta != "" {
		args = append(args, hasta)
		query += fmt.Sprintf(" AND co.fecha <= $%d", len(args))
	}
	query += ` ORDER BY co.fecha DESC, co.id DESC`

	rows, err := condb.Pool().Query(context.Background(), query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	defer rows.Close()

	var compras []models.Compra
	for rows.Next() {
		var co models.Compra
		if err := rows.Scan(&co.ID, &co.ProductoID, &co.Cantidad, &co.PrecioUnitario, &co.Total,
			&co.Fecha, &co.CreatedAt, &co.Producto, &co.ProductoCodigo); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		compras = append(compras, co)
	}

	return c.JSON(fiber.Map{"compras": compras})
}

// DeleteCompra removes the record only. Stock is NOT reverted; that is a
// manual correction, same as the dashboard always warned.
func DeleteCompra(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	compraID, err := c.ParamsInt("compra_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid compra_id"})
	}

	commandTag, err := condb.Pool().Exec(context.Background(),
		`DELETE FROM compras WHERE id = $1 AND usuario_id = $2`, compraID, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Delete failed"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Compra not found"})
	}

	return c.JSON(fiber.Map{
		"message": "Compra deleted",
		"warning": "stock was not reverted, adjust it manually if needed",
	})
}
