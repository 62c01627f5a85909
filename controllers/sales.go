package controllers

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v4"

	"github.com/emmaotero/APPreventa/condb"
	"github.com/emmaotero/APPreventa/models"
	"github.com/emmaotero/APPreventa/utils"
)

// CreateVenta logs a sale in one transaction: insert with the totals
// computed from the product's current cost price, decrement stock (failing
// when there is not enough), and roll the customer counters forward.
func CreateVenta(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	var input struct {
		ProductoID     int     `json:"producto_id" validate:"required,gt=0"`
		ClienteID      *int    `json:"cliente_id"`
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

	tx, err := condb.Pool().Begin(context.Background())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start transaction"})
	}
	defer tx.Rollback(context.Background())

	// Cost is pinned at sale time from the product row.
	var precioCompra float64
	err = tx.QueryRow(context.Background(),
		`SELECT precio_compra FROM productos WHERE id = $1 AND usuario_id = $2 FOR UPDATE`,
		input.ProductoID, usuarioID,
	).Scan(&precioCompra)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Producto not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	subtotal := utils.Subtotal(input.Cantidad, input.PrecioUnitario)
	ganancia := utils.Ganancia(input.PrecioUnitario, precioCompra, input.Cantidad)
	margen := utils.MargenPorcentaje(input.PrecioUnitario, precioCompra)

	commandTag, err := tx.Exec(context.Background(),
		`UPDATE productos SET stock_actual = stock_actual - $1, updated_at = NOW()
		 WHERE id = $2 AND usuario_id = $3 AND stock_actual >= $1`,
		input.Cantidad, input.ProductoID, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Update failed"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Insufficient stock"})
	}

	var ventaID int
	err = tx.QueryRow(context.Background(),
		`INSERT INTO ventas
			(usuario_id, producto_id, cliente_id, cantidad, precio_unitario, subtotal, ganancia, margen_porcentaje, fecha)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		usuarioID, input.ProductoID, input.ClienteID, input.Cantidad, input.PrecioUnitario,
		subtotal, ganancia, margen, fecha,
	).Scan(&ventaID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Insert failed: " + err.Error()})
	}

	if input.ClienteID != nil {
		commandTag, err = tx.Exec(context.Background(),
			`UPDATE clientes
			 SET total_compras = total_compras + 1,
			     total_gastado = total_gastado + $1,
			     ultima_compra = $2
			 WHERE id = $3 AND usuario_id = $4`,
			subtotal, fecha, *input.ClienteID, usuarioID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Update failed"})
		}
		if commandTag.RowsAffected() == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cliente not found"})
		}
	}

	if err := tx.Commit(context.Background()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":           "Venta registered and stock updated",
		"id":                ventaID,
		"subtotal":          subtotal,
		"ganancia":          ganancia,
		"margen_porcentaje": margen,
	})
}

const ventaSelect = `SELECT v.id, v.producto_id, v.cliente_id, v.cantidad, v.precio_unitario,
		v.subtotal, v.ganancia, v.margen_porcentaje, v.fecha, v.created_at,
		p.nombre, p.codigo, cl.nombre, cl.dni
	FROM ventas v
	JOIN productos p ON p.id = v.producto_id
	LEFT JOIN clientes cl ON cl.id = v.cliente_id`

func scanVentas(rows pgx.Rows) ([]models.Venta, error) {
	defer rows.Close()
	var ventas []models.Venta
	for rows.Next() {
		var v models.Venta
		if err := rows.Scan(&v.ID, &v.ProductoID, &v.ClienteID, &v.Cantidad, &v.PrecioUnitario,
			&v.Subtotal, &v.Ganancia, &v.MargenPorcentaje, &v.Fecha, &v.CreatedAt,
			&v.Producto, &v.ProductoCodigo, &v.Cliente, &v.ClienteDNI); err != nil {
			return nil, err
		}
		ventas = append(ventas, v)
	}
	return ventas, nil
}

// GetVentas lists sales, newest first, with optional desde/hasta filters.
func GetVentas(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	query := ventaSelect + ` WHERE v.usuario_id = $1`
	args := []interface{}{usuarioID}

	if desde := c.Query("desde"); desde != "" {
		args = append(args, desde)
		query += fmt.Sprintf(" AND v.fecha >= $%d", len(args))
	}
	if hasta := c.Query("hasta"); hasta != "" {
		args = append(args, hasta)
		query += fmt.Sprintf(" AND v.fecha <= $%d", len(args))
	}
	query += ` ORDER BY v.fecha DESC, v.id DESC`

	rows, err := condb.Pool().Query(context.Background(), query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	ventas, err := scanVentas(rows)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
	}

	return c.JSON(fiber.Map{"ventas": ventas})
}

// DeleteVenta removes the record only. Stock is NOT reverted.
func DeleteVenta(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	ventaID, err := c.ParamsInt("venta_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid venta_id"})
	}

	commandTag, err := condb.Pool().Exec(context.Background(),
		`DELETE FROM ventas WHERE id = $1 AND usuario_id = $2`, ventaID, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Delete failed"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Venta not found"})
	}

	return c.JSON(fiber.Map{
		"message": "Venta deleted",
		"warning": "stock was not reverted, adjust it manually if needed",
	})
}
