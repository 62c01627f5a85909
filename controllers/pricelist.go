package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/emmaotero/APPreventa/condb"
	"github.com/emmaotero/APPreventa/models"
	"github.com/emmaotero/APPreventa/utils"
)

// margenDefecto applies when a product has no saved price row.
const margenDefecto = 30

// buildPrecioRow computes one price list row. A nil margen or precio final
// falls back to the default margin and the suggested price.
func buildPrecioRow(productoID int, codigo, nombre string, precioCosto float64,
	margenTeorico, precioFinal *float64) models.PrecioProducto {

	margen := float64(margenDefecto)
	if margenTeorico != nil {
		margen = *margenTeorico
	}

	sugerido := utils.PrecioSugerido(precioCosto, margen)

	final := sugerido
	if precioFinal != nil && *precioFinal > 0 {
		final = *precioFinal
	}

	return models.PrecioProducto{
		ProductoID:     productoID,
		Codigo:         codigo,
		Nombre:         nombre,
		PrecioCosto:    precioCosto,
		MargenTeorico:  margen,
		PrecioSugerido: sugerido,
		PrecioFinal:    final,
		MargenReal:     utils.MargenPorcentaje(final, precioCosto),
	}
}

// GetListaPrecios returns the computed price list for every active product.
func GetListaPrecios(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	rows, err := condb.Pool().Query(context.Background(),
		`SELECT p.id, p.codigo, p.nombre, p.precio_compra, lp.margen_teorico, lp.precio_final
		 FROM productos p
		 LEFT JOIN lista_precios lp ON lp.producto_id = p.id AND lp.usuario_id = p.usuario_id
		 WHERE p.usuario_id = $1 AND p.activo = TRUE
		 ORDER BY p.nombre`, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	defer rows.Close()

	var precios []models.PrecioProducto
	for rows.Next() {
		var (
			productoID            int
			codigo, nombre        string
			precioCosto           float64
			margenTeorico, precio *float64
		)
		if err := rows.Scan(&productoID, &codigo, &nombre, &precioCosto, &margenTeorico, &precio); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		precios = append(precios, buildPrecioRow(productoID, codigo, nombre, precioCosto, margenTeorico, precio))
	}

	return c.JSON(fiber.Map{"precios": precios})
}

// SavePrecio upserts the theoretical margin and/or final price of a product.
func SavePrecio(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	productoID, err := c.ParamsInt("producto_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid producto_id"})
	}

	var input struct {
		MargenTeorico *float64 `json:"margen_teorico" validate:"omitempty,gte=0"`
		PrecioFinal   *float64 `json:"precio_final" validate:"omitempty,gt=0"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var (
		codigo, nombre string
		precioCosto    float64
	)
	err = condb.Pool().QueryRow(context.Background(),
		`SELECT codigo, nombre, precio_compra FROM productos WHERE id = $1 AND usuario_id = $2`,
		productoID, usuarioID).Scan(&codigo, &nombre, &precioCosto)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Producto not found"})
	}

	_, err = condb.Pool().Exec(context.Background(),
		`INSERT INTO lista_precios (usuario_id, producto_id, margen_teorico, precio_final)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (usuario_id, producto_id) DO UPDATE
		 SET margen_teorico = COALESCE(EXCLUDED.margen_teorico, lista_precios.margen_teorico),
		     precio_final   = COALESCE(EXCLUDED.precio_final, lista_precios.precio_final),
		     updated_at     = NOW()`,
		usuarioID, productoID, input.MargenTeorico, input.PrecioFinal)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Insert failed: " + err.Error()})
	}

	// Read the merged row back so the response reflects the stored state.
	var margenTeorico, precioFinal *float64
	err = condb.Pool().QueryRow(context.Background(),
		`SELECT margen_teorico, precio_final FROM lista_precios
		 WHERE usuario_id = $1 AND producto_id = $2`,
		usuarioID, productoID).Scan(&margenTeorico, &precioFinal)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	return c.JSON(fiber.Map{
		"message": "Precio saved",
		"precio":  buildPrecioRow(productoID, codigo, nombre, precioCosto, margenTeorico, precioFinal),
	})
}
