package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/emmaotero/APPreventa/condb"
	"github.com/emmaotero/APPreventa/models"
	"github.com/emmaotero/APPreventa/utils"
)

const productoColumns = `p.id, p.codigo, p.nombre, p.categoria_id, p.proveedor_id, p.marca,
	p.variedad, p.presentacion, p.unidad, p.ubicacion, p.detalle, p.precio_compra,
	p.stock_actual, p.stock_minimo, p.activo, p.pausado, p.created_at, p.updated_at,
	c.nombre, pr.nombre`

func scanProducto(row pgx.Row) (models.Producto, error) {
	var p models.Producto
	err := row.Scan(&p.ID, &p.Codigo, &p.Nombre, &p.CategoriaID, &p.ProveedorID, &p.Marca,
		&p.Variedad, &p.Presentacion, &p.Unidad, &p.Ubicacion, &p.Detalle, &p.PrecioCompra,
		&p.StockActual, &p.StockMinimo, &p.Activo, &p.Pausado, &p.CreatedAt, &p.UpdatedAt,
		&p.Categoria, &p.Proveedor)
	return p, err
}

// GetProductos lists the tenant's products. Query params: activos (default
// true) and excluir_pausados.
func GetProductos(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	query := `SELECT ` + productoColumns + `
		FROM productos p
		LEFT JOIN categorias c ON c.id = p.categoria_id
		LEFT JOIN proveedores pr ON pr.id = p.proveedor_id
		WHERE p.usuario_id = $1`
	if c.Query("activos", "true") == "true" {
		query += ` AND p.activo = TRUE`
	}
	if c.Query("excluir_pausados") == "true" {
		query += ` AND p.pausado = FALSE`
	}
	query += ` ORDER BY p.codigo`

	rows, err := condb.Pool().Query(context.Background(), query, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	defer rows.Close()

	var productos []models.Producto
	for rows.Next() {
		p, err := scanProducto(rows)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		productos = append(productos, p)
	}

	return c.JSON(fiber.Map{"productos": productos})
}

// productCodes returns every SKU already assigned to the tenant, active or
// not, so sequence numbers are never reused.
func productCodes(ctx context.Context, usuarioID int) (map[string]bool, error) {
	rows, err := condb.Pool().Query(ctx,
		`SELECT codigo FROM productos WHERE usuario_id = $1`, usuarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usados := make(map[string]bool)
	for rows.Next() {
		var codigo string
		if err := rows.Scan(&codigo); err != nil {
			return nil, err
		}
		usados[codigo] = true
	}
	return usados, nil
}

type productoInput struct {
	Nombre       string  `json:"nombre" validate:"required"`
	CategoriaID  int     `json:"categoria_id" validate:"required,gt=0"`
	ProveedorID  *int    `json:"proveedor_id"`
	Marca        *string `json:"marca"`
	Variedad     *string `json:"variedad"`
	Presentacion *string `json:"presentacion"`
	Unidad       string  `json:"unidad"`
	Ubicacion    *string `json:"ubicacion"`
	Detalle      *string `json:"detalle"`
	PrecioCompra float64 `json:"precio_compra" validate:"gt=0"`
	StockInicial int     `json:"stock_inicial" validate:"gte=0"`
	StockMinimo  int     `json:"stock_minimo" validate:"gte=0"`
	FechaCompra  string  `json:"fecha_compra"`
}

// CreateProducto registers a product with a generated SKU. Initial stock
// enters through a purchase record, so the product itself starts at zero.
func CreateProducto(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	var input productoInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Unidad == "" {
		input.Unidad = "Unidad"
	}

	fecha, err := parseFecha(input.FechaCompra)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fecha_compra must be YYYY-MM-DD"})
	}

	var codigoCategoria string
	err = condb.Pool().QueryRow(context.Background(),
		`SELECT codigo_categoria FROM categorias WHERE id = $1 AND usuario_id = $2`,
		input.CategoriaID, usuarioID,
	).Scan(&codigoCategoria)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Categoria not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	usados, err := productCodes(context.Background(), usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	codigo := utils.GenerateProductCode(input.Nombre, codigoCategoria, usados)

	tx, err := condb.Pool().Begin(context.Background())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start transaction"})
	}
	defer tx.Rollback(context.Background())

	var productoID int
	err = tx.QueryRow(context.Background(),
		`INSERT INTO productos
			(usuario_id, codigo, nombre, categoria_id, proveedor_id, marca, variedad,
			 presentacion, unidad, ubicacion, detalle, precio_compra, stock_actual, stock_minimo)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,0,$13)
		 RETURNING id`,
		usuarioID, codigo, input.Nombre, input.CategoriaID, input.ProveedorID, input.Marca,
		input.Variedad, input.Presentacion, input.Unidad, input.Ubicacion, input.Detalle,
		input.PrecioCompra, input.StockMinimo,
	).Scan(&productoID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Insert failed: " + err.Error()})
	}

	if input.StockInicial > 0 {
		total := utils.Subtotal(input.StockInicial, input.PrecioCompra)
		_, err = tx.Exec(context.Background(),
			`INSERT INTO compras (usuario_id, producto_id, cantidad, precio_unitario, total, fecha)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			usuarioID, productoID, input.StockInicial, input.PrecioCompra, total, fecha)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Insert failed: " + err.Error()})
		}
		_, err = tx.Exec(context.Background(),
			`UPDATE productos SET stock_actual = stock_actual + $1, updated_at = NOW() WHERE id = $2`,
			input.StockInicial, productoID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Update failed"})
		}
	}

	if err := tx.Commit(context.Background()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Producto created",
		"id":      productoID,
		"codigo":  codigo,
	})
}

func UpdateProducto(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	productoID, err := c.ParamsInt("producto_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid producto_id"})
	}

	var input struct {
		Nombre       string  `json:"nombre" validate:"required"`
		CategoriaID  int     `json:"categoria_id" validate:"required,gt=0"`
		ProveedorID  *int    `json:"proveedor_id"`
		Marca        *string `json:"marca"`
		Variedad     *string `json:"variedad"`
		Presentacion *string `json:"presentacion"`
		Unidad       string  `json:"unidad"`
		Ubicacion    *string `json:"ubicacion"`
		Detalle      *string `json:"detalle"`
		PrecioCompra float64 `json:"precio_compra" validate:"gt=0"`
		StockMinimo  int     `json:"stock_minimo" validate:"gte=0"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Unidad == "" {
		input.Unidad = "Unidad"
	}

	commandTag, err := condb.Pool().Exec(context.Background(),
		`UPDATE productos
		 SET nombre = $1, categoria_id = $2, proveedor_id = $3, marca = $4, variedad = $5,
		     presentacion = $6, unidad = $7, ubicacion = $8, detalle = $9, precio_compra = $10,
		     stock_minimo = $11, updated_at = NOW()
		 WHERE id = $12 AND usuario_id = $13`,
		input.Nombre, input.CategoriaID, input.ProveedorID, input.Marca, input.Variedad,
		input.Presentacion, input.Unidad, input.Ubicacion, input.Detalle, input.PrecioCompra,
		input.StockMinimo, productoID, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Update failed"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Producto not found"})
	}

	return c.JSON(fiber.Map{"message": "Producto updated", "productoID": productoID})
}

// DeleteProducto deactivates a product. With ?permanent=true the row is
// removed for good.
func DeleteProducto(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	productoID, err := c.ParamsInt("producto_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid producto_id"})
	}

	var commandTag pgconn.CommandTag
	if c.Query("permanent") == "true" {
		commandTag, err = condb.Pool().Exec(context.Background(),
			`DELETE FROM productos WHERE id = $1 AND usuario_id = $2`, productoID, usuarioID)
	} else {
		commandTag, err = condb.Pool().Exec(context.Background(),
			`UPDATE productos SET activo = FALSE, pausado = FALSE, updated_at = NOW()
			 WHERE id = $1 AND usuario_id = $2`, productoID, usuarioID)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Delete failed"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Producto not found"})
	}

	return c.JSON(fiber.Map{"message": "Producto deleted", "productoID": productoID})
}

// UpdatePausado hides or shows a product in the purchase/sale pickers.
func UpdatePausado(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	productoID, err := c.ParamsInt("producto_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid producto_id"})
	}

	var input struct {
		Pausado bool `json:"pausado"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	commandTag, err := condb.Pool().Exec(context.Background(),
		`UPDATE productos SET pausado = $1, updated_at = NOW() WHERE id = $2 AND usuario_id = $3`,
		input.Pausado, productoID, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Update failed"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Producto not found"})
	}

	return c.JSON(fiber.Map{"message": "Producto updated", "pausado": input.Pausado})
}

// CreateAjuste sets a new stock quantity and records the correction.
func CreateAjuste(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	productoID, err := c.ParamsInt("producto_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid producto_id"})
	}

	var input struct {
		CantidadNueva int     `json:"cantidad_nueva" validate:"gte=0"`
		Motivo        string  `json:"motivo" validate:"required"`
		Notas         *string `json:"notas"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tx, err := condb.Pool().Begin(context.Background())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start transaction"})
	}
	defer tx.Rollback(context.Background())

	var cantidadAnterior int
	err = tx.QueryRow(context.Background(),
		`SELECT stock_actual FROM productos WHERE id = $1 AND usuario_id = $2 FOR UPDATE`,
		productoID, usuarioID,
	).Scan(&cantidadAnterior)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Producto not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	var ajuste models.AjusteInventario
	err = tx.QueryRow(context.Background(),
		`INSERT INTO ajustes_inventario
			(usuario_id, producto_id, cantidad_anterior, cantidad_nueva, diferencia, motivo, notas, fecha)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_DATE)
		 RETURNING id, producto_id, cantidad_anterior, cantidad_nueva, diferencia, motivo, notas, fecha, created_at`,
		usuarioID, productoID, cantidadAnterior, input.CantidadNueva,
		input.CantidadNueva-cantidadAnterior, input.Motivo, input.Notas,
	).Scan(&ajuste.ID, &ajuste.ProductoID, &ajuste.CantidadAnterior, &ajuste.CantidadNueva,
		&ajuste.Diferencia, &ajuste.Motivo, &ajuste.Notas, &ajuste.Fecha, &ajuste.CreatedAt)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Insert failed: " + err.Error()})
	}

	_, err = tx.Exec(context.Background(),
		`UPDATE productos SET stock_actual = $1, updated_at = NOW() WHERE id = $2`,
		input.CantidadNueva, productoID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Update failed"})
	}

	if err := tx.Commit(context.Background()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Ajuste registered", "ajuste": ajuste})
}

func GetAjustesProducto(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	productoID, err := c.ParamsInt("producto_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid producto_id"})
	}

	rows, err := condb.Pool().Query(context.Background(),
		`SELECT id, producto_id, cantidad_anterior, cantidad_nueva, diferencia, motivo, notas, fecha, created_at
		 FROM ajustes_inventario
		 WHERE producto_id = $1 AND usuario_id = $2
		 ORDER BY created_at DESC`, productoID, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	defer rows.Close()

	var ajustes []models.AjusteInventario
	for rows.Next() {
		var a models.AjusteInventario
		if err := rows.Scan(&a.ID, &a.ProductoID, &a.CantidadAnterior, &a.CantidadNueva,
			&a.Diferencia, &a.Motivo, &a.Notas, &a.Fecha, &a.CreatedAt); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		ajustes = append(ajustes, a)
	}

	return c.JSON(fiber.Map{"ajustes": ajustes})
}

// GetStockBajo lists active products at or below their minimum stock.
func GetStockBajo(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	rows, err := condb.Pool().Query(context.Background(),
		`SELECT `+productoColumns+`
		 FROM productos p
		 LEFT JOIN categorias c ON c.id = p.categoria_id
		 LEFT JOIN proveedores pr ON pr.id = p.proveedor_id
		 WHERE p.usuario_id = $1 AND p.activo = TRUE AND p.stock_actual <= p.stock_minimo
		 ORDER BY p.stock_actual`, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	defer rows.Close()

	var productos []models.Producto
	for rows.Next() {
		p, err := scanProducto(rows)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		productos = append(productos, p)
	}

	return c.JSON(fiber.Map{"productos": productos})
}
