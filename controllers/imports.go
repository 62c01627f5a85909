package controllers

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/emmaotero/APPreventa/condb"
	"github.com/emmaotero/APPreventa/utils"
)

var importColumns = []string{
	"nombre", "marca", "categoria", "variedad", "presentacion", "unidad",
	"precio_compra", "stock_inicial", "stock_minimo", "proveedor",
	"ubicacion", "detalle", "fecha_compra",
}

// GetImportTemplate serves the CSV template with one example row.
func GetImportTemplate(c *fiber.Ctx) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(importColumns)
	w.Write([]string{
		"Yerba Mate Orgánica", "Playadito", "Almacén", "Suave", "Paquete 1kg", "Unidad",
		"2500", "10", "3", "Distribuidora Norte", "Estante A", "", time.Now().Format(dateLayout),
	})
	w.Flush()

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="plantilla_productos.csv"`)
	return c.Send(buf.Bytes())
}

type importRow struct {
	Nombre       string
	Marca        string
	Categoria    string
	Variedad     string
	Presentacion string
	Unidad       string
	PrecioCompra float64
	StockInicial int
	StockMinimo  int
	Proveedor    string
	Ubicacion    string
	Detalle      string
	FechaCompra  time.Time
}

// parseImportRow maps a CSV record onto an importRow and validates the
// required fields. Column lookup is by header name, so column order does
// not matter.
func parseImportRow(idx map[string]int, record []string) (importRow, error) {
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := importRow{
		Nombre:       field("nombre"),
		Marca:        field("marca"),
		Categoria:    field("categoria"),
		Variedad:     field("variedad"),
		Presentacion: field("presentacion"),
		Unidad:       field("unidad"),
		Proveedor:    field("proveedor"),
		Ubicacion:    field("ubicacion"),
		Detalle:      field("detalle"),
	}
	if row.Nombre == "" {
		return row, errors.New("nombre is required")
	}
	if row.Categoria == "" {
		return row, errors.New("categoria is required")
	}
	if row.Unidad == "" {
		row.Unidad = "Unidad"
	}

	precio := field("precio_compra")
	if precio == "" {
		return row, errors.New("precio_compra is required")
	}
	var err error
	row.PrecioCompra, err = strconv.ParseFloat(strings.ReplaceAll(precio, ",", "."), 64)
	if err != nil || row.PrecioCompra <= 0 {
		return row, errors.New("precio_compra must be a positive number")
	}

	if s := field("stock_inicial"); s != "" {
		row.StockInicial, err = strconv.Atoi(s)
		if err != nil || row.StockInicial < 0 {
			return row, errors.New("stock_inicial must be a non-negative integer")
		}
	}
	if s := field("stock_minimo"); s != "" {
		row.StockMinimo, err = strconv.Atoi(s)
		if err != nil || row.StockMinimo < 0 {
			return row, errors.New("stock_minimo must be a non-negative integer")
		}
	}

	row.FechaCompra, err = parseFecha(field("fecha_compra"))
	if err != nil {
		return row, errors.New("fecha_compra must be YYYY-MM-DD")
	}

	return row, nil
}

func emptyRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type importContext struct {
	usuarioID   int
	categorias  map[string]int  // lower(nombre) -> id
	codigosCat  map[int]string  // id -> codigo_categoria
	listaCat    []string        // every category code, for the generator
	proveedores map[string]int  // lower(nombre) -> id
	productos   map[string]int  // lower(nombre)|categoria_id -> id
	usados      map[string]bool // SKUs reserved during the batch
}

func loadImportContext(ctx context.Context, usuarioID int) (*importContext, error) {
	ic := &importContext{
		usuarioID:   usuarioID,
		categorias:  map[string]int{},
		codigosCat:  map[int]string{},
		proveedores: map[string]int{},
		productos:   map[string]int{},
	}

	rows, err := condb.Pool().Query(ctx,
		`SELECT id, nombre, codigo_categoria FROM categorias WHERE usuario_id = $1`, usuarioID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var (
			id             int
			nombre, codigo string
		)
		if err := rows.Scan(&id, &nombre, &codigo); err != nil {
			rows.Close()
			return nil, err
		}
		ic.categorias[strings.ToLower(nombre)] = id
		ic.codigosCat[id] = codigo
		ic.listaCat = append(ic.listaCat, codigo)
	}
	rows.Close()

	rows, err = condb.Pool().Query(ctx,
		`SELECT id, nombre FROM proveedores WHERE usuario_id = $1`, usuarioID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var (
			id     int
			nombre string
		)
		if err := rows.Scan(&id, &nombre); err != nil {
			rows.Close()
			return nil, err
		}
		ic.proveedores[strings.ToLower(nombre)] = id
	}
	rows.Close()

	rows, err = condb.Pool().Query(ctx,
		`SELECT id, nombre, categoria_id FROM productos WHERE usuario_id = $1`, usuarioID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var (
			id          int
			nombre      string
			categoriaID *int
		)
		if err := rows.Scan(&id, &nombre, &categoriaID); err != nil {
			rows.Close()
			return nil, err
		}
		if categoriaID != nil {
			ic.productos[productKey(nombre, *categoriaID)] = id
		}
	}
	rows.Close()

	ic.usados, err = productCodes(ctx, usuarioID)
	return ic, err
}

func productKey(nombre string, categoriaID int) string {
	return strings.ToLower(nombre) + "|" + strconv.Itoa(categoriaID)
}

// resolveCategoria finds the category by name, case-insensitive, creating
// it at most once per batch.
func (ic *importContext) resolveCategoria(ctx context.Context, nombre string) (int, bool, error) {
	if id, ok := ic.categorias[strings.ToLower(nombre)]; ok {
		return id, false, nil
	}

	codigo := utils.GenerateCategoryCode(nombre, ic.listaCat)
	var id int
	err := condb.Pool().QueryRow(ctx,
		`INSERT INTO categorias (usuario_id, nombre, codigo_categoria)
		 VALUES ($1, $2, $3) RETURNING id`,
		ic.usuarioID, nombre, codigo).Scan(&id)
	if err != nil {
		return 0, false, err
	}

	ic.categorias[strings.ToLower(nombre)] = id
	ic.codigosCat[id] = codigo
	ic.listaCat = append(ic.listaCat, codigo)
	return id, true, nil
}

func (ic *importContext) resolveProveedor(ctx context.Context, nombre string) (int, bool, error) {
	if id, ok := ic.proveedores[strings.ToLower(nombre)]; ok {
		return id, false, nil
	}

	var id int
	err := condb.Pool().QueryRow(ctx,
		`INSERT INTO proveedores (usuario_id, nombre) VALUES ($1, $2) RETURNING id`,
		ic.usuarioID, nombre).Scan(&id)
	if err != nil {
		return 0, false, err
	}

	ic.proveedores[strings.ToLower(nombre)] = id
	return id, true, nil
}

// ImportProductos loads products in bulk from an uploaded CSV. Rows fail
// individually; one bad row does not abort the batch.
func ImportProductos(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot open file"})
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid CSV: " + err.Error()})
	}
	if len(records) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "CSV has no data rows"})
	}

	idx := map[string]int{}
	for i, name := range records[0] {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	ctx := context.Background()
	ic, err := loadImportContext(ctx, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	var (
		exitosos           int
		detalles           []string
		categoriasCreadas  []string
		proveedoresCreados []string
	)

	for n, record := range records[1:] {
		linea := n + 2
		if emptyRecord(record) {
			continue
		}

		row, err := parseImportRow(idx, record)
		if err != nil {
			detalles = append(detalles, fmt.Sprintf("line %d: %v", linea, err))
			continue
		}

		categoriaID, creada, err := ic.resolveCategoria(ctx, row.Categoria)
		if err != nil {
			detalles = append(detalles, fmt.Sprintf("line %d: categoria: %v", linea, err))
			continue
		}
		if creada {
			categoriasCreadas = append(categoriasCreadas, row.Categoria)
		}

		var proveedorID *int
		if row.Proveedor != "" {
			id, creado, err := ic.resolveProveedor(ctx, row.Proveedor)
			if err != nil {
				detalles = append(detalles, fmt.Sprintf("line %d: proveedor: %v", linea, err))
				continue
			}
			if creado {
				proveedoresCreados = append(proveedoresCreados, row.Proveedor)
			}
			proveedorID = &id
		}

		if err := ic.upsertProducto(ctx, row, categoriaID, proveedorID); err != nil {
			detalles = append(detalles, fmt.Sprintf("line %d: %v", linea, err))
			continue
		}
		exitosos++
	}

	return c.JSON(fiber.Map{
		"lote":                uuid.New().String(),
		"exitosos":            exitosos,
		"errores":             len(detalles),
		"detalles":            detalles,
		"categorias_creadas":  categoriasCreadas,
		"proveedores_creados": proveedoresCreados,
	})
}

// upsertProducto creates the product, or updates and reactivates it when
// the tenant already has one with the same name and category. Initial
// stock always enters through a purchase record.
func (ic *importContext) upsertProducto(ctx context.Context, row importRow, categoriaID int, proveedorID *int) error {
	tx, err := condb.Pool().Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	productoID, existe := ic.productos[productKey(row.Nombre, categoriaID)]
	if existe {
		_, err = tx.Exec(ctx,
			`UPDATE productos
			 SET proveedor_id = COALESCE($1, proveedor_id), marca = COALESCE($2, marca),
			     variedad = COALESCE($3, variedad), presentacion = COALESCE($4, presentacion),
			     unidad = $5, ubicacion = COALESCE($6, ubicacion), detalle = COALESCE($7, detalle),
			     precio_compra = $8, stock_minimo = $9, activo = TRUE, pausado = FALSE, updated_at = NOW()
			 WHERE id = $10 AND usuario_id = $11`,
			proveedorID, nilIfEmpty(row.Marca), nilIfEmpty(row.Variedad), nilIfEmpty(row.Presentacion),
			row.Unidad, nilIfEmpty(row.Ubicacion), nilIfEmpty(row.Detalle),
			row.PrecioCompra, row.StockMinimo, productoID, ic.usuarioID)
		if err != nil {
			return err
		}
	} else {
		codigo := utils.GenerateProductCode(row.Nombre, ic.codigosCat[categoriaID], ic.usados)
		err = tx.QueryRow(ctx,
			`INSERT INTO productos
				(usuario_id, codigo, nombre, categoria_id, proveedor_id, marca, variedad,
				 presentacion, unidad, ubicacion, detalle, precio_compra, stock_actual, stock_minimo)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,0,$13)
			 RETURNING id`,
			ic.usuarioID, codigo, row.Nombre, categoriaID, proveedorID, nilIfEmpty(row.Marca),
			nilIfEmpty(row.Variedad), nilIfEmpty(row.Presentacion), row.Unidad,
			nilIfEmpty(row.Ubicacion), nilIfEmpty(row.Detalle), row.PrecioCompra, row.StockMinimo,
		).Scan(&productoID)
		if err != nil {
			return err
		}
		ic.productos[productKey(row.Nombre, categoriaID)] = productoID
	}

	if row.StockInicial > 0 {
		total := utils.Subtotal(row.StockInicial, row.PrecioCompra)
		_, err = tx.Exec(ctx,
			`INSERT INTO compras (usuario_id, producto_id, cantidad, precio_unitario, total, fecha)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			ic.usuarioID, productoID, row.StockInicial, row.PrecioCompra, total, row.FechaCompra)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE productos SET stock_actual = stock_actual + $1, updated_at = NOW() WHERE id = $2`,
			row.StockInicial, productoID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// sendCSV writes the rows as an attachment.
func sendCSV(c *fiber.Ctx, filename string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(header)
	w.WriteAll(rows)
	if err := w.Error(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Export failed"})
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatMonto(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ExportProductos downloads the tenant's products as CSV.
func ExportProductos(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	dbRows, err := condb.Pool().Query(context.Background(),
		`SELECT p.codigo, p.nombre, p.marca, c.nombre, p.variedad, p.presentacion, p.unidad,
		        p.precio_compra, p.stock_actual, p.stock_minimo, pr.nombre, p.ubicacion, p.detalle, p.activo
		 FROM productos p
		 LEFT JOIN categorias c ON c.id = p.categoria_id
		 LEFT JOIN proveedores pr ON pr.id = p.proveedor_id
		 WHERE p.usuario_id = $1
		 ORDER BY p.codigo`, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	defer dbRows.Close()

	var out [][]string
	for dbRows.Next() {
		var codigo, nombre, unidad string
		var marca, categoria, variedad, presentacion, proveedor *string
		var ubicacion, detalle *string
		var precioCompra float64
		var stockActual, stockMinimo int
		var activo bool
		if err := dbRows.Scan(&codigo, &nombre, &marca, &categoria, &variedad, &presentacion, &unidad,
			&precioCompra, &stockActual, &stockMinimo, &proveedor, &ubicacion, &detalle, &activo); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		out = append(out, []string{
			codigo, nombre, deref(marca), deref(categoria), deref(variedad), deref(presentacion), unidad,
			formatMonto(precioCompra), strconv.Itoa(stockActual), strconv.Itoa(stockMinimo),
			deref(proveedor), deref(ubicacion), deref(detalle), strconv.FormatBool(activo),
		})
	}

	return sendCSV(c, "productos.csv", []string{
		"codigo", "nombre", "marca", "categoria", "variedad", "presentacion", "unidad",
		"precio_compra", "stock_actual", "stock_minimo", "proveedor", "ubicacion", "detalle", "activo",
	}, out)
}

// ExportVentas downloads sales as CSV, honoring desde/hasta filters.
func ExportVentas(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	query := `SELECT v.fecha, p.codigo, p.nombre, cl.nombre, v.cantidad, v.precio_unitario,
			v.subtotal, v.ganancia, v.margen_porcentaje
		FROM ventas v
		JOIN productos p ON p.id = v.producto_id
		LEFT JOIN clientes cl ON cl.id = v.cliente_id
		WHERE v.usuario_id = $1`
	args := []interface{}{usuarioID}
	if desde := c.Query("desde"); desde != "" {
		args = append(args, desde)
		query += fmt.Sprintf(" AND v.fecha >= $%d", len(args))
	}
	if hasta := c.Query("hasta"); hasta != "" {
		args = append(args, hasta)
		query += fmt.Sprintf(" AND v.fecha <= $%d", len(args))
	}
	query += ` ORDER BY v.fecha, v.id`

	dbRows, err := condb.Pool().Query(context.Background(), query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	defer dbRows.Close()

	var out [][]string
	for dbRows.Next() {
		var fecha time.Time
		var codigo, producto string
		var cliente *string
		var cantidad int
		var precio, subtotal, ganancia, margen float64
		if err := dbRows.Scan(&fecha, &codigo, &producto, &cliente, &cantidad,
			&precio, &subtotal, &ganancia, &margen); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		out = append(out, []string{
			fecha.Format(dateLayout), codigo, producto, deref(cliente), strconv.Itoa(cantidad),
			formatMonto(precio), formatMonto(subtotal), formatMonto(ganancia), formatMonto(margen),
		})
	}

	return sendCSV(c, "ventas.csv", []string{
		"fecha", "codigo", "producto", "cliente", "cantidad",
		"precio_unitario", "subtotal", "ganancia", "margen_porcentaje",
	}, out)
}

// ExportCompras downloads purchases as CSV, honoring desde/hasta filters.
func ExportCompras(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	query := `SELECT co.fecha, p.codigo, p.nombre, co.cantidad, co.precio_unitario, co.total
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
	query += ` ORDER BY co.fecha, co.id`

	dbRows, err := condb.Pool().Query(context.Background(), query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	defer dbRows.Close()

	var out [][]string
	for dbRows.Next() {
		var fecha time.Time
		var codigo, producto string
		var cantidad int
		var precio, total float64
		if err := dbRows.Scan(&fecha, &codigo, &producto, &cantidad, &precio, &total); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		out = append(out, []string{
			fecha.Format(dateLayout), codigo, producto,
			strconv.Itoa(cantidad), formatMonto(precio), formatMonto(total),
		})
	}

	return sendCSV(c, "compras.csv", []string{
		"fecha", "codigo", "producto", "cantidad", "precio_unitario", "total",
	}, out)
}
