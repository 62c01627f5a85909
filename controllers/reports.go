package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/emmaotero/APPreventa/condb"
)

// variacionPorcentual compares a value with the previous period's. When the
// previous period is empty the change is 100% if anything happened, else 0.
func variacionPorcentual(actual, anterior float64) float64 {
	if anterior > 0 {
		return (actual - anterior) / anterior * 100
	}
	if actual > 0 {
		return 100
	}
	return 0
}

func inicioDeMes(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ventasResumen aggregates sales between two dates (hasta exclusive).
func ventasResumen(ctx context.Context, usuarioID int, desde, hasta time.Time) (ingresos, ganancia float64, cantidad int, err error) {
	err = condb.Pool().QueryRow(ctx,
		`SELECT COALESCE(SUM(subtotal), 0), COALESCE(SUM(ganancia), 0), COUNT(*)
		 FROM ventas WHERE usuario_id = $1 AND fecha >= $2 AND fecha < $3`,
		usuarioID, desde, hasta).Scan(&ingresos, &ganancia, &cantidad)
	return
}

// GetMetricasDashboard is the home screen summary: stock figures, the month
// to date, fixed costs and the resulting net profit.
func GetMetricasDashboard(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	ctx := context.Background()

	var totalProductos, productosActivos, stockBajo int
	var valorStock float64
	err = condb.Pool().QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE activo),
		        COUNT(*) FILTER (WHERE activo AND stock_actual <= stock_minimo),
		        COALESCE(SUM(stock_actual * precio_compra) FILTER (WHERE activo), 0)
		 FROM productos WHERE usuario_id = $1`, usuarioID,
	).Scan(&totalProductos, &productosActivos, &stockBajo, &valorStock)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	hoy := time.Now().UTC()
	inicioMes := inicioDeMes(hoy)
	ingresos, ganancia, numVentas, err := ventasResumen(ctx, usuarioID, inicioMes, inicioMes.AddDate(0, 1, 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	costosMes, err := costosFijosDelMes(ctx, usuarioID, hoy)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	return c.JSON(fiber.Map{
		"productos": fiber.Map{
			"total":       totalProductos,
			"activos":     productosActivos,
			"stock_bajo":  stockBajo,
			"valor_stock": valorStock,
		},
		"mes": fiber.Map{
			"ingresos":       ingresos,
			"ganancia_bruta": ganancia,
			"ventas":         numVentas,
			"costos_fijos":   costosMes,
			"ganancia_neta":  ganancia - costosMes,
		},
	})
}

// GetTopVendidos ranks products by units sold in the last N days
// (?dias=30, ?limite=10).
func GetTopVendidos(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	dias := c.QueryInt("dias", 30)
	limite := c.QueryInt("limite", 10)

	rows, err := condb.Pool().Query(context.Background(),
		`SELECT p.id, p.codigo, p.nombre, SUM(v.cantidad), SUM(v.subtotal), SUM(v.ganancia)
		 FROM ventas v
		 JOIN productos p ON p.id = v.producto_id
		 WHERE v.usuario_id = $1 AND v.fecha >= CURRENT_DATE - $2 * INTERVAL '1 day'
		 GROUP BY p.id, p.codigo, p.nombre
		 ORDER BY SUM(v.cantidad) DESC
		 LIMIT $3`, usuarioID, dias, limite)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	defer rows.Close()

	type topRow struct {
		ProductoID int     `json:"producto_id"`
		Codigo     string  `json:"codigo"`
		Nombre     string  `json:"nombre"`
		Unidades   int     `json:"unidades"`
		Ingresos   float64 `json:"ingresos"`
		Ganancia   float64 `json:"ganancia"`
	}
	var top []topRow
	for rows.Next() {
		var r topRow
		if err := rows.Scan(&r.ProductoID, &r.Codigo, &r.Nombre, &r.Unidades, &r.Ingresos, &r.Ganancia); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		top = append(top, r)
	}

	return c.JSON(fiber.Map{"dias": dias, "productos": top})
}

// GetVentasPorDia returns the daily sales series for the last N days
// (?dias=30).
func GetVentasPorDia(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	dias := c.QueryInt("dias", 30)

	rows, err := condb.Pool().Query(context.Background(),
		`SELECT fecha, SUM(subtotal), SUM(ganancia), COUNT(*)
		 FROM ventas
		 WHERE usuario_id = $1 AND fecha >= CURRENT_DATE - $2 * INTERVAL '1 day'
		 GROUP BY fecha
		 ORDER BY fecha`, usuarioID, dias)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	defer rows.Close()

	type diaRow struct {
		Fecha    time.Time `json:"fecha"`
		Ingresos float64   `json:"ingresos"`
		Ganancia float64   `json:"ganancia"`
		Ventas   int       `json:"ventas"`
	}
	var serie []diaRow
	for rows.Next() {
		var r diaRow
		if err := rows.Scan(&r.Fecha, &r.Ingresos, &r.Ganancia, &r.Ventas); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		serie = append(serie, r)
	}

	return c.JSON(fiber.Map{"dias": dias, "serie": serie})
}

// GetVentasPorCategoria groups sales by product category for the last N
// days. Products without a category fall under "Sin categoría".
func GetVentasPorCategoria(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	dias := c.QueryInt("dias", 30)

	rows, err := condb.Pool().Query(context.Background(),
		`SELECT COALESCE(cat.nombre, 'Sin categoría'), SUM(v.cantidad), SUM(v.subtotal), SUM(v.ganancia)
		 FROM ventas v
		 JOIN productos p ON p.id = v.producto_id
		 LEFT JOIN categorias cat ON cat.id = p.categoria_id
		 WHERE v.usuario_id = $1 AND v.fecha >= CURRENT_DATE - $2 * INTERVAL '1 day'
		 GROUP BY COALESCE(cat.nombre, 'Sin categoría')
		 ORDER BY SUM(v.subtotal) DESC`, usuarioID, dias)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	defer rows.Close()

	type catRow struct {
		Categoria string  `json:"categoria"`
		Unidades  int     `json:"unidades"`
		Ingresos  float64 `json:"ingresos"`
		Ganancia  float64 `json:"ganancia"`
	}
	var categorias []catRow
	for rows.Next() {
		var r catRow
		if err := rows.Scan(&r.Categoria, &r.Unidades, &r.Ingresos, &r.Ganancia); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		categorias = append(categorias, r)
	}

	return c.JSON(fiber.Map{"dias": dias, "categorias": categorias})
}

// GetProductosSinMovimiento lists active products with stock but no sale in
// the last N days (?dias=60).
func GetProductosSinMovimiento(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	dias := c.QueryInt("dias", 60)

	rows, err := condb.Pool().Query(context.Background(),
		`SELECT p.id, p.codigo, p.nombre, p.stock_actual, p.precio_compra
		 FROM productos p
		 WHERE p.usuario_id = $1 AND p.activo = TRUE AND p.stock_actual > 0
		   AND NOT EXISTS (
		       SELECT 1 FROM ventas v
		       WHERE v.producto_id = p.id
		         AND v.fecha >= CURRENT_DATE - $2 * INTERVAL '1 day')
		 ORDER BY p.stock_actual * p.precio_compra DESC`, usuarioID, dias)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	defer rows.Close()

	type stockRow struct {
		ProductoID  int     `json:"producto_id"`
		Codigo      string  `json:"codigo"`
		Nombre      string  `json:"nombre"`
		Stock       int     `json:"stock"`
		PrecioCosto float64 `json:"precio_costo"`
	}
	var productos []stockRow
	for rows.Next() {
		var r stockRow
		if err := rows.Scan(&r.ProductoID, &r.Codigo, &r.Nombre, &r.Stock, &r.PrecioCosto); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan failed"})
		}
		productos = append(productos, r)
	}

	return c.JSON(fiber.Map{"dias": dias, "productos": productos})
}

// GetMetricasClientes summarises the customer base.
func GetMetricasClientes(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	var total, conCompras, frecuentes, inactivos, nuevosMes int
	var ticketPromedio float64
	err = condb.Pool().QueryRow(context.Background(),
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE total_compras > 0),
		        COUNT(*) FILTER (WHERE total_compras >= 3),
		        COUNT(*) FILTER (WHERE total_compras > 0 AND ultima_compra < CURRENT_DATE - INTERVAL '30 days'),
		        COUNT(*) FILTER (WHERE created_at >= date_trunc('month', CURRENT_DATE)),
		        COALESCE(AVG(total_gastado / NULLIF(total_compras, 0)), 0)
		 FROM clientes WHERE usuario_id = $1`, usuarioID,
	).Scan(&total, &conCompras, &frecuentes, &inactivos, &nuevosMes, &ticketPromedio)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	return c.JSON(fiber.Map{
		"total":           total,
		"con_compras":     conCompras,
		"frecuentes":      frecuentes,
		"inactivos":       inactivos,
		"nuevos_mes":      nuevosMes,
		"ticket_promedio": ticketPromedio,
	})
}

// GetComparativaMensual compares the current month to date against the
// previous month, with percentage changes.
func GetComparativaMensual(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	ctx := context.Background()

	hoy := time.Now().UTC()
	inicioActual := inicioDeMes(hoy)
	inicioAnterior := inicioActual.AddDate(0, -1, 0)

	ingresosActual, gananciaActual, ventasActual, err := ventasResumen(ctx, usuarioID, inicioActual, inicioActual.AddDate(0, 1, 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}
	ingresosAnterior, gananciaAnterior, ventasAnterior, err := ventasResumen(ctx, usuarioID, inicioAnterior, inicioActual)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	return c.JSON(fiber.Map{
		"actual": fiber.Map{
			"mes":      inicioActual.Format("2006-01"),
			"ingresos": ingresosActual,
			"ganancia": gananciaActual,
			"ventas":   ventasActual,
		},
		"anterior": fiber.Map{
			"mes":      inicioAnterior.Format("2006-01"),
			"ingresos": ingresosAnterior,
			"ganancia": gananciaAnterior,
			"ventas":   ventasAnterior,
		},
		"variacion": fiber.Map{
			"ingresos": variacionPorcentual(ingresosActual, ingresosAnterior),
			"ganancia": variacionPorcentual(gananciaActual, gananciaAnterior),
			"ventas":   variacionPorcentual(float64(ventasActual), float64(ventasAnterior)),
		},
	})
}
