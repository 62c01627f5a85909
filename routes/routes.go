package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/emmaotero/APPreventa/controllers"
	"github.com/emmaotero/APPreventa/middleware"
)

func RegisterRoutes(app *fiber.App) {

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// auth
	app.Post("/register", controllers.Register)
	app.Post("/login", controllers.Login)

	api := app.Group("/api", middleware.JWTMiddleware)

	// equipo y roles
	api.Get("/equipo", middleware.RequirePermission("gestionar_usuarios"), controllers.GetEquipo)
	api.Post("/equipo", middleware.RequirePermission("gestionar_usuarios"), controllers.CreateMiembro)
	api.Put("/equipo/:miembro_id", middleware.RequirePermission("gestionar_usuarios"), controllers.UpdateMiembro)
	api.Delete("/equipo/:miembro_id", middleware.RequirePermission("gestionar_usuarios"), controllers.DeleteMiembro)
	api.Get("/roles", controllers.GetRolePermissions)
	api.Get("/roles/:rol", controllers.GetPermisosRol)

	// categorias
	api.Get("/categorias", middleware.RequirePermission("ver_stock"), controllers.GetCategorias)
	api.Post("/categorias", middleware.RequirePermission("editar_stock"), controllers.CreateCategoria)
	api.Put("/categorias/:categoria_id", middleware.RequirePermission("editar_stock"), controllers.UpdateCategoria)
	api.Delete("/categorias/:categoria_id", middleware.RequirePermission("editar_stock"), controllers.DeleteCategoria)

	// proveedores
	api.Get("/proveedores", middleware.RequirePermission("ver_stock"), controllers.GetProveedores)
	api.Post("/proveedores", middleware.RequirePermission("editar_stock"), controllers.CreateProveedor)
	api.Put("/proveedores/:proveedor_id", middleware.RequirePermission("editar_stock"), controllers.UpdateProveedor)
	api.Delete("/proveedores/:proveedor_id", middleware.RequirePermission("editar_stock"), controllers.DeleteProveedor)

	// productos
	api.Get("/productos", middleware.RequirePermission("ver_stock"), controllers.GetProductos)
	api.Post("/productos", middleware.RequirePermission("editar_stock"), controllers.CreateProducto)
	api.Put("/productos/:producto_id", middleware.RequirePermission("editar_stock"), controllers.UpdateProducto)
	api.Delete("/productos/:producto_id", middleware.RequirePermission("editar_stock"), controllers.DeleteProducto)
	api.Put("/productos/:producto_id/pausado", middleware.RequirePermission("editar_stock"), controllers.UpdatePausado)
	api.Post("/productos/:producto_id/ajustes", middleware.RequirePermission("editar_stock"), controllers.CreateAjuste)
	api.Get("/productos/:producto_id/ajustes", middleware.RequirePermission("ver_stock"), controllers.GetAjustesProducto)
	api.Get("/stock-bajo", middleware.RequirePermission("ver_stock"), controllers.GetStockBajo)

	// compras
	api.Post("/compras", middleware.RequirePermission("editar_stock"), controllers.CreateCompra)
	api.Get("/compras", middleware.RequirePermission("ver_stock"), controllers.GetCompras)
	api.Delete("/compras/:compra_id", middleware.RequirePermission("editar_stock"), controllers.DeleteCompra)

	// ventas
	api.Post("/ventas", middleware.RequirePermission("registrar_ventas"), controllers.CreateVenta)
	api.Get("/ventas", middleware.RequirePermission("ver_ventas"), controllers.GetVentas)
	api.Delete("/ventas/:venta_id", middleware.RequirePermission("registrar_ventas"), controllers.DeleteVenta)

	// clientes
	api.Get("/clientes", middleware.RequirePermission("ver_clientes"), controllers.GetClientes)
	api.Get("/clientes/buscar", middleware.RequirePermission("ver_clientes"), controllers.SearchClientes)
	api.Get("/clientes/frecuentes", middleware.RequirePermission("ver_clientes"), controllers.GetClientesFrecuentes)
	api.Get("/clientes/inactivos", middleware.RequirePermission("ver_clientes"), controllers.GetClientesInactivos)
	api.Get("/clientes/dni/:dni", middleware.RequirePermission("ver_clientes"), controllers.GetClienteByDNI)
	api.Post("/clientes", middleware.RequirePermission("ver_clientes"), controllers.CreateCliente)
	api.Put("/clientes/:cliente_id", middleware.RequirePermission("ver_clientes"), controllers.UpdateCliente)
	api.Get("/clientes/:cliente_id/historial", middleware.RequirePermission("ver_clientes"), controllers.GetHistorialCliente)

	// costos fijos
	api.Get("/costos", middleware.RequirePermission("ver_costos"), controllers.GetCostosFijos)
	api.Get("/costos/mes", middleware.RequirePermission("ver_costos"), controllers.GetCostosMes)
	api.Post("/costos", middleware.RequirePermission("ver_costos"), controllers.CreateCostoFijo)
	api.Put("/costos/:costo_id", middleware.RequirePermission("ver_costos"), controllers.UpdateCostoFijo)
	api.Delete("/costos/:costo_id", middleware.RequirePermission("ver_costos"), controllers.DeleteCostoFijo)

	// lista de precios
	api.Get("/precios", middleware.RequirePermission("ver_stock"), controllers.GetListaPrecios)
	api.Put("/precios/:producto_id", middleware.RequirePermission("editar_stock"), controllers.SavePrecio)

	// importacion y exportacion
	api.Get("/importar/plantilla", middleware.RequirePermission("editar_stock"), controllers.GetImportTemplate)
	api.Post("/importar/productos", middleware.RequirePermission("editar_stock"), controllers.ImportProductos)
	api.Get("/exportar/productos", middleware.RequirePermission("ver_stock"), controllers.ExportProductos)
	api.Get("/exportar/ventas", middleware.RequirePermission("ver_ventas"), controllers.ExportVentas)
	api.Get("/exportar/compras", middleware.RequirePermission("ver_stock"), controllers.ExportCompras)

	// dashboard y reportes
	api.Get("/dashboard", middleware.RequirePermission("ver_dashboard"), controllers.GetMetricasDashboard)
	api.Get("/reportes/top-vendidos", middleware.RequirePermission("ver_dashboard"), controllers.GetTopVendidos)
	api.Get("/reportes/ventas-por-dia", middleware.RequirePermission("ver_dashboard"), controllers.GetVentasPorDia)
	api.Get("/reportes/ventas-por-categoria", middleware.RequirePermission("ver_dashboard"), controllers.GetVentasPorCategoria)
	api.Get("/reportes/sin-movimiento", middleware.RequirePermission("ver_dashboard"), controllers.GetProductosSinMovimiento)
	api.Get("/reportes/clientes", middleware.RequirePermission("ver_dashboard"), controllers.GetMetricasClientes)
	api.Get("/reportes/comparativa", middleware.RequirePermission("ver_dashboard"), controllers.GetComparativaMensual)

}
