package utils

import "github.com/shopspring/decimal"

// Subtotal is cantidad × precio unitario, rounded to cents.
func Subtotal(cantidad int, precioUnitario float64) float64 {
	return decimal.NewFromFloat(precioUnitario).
		Mul(decimal.NewFromInt(int64(cantidad))).
		Round(2).InexactFloat64()
}

// Ganancia is the profit of a sale: (precio venta − precio compra) × cantidad.
func Ganancia(precioVenta, precioCompra float64, cantidad int) float64 {
	return decimal.NewFromFloat(precioVenta).
		Sub(decimal.NewFromFloat(precioCompra)).
		Mul(decimal.NewFromInt(int64(cantidad))).
		Round(2).InexactFloat64()
}

// MargenPorcentaje is (venta − compra) / compra × 100, or 0 when the cost
// price is not positive.
func MargenPorcentaje(precioVenta, precioCompra float64) float64 {
	costo := decimal.NewFromFloat(precioCompra)
	if costo.Sign() <= 0 {
		return 0
	}
	return decimal.NewFromFloat(precioVenta).
		Sub(costo).
		Div(costo).
		Mul(decimal.NewFromInt(100)).
		Round(2).InexactFloat64()
}

// ProrrateoAnual is the monthly share of a yearly amount.
func ProrrateoAnual(monto float64) float64 {
	return decimal.NewFromFloat(monto).
		Div(decimal.NewFromInt(12)).
		Round(2).InexactFloat64()
}

// PrecioSugerido applies the theoretical margin to the cost price:
// costo × (1 + margen/100), rounded to cents.
func PrecioSugerido(precioCosto, margenTeorico float64) float64 {
	factor := decimal.NewFromInt(1).
		Add(decimal.NewFromFloat(margenTeorico).Div(decimal.NewFromInt(100)))
	return decimal.NewFromFloat(precioCosto).Mul(factor).Round(2).InexactFloat64()
}
