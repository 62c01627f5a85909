package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importIdx() map[string]int {
	idx := make(map[string]int, len(importColumns))
	for i, name := range importColumns {
		idx[name] = i
	}
	return idx
}

func TestParseImportRow_Completa(t *testing.T) {
	record := []string{
		"Yerba Mate", "Playadito", "Almacén", "Suave", "Paquete 1kg", "Unidad",
		"2500.50", "10", "3", "Distribuidora Norte", "Estante A", "sin azúcar", "2026-08-01",
	}

	row, err := parseImportRow(importIdx(), record)
	require.NoError(t, err)

	assert.Equal(t, "Yerba Mate", row.Nombre)
	assert.Equal(t, "Almacén", row.Categoria)
	assert.Equal(t, 2500.50, row.PrecioCompra)
	assert.Equal(t, 10, row.StockInicial)
	assert.Equal(t, 3, row.StockMinimo)
	assert.Equal(t, "Distribuidora Norte", row.Proveedor)
	assert.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), row.FechaCompra)
}

func TestParseImportRow_Minima(t *testing.T) {
	record := []string{"Fideos", "", "Almacén", "", "", "", "900", "", "", "", "", "", ""}

	row, err := parseImportRow(importIdx(), record)
	require.NoError(t, err)

	assert.Equal(t, "Unidad", row.Unidad)
	assert.Equal(t, 0, row.StockInicial)
	assert.Equal(t, 0, row.StockMinimo)
	assert.Empty(t, row.Proveedor)
}

func TestParseImportRow_ComaDecimal(t *testing.T) {
	record := []string{"Fideos", "", "Almacén", "", "", "", "900,75", "", "", "", "", "", ""}

	row, err := parseImportRow(importIdx(), record)
	require.NoError(t, err)
	assert.Equal(t, 900.75, row.PrecioCompra)
}

func TestParseImportRow_CamposRequeridos(t *testing.T) {
	casos := map[string][]string{
		"sin nombre":    {"", "", "Almacén", "", "", "", "900", "", "", "", "", "", ""},
		"sin categoria": {"Fideos", "", "", "", "", "", "900", "", "", "", "", "", ""},
		"sin precio":    {"Fideos", "", "Almacén", "", "", "", "", "", "", "", "", "", ""},
	}

	for nombre, record := range casos {
		_, err := parseImportRow(importIdx(), record)
		assert.Error(t, err, nombre)
	}
}

func TestParseImportRow_ValoresInvalidos(t *testing.T) {
	casos := map[string][]string{
		"precio no numérico": {"Fideos", "", "Almacén", "", "", "", "caro", "", "", "", "", "", ""},
		"precio negativo":    {"Fideos", "", "Almacén", "", "", "", "-5", "", "", "", "", "", ""},
		"stock negativo":     {"Fideos", "", "Almacén", "", "", "", "900", "-1", "", "", "", "", ""},
		"fecha inválida":     {"Fideos", "", "Almacén", "", "", "", "900", "", "", "", "", "", "01/08/2026"},
	}

	for nombre, record := range casos {
		_, err := parseImportRow(importIdx(), record)
		assert.Error(t, err, nombre)
	}
}

func TestParseImportRow_ColumnasDesordenadas(t *testing.T) {
	idx := map[string]int{"nombre": 1, "categoria": 0, "precio_compra": 2}
	record := []string{"Almacén", "Fideos", "900"}

	row, err := parseImportRow(idx, record)
	require.NoError(t, err)
	assert.Equal(t, "Fideos", row.Nombre)
	assert.Equal(t, "Almacén", row.Categoria)
	assert.Equal(t, 900.0, row.PrecioCompra)
}
