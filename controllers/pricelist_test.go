package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrecioRow_Defaults(t *testing.T) {
	row := buildPrecioRow(1, "ROPA-0001", "Remera", 100, nil, nil)

	assert.Equal(t, 30.0, row.MargenTeorico)
	assert.Equal(t, 130.0, row.PrecioSugerido)
	assert.Equal(t, 130.0, row.PrecioFinal)
	assert.Equal(t, 30.0, row.MargenReal)
}

func TestBuildPrecioRow_MargenPropio(t *testing.T) {
	margen := 50.0
	row := buildPrecioRow(1, "ROPA-0001", "Remera", 200, &margen, nil)

	assert.Equal(t, 50.0, row.MargenTeorico)
	assert.Equal(t, 300.0, row.PrecioSugerido)
	assert.Equal(t, 300.0, row.PrecioFinal)
	assert.Equal(t, 50.0, row.MargenReal)
}

func TestBuildPrecioRow_PrecioFinalManual(t *testing.T) {
	margen := 30.0
	final := 150.0
	row := buildPrecioRow(1, "ROPA-0001", "Remera", 100, &margen, &final)

	assert.Equal(t, 130.0, row.PrecioSugerido)
	assert.Equal(t, 150.0, row.PrecioFinal)
	assert.Equal(t, 50.0, row.MargenReal)
}

func TestBuildPrecioRow_CostoCero(t *testing.T) {
	row := buildPrecioRow(1, "ROPA-0001", "Muestra", 0, nil, nil)

	assert.Equal(t, 0.0, row.PrecioSugerido)
	assert.Equal(t, 0.0, row.MargenReal)
}
