package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtotal(t *testing.T) {
	assert.Equal(t, 5999.97, Subtotal(3, 1999.99))
	assert.Equal(t, 0.3, Subtotal(3, 0.1))
	assert.Equal(t, 0.0, Subtotal(0, 100))
}

func TestGanancia(t *testing.T) {
	assert.Equal(t, 100.0, Ganancia(150, 100, 2))
	assert.Equal(t, -50.0, Ganancia(75, 100, 2))
	assert.Equal(t, 0.0, Ganancia(100, 100, 5))
}

func TestMargenPorcentaje(t *testing.T) {
	assert.Equal(t, 50.0, MargenPorcentaje(150, 100))
	assert.Equal(t, -25.0, MargenPorcentaje(75, 100))
	assert.Equal(t, 33.33, MargenPorcentaje(100, 75))
}

func TestMargenPorcentaje_CostoNoPositivo(t *testing.T) {
	assert.Equal(t, 0.0, MargenPorcentaje(150, 0))
	assert.Equal(t, 0.0, MargenPorcentaje(150, -10))
}

func TestPrecioSugerido(t *testing.T) {
	assert.Equal(t, 130.0, PrecioSugerido(100, 30))
	assert.Equal(t, 100.0, PrecioSugerido(100, 0))
	assert.Equal(t, 3250.0, PrecioSugerido(2500, 30))
}

func TestProrrateoAnual(t *testing.T) {
	assert.Equal(t, 100.0, ProrrateoAnual(1200))
	assert.Equal(t, 8.33, ProrrateoAnual(100))
}
