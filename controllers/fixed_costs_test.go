package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/emmaotero/APPreventa/models"
)

func fechaTest(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAsignacionMensual_Mensual(t *testing.T) {
	cf := models.CostoFijo{
		Monto:       1500,
		Frecuencia:  "mensual",
		FechaInicio: fechaTest(2026, time.January, 1),
	}

	monto, ok := asignacionMensual(cf, fechaTest(2026, time.March, 15))
	assert.True(t, ok)
	assert.Equal(t, 1500.0, monto)
}

func TestAsignacionMensual_AnualProrratea(t *testing.T) {
	cf := models.CostoFijo{
		Monto:       1200,
		Frecuencia:  "anual",
		FechaInicio: fechaTest(2026, time.January, 1),
	}

	monto, ok := asignacionMensual(cf, fechaTest(2026, time.June, 1))
	assert.True(t, ok)
	assert.Equal(t, 100.0, monto)
}

func TestAsignacionMensual_UnicoNoSeAsigna(t *testing.T) {
	cf := models.CostoFijo{
		Monto:       5000,
		Frecuencia:  "unico",
		FechaInicio: fechaTest(2026, time.January, 1),
	}

	_, ok := asignacionMensual(cf, fechaTest(2026, time.January, 1))
	assert.False(t, ok)
}

func TestAsignacionMensual_FueraDeVentana(t *testing.T) {
	fin := fechaTest(2026, time.March, 31)
	cf := models.CostoFijo{
		Monto:       800,
		Frecuencia:  "mensual",
		FechaInicio: fechaTest(2026, time.February, 1),
		FechaFin:    &fin,
	}

	_, ok := asignacionMensual(cf, fechaTest(2026, time.January, 10))
	assert.False(t, ok, "starts after the month")

	_, ok = asignacionMensual(cf, fechaTest(2026, time.April, 1))
	assert.False(t, ok, "ended before the month")

	monto, ok := asignacionMensual(cf, fechaTest(2026, time.March, 20))
	assert.True(t, ok)
	assert.Equal(t, 800.0, monto)
}

func TestVariacionPorcentual(t *testing.T) {
	assert.Equal(t, 50.0, variacionPorcentual(150, 100))
	assert.Equal(t, -25.0, variacionPorcentual(75, 100))
	assert.Equal(t, 100.0, variacionPorcentual(500, 0))
	assert.Equal(t, 0.0, variacionPorcentual(0, 0))
}
