package utils

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCategoryCode_SingleWord(t *testing.T) {
	assert.Equal(t, "ELECTR", GenerateCategoryCode("Electrónica", nil))
	assert.Equal(t, "ROPA", GenerateCategoryCode("ropa", nil))
}

func TestGenerateCategoryCode_TwoWords(t *testing.T) {
	assert.Equal(t, "ARTLIM", GenerateCategoryCode("Artículos de Limpieza", nil))
	assert.Equal(t, "ROPDEP", GenerateCategoryCode("ropa-deportiva", nil))
}

func TestGenerateCategoryCode_IgnoresStopwords(t *testing.T) {
	// "para" and "el" do not count as significant words.
	assert.Equal(t, "COMHOG", GenerateCategoryCode("Comida para el Hogar", nil))
}

func TestGenerateCategoryCode_CollisionExtends(t *testing.T) {
	codigo := GenerateCategoryCode("Hogar Decoración", []string{"HOGDEC"})
	assert.Equal(t, "HOGARDE", codigo)
}

func TestGenerateCategoryCode_CollisionNumericSuffix(t *testing.T) {
	// A short name has no extra letters to extend with.
	codigo := GenerateCategoryCode("Ropa", []string{"ROPA"})
	assert.Equal(t, "ROPA1", codigo)
}

func TestGenerateCategoryCode_MaxLengthAndUnique(t *testing.T) {
	existentes := []string{}
	for i := 0; i < 25; i++ {
		codigo := GenerateCategoryCode("Herramientas Profesionales", existentes)
		assert.LessOrEqual(t, len([]rune(codigo)), 8)
		assert.Equal(t, strings.ToUpper(codigo), codigo)
		assert.NotContains(t, existentes, codigo)
		existentes = append(existentes, codigo)
	}
}

func TestGenerateProductCode_Sequence(t *testing.T) {
	usados := map[string]bool{}

	assert.Equal(t, "ELECTR-0001", GenerateProductCode("Auriculares", "ELECTR", usados))
	assert.Equal(t, "ELECTR-0002", GenerateProductCode("Cargador", "ELECTR", usados))
	assert.True(t, usados["ELECTR-0001"])
	assert.True(t, usados["ELECTR-0002"])
}

func TestGenerateProductCode_SkipsCollisions(t *testing.T) {
	usados := map[string]bool{
		"ELECTR-0001": true,
		"ELECTR-0003": true,
	}

	// Two codes exist, so the sequence starts at 3, which is taken.
	assert.Equal(t, "ELECTR-0004", GenerateProductCode("Cable USB", "ELECTR", usados))
}

func TestGenerateProductCode_PrefixesAreIndependent(t *testing.T) {
	usados := map[string]bool{
		"ROPA-0001": true,
		"ROPA-0002": true,
	}

	assert.Equal(t, "HOGAR-0001", GenerateProductCode("Sartén", "HOGAR", usados))
}

func TestGenerateProductCode_HashFallback(t *testing.T) {
	usados := make(map[string]bool, 9999)
	for i := 1; i <= 9999; i++ {
		usados[fmt.Sprintf("ROPA-%04d", i)] = true
	}

	codigo := GenerateProductCode("Remera estampada", "ROPA", usados)
	require.True(t, strings.HasPrefix(codigo, "ROPA-"))
	assert.Len(t, codigo, len("ROPA-")+4)
	assert.True(t, usados[codigo])
}
