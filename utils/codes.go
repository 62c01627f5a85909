package utils

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Words that add nothing to a category code.
var palabrasIgnorar = map[string]struct{}{
	"PARA": {}, "DE": {}, "LA": {}, "EL": {}, "LOS": {}, "LAS": {}, "Y": {}, "A": {}, "EN": {},
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

// GenerateCategoryCode derives a short uppercase code from a category name,
// unique among the codes already assigned to the tenant. At most 8 characters.
func GenerateCategoryCode(nombre string, existentes []string) string {
	limpio := strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToUpper(nombre))
	palabras := strings.Fields(limpio)

	var significativas []string
	for _, p := range palabras {
		if _, ok := palabrasIgnorar[p]; ok {
			continue
		}
		if len([]rune(p)) < 2 {
			continue
		}
		significativas = append(significativas, p)
	}
	if len(significativas) == 0 {
		significativas = palabras
	}

	var codigo string
	switch {
	case len(significativas) >= 2:
		codigo = firstRunes(significativas[0], 3) + firstRunes(significativas[1], 3)
	case len(significativas) == 1:
		codigo = firstRunes(significativas[0], 6)
	default:
		codigo = firstRunes(strings.Join(palabras, ""), 6)
	}

	usados := make(map[string]struct{}, len(existentes))
	for _, c := range existentes {
		usados[strings.ToUpper(c)] = struct{}{}
	}

	if _, tomado := usados[codigo]; tomado {
		// Extend with more letters from the full significant text.
		completo := strings.Join(significativas, "")
		for longitud := len([]rune(codigo)) + 1; longitud <= 8; longitud++ {
			candidato := firstRunes(completo, longitud)
			if _, ocupado := usados[candidato]; !ocupado {
				codigo = candidato
				break
			}
		}
		// Last resort: numeric suffix, trimming the base so the code stays at 8.
		if _, ocupado := usados[codigo]; ocupado {
			base := codigo
			for n := 1; ; n++ {
				sufijo := strconv.Itoa(n)
				candidato := firstRunes(base, 8-len(sufijo)) + sufijo
				if _, dup := usados[candidato]; !dup {
					codigo = candidato
					break
				}
			}
		}
	}

	return firstRunes(codigo, 8)
}

// GenerateProductCode builds a SKU of the form {categoryCode}-{NNNN}. The
// sequence continues from the number of codes already carrying the category
// prefix, skipping collisions. usados holds every code assigned for the
// tenant plus codes reserved earlier in the same import batch; the chosen
// code is added to it before returning.
func GenerateProductCode(nombre, codigoCategoria string, usados map[string]bool) string {
	prefijo := codigoCategoria + "-"

	contador := 0
	for c := range usados {
		if strings.HasPrefix(c, prefijo) {
			contador++
		}
	}

	for intento := contador + 1; intento <= 9999; intento++ {
		codigo := fmt.Sprintf("%s%04d", prefijo, intento)
		if !usados[codigo] {
			usados[codigo] = true
			return codigo
		}
	}

	// Category exhausted: fall back to a suffix hashed from the name.
	h := fnv.New32a()
	h.Write([]byte(nombre))
	codigo := fmt.Sprintf("%s%04d", prefijo, h.Sum32()%10000)
	usados[codigo] = true
	return codigo
}
