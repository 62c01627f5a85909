package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/emmaotero/APPreventa/condb"
	"github.com/emmaotero/APPreventa/models"
	"github.com/emmaotero/APPreventa/utils"
)

const costoColumns = `id, nombre, monto, frecuencia, fecha_inicio, fecha_fin, descripcion, activo, created_at`

func costosFromRows(ctx context.Context, usuarioID int, soloActivos bool) ([]models.CostoFijo, error) {
	query := `SELECT ` + costoColumns + ` FROM costos_fijos WHERE usuario_id = $1`
	if soloActivos {
		query += ` AND activo = TRUE`
	}
	query += ` ORDER BY nombre`

	rows, err := condb.Pool().Query(ctx, query, usuarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var costos []models.CostoFijo
	for rows.Next() {
		var cf models.CostoFijo
		if err := rows.Scan(&cf.ID, &cf.Nombre, &cf.Monto, &cf.Frecuencia, &cf.FechaInicio,
			&cf.FechaFin, &cf.Descripcion, &cf.Activo, &cf.CreatedAt); err != nil {
			return nil, err
		}
		costos = append(costos, cf)
	}
	return costos, nil
}

// asignacionMensual returns the share of a fixed cost charged against the
// given month: monthly costs in full, yearly costs at one twelfth, one-off
// costs never. A cost outside its validity window contributes nothing.
func asignacionMensual(cf models.CostoFijo, mes time.Time) (float64, bool) {
	inicioMes := time.Date(mes.Year(), mes.Month(), 1, 0, 0, 0, 0, time.UTC)
	finMes := inicioMes.AddDate(0, 1, 0).Add(-time.Second)

	if cf.FechaInicio.After(finMes) {
		return 0, false
	}
	if cf.FechaFin != nil && cf.FechaFin.Before(inicioMes) {
		return 0, false
	}

	switch cf.Frecuencia {
	case "mensual":
		return cf.Monto, true
	case "anual":
		return utils.ProrrateoAnual(cf.Monto), true
	default:
		return 0, false
	}
}

// costosFijosDelMes sums the monthly allocation of the tenant's active
// fixed costs. Shared with the dashboard metrics.
func costosFijosDelMes(ctx context.Context, usuarioID int, mes time.Time) (float64, error) {
	costos, err := costosFromRows(ctx, usuarioID, true)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, cf := range costos {
		if monto, ok := asignacionMensual(cf, mes); ok {
			total += monto
		}
	}
	return total, nil
}

func GetCostosFijos(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	costos, err := costosFromRows(context.Background(), usuarioID, c.Query("activos", "true") == "true")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	return c.JSON(fiber.Map{"costos": costos})
}

// GetCostosMes breaks down the allocation for a month (?mes=YYYY-MM,
// default current).
func GetCostosMes(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	mes := time.Now().UTC()
	if s := c.Query("mes"); s != "" {
		mes, err = time.Parse("2006-01", s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mes must be YYYY-MM"})
		}
	}

	costos, err := costosFromRows(context.Background(), usuarioID, true)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Query failed"})
	}

	type detalle struct {
		models.CostoFijo
		MontoMes float64 `json:"monto_mes"`
	}
	var total float64
	detalles := make([]detalle, 0, len(costos))
	for _, cf := range costos {
		monto, ok := asignacionMensual(cf, mes)
		if !ok {
			continue
		}
		total += monto
		detalles = append(detalles, detalle{CostoFijo: cf, MontoMes: monto})
	}

	return c.JSON(fiber.Map{
		"mes":    mes.Format("2006-01"),
		"total":  total,
		"costos": detalles,
	})
}

type costoInput struct {
	Nombre      string  `json:"nombre" validate:"required"`
	Monto       float64 `json:"monto" validate:"required,gt=0"`
	Frecuencia  string  `json:"frecuencia" validate:"required,oneof=mensual anual unico"`
	FechaInicio string  `json:"fecha_inicio"`
	FechaFin    *string `json:"fecha_fin"`
	Descripcion *string `json:"descripcion"`
}

func (in costoInput) fechas() (time.Time, *time.Time, error) {
	inicio, err := parseFecha(in.FechaInicio)
	if err != nil {
		return time.Time{}, nil, err
	}
	if in.FechaFin == nil || *in.FechaFin == "" {
		return inicio, nil, nil
	}
	fin, err := time.Parse(dateLayout, *in.FechaFin)
	if err != nil {
		return time.Time{}, nil, err
	}
	return inicio, &fin, nil
}

func CreateCostoFijo(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}

	var input costoInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	inicio, fin, err := input.fechas()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fechas must be YYYY-MM-DD"})
	}

	var cf models.CostoFijo
	err = condb.Pool().QueryRow(context.Background(),
		`INSERT INTO costos_fijos (usuario_id, nombre, monto, frecuencia, fecha_inicio, fecha_fin, descripcion)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+costoColumns,
		usuarioID, input.Nombre, input.Monto, input.Frecuencia, inicio, fin, input.Descripcion,
	).Scan(&cf.ID, &cf.Nombre, &cf.Monto, &cf.Frecuencia, &cf.FechaInicio,
		&cf.FechaFin, &cf.Descripcion, &cf.Activo, &cf.CreatedAt)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Insert failed: " + err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Costo fijo created", "costo": cf})
}

func UpdateCostoFijo(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	costoID, err := c.ParamsInt("costo_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid costo_id"})
	}

	var input costoInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	inicio, fin, err := input.fechas()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fechas must be YYYY-MM-DD"})
	}

	commandTag, err := condb.Pool().Exec(context.Background(),
		`UPDATE costos_fijos
		 SET nombre = $1, monto = $2, frecuencia = $3, fecha_inicio = $4, fecha_fin = $5, descripcion = $6
		 WHERE id = $7 AND usuario_id = $8`,
		input.Nombre, input.Monto, input.Frecuencia, inicio, fin, input.Descripcion, costoID, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Update failed"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Costo fijo not found"})
	}

	return c.JSON(fiber.Map{"message": "Costo fijo updated"})
}

// DeleteCostoFijo deactivates the cost, keeping the history.
func DeleteCostoFijo(c *fiber.Ctx) error {
	usuarioID, err := tenantID(c)
	if err != nil {
		return err
	}
	costoID, err := c.ParamsInt("costo_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid costo_id"})
	}

	commandTag, err := condb.Pool().Exec(context.Background(),
		`UPDATE costos_fijos SET activo = FALSE WHERE id = $1 AND usuario_id = $2`, costoID, usuarioID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Delete failed"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Costo fijo not found"})
	}

	return c.JSON(fiber.Map{"message": "Costo fijo deactivated"})
}
