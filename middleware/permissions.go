package middleware

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v4"

	"github.com/emmaotero/APPreventa/condb"
)

// RequirePermission gates a route on the permission map of the caller's
// role. The admin role always passes; a role without a permisos_roles row
// gets nothing.
func RequirePermission(permiso string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rol, _ := c.Locals("rol").(string)
		if rol == "" || rol == "admin" {
			return c.Next()
		}

		var raw []byte
		err := condb.Pool().QueryRow(context.Background(),
			`SELECT permisos FROM permisos_roles WHERE rol = $1`, rol,
		).Scan(&raw)
		if err != nil {
			if err == pgx.ErrNoRows {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "permission denied"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "permission lookup failed"})
		}

		permisos := map[string]bool{}
		if err := json.Unmarshal(raw, &permisos); err != nil || !permisos[permiso] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "permission denied"})
		}
		return c.Next()
	}
}
