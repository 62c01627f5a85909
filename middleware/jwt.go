package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/emmaotero/APPreventa/utils"
)

func JWTMiddleware(c *fiber.Ctx) error {
	auth := c.Get("Authorization")
	token := ""
	if strings.HasPrefix(auth, "Bearer ") {
		token = strings.TrimPrefix(auth, "Bearer ")
	} else {
		token = c.Cookies("jwt")
	}
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing token"})
	}

	userID, rol, err := utils.ParseJWTToken(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	// tenant id and role for the controllers
	c.Locals("user_id", userID)
	c.Locals("rol", rol)
	return c.Next()
}
