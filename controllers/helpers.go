package controllers

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// tenantID reads the owner-account id the JWT middleware stored in locals.
func tenantID(c *fiber.Ctx) (int, error) {
	s, _ := c.Locals("user_id").(string)
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fiber.ErrUnauthorized
	}
	return id, nil
}

const dateLayout = "2006-01-02"

// parseFecha parses an optional YYYY-MM-DD value, defaulting to today.
func parseFecha(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(dateLayout, s)
}
