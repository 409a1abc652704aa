package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Readiness expone el estado de la conexión a la base de datos
type Readiness interface {
	Connected() bool
}

// Health reporta que el proceso está vivo, sin consultar la base de datos
func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
}

// Ready responde 200 solo cuando el supervisor ya conectó la base de datos
func Ready(state Readiness) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if state == nil || !state.Connected() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not_ready"})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	}
}
