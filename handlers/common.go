package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lizet96/hms-backend/middleware"
)

// Auth agrupa el emisor de tokens y los guardias de sesión que usan las rutas
type Auth struct {
	Tokens  *middleware.Tokens
	Admin   fiber.Handler
	Patient fiber.Handler
}

// NewAuth arma los guardias de administrador y paciente
func NewAuth(tokens *middleware.Tokens, users middleware.UserFinder) Auth {
	return Auth{
		Tokens:  tokens,
		Admin:   middleware.IsAdminAuthenticated(tokens, users),
		Patient: middleware.IsPatientAuthenticated(tokens, users),
	}
}

// parseBody decodifica el cuerpo; los errores de formato se reportan como 400
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}

// parseDate acepta fechas "2006-01-02" o RFC3339
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Invalid date: "+raw)
	}
	return t, nil
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return id, nil
}
