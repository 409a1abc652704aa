package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lizet96/hms-backend/database"
	"github.com/lizet96/hms-backend/logging"
	"github.com/lizet96/hms-backend/validation"
)

// uniqueViolation código de PostgreSQL para claves duplicadas
const uniqueViolation = "23505"

// ErrorHandler es la etapa final del pipeline: recibe cualquier error de
// los middlewares o de los handlers y produce la respuesta para el cliente.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, message := Classify(err)

	if code >= fiber.StatusInternalServerError {
		logging.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", code).
			Msg("error no controlado")
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// Classify traduce un error a código HTTP y mensaje
func Classify(err error) (int, string) {
	var fiberErr *fiber.Error
	var validationErr *validation.Error
	var pgErr *pgconn.PgError

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, validationErr.Error()
	case errors.Is(err, database.ErrNotConnected):
		return fiber.StatusServiceUnavailable, "Database not available, try again later"
	case errors.Is(err, database.ErrNotFound):
		return fiber.StatusNotFound, "Resource not found"
	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
		return fiber.StatusBadRequest, "Duplicate " + duplicateField(pgErr) + " Entered"
	case errors.Is(err, jwt.ErrTokenExpired):
		return fiber.StatusBadRequest, "Json Web Token is expired, Try again!"
	case isInvalidToken(err):
		return fiber.StatusBadRequest, "Json Web Token is invalid, Try again!"
	default:
		return fiber.StatusInternalServerError, "Internal Server Error"
	}
}

func isInvalidToken(err error) bool {
	for _, target := range []error{
		jwt.ErrTokenMalformed,
		jwt.ErrTokenSignatureInvalid,
		jwt.ErrTokenUnverifiable,
		jwt.ErrTokenNotValidYet,
		jwt.ErrTokenInvalidClaims,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// duplicateField extrae la columna del nombre de la restricción (users_email_key → email)
func duplicateField(pgErr *pgconn.PgError) string {
	name := pgErr.ConstraintName
	if name == "" {
		return "value"
	}
	name = strings.TrimPrefix(name, pgErr.TableName+"_")
	name = strings.TrimSuffix(name, "_key")
	return name
}

// NotFound responde a las rutas no registradas a través del ErrorHandler
func NotFound() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Route "+c.Method()+" "+c.Path()+" not found")
	}
}
