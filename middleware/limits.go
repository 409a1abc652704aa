package middleware

import (
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig configuración para rate limiting
type RateLimitConfig struct {
	Max        int           // Número máximo de requests
	Expiration time.Duration // Ventana de tiempo
	Message    string        // Mensaje de error personalizado
}

// AuthRateLimit configuración para endpoints de autenticación
var AuthRateLimit = RateLimitConfig{
	Max:        20,
	Expiration: 15 * time.Minute,
	Message:    "Too many login attempts, try again later",
}

// CreateRateLimiter crea un middleware de rate limiting con la configuración especificada.
// El límite excedido se entrega al ErrorHandler como 429.
func CreateRateLimiter(config RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.Max,
		Expiration: config.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderRetryAfter, fmt.Sprint(int(config.Expiration.Seconds())))
			return fiber.NewError(fiber.StatusTooManyRequests, config.Message)
		},
	})
}

// AuthRateLimiter middleware de rate limiting para autenticación
func AuthRateLimiter() fiber.Handler {
	return CreateRateLimiter(AuthRateLimit)
}

// BodyParser limita el tamaño de los cuerpos JSON y url-encoded y rechaza
// JSON mal formado. Los demás tipos de contenido pasan sin revisar.
func BodyParser(maxSize int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind := bodyKind(c)
		if kind == "" {
			return c.Next()
		}

		body := c.Body()
		if len(body) > maxSize {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body exceeds the %d byte limit", maxSize))
		}
		if kind == "json" && len(body) > 0 && !json.Valid(body) {
			return fiber.NewError(fiber.StatusBadRequest, "Malformed JSON body")
		}
		return c.Next()
	}
}

// bodyKind devuelve "json", "urlencoded" o "" según el Content-Type
func bodyKind(c *fiber.Ctx) string {
	mediaType := mediaType(c)
	switch {
	case mediaType == fiber.MIMEApplicationJSON || strings.HasSuffix(mediaType, "+json"):
		return "json"
	case mediaType == fiber.MIMEApplicationForm:
		return "urlencoded"
	default:
		return ""
	}
}

func mediaType(c *fiber.Ctx) string {
	raw := string(c.Request().Header.ContentType())
	if raw == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.SplitN(raw, ";", 2)[0]))
	}
	return mt
}
