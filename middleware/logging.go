package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lizet96/hms-backend/logging"
	"github.com/lizet96/hms-backend/metrics"
)

// RequestLogger registra cada petición HTTP con zerolog y actualiza las
// métricas. Los errores siguen su camino hasta el ErrorHandler; aquí solo
// se calcula el código que este va a responder.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		if err != nil {
			status, _ = Classify(err)
		}

		metrics.HTTPRequests.WithLabelValues(c.Method(), strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Method()).Observe(elapsed.Seconds())

		l := logging.Logger()
		event := l.WithLevel(determineLogLevel(status)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", elapsed).
			Str("ip", c.IP())
		if rid, ok := c.Locals("requestid").(string); ok {
			event = event.Str("request_id", rid)
		}
		if err != nil {
			event = event.Err(err)
		}
		event.Msg("petición")

		return err
	}
}

// determineLogLevel determina el nivel de log basado en el status code
func determineLogLevel(statusCode int) zerolog.Level {
	switch {
	case statusCode >= 500:
		return zerolog.ErrorLevel
	case statusCode >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
