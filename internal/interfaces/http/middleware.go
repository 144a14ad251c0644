package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-qc/internal/application/dto"
	"github.com/jhoicas/invoice-qc/pkg/logger"
)

// RequireJSON rechaza con 415 los cuerpos que no declaran application/json.
// Un Content-Type vacío se acepta (clientes como curl -d sin cabecera).
func RequireJSON() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ct := strings.ToLower(c.Get(fiber.HeaderContentType))
		if ct != "" && !strings.HasPrefix(ct, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(dto.ErrorResponse{
				Code:    "UNSUPPORTED_MEDIA_TYPE",
				Message: "se esperaba application/json",
			})
		}
		return c.Next()
	}
}

// RequestLogger registra método, ruta, estado y duración de cada petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	l := log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		ev := l.Info()
		if status >= fiber.StatusInternalServerError {
			ev = l.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = l.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("petición")
		return err
	}
}
