package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// AccessLog registra cada petición de /api con el operador del token si lo hay.
// Las respuestas 5xx van a nivel error.
func AccessLog(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		var ev *zerolog.Event
		if status >= fiber.StatusInternalServerError {
			ev = log.Ctx(c.UserContext()).Error().Err(err)
		} else {
			ev = log.Ctx(c.UserContext()).Debug()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("operator", GetOperatorID(c)).
			Str("warehouse", GetWarehouse(c)).
			Msg("petición")
		return err
	}
}
