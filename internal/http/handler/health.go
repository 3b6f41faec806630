package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"umrahportal/internal/database"
)

// Pinger is a dependency checked by /health besides the database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck reports healthy only while the database and every extra
// dependency answer a ping.
//
//	@Summary	Readiness check
//	@Tags		ops
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	errorPayload
//	@Router		/health [get]
func HealthCheck(db *sql.DB, deps ...Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.Ping(c.UserContext(), db); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		for _, d := range deps {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			err := d.Ping(ctx)
			cancel()
			if err != nil {
				log.Ctx(c.UserContext()).Warn().Err(err).Msg("readiness dependency failed")
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process is serving.
//
//	@Summary	Liveness probe
//	@Tags		ops
//	@Success	200
//	@Router		/healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
