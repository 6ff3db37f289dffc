package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/civic-stack/grievance-service/internal/observability"
)

// Pinger reports connectivity of a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler exposes liveness, readiness, and the metrics snapshot.
type HealthHandler struct {
	postgres Pinger
	redis    Pinger
	metrics  *observability.Metrics
}

// NewHealthHandler constructs handler.
func NewHealthHandler(postgres, redis Pinger, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{postgres: postgres, redis: redis, metrics: metrics}
}

// Live GET /healthz.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready GET /readyz. Redis is advisory: tracking-code generation degrades
// gracefully without it, so only postgres gates readiness.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	checks := fiber.Map{"postgres": "ok", "redis": "ok"}
	status := fiber.StatusOK
	if err := h.postgres.Ping(ctx); err != nil {
		checks["postgres"] = err.Error()
		status = fiber.StatusServiceUnavailable
	}
	if err := h.redis.Ping(ctx); err != nil {
		checks["redis"] = err.Error()
	}
	return c.Status(status).JSON(fiber.Map{"checks": checks})
}

// Metrics GET /metrics.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	requests, errs := h.metrics.Snapshot()
	return c.JSON(fiber.Map{"requests": requests, "errors": errs})
}
