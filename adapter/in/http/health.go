package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthChecker is anything that can report its own reachability.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to HealthChecker.
type PingFunc func(ctx context.Context) error

// Ping implements HealthChecker.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves liveness and readiness. Only required checks can
// make the service not ready; the rest are reported.
type HealthHandler struct {
	checks   map[string]HealthChecker
	required map[string]bool
	stats    map[string]func() any
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checks:   make(map[string]HealthChecker),
		required: make(map[string]bool),
		stats:    make(map[string]func() any),
	}
}

// AddCheck registers a dependency for /ready. A nil checker reports "not configured".
func (h *HealthHandler) AddCheck(name string, checker HealthChecker, required bool) *HealthHandler {
	h.checks[name] = checker
	h.required[name] = required
	return h
}

// AddStats reports fn's value under name in the /ready body.
func (h *HealthHandler) AddStats(name string, fn func() any) *HealthHandler {
	h.stats[name] = fn
	return h
}

func (h *HealthHandler) Register(app fiber.Router) {
	app.Get("/health", h.Health)
	app.Get("/ready", h.Ready)
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.checks))
	allHealthy := true

	for name, checker := range h.checks {
		if checker == nil {
			checks[name] = "not configured"
			if h.required[name] {
				allHealthy = false
			}
			continue
		}
		if err := checker.Ping(ctx); err != nil {
			checks[name] = "unhealthy: " + err.Error()
			if h.required[name] {
				allHealthy = false
			}
			continue
		}
		checks[name] = "healthy"
	}

	status := "ready"
	statusCode := fiber.StatusOK
	if !allHealthy {
		status = "not ready"
		statusCode = fiber.StatusServiceUnavailable
	}

	body := fiber.Map{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if len(h.stats) > 0 {
		stats := make(map[string]any, len(h.stats))
		for name, fn := range h.stats {
			stats[name] = fn()
		}
		body["stats"] = stats
	}
	return c.Status(statusCode).JSON(body)
}
