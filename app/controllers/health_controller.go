package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// HealthController reports whether the service can reach its dependencies.
type HealthController struct {
	checks  map[string]Check
	timeout time.Duration
}

// NewHealthController builds a controller over the named checks.
func NewHealthController(checks map[string]Check) *HealthController {
	return &HealthController{checks: checks, timeout: 2 * time.Second}
}

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Show handles GET /health: 200 when every check passes, 503 otherwise.
func (hc *HealthController) Show(c *ctx.Context) {
	probeCtx, cancel := context.WithTimeout(c.Context(), hc.timeout)
	defer cancel()

	body := healthBody{Status: "ok", Checks: make(map[string]string, len(hc.checks))}
	for name, check := range hc.checks {
		if err := check(probeCtx); err != nil {
			c.Log().Warn("health check failed", "check", name, "error", err)
			body.Status = "unavailable"
			body.Checks[name] = "down"
			continue
		}
		body.Checks[name] = "up"
	}

	if body.Status != "ok" {
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.Success(body)
}
