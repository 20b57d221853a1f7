// Package handler provides HTTP handlers for the TripMapper API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/tripmapper/tripmapper/internal/api/models"
	"github.com/tripmapper/tripmapper/internal/api/response"
)

// ReadyCheck pings one backing subsystem. A nil error means ready.
type ReadyCheck func(ctx context.Context) error

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	checks    map[string]ReadyCheck
}

// NewOpsHandler creates a new OpsHandler. checks may be nil or empty when
// the service runs purely on in-memory stores.
func NewOpsHandler(version, buildTime string, checks map[string]ReadyCheck) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		checks:    checks,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Each
// registered subsystem is pinged; any failure degrades the response to 503.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if len(h.checks) > 0 {
		details := make(map[string]interface{}, len(h.checks))
		for name, check := range h.checks {
			if err := check(r.Context()); err != nil {
				health.Status = models.HealthStatusFail
				details[name] = err.Error()
				continue
			}
			details[name] = "ok"
		}
		health.Details = details
	}

	status := http.StatusOK
	if health.Status != models.HealthStatusOK {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, r, status, health)
}
