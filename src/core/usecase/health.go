package usecase

import (
	"context"
	"log/slog"
	"time"

	"tdcweb/src/core/ports"
)

// HealthService handles health check logic.
type HealthService struct {
	version string
	log     *slog.Logger
}

// NewHealthService creates a new HealthService.
func NewHealthService(version string, log *slog.Logger) *HealthService {
	return &HealthService{
		version: version,
		log:     log,
	}
}

// HealthStatus represents the health of the application.
type HealthStatus struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Components map[string]string `json:"components,omitempty"`
	Timestamp  string            `json:"timestamp"`
}

// Basic reports liveness only; it never touches the database.
func (s *HealthService) Basic() *HealthStatus {
	return &HealthStatus{
		Status:    "ok",
		Version:   s.version,
		Timestamp: timestamp(),
	}
}

// DatabaseUp reports database connectivity through the given prober.
func (s *HealthService) DatabaseUp(ctx context.Context, prober ports.ConnectivityProber) bool {
	return prober.Probe(ctx)
}

// Check performs the full health check and aggregates per-component
// status. The overall status is "ok" only when every component is ok,
// otherwise "degraded". The HTTP status stays 200 either way; callers
// read the body.
func (s *HealthService) Check(ctx context.Context, prober ports.ConnectivityProber) *HealthStatus {
	components := map[string]string{
		"database": componentStatus(prober.Probe(ctx)),
	}

	// TODO: add a redis component once background jobs are wired up

	overall := "ok"
	for _, v := range components {
		if v != "ok" {
			overall = "degraded"
			break
		}
	}

	return &HealthStatus{
		Status:     overall,
		Version:    s.version,
		Components: components,
		Timestamp:  timestamp(),
	}
}

func componentStatus(up bool) string {
	if up {
		return "ok"
	}
	return "error"
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
