// Package handler contains HTTP handlers for the API.
// Handlers are responsible for:
// - Parsing and validating HTTP requests
// - Calling use case methods
// - Converting results to HTTP responses
package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"tdcweb/src/app/http/response"
	"tdcweb/src/app/middleware"
	"tdcweb/src/core/usecase"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	healthService *usecase.HealthService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(healthService *usecase.HealthService) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

// Health returns basic liveness status without touching the database.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response.OK(c, h.healthService.Basic())
}

// DBHealthData is the success payload for the database health check.
type DBHealthData struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

// HealthDB checks database connectivity through the request's session.
// GET /health/db
//
// 200 when the probe succeeds, 503 otherwise. The 503 body carries a
// fixed message; probe failures never leak driver detail to the client.
func (h *HealthHandler) HealthDB(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil || !h.healthService.DatabaseUp(c.Request.Context(), sess) {
		response.ServiceUnavailable(c, "Database connection failed")
		return
	}

	response.OK(c, DBHealthData{
		Status:    "ok",
		Database:  "connected",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// HealthFull aggregates the status of all system components.
// GET /health/full
//
// Always 200; degradation is reported in the body.
func (h *HealthHandler) HealthFull(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		response.ServerError(c)
		return
	}
	response.OK(c, h.healthService.Check(c.Request.Context(), sess))
}
