package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger reports connectivity to a backing store
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports service liveness and store connectivity
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

type healthResponse struct {
	Status string `json:"status"`
}

// Health handles GET /healthz
func (h *HealthHandler) Health(c echo.Context) error {
	if h.db != nil {
		if err := h.db.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "degraded"})
		}
	}
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}
