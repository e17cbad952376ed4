package server

import (
	"net/http"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/arb"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// StatusProvider exposes the engine's current snapshot to the API without
// giving the server a handle on the trading loop itself.
type StatusProvider interface {
	Snapshot() arb.StatusSnapshot
}

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Engine  StatusProvider // Running arbitrage engine
	DevMode bool           // Enable detailed error responses in development
	Logger  *logrus.Logger // Structured logger
}

// err returns a standardized JSON error response
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// Status returns the engine's current iteration counters and last outcome
func (h *Handlers) Status(c echo.Context) error {
	if h.Engine == nil {
		return h.err(c, http.StatusServiceUnavailable, "engine not running", nil)
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: h.Engine.Snapshot()})
}
