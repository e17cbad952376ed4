package server

import "github.com/aman-zulfiqar/solana-arb-engine/internal/arb"

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"` // Service health status
}

// StatusResponse wraps the engine's status snapshot
type StatusResponse struct {
	Status arb.StatusSnapshot `json:"status"`
}
