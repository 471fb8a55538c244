package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jamesprial/oauth-response/internal/response"
	"github.com/jamesprial/oauth-response/internal/transport/transportcore"
)

// healthResponse represents the JSON response for health checks.
type healthResponse struct {
	Status string `json:"status"`
}

// NewHealthHandler creates a handler for the /health endpoint.
func NewHealthHandler(responder transportcore.Responder, logger *slog.Logger) http.Handler {
	if responder == nil {
		panic("responder cannot be nil")
	}

	return response.AdaptWithLogger(logger, func(*http.Request) (*response.Response, error) {
		return responder.JSON(http.StatusOK, healthResponse{Status: "ok"}), nil
	})
}
