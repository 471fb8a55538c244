package handlers

import (
	"log/slog"
	"net/http"

	ierrors "github.com/jamesprial/oauth-response/internal/errors"
	"github.com/jamesprial/oauth-response/internal/response"
	"github.com/jamesprial/oauth-response/internal/transport/transportcore"
)

// NewWhoAmIHandler returns the validated token claims of the caller.
// It must sit behind the authentication middleware.
func NewWhoAmIHandler(responder transportcore.Responder, logger *slog.Logger) http.Handler {
	if responder == nil {
		panic("responder cannot be nil")
	}

	return response.AdaptWithLogger(logger, func(r *http.Request) (*response.Response, error) {
		claims, ok := transportcore.ClaimsFromContext(r.Context())
		if !ok || claims == nil {
			return nil, ierrors.New("transport", "WhoAmI", ierrors.ErrInternal, transportcore.ErrMissingToken)
		}
		return responder.JSON(http.StatusOK, claims), nil
	})
}
