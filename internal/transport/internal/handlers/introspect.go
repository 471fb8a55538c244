package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jamesprial/oauth-response/internal/oauth"
	"github.com/jamesprial/oauth-response/internal/response"
	"github.com/jamesprial/oauth-response/internal/transport/transportcore"
)

// introspectionHandler serves token introspection (RFC 7662).
type introspectionHandler struct {
	fositeHandler
}

// NewIntrospectionHandler creates the handler for POST /oauth/introspect.
// Callers authenticate as a registered client.
func NewIntrospectionHandler(server oauth.AuthorizationServer, responder transportcore.Responder, logger *slog.Logger) http.Handler {
	return &introspectionHandler{fositeHandler: newFositeHandler(server, responder, logger)}
}

func (h *introspectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := h.server.OAuth2()
	resp := response.New()

	ir, err := provider.NewIntrospectionRequest(ctx, r, h.server.NewSession(""))
	if err != nil {
		h.logger.Debug("introspection failed", "error", err)
		provider.WriteIntrospectionError(ctx, resp, err)
		h.render(w, r, resp, true)
		return
	}

	provider.WriteIntrospectionResponse(ctx, resp, ir)
	h.render(w, r, resp, true)
}

// revocationHandler serves token revocation (RFC 7009).
type revocationHandler struct {
	fositeHandler
}

// NewRevocationHandler creates the handler for POST /oauth/revoke.
func NewRevocationHandler(server oauth.AuthorizationServer, responder transportcore.Responder, logger *slog.Logger) http.Handler {
	return &revocationHandler{fositeHandler: newFositeHandler(server, responder, logger)}
}

func (h *revocationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := h.server.OAuth2()
	resp := response.New()

	err := provider.NewRevocationRequest(ctx, r)
	if err != nil {
		h.logger.Warn("revocation request rejected", "error", err)
	}
	provider.WriteRevocationResponse(ctx, resp, err)
	h.render(w, r, resp, false)
}
