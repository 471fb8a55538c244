package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ory/fosite"

	"github.com/jamesprial/oauth-response/internal/oauth"
	"github.com/jamesprial/oauth-response/internal/response"
	"github.com/jamesprial/oauth-response/internal/transport/transportcore"
	pkgoauth "github.com/jamesprial/oauth-response/pkg/oauth"
)

// fositeHandler renders fosite output through a response descriptor.
type fositeHandler struct {
	server    oauth.AuthorizationServer
	responder transportcore.Responder
	logger    *slog.Logger
}

func newFositeHandler(server oauth.AuthorizationServer, responder transportcore.Responder, logger *slog.Logger) fositeHandler {
	if server == nil {
		panic("authorization server cannot be nil")
	}
	if responder == nil {
		panic("responder cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return fositeHandler{server: server, responder: responder, logger: logger}
}

// render writes the descriptor fosite filled. noStore enforces the RFC 6749
// Section 5.1 cache headers unless fosite already set them.
func (h fositeHandler) render(w http.ResponseWriter, r *http.Request, resp *response.Response, noStore bool) {
	if noStore {
		if err := ensureHeader(resp, pkgoauth.HeaderCacheControl, "no-store"); err != nil {
			h.responder.InternalError(err).ServeHTTP(w, r)
			return
		}
		if err := ensureHeader(resp, pkgoauth.HeaderPragma, "no-cache"); err != nil {
			h.responder.InternalError(err).ServeHTTP(w, r)
			return
		}
	}
	if err := resp.WriteTo(w); err != nil {
		h.logger.Warn("failed to write response", "error", err, "path", r.URL.Path)
	}
}

func ensureHeader(resp *response.Response, name, value string) error {
	if resp.Header().Get(name) != "" {
		return nil
	}
	return resp.AddHeader(name, value)
}

// tokenHandler serves the token endpoint (RFC 6749 Section 3.2).
type tokenHandler struct {
	fositeHandler
}

// NewTokenHandler creates the handler for POST /oauth/token.
func NewTokenHandler(server oauth.AuthorizationServer, responder transportcore.Responder, logger *slog.Logger) http.Handler {
	return &tokenHandler{fositeHandler: newFositeHandler(server, responder, logger)}
}

func (h *tokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := h.server.OAuth2()
	resp := response.New()

	accessRequest, err := provider.NewAccessRequest(ctx, r, h.server.NewSession(""))
	if err != nil {
		h.writeAccessError(ctx, w, r, resp, accessRequest, err)
		return
	}

	h.server.GrantClientCredentials(accessRequest)

	accessResponse, err := provider.NewAccessResponse(ctx, accessRequest)
	if err != nil {
		h.writeAccessError(ctx, w, r, resp, accessRequest, err)
		return
	}

	provider.WriteAccessResponse(ctx, resp, accessRequest, accessResponse)
	h.logger.Info("access token issued",
		"client_id", accessRequest.GetClient().GetID(),
		"scopes", accessRequest.GetGrantedScopes(),
	)
	h.render(w, r, resp, true)
}

func (h *tokenHandler) writeAccessError(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	resp *response.Response,
	accessRequest fosite.AccessRequester,
	err error,
) {
	h.logger.Warn("token request rejected", "error", fosite.ErrorToRFC6749Error(err).ErrorField)
	h.server.OAuth2().WriteAccessError(ctx, resp, accessRequest, err)
	h.render(w, r, resp, true)
}
