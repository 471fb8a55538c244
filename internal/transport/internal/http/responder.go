package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	ierrors "github.com/jamesprial/oauth-response/internal/errors"
	"github.com/jamesprial/oauth-response/internal/response"
	"github.com/jamesprial/oauth-response/internal/transport/transportcore"
	"github.com/jamesprial/oauth-response/pkg/oauth"
)

// errorResponse represents a JSON error response body.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// responder implements transportcore.Responder.
type responder struct {
	metadataURL string
	logger      *slog.Logger
}

// NewResponder creates a responder whose challenges point at metadataURL
// (RFC 9728). If logger is nil, slog.Default() is used.
func NewResponder(metadataURL string, logger *slog.Logger) transportcore.Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &responder{
		metadataURL: metadataURL,
		logger:      logger,
	}
}

// Unauthorized builds a 401 with a Bearer challenge.
//
// Format: WWW-Authenticate: Bearer error="invalid_token", scope="<scope>", resource_metadata="<url>"
//
// Requests that carried no credentials get a challenge without an error code
// per RFC 6750 Section 3.1.
func (r *responder) Unauthorized(scope string, err error) *response.Response {
	challenge := ierrors.NewOAuthError("", "").
		WithScope(scope).
		WithResourceMetadata(r.metadataURL)
	if err != nil && !errors.Is(err, transportcore.ErrMissingToken) {
		challenge.ErrorCode = ierrors.ErrorCodeInvalidToken
	}

	r.logger.Warn("unauthorized request", "error", err, "scope", scope)

	resp := r.jsonError(http.StatusUnauthorized, errorResponse{
		Error:   "unauthorized",
		Message: "Authentication required",
	})
	if hdrErr := resp.Unauthorized(challenge.WWWAuthenticate()); hdrErr != nil {
		return r.InternalError(hdrErr)
	}
	return resp
}

// Forbidden builds a 403 with error="insufficient_scope" per RFC 6750 Section 3.1.
func (r *responder) Forbidden(requiredScopes []string, err error) *response.Response {
	scopeStr := strings.Join(requiredScopes, " ")
	challenge := ierrors.NewOAuthError(ierrors.ErrorCodeInsufficientScope, "").
		WithScope(scopeStr).
		WithResourceMetadata(r.metadataURL)

	r.logger.Warn("forbidden request - insufficient scope",
		"error", err,
		"required_scopes", requiredScopes,
	)

	resp := r.jsonError(http.StatusForbidden, errorResponse{
		Error:   ierrors.ErrorCodeInsufficientScope,
		Message: fmt.Sprintf("Required scopes: %s", scopeStr),
	})
	if hdrErr := resp.AddHeader(oauth.HeaderWWWAuthenticate, challenge.WWWAuthenticate()); hdrErr != nil {
		return r.InternalError(hdrErr)
	}
	return resp
}

// InternalError builds a 500. The error is logged, never echoed.
func (r *responder) InternalError(err error) *response.Response {
	attrs := []any{"error", err}
	if de, ok := ierrors.As(err); ok {
		attrs = append(attrs, de.LogAttrs()...)
	}
	r.logger.Error("internal server error", attrs...)

	return r.jsonError(http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: "An internal server error occurred",
	})
}

// BadRequest builds a 400 echoing the error message.
func (r *responder) BadRequest(err error) *response.Response {
	r.logger.Warn("bad request", "error", err)

	message := "Invalid request"
	if err != nil {
		message = err.Error()
	}
	return r.jsonError(http.StatusBadRequest, errorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

// NotFound builds a 404.
func (r *responder) NotFound() *response.Response {
	return r.jsonError(http.StatusNotFound, errorResponse{
		Error:   "not_found",
		Message: "The requested resource does not exist",
	})
}

// MethodNotAllowed builds a 405 with an Allow header per RFC 9110 Section 15.5.6.
func (r *responder) MethodNotAllowed(allowed []string) *response.Response {
	resp := r.jsonError(http.StatusMethodNotAllowed, errorResponse{
		Error:   "method_not_allowed",
		Message: fmt.Sprintf("Allowed methods: %s", strings.Join(allowed, ", ")),
	})
	if len(allowed) > 0 {
		if err := resp.AddHeader(oauth.HeaderAllow, strings.Join(allowed, ", ")); err != nil {
			return r.InternalError(err)
		}
	}
	return resp
}

// JSON builds a response with status and v encoded as the body. An encoding
// failure yields a 500.
func (r *responder) JSON(status int, v any) *response.Response {
	body, err := json.Marshal(v)
	if err != nil {
		return r.InternalError(fmt.Errorf("encode response body: %w", err))
	}

	resp := response.New()
	if err := resp.SetStatus(status); err != nil {
		return r.InternalError(err)
	}
	if err := resp.BodyJSON(string(body)); err != nil {
		return r.InternalError(err)
	}
	return resp
}

func (r *responder) jsonError(status int, body errorResponse) *response.Response {
	// errorResponse always encodes, and every status passed here is valid.
	data, _ := json.Marshal(body)
	resp := response.New()
	_ = resp.SetStatus(status)
	_ = resp.BodyJSON(string(data))
	return resp
}
