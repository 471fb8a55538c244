// Package middleware provides HTTP middleware for the transport layer.
package middleware

import (
	"net/http"
	"strings"

	"github.com/jamesprial/oauth-response/internal/oauth"
	"github.com/jamesprial/oauth-response/internal/transport/transportcore"
	pkgoauth "github.com/jamesprial/oauth-response/pkg/oauth"
)

// authMiddleware implements transportcore.AuthMiddleware.
type authMiddleware struct {
	validator     oauth.TokenValidator
	checker       oauth.ScopeChecker
	responder     transportcore.Responder
	defaultScopes []string
}

// NewAuthMiddleware creates bearer authentication middleware. defaultScopes
// is advertised in the scope parameter of 401 challenges.
func NewAuthMiddleware(
	validator oauth.TokenValidator,
	checker oauth.ScopeChecker,
	responder transportcore.Responder,
	defaultScopes []string,
) transportcore.AuthMiddleware {
	if validator == nil {
		panic("validator cannot be nil")
	}
	if checker == nil {
		panic("scope checker cannot be nil")
	}
	if responder == nil {
		panic("responder cannot be nil")
	}

	return &authMiddleware{
		validator:     validator,
		checker:       checker,
		responder:     responder,
		defaultScopes: defaultScopes,
	}
}

// Authenticate validates the Bearer token and stores the claims in the
// request context for downstream handlers.
func (m *authMiddleware) Authenticate() transportcore.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extractBearerToken(r)
			if err != nil {
				m.unauthorized(w, r, err)
				return
			}

			claims, err := m.validator.ValidateToken(r.Context(), token)
			if err != nil {
				m.unauthorized(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(transportcore.ContextWithClaims(r.Context(), claims)))
		})
	}
}

// RequireScopes checks that the token has all required scopes.
// Without claims in the context it answers 401, not 403.
func (m *authMiddleware) RequireScopes(scopes ...string) transportcore.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := transportcore.ClaimsFromContext(r.Context())
			if !ok || claims == nil {
				m.unauthorized(w, r, transportcore.ErrMissingToken)
				return
			}

			if err := m.checker.RequireScopes(claims, scopes...); err != nil {
				m.responder.Forbidden(scopes, err).ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *authMiddleware) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	m.responder.Unauthorized(strings.Join(m.defaultScopes, " "), err).ServeHTTP(w, r)
}

// extractBearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively per RFC 6750. Query string and
// form body tokens are not accepted.
func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get(pkgoauth.HeaderAuthorization)
	if authHeader == "" {
		return "", transportcore.ErrMissingToken
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, pkgoauth.BearerToken) {
		return "", transportcore.ErrInvalidToken
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", transportcore.ErrMissingToken
	}
	return token, nil
}
