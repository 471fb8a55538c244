// Package transportcore provides core types, interfaces, and primitives for the transport layer.
// This package exists to break import cycles between the transport package and its internal subpackages.
package transportcore

import (
	"context"
	"net/http"

	"github.com/jamesprial/oauth-response/internal/response"
)

// Middleware is a function that wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Server manages the HTTP server lifecycle.
type Server interface {
	// Start begins serving HTTP requests on the configured address.
	// This is a blocking call that returns when the server stops
	// or encounters an error during startup.
	Start() error

	// Shutdown gracefully shuts down the server without interrupting
	// active connections. Without a context deadline it waits at most 30s.
	Shutdown(ctx context.Context) error

	// Addr returns the address the server is listening on.
	Addr() string
}

// Router handles HTTP request routing and middleware composition.
type Router interface {
	http.Handler

	// Handle registers a handler for the given pattern. A method prefix
	// ("GET /health") restricts the route to that method.
	Handle(pattern string, handler http.Handler)

	// HandleFunc registers a handler function for the given pattern.
	HandleFunc(pattern string, handler http.HandlerFunc)

	// Use appends middleware to the stack. All middleware must be
	// registered before the first route.
	Use(middlewares ...Middleware)
}

// AuthMiddleware provides bearer token validation middleware.
type AuthMiddleware interface {
	// Authenticate validates the Bearer token and adds claims to context.
	//
	// Responds 401 with a WWW-Authenticate challenge if validation fails.
	Authenticate() Middleware

	// RequireScopes checks that the token has all required scopes.
	// This middleware must be used after Authenticate() in the chain.
	//
	// Responds 403 with error="insufficient_scope" if scopes are insufficient.
	RequireScopes(scopes ...string) Middleware
}

// Responder builds the response descriptors for every non-fosite outcome.
// Callers render the result with WriteTo or ServeHTTP.
type Responder interface {
	// Unauthorized builds a 401 with a Bearer challenge carrying the
	// resource metadata URL and scope. error="invalid_token" is added when
	// err reports a rejected token rather than a missing one.
	Unauthorized(scope string, err error) *response.Response

	// Forbidden builds a 403 with error="insufficient_scope" per RFC 6750 Section 3.1.
	Forbidden(requiredScopes []string, err error) *response.Response

	// InternalError builds a 500 with a JSON error body.
	InternalError(err error) *response.Response

	// BadRequest builds a 400 with a JSON error body.
	BadRequest(err error) *response.Response

	// NotFound builds a 404 with a JSON error body.
	NotFound() *response.Response

	// MethodNotAllowed builds a 405 listing the allowed methods.
	MethodNotAllowed(allowed []string) *response.Response

	// JSON builds a response with status and v encoded as the body.
	JSON(status int, v any) *response.Response
}
