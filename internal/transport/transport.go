package transport

import (
	"github.com/jamesprial/oauth-response/internal/transport/transportcore"
)

// Types re-exported from transportcore, which exists to keep the internal
// subpackages free of import cycles.

// Middleware wraps an http.Handler.
type Middleware = transportcore.Middleware

// Server runs the listener and shuts it down gracefully. Addr reports the
// bound address once Start has been called.
type Server = transportcore.Server

// Router is the chi-backed route table. Middleware must be registered
// before the first route.
type Router = transportcore.Router

// AuthMiddleware guards protected routes with bearer tokens issued by the
// local authorization server.
type AuthMiddleware = transportcore.AuthMiddleware

// Responder builds response descriptors for outcomes fosite does not
// render: bearer challenges (RFC 6750, RFC 9728), routing errors and JSON
// documents.
type Responder = transportcore.Responder
