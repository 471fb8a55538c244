// Package transport provides the HTTP layer of the authorization server and
// its demo protected resource.
//
// # Architecture
//
// Every outcome is built as a response descriptor (internal/response) and
// only then rendered onto the chi response. fosite writes its token,
// introspection and revocation responses straight into a descriptor, since
// *response.Response implements http.ResponseWriter.
//
//	internal/transport/
//	├── transport.go              # Public interfaces
//	├── errors.go                 # Transport sentinel errors
//	├── context.go                # Context keys and helpers
//	├── wire.go                   # Factory functions and route table
//	├── internal/
//	│   ├── http/
//	│   │   ├── server.go         # HTTP server with graceful shutdown
//	│   │   ├── router.go         # chi router, JSON 404/405
//	│   │   └── responder.go      # Descriptor builder with WWW-Authenticate
//	│   ├── middleware/
//	│   │   ├── auth.go           # Bearer authentication and scope checks
//	│   │   ├── logging.go        # Request logging
//	│   │   └── recovery.go       # Panic recovery
//	│   └── handlers/
//	│       ├── token.go          # POST /oauth/token
//	│       ├── introspect.go     # POST /oauth/introspect, /oauth/revoke
//	│       ├── metadata.go       # RFC 8414, RFC 9728 and JWKS documents
//	│       ├── whoami.go         # GET /api/whoami
//	│       └── health.go         # GET /health
//
// # Middleware Chain
//
//  1. chi RequestID
//  2. Recovery - turns panics into a 500 descriptor
//  3. Logging - one structured line per request
//  4. Authentication - validates the Bearer token (protected routes only)
//  5. Scope checking - enforces required scopes
//
// # Error Handling
//
// Bearer failures follow RFC 6750 and RFC 9728:
//
//	HTTP/1.1 401 Unauthorized
//	WWW-Authenticate: Bearer error="invalid_token", scope="api:read", resource_metadata="https://example.com/.well-known/oauth-protected-resource"
//	Content-Type: application/json
//
//	{"error":"unauthorized","message":"Authentication required"}
//
//	HTTP/1.1 403 Forbidden
//	WWW-Authenticate: Bearer error="insufficient_scope", scope="api:read api:write", resource_metadata="https://example.com/.well-known/oauth-protected-resource"
//
// A request without credentials gets the challenge without an error code.
// Token endpoint errors are rendered by fosite (RFC 6749 Section 5.2).
//
// # Usage Example
//
//	services, err := oauth.NewOAuthServices(oauthCfg)
//	if err != nil {
//		return err
//	}
//	server, _, err := transport.NewTransportServices(&transport.Config{
//		ServerConfig: cfg,
//		OAuth:        services,
//	})
//	if err != nil {
//		return err
//	}
//	go server.Start()
//	defer server.Shutdown(context.Background())
//
// # Context Values
//
// The authentication middleware stores validated claims in the request context:
//
//	claims, ok := transport.ClaimsFromContext(r.Context())
package transport
