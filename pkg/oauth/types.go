// Package oauth provides shared OAuth 2.0 types and constants used by the
// response adapter and the authorization server built on top of it.
package oauth

// Scopes understood by the demo protected resource.
const (
	// ScopeRead allows reading protected resources.
	ScopeRead = "api:read"

	// ScopeWrite allows modifying protected resources.
	ScopeWrite = "api:write"
)

// BearerToken is the RFC 6750 token type and authentication scheme.
const BearerToken = "Bearer"

// GrantTypeClientCredentials is the only grant type registered with fosite.
const GrantTypeClientCredentials = "client_credentials"

// Client authentication methods at the token endpoint (RFC 8414).
const (
	AuthMethodClientSecretBasic = "client_secret_basic"
	AuthMethodClientSecretPost  = "client_secret_post"
)

// HTTP header names.
const (
	// HeaderAuthorization is the Authorization HTTP header name.
	HeaderAuthorization = "Authorization"

	// HeaderWWWAuthenticate is the WWW-Authenticate HTTP header name.
	HeaderWWWAuthenticate = "WWW-Authenticate"

	// HeaderContentType is the Content-Type HTTP header name.
	HeaderContentType = "Content-Type"

	// HeaderLocation is the Location HTTP header name used by redirects.
	HeaderLocation = "Location"

	// HeaderCacheControl is the Cache-Control HTTP header name.
	HeaderCacheControl = "Cache-Control"

	// HeaderPragma is the Pragma HTTP header name.
	HeaderPragma = "Pragma"

	// HeaderAllow lists the methods accepted by a resource on 405 responses.
	HeaderAllow = "Allow"
)

// Content type constants.
const (
	// ContentTypeJSON is the application/json content type.
	ContentTypeJSON = "application/json"

	// ContentTypeText is the text/plain content type.
	ContentTypeText = "text/plain"
)

// Well-known paths served by the authorization server.
const (
	PathToken                       = "/oauth/token"
	PathIntrospect                  = "/oauth/introspect"
	PathRevoke                      = "/oauth/revoke"
	PathJWKS                        = "/.well-known/jwks.json"
	PathAuthorizationServerMetadata = "/.well-known/oauth-authorization-server"
	PathProtectedResourceMetadata   = "/.well-known/oauth-protected-resource"
)
