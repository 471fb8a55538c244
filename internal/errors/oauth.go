package errors

import (
	"fmt"
	"strings"
)

// OAuth error codes from RFC 6749 Section 5.2 and RFC 6750 Section 3.1.
const (
	// ErrorCodeInvalidToken indicates the access token is invalid, expired, or revoked.
	ErrorCodeInvalidToken = "invalid_token"

	// ErrorCodeInsufficientScope indicates the token lacks required scope(s).
	ErrorCodeInsufficientScope = "insufficient_scope"
)

// OAuthError is an RFC 6750 error rendered into a WWW-Authenticate challenge.
// Its WWWAuthenticate output is the "kind" handed to Response.Unauthorized.
type OAuthError struct {
	// ErrorCode is the OAuth error code (e.g., "invalid_token", "insufficient_scope").
	ErrorCode string

	// ErrorDescription is a human-readable description of the error.
	ErrorDescription string

	// ErrorURI is an optional URI for additional error information.
	ErrorURI string

	// Scope is the space-separated list of required scopes.
	Scope string

	// ResourceMetadata is the URL of the protected resource metadata document (RFC 9728).
	ResourceMetadata string
}

// Error implements the error interface.
func (e *OAuthError) Error() string {
	if e.ErrorDescription != "" {
		return fmt.Sprintf("%s: %s", e.ErrorCode, e.ErrorDescription)
	}
	return e.ErrorCode
}

// NewOAuthError creates a new OAuthError with the given error code and description.
func NewOAuthError(errorCode, errorDescription string) *OAuthError {
	return &OAuthError{
		ErrorCode:        errorCode,
		ErrorDescription: errorDescription,
	}
}

// WithScope sets the scope field and returns the error for chaining.
func (e *OAuthError) WithScope(scope string) *OAuthError {
	e.Scope = scope
	return e
}

// WithResourceMetadata sets the resource metadata URL and returns the error for chaining.
func (e *OAuthError) WithResourceMetadata(url string) *OAuthError {
	e.ResourceMetadata = url
	return e
}

// WWWAuthenticate formats the error as an RFC 6750 challenge.
//
// Example output:
//
//	Bearer error="invalid_token", error_description="Token expired", scope="api:read", resource_metadata="https://example.com/.well-known/oauth-protected-resource"
func (e *OAuthError) WWWAuthenticate() string {
	var parts []string

	add := func(key, value string) {
		if value != "" {
			parts = append(parts, fmt.Sprintf(`%s="%s"`, key, escapeQuotes(value)))
		}
	}

	add("error", e.ErrorCode)
	add("error_description", e.ErrorDescription)
	add("error_uri", e.ErrorURI)
	add("scope", e.Scope)
	add("resource_metadata", e.ResourceMetadata)

	if len(parts) == 0 {
		return "Bearer"
	}
	return "Bearer " + strings.Join(parts, ", ")
}

// escapeQuotes escapes backslashes and double quotes for quoted-string header values.
func escapeQuotes(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
