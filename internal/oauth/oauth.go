// Package oauth provides the authorization server and resource server
// services: fosite-backed token issuance, JWT access token validation and
// discovery metadata.
package oauth

import (
	"context"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/ory/fosite"
	"github.com/ory/fosite/handler/oauth2"

	"github.com/jamesprial/oauth-response/internal/oauth/internal/metadata"
)

// AuthorizationServer issues, introspects and revokes access tokens.
// Protocol handling is delegated to the fosite provider it returns.
type AuthorizationServer interface {
	// OAuth2 returns the fosite provider serving the token, introspection
	// and revocation endpoints.
	OAuth2() fosite.OAuth2Provider

	// NewSession returns a fresh session template for a token request.
	NewSession(subject string) *oauth2.JWTSession

	// GrantClientCredentials grants the permitted scopes and audience on a
	// client_credentials access request. Other grant types are left untouched.
	GrantClientCredentials(ar fosite.AccessRequester)
}

// KeySource exposes the signing keys. GetKey feeds the token validator and
// PublicJWKS is served at the JWKS endpoint.
type KeySource interface {
	GetKey(ctx context.Context, keyID string) (any, error)
	PublicJWKS() *jose.JSONWebKeySet
}

// TokenValidator validates access tokens.
type TokenValidator interface {
	// ValidateToken verifies the signature against the local key set, checks
	// expiration with clock skew tolerance and requires the configured
	// audience and issuer.
	//
	// Returns ErrUnauthorized from internal/errors if the token is invalid.
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}

// TokenClaims represents validated JWT claims from an access token.
type TokenClaims struct {
	// Subject is the subject (sub) claim. For client credentials tokens it
	// is the client ID.
	Subject string `json:"sub"`

	// Issuer is the issuer (iss) claim.
	Issuer string `json:"iss"`

	// Audience is the audience (aud) claim.
	Audience []string `json:"aud"`

	// Scopes is the list of granted scopes, read from "scp" or "scope".
	Scopes []string `json:"scopes"`

	// ClientID is the client_id claim, when present.
	ClientID string `json:"client_id,omitempty"`

	// ExpiresAt is the expiration time (exp) claim.
	ExpiresAt time.Time `json:"exp"`

	// IssuedAt is the issued at (iat) claim.
	IssuedAt time.Time `json:"iat,omitempty"`

	// JTI is the JWT ID (jti) claim.
	JTI string `json:"jti,omitempty"`
}

// HasScope returns true if the token has the specified scope.
func (c *TokenClaims) HasScope(scope string) bool {
	if c == nil {
		return false
	}
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// HasAllScopes returns true if the token has all specified scopes.
// Returns true if scopes is empty.
func (c *TokenClaims) HasAllScopes(scopes ...string) bool {
	if c == nil {
		return len(scopes) == 0
	}
	for _, required := range scopes {
		if !c.HasScope(required) {
			return false
		}
	}
	return true
}

// ProtectedResourceMetadata is the RFC 9728 document.
type ProtectedResourceMetadata = metadata.ProtectedResourceMetadata

// AuthorizationServerMetadata is the RFC 8414 document.
type AuthorizationServerMetadata = metadata.AuthorizationServerMetadata

// MetadataService provides the discovery documents.
type MetadataService interface {
	// GetMetadata returns the protected resource metadata document.
	GetMetadata(ctx context.Context) (*ProtectedResourceMetadata, error)

	// GetAuthorizationServerMetadata returns the authorization server metadata document.
	GetAuthorizationServerMetadata(ctx context.Context) (*AuthorizationServerMetadata, error)

	// GetMetadataURL returns the canonical URL where the protected resource
	// metadata is served: {issuer}/.well-known/oauth-protected-resource
	GetMetadataURL() string
}

// ScopeChecker validates token scopes against required scopes.
type ScopeChecker interface {
	// RequireScopes checks that the token has all of the specified scopes.
	// Returns an "insufficient_scope" error from internal/errors if any
	// required scope is missing.
	RequireScopes(claims *TokenClaims, required ...string) error

	// RequireAnyScope checks that the token has at least one of the specified scopes.
	RequireAnyScope(claims *TokenClaims, scopes ...string) error
}
