package metadata

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/jamesprial/oauth-response/pkg/oauth"
)

// AuthorizationServerMetadata represents the OAuth 2.0 Authorization Server
// Metadata as defined in RFC 8414.
type AuthorizationServerMetadata struct {
	Issuer                            string   `json:"issuer"`
	TokenEndpoint                     string   `json:"token_endpoint"`
	IntrospectionEndpoint             string   `json:"introspection_endpoint"`
	RevocationEndpoint                string   `json:"revocation_endpoint"`
	JWKSURI                           string   `json:"jwks_uri"`
	ScopesSupported                   []string `json:"scopes_supported,omitempty"`
	ResponseTypesSupported            []string `json:"response_types_supported"`
	GrantTypesSupported               []string `json:"grant_types_supported"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported"`
	IntrospectionEndpointAuthMethods  []string `json:"introspection_endpoint_auth_methods_supported"`
	RevocationEndpointAuthMethods     []string `json:"revocation_endpoint_auth_methods_supported"`
}

// ProtectedResourceMetadata represents the OAuth 2.0 Protected Resource
// Metadata as defined in RFC 9728.
type ProtectedResourceMetadata struct {
	Resource               string   `json:"resource"`
	AuthorizationServers   []string `json:"authorization_servers"`
	JWKSURI                string   `json:"jwks_uri,omitempty"`
	ScopesSupported        []string `json:"scopes_supported,omitempty"`
	BearerMethodsSupported []string `json:"bearer_methods_supported,omitempty"`
}

// Service provides discovery documents for the authorization server and the
// resource it protects.
type Service struct {
	issuer          string
	resource        string
	scopesSupported []string
	metadataURL     string
}

// NewService creates a new metadata service.
//
// Parameters:
//   - issuer: the canonical base URL of the authorization server (e.g., "https://auth.example.com")
//   - resource: the protected resource identifier, matching the token audience
//   - scopesSupported: array of supported OAuth scopes (optional)
func NewService(issuer, resource string, scopesSupported []string) *Service {
	issuer = normalizeBaseURL(issuer)

	return &Service{
		issuer:          issuer,
		resource:        normalizeBaseURL(resource),
		scopesSupported: scopesSupported,
		metadataURL:     issuer + oauth.PathProtectedResourceMetadata,
	}
}

// GetAuthorizationServerMetadata returns the RFC 8414 document.
func (s *Service) GetAuthorizationServerMetadata(ctx context.Context) (*AuthorizationServerMetadata, error) {
	authMethods := []string{oauth.AuthMethodClientSecretBasic, oauth.AuthMethodClientSecretPost}

	return &AuthorizationServerMetadata{
		Issuer:                            s.issuer,
		TokenEndpoint:                     s.issuer + oauth.PathToken,
		IntrospectionEndpoint:             s.issuer + oauth.PathIntrospect,
		RevocationEndpoint:                s.issuer + oauth.PathRevoke,
		JWKSURI:                           s.issuer + oauth.PathJWKS,
		ScopesSupported:                   s.scopesSupported,
		ResponseTypesSupported:            []string{},
		GrantTypesSupported:               []string{oauth.GrantTypeClientCredentials},
		TokenEndpointAuthMethodsSupported: authMethods,
		IntrospectionEndpointAuthMethods:  authMethods,
		RevocationEndpointAuthMethods:     authMethods,
	}, nil
}

// GetMetadata returns the RFC 9728 protected resource metadata document.
func (s *Service) GetMetadata(ctx context.Context) (*ProtectedResourceMetadata, error) {
	return &ProtectedResourceMetadata{
		Resource:               s.resource,
		AuthorizationServers:   []string{s.issuer},
		JWKSURI:                s.issuer + oauth.PathJWKS,
		ScopesSupported:        s.scopesSupported,
		BearerMethodsSupported: []string{"header"},
	}, nil
}

// GetMetadataURL returns the canonical URL where the protected resource
// metadata is served.
func (s *Service) GetMetadataURL() string {
	return s.metadataURL
}

// normalizeBaseURL strips trailing slashes. Per RFC 8707, resource
// identifiers carry no trailing slash unless it is semantically meaningful.
func normalizeBaseURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}

// ValidateMetadata validates the protected resource metadata per RFC 9728.
func ValidateMetadata(metadata *ProtectedResourceMetadata) error {
	if metadata == nil {
		return fmt.Errorf("metadata cannot be nil")
	}

	if metadata.Resource == "" {
		return fmt.Errorf("resource field is required")
	}

	if len(metadata.AuthorizationServers) == 0 {
		return fmt.Errorf("authorization_servers field must contain at least one server")
	}

	for _, server := range metadata.AuthorizationServers {
		if server == "" {
			return fmt.Errorf("authorization server URL cannot be empty")
		}
		if !secureURL(server) {
			return fmt.Errorf("authorization server URL must use HTTPS (or http on a loopback host): %s", server)
		}
	}

	if !secureURL(metadata.Resource) {
		return fmt.Errorf("resource must be an https URL (or http on a loopback host): %s", metadata.Resource)
	}

	return nil
}

// secureURL reports whether raw is an absolute https URL, or http on localhost
// or a loopback IP.
func secureURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	switch u.Scheme {
	case "https":
		return true
	case "http":
		host := u.Hostname()
		if host == "localhost" {
			return true
		}
		ip := net.ParseIP(host)
		return ip != nil && ip.IsLoopback()
	default:
		return false
	}
}
