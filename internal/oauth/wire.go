package oauth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jamesprial/oauth-response/internal/oauth/internal/jwks"
	"github.com/jamesprial/oauth-response/internal/oauth/internal/metadata"
	"github.com/jamesprial/oauth-response/internal/oauth/internal/provider"
	"github.com/jamesprial/oauth-response/internal/oauth/internal/token"
)

// tokenValidatorAdapter adapts token.Validator to the TokenValidator interface.
type tokenValidatorAdapter struct {
	validator *token.Validator
}

func (a *tokenValidatorAdapter) ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	claims, err := a.validator.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	return fromTokenClaims(claims), nil
}

// scopeCheckerAdapter adapts token.ScopeChecker to the ScopeChecker interface.
type scopeCheckerAdapter struct {
	checker *token.ScopeChecker
}

func (a *scopeCheckerAdapter) RequireScopes(claims *TokenClaims, required ...string) error {
	return a.checker.RequireScopes(toTokenClaims(claims), required...)
}

func (a *scopeCheckerAdapter) RequireAnyScope(claims *TokenClaims, scopes ...string) error {
	return a.checker.RequireAnyScope(toTokenClaims(claims), scopes...)
}

func fromTokenClaims(c *token.TokenClaims) *TokenClaims {
	return &TokenClaims{
		Subject:   c.Subject,
		Issuer:    c.Issuer,
		Audience:  c.Audience,
		Scopes:    c.Scopes,
		ClientID:  c.ClientID,
		ExpiresAt: c.ExpiresAt,
		IssuedAt:  c.IssuedAt,
		JTI:       c.JTI,
	}
}

func toTokenClaims(c *TokenClaims) *token.TokenClaims {
	if c == nil {
		return nil
	}
	return &token.TokenClaims{
		Subject:   c.Subject,
		Issuer:    c.Issuer,
		Audience:  c.Audience,
		Scopes:    c.Scopes,
		ClientID:  c.ClientID,
		ExpiresAt: c.ExpiresAt,
		IssuedAt:  c.IssuedAt,
		JTI:       c.JTI,
	}
}

// Client is a confidential client registered with the authorization server.
type Client struct {
	ID     string
	Secret string
	Scopes []string
}

// Config holds the configuration needed to construct OAuth services.
type Config struct {
	// Issuer is the canonical base URL of the authorization server.
	Issuer string

	// Audience is the protected resource identifier granted to every token
	// and required by the validator.
	Audience string

	// ScopesSupported is a list of OAuth scopes advertised in metadata.
	ScopesSupported []string

	// AccessTokenTTL is the lifetime of issued access tokens.
	AccessTokenTTL time.Duration

	// ClockSkew is the allowed clock skew for token expiration validation.
	ClockSkew time.Duration

	// GlobalSecret keys fosite's HMAC strategy (at least 32 bytes).
	GlobalSecret []byte

	// SigningKeyFile is an optional PEM private key; empty generates one.
	SigningKeyFile string

	// SigningKeyID is the kid of the signing key; empty uses the RFC 7638
	// thumbprint.
	SigningKeyID string

	// Clients are registered in the in-memory client store.
	Clients []Client

	// HashCost is the bcrypt cost for client secrets; zero uses the default.
	HashCost int
}

// Services bundles everything the transport layer depends on.
type Services struct {
	AuthorizationServer AuthorizationServer
	Keys                KeySource
	TokenValidator      TokenValidator
	MetadataService     MetadataService
	ScopeChecker        ScopeChecker
}

// NewKeySource loads the signing key from cfg.SigningKeyFile, or generates one.
func NewKeySource(cfg *Config) (*jwks.KeySet, error) {
	return jwks.Load(cfg.SigningKeyFile, cfg.SigningKeyID)
}

// NewAuthorizationServer composes the fosite provider around keys.
func NewAuthorizationServer(cfg *Config, keys *jwks.KeySet) (*provider.Provider, error) {
	clients := make([]provider.Client, 0, len(cfg.Clients))
	for _, c := range cfg.Clients {
		clients = append(clients, provider.Client{ID: c.ID, Secret: c.Secret, Scopes: c.Scopes})
	}

	return provider.New(provider.Config{
		Issuer:         cfg.Issuer,
		Audience:       resourceID(cfg),
		AccessTokenTTL: cfg.AccessTokenTTL,
		GlobalSecret:   cfg.GlobalSecret,
		Clients:        clients,
		HashCost:       cfg.HashCost,
	}, keys)
}

// NewTokenValidator creates a validator that verifies tokens against keys.
func NewTokenValidator(cfg *Config, keys token.KeySource) TokenValidator {
	validator := token.NewValidator(keys, resourceID(cfg), tokenIssuer(cfg), cfg.ClockSkew)
	return &tokenValidatorAdapter{validator: validator}
}

// NewMetadataService creates the discovery metadata service.
func NewMetadataService(cfg *Config) MetadataService {
	return metadata.NewService(cfg.Issuer, resourceID(cfg), cfg.ScopesSupported)
}

// NewScopeChecker creates a new scope checker.
func NewScopeChecker() ScopeChecker {
	return &scopeCheckerAdapter{checker: token.NewScopeChecker()}
}

// NewOAuthServices creates all OAuth services from the configuration.
// This is a convenience function for dependency injection.
func NewOAuthServices(cfg *Config) (*Services, error) {
	if cfg == nil {
		return nil, fmt.Errorf("oauth config cannot be nil")
	}

	keys, err := NewKeySource(cfg)
	if err != nil {
		return nil, fmt.Errorf("load signing key: %w", err)
	}

	authServer, err := NewAuthorizationServer(cfg, keys)
	if err != nil {
		return nil, fmt.Errorf("create authorization server: %w", err)
	}

	metadataService := NewMetadataService(cfg)
	resourceMetadata, err := metadataService.GetMetadata(context.Background())
	if err != nil {
		return nil, fmt.Errorf("build resource metadata: %w", err)
	}
	if err := metadata.ValidateMetadata(resourceMetadata); err != nil {
		return nil, fmt.Errorf("invalid resource metadata: %w", err)
	}

	return &Services{
		AuthorizationServer: authServer,
		Keys:                authServer,
		TokenValidator:      NewTokenValidator(cfg, authServer),
		MetadataService:     metadataService,
		ScopeChecker:        NewScopeChecker(),
	}, nil
}

// resourceID returns the audience as granted in tokens, required by the
// validator and advertised as the RFC 9728 resource.
func resourceID(cfg *Config) string {
	return strings.TrimRight(cfg.Audience, "/")
}

// tokenIssuer returns the issuer exactly as it appears in issued tokens.
func tokenIssuer(cfg *Config) string {
	return strings.TrimRight(cfg.Issuer, "/")
}
