// Package config provides configuration management for the authorization server.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the complete server configuration in a flat structure.
type Config struct {
	// Server settings
	// Addr is the address to bind the HTTP server (e.g., ":8080").
	Addr string `env:"SERVER_ADDR" envDefault:":8080"`

	// Issuer is the canonical base URL of this authorization server
	// (e.g., "https://auth.example.com"). Endpoint URLs are derived from it.
	Issuer string `env:"SERVER_ISSUER"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`

	// IdleTimeout is the maximum duration to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`

	// OAuth settings
	// Audience is the protected resource URI granted to every access token.
	Audience string `env:"OAUTH_AUDIENCE"`

	// ScopesSupported is the list of scopes advertised in metadata.
	ScopesSupported []string `env:"OAUTH_SCOPES_SUPPORTED" envSeparator:"," envDefault:"api:read,api:write"`

	// AccessTokenTTL is the lifetime of issued access tokens.
	AccessTokenTTL time.Duration `env:"OAUTH_ACCESS_TOKEN_TTL" envDefault:"1h"`

	// ClockSkew is the leeway applied when validating token timestamps.
	ClockSkew time.Duration `env:"OAUTH_CLOCK_SKEW" envDefault:"1m"`

	// GlobalSecret keys the HMAC strategy fosite uses for opaque tokens.
	// It must be at least 32 bytes.
	GlobalSecret string `env:"OAUTH_GLOBAL_SECRET"`

	// SigningKeyFile is an optional PEM-encoded RSA private key. When empty a
	// key is generated at startup.
	SigningKeyFile string `env:"OAUTH_SIGNING_KEY_FILE"`

	// SigningKeyID is the kid placed in JWT headers and the JWKS document.
	// When empty the key's RFC 7638 thumbprint is used.
	SigningKeyID string `env:"OAUTH_SIGNING_KEY_ID"`

	// Client settings
	// ClientID identifies the single confidential client registered at startup.
	ClientID string `env:"OAUTH_CLIENT_ID"`

	// ClientSecret is the plaintext client secret; it is bcrypt-hashed before storage.
	ClientSecret string `env:"OAUTH_CLIENT_SECRET"`

	// ClientScopes are the scopes the client may request.
	ClientScopes []string `env:"OAUTH_CLIENT_SCOPES" envSeparator:"," envDefault:"api:read"`
}

// Load reads configuration from environment variables and returns a validated Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// String returns a string representation of the configuration (for debugging).
// Secrets are redacted.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Addr: %s, Issuer: %s, ReadTimeout: %v, WriteTimeout: %v, IdleTimeout: %v, Audience: %s, ScopesSupported: %v, AccessTokenTTL: %v, ClockSkew: %v, GlobalSecret: %s, SigningKeyFile: %s, SigningKeyID: %s, ClientID: %s, ClientSecret: %s, ClientScopes: %v}",
		c.Addr, c.Issuer, c.ReadTimeout, c.WriteTimeout, c.IdleTimeout,
		c.Audience, c.ScopesSupported, c.AccessTokenTTL, c.ClockSkew,
		redact(c.GlobalSecret), c.SigningKeyFile, c.SigningKeyID,
		c.ClientID, redact(c.ClientSecret), c.ClientScopes)
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}
