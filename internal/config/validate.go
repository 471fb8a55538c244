package config

import (
	"fmt"
	"net"
	"net/url"
)

// MinGlobalSecretLength is the shortest HMAC secret fosite accepts.
const MinGlobalSecretLength = 32

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validateServer(cfg); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	if err := validateOAuth(cfg); err != nil {
		return fmt.Errorf("invalid oauth config: %w", err)
	}

	if err := validateClient(cfg); err != nil {
		return fmt.Errorf("invalid client config: %w", err)
	}

	return nil
}

// isLocalhost returns true if the host is localhost or a loopback address,
// with or without a port.
func isLocalhost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// validateURL requires an absolute http(s) URL, https unless the host is loopback.
func validateURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}

	parsedURL, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}

	if !parsedURL.IsAbs() || parsedURL.Host == "" {
		return fmt.Errorf("%s must be an absolute URL", name)
	}

	if parsedURL.Scheme != "https" && parsedURL.Scheme != "http" {
		return fmt.Errorf("%s must use http or https scheme", name)
	}

	if parsedURL.Scheme == "http" && !isLocalhost(parsedURL.Host) {
		return fmt.Errorf("%s must use https scheme for non-localhost hosts", name)
	}

	return nil
}

func validateServer(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("SERVER_ADDR is required")
	}

	if err := validateURL("SERVER_ISSUER", cfg.Issuer); err != nil {
		return err
	}

	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be positive")
	}

	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be positive")
	}

	// 0 means no idle timeout
	if cfg.IdleTimeout < 0 {
		return fmt.Errorf("SERVER_IDLE_TIMEOUT must be non-negative")
	}

	return nil
}

func validateOAuth(cfg *Config) error {
	if err := validateURL("OAUTH_AUDIENCE", cfg.Audience); err != nil {
		return err
	}

	if cfg.AccessTokenTTL <= 0 {
		return fmt.Errorf("OAUTH_ACCESS_TOKEN_TTL must be positive")
	}

	if cfg.ClockSkew < 0 {
		return fmt.Errorf("OAUTH_CLOCK_SKEW must be non-negative")
	}

	if len(cfg.GlobalSecret) < MinGlobalSecretLength {
		return fmt.Errorf("OAUTH_GLOBAL_SECRET must be at least %d bytes", MinGlobalSecretLength)
	}

	return nil
}

func validateClient(cfg *Config) error {
	if cfg.ClientID == "" {
		return fmt.Errorf("OAUTH_CLIENT_ID is required")
	}

	if cfg.ClientSecret == "" {
		return fmt.Errorf("OAUTH_CLIENT_SECRET is required")
	}

	supported := make(map[string]bool, len(cfg.ScopesSupported))
	for _, s := range cfg.ScopesSupported {
		supported[s] = true
	}
	for _, s := range cfg.ClientScopes {
		if !supported[s] {
			return fmt.Errorf("OAUTH_CLIENT_SCOPES contains unsupported scope %q", s)
		}
	}

	return nil
}
