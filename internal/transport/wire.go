package transport

import (
	"fmt"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jamesprial/oauth-response/internal/config"
	"github.com/jamesprial/oauth-response/internal/oauth"
	"github.com/jamesprial/oauth-response/internal/transport/internal/handlers"
	transporthttp "github.com/jamesprial/oauth-response/internal/transport/internal/http"
	"github.com/jamesprial/oauth-response/internal/transport/internal/middleware"
	pkgoauth "github.com/jamesprial/oauth-response/pkg/oauth"
)

// NewServer creates an HTTP server for handler using the configured address
// and timeouts.
func NewServer(cfg *config.Config, handler http.Handler, logger *slog.Logger) Server {
	return transporthttp.NewServer(cfg, handler, logger)
}

// NewRouter creates a chi-backed router that renders 404 and 405 through responder.
func NewRouter(responder Responder) Router {
	return transporthttp.NewRouter(responder)
}

// NewResponder creates a responder whose challenges carry metadataURL.
func NewResponder(metadataURL string, logger *slog.Logger) Responder {
	return transporthttp.NewResponder(metadataURL, logger)
}

// NewAuthMiddleware creates bearer authentication middleware. 401
// challenges advertise the read scope.
func NewAuthMiddleware(validator oauth.TokenValidator, checker oauth.ScopeChecker, responder Responder) AuthMiddleware {
	return middleware.NewAuthMiddleware(validator, checker, responder, []string{pkgoauth.ScopeRead})
}

// NewLoggingMiddleware creates request logging middleware.
// If logger is nil, it uses the default slog logger.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return middleware.NewLoggingMiddleware(logger)
}

// NewRecoveryMiddleware creates panic recovery middleware.
// If logger is nil, it uses the default slog logger.
func NewRecoveryMiddleware(responder Responder, logger *slog.Logger) Middleware {
	return middleware.NewRecoveryMiddleware(responder, logger)
}

// Config holds the configuration needed for the transport layer.
type Config struct {
	// ServerConfig is the server configuration.
	ServerConfig *config.Config

	// OAuth provides the authorization server, keys, validator and metadata.
	OAuth *oauth.Services

	// Logger is used by every component; nil means slog.Default().
	Logger *slog.Logger
}

// NewTransportServices wires the router, middleware and handlers around the
// OAuth services and returns the server together with its handler.
func NewTransportServices(cfg *Config) (Server, Router, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.ServerConfig == nil {
		return nil, nil, fmt.Errorf("server config cannot be nil")
	}
	if cfg.OAuth == nil {
		return nil, nil, fmt.Errorf("oauth services cannot be nil")
	}
	svc := cfg.OAuth
	switch {
	case svc.AuthorizationServer == nil:
		return nil, nil, fmt.Errorf("authorization server cannot be nil")
	case svc.Keys == nil:
		return nil, nil, fmt.Errorf("key source cannot be nil")
	case svc.TokenValidator == nil:
		return nil, nil, fmt.Errorf("token validator cannot be nil")
	case svc.MetadataService == nil:
		return nil, nil, fmt.Errorf("metadata service cannot be nil")
	case svc.ScopeChecker == nil:
		return nil, nil, fmt.Errorf("scope checker cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	responder := NewResponder(svc.MetadataService.GetMetadataURL(), logger)
	auth := NewAuthMiddleware(svc.TokenValidator, svc.ScopeChecker, responder)

	router := NewRouter(responder)
	router.Use(
		chimiddleware.RequestID,
		NewRecoveryMiddleware(responder, logger),
		NewLoggingMiddleware(logger),
	)

	// Authorization server.
	router.Handle("POST "+pkgoauth.PathToken, handlers.NewTokenHandler(svc.AuthorizationServer, responder, logger))
	router.Handle("POST "+pkgoauth.PathIntrospect, handlers.NewIntrospectionHandler(svc.AuthorizationServer, responder, logger))
	router.Handle("POST "+pkgoauth.PathRevoke, handlers.NewRevocationHandler(svc.AuthorizationServer, responder, logger))

	// Discovery.
	router.Handle("GET "+pkgoauth.PathAuthorizationServerMetadata,
		handlers.NewAuthorizationServerMetadataHandler(svc.MetadataService, responder, logger))
	router.Handle("GET "+pkgoauth.PathProtectedResourceMetadata, handlers.NewMetadataHandler(svc.MetadataService, responder, logger))
	router.Handle("GET "+pkgoauth.PathJWKS, handlers.NewJWKSHandler(svc.Keys, responder, logger))
	router.Handle("GET /health", handlers.NewHealthHandler(responder, logger))

	// Protected resource.
	whoami := auth.Authenticate()(auth.RequireScopes(pkgoauth.ScopeRead)(handlers.NewWhoAmIHandler(responder, logger)))
	router.Handle("GET /api/whoami", whoami)

	return NewServer(cfg.ServerConfig, router, logger), router, nil
}
