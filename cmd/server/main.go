// Package main runs the client credentials authorization server and its
// demo protected resource, with graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jamesprial/oauth-response/internal/config"
	"github.com/jamesprial/oauth-response/internal/oauth"
	"github.com/jamesprial/oauth-response/internal/transport"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Info("server configuration loaded", "config", cfg.String())

	services, err := oauth.NewOAuthServices(oauthConfig(cfg))
	if err != nil {
		return err
	}
	logger.Info("oauth services initialized",
		"issuer", cfg.Issuer,
		"audience", cfg.Audience,
		"client_id", cfg.ClientID,
		"access_token_ttl", cfg.AccessTokenTTL,
	)

	server, _, err := transport.NewTransportServices(&transport.Config{
		ServerConfig: cfg,
		OAuth:        services,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	logger.Info("transport services initialized",
		"metadata_url", services.MetadataService.GetMetadataURL(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping server gracefully")
	case err := <-serverErrCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func oauthConfig(cfg *config.Config) *oauth.Config {
	return &oauth.Config{
		Issuer:          cfg.Issuer,
		Audience:        cfg.Audience,
		ScopesSupported: cfg.ScopesSupported,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		ClockSkew:       cfg.ClockSkew,
		GlobalSecret:    []byte(cfg.GlobalSecret),
		SigningKeyFile:  cfg.SigningKeyFile,
		SigningKeyID:    cfg.SigningKeyID,
		Clients: []oauth.Client{{
			ID:     cfg.ClientID,
			Secret: cfg.ClientSecret,
			Scopes: cfg.ClientScopes,
		}},
	}
}
