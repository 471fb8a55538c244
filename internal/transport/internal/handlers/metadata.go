// Package handlers provides HTTP handlers for the transport layer.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jamesprial/oauth-response/internal/oauth"
	"github.com/jamesprial/oauth-response/internal/response"
	"github.com/jamesprial/oauth-response/internal/transport/transportcore"
)

// NewMetadataHandler serves OAuth 2.0 Protected Resource Metadata at
// /.well-known/oauth-protected-resource per RFC 9728.
func NewMetadataHandler(service oauth.MetadataService, responder transportcore.Responder, logger *slog.Logger) http.Handler {
	if service == nil {
		panic("service cannot be nil")
	}
	if responder == nil {
		panic("responder cannot be nil")
	}

	return response.AdaptWithLogger(logger, func(r *http.Request) (*response.Response, error) {
		metadata, err := service.GetMetadata(r.Context())
		if err != nil {
			return responder.InternalError(err), nil
		}
		return responder.JSON(http.StatusOK, metadata), nil
	})
}

// NewAuthorizationServerMetadataHandler serves Authorization Server Metadata
// at /.well-known/oauth-authorization-server per RFC 8414.
func NewAuthorizationServerMetadataHandler(service oauth.MetadataService, responder transportcore.Responder, logger *slog.Logger) http.Handler {
	if service == nil {
		panic("service cannot be nil")
	}
	if responder == nil {
		panic("responder cannot be nil")
	}

	return response.AdaptWithLogger(logger, func(r *http.Request) (*response.Response, error) {
		metadata, err := service.GetAuthorizationServerMetadata(r.Context())
		if err != nil {
			return responder.InternalError(err), nil
		}
		return responder.JSON(http.StatusOK, metadata), nil
	})
}

// NewJWKSHandler serves the public signing keys.
func NewJWKSHandler(keys oauth.KeySource, responder transportcore.Responder, logger *slog.Logger) http.Handler {
	if keys == nil {
		panic("key source cannot be nil")
	}
	if responder == nil {
		panic("responder cannot be nil")
	}

	return response.AdaptWithLogger(logger, func(*http.Request) (*response.Response, error) {
		return responder.JSON(http.StatusOK, keys.PublicJWKS()), nil
	})
}
