// Package mocks provides mock implementations for testing the transport layer.
package mocks

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/go-jose/go-jose/v4"

	"github.com/jamesprial/oauth-response/internal/oauth"
	"github.com/jamesprial/oauth-response/internal/response"
)

// TokenValidator is a mock implementation of oauth.TokenValidator.
type TokenValidator struct {
	ValidateFunc func(ctx context.Context, token string) (*oauth.TokenClaims, error)
}

// ValidateToken calls the mock ValidateFunc.
func (m *TokenValidator) ValidateToken(ctx context.Context, token string) (*oauth.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, token)
	}
	return nil, nil
}

// MetadataService is a mock implementation of oauth.MetadataService.
type MetadataService struct {
	GetMetadataFunc                    func(ctx context.Context) (*oauth.ProtectedResourceMetadata, error)
	GetAuthorizationServerMetadataFunc func(ctx context.Context) (*oauth.AuthorizationServerMetadata, error)
	GetMetadataURLFunc                 func() string
}

// GetMetadata calls the mock GetMetadataFunc.
func (m *MetadataService) GetMetadata(ctx context.Context) (*oauth.ProtectedResourceMetadata, error) {
	if m.GetMetadataFunc != nil {
		return m.GetMetadataFunc(ctx)
	}
	return &oauth.ProtectedResourceMetadata{}, nil
}

// GetAuthorizationServerMetadata calls the mock GetAuthorizationServerMetadataFunc.
func (m *MetadataService) GetAuthorizationServerMetadata(ctx context.Context) (*oauth.AuthorizationServerMetadata, error) {
	if m.GetAuthorizationServerMetadataFunc != nil {
		return m.GetAuthorizationServerMetadataFunc(ctx)
	}
	return &oauth.AuthorizationServerMetadata{}, nil
}

// GetMetadataURL calls the mock GetMetadataURLFunc.
func (m *MetadataService) GetMetadataURL() string {
	if m.GetMetadataURLFunc != nil {
		return m.GetMetadataURLFunc()
	}
	return "https://example.com/.well-known/oauth-protected-resource"
}

// KeySource is a mock implementation of oauth.KeySource.
type KeySource struct {
	GetKeyFunc     func(ctx context.Context, keyID string) (any, error)
	PublicJWKSFunc func() *jose.JSONWebKeySet
}

// GetKey calls the mock GetKeyFunc.
func (m *KeySource) GetKey(ctx context.Context, keyID string) (any, error) {
	if m.GetKeyFunc != nil {
		return m.GetKeyFunc(ctx, keyID)
	}
	return nil, nil
}

// PublicJWKS calls the mock PublicJWKSFunc.
func (m *KeySource) PublicJWKS() *jose.JSONWebKeySet {
	if m.PublicJWKSFunc != nil {
		return m.PublicJWKSFunc()
	}
	return &jose.JSONWebKeySet{}
}

// Responder is a recording implementation of transportcore.Responder.
// Each method returns a minimal descriptor with the matching status.
type Responder struct {
	mu sync.Mutex

	UnauthorizedCalled bool
	UnauthorizedScope  string
	UnauthorizedErr    error
	ForbiddenCalled    bool
	ForbiddenScopes    []string
	ForbiddenErr       error
	InternalCalled     bool
	InternalErr        error
	BadRequestCalled   bool
	BadRequestErr      error
	NotFoundCalled     bool
	AllowedMethods     []string
	JSONStatus         int
	JSONValue          any
}

// Unauthorized records the call and returns a 401 with a bare challenge.
func (m *Responder) Unauthorized(scope string, err error) *response.Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UnauthorizedCalled = true
	m.UnauthorizedScope = scope
	m.UnauthorizedErr = err

	resp := response.New()
	_ = resp.Unauthorized("Bearer")
	return resp
}

// Forbidden records the call and returns a 403.
func (m *Responder) Forbidden(requiredScopes []string, err error) *response.Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ForbiddenCalled = true
	m.ForbiddenScopes = requiredScopes
	m.ForbiddenErr = err

	resp := status(http.StatusForbidden)
	_ = resp.AddHeader("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+strings.Join(requiredScopes, " ")+`"`)
	return resp
}

// InternalError records the call and returns a 500.
func (m *Responder) InternalError(err error) *response.Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InternalCalled = true
	m.InternalErr = err
	return status(http.StatusInternalServerError)
}

// BadRequest records the call and returns a 400.
func (m *Responder) BadRequest(err error) *response.Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BadRequestCalled = true
	m.BadRequestErr = err
	return status(http.StatusBadRequest)
}

// NotFound records the call and returns a 404.
func (m *Responder) NotFound() *response.Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotFoundCalled = true
	return status(http.StatusNotFound)
}

// MethodNotAllowed records the call and returns a 405.
func (m *Responder) MethodNotAllowed(allowed []string) *response.Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AllowedMethods = allowed
	return status(http.StatusMethodNotAllowed)
}

// JSON records the call and returns status with an empty JSON object body.
func (m *Responder) JSON(code int, v any) *response.Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JSONStatus = code
	m.JSONValue = v

	resp := status(code)
	_ = resp.BodyJSON("{}")
	return resp
}

// Reset clears all recorded calls.
func (m *Responder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UnauthorizedCalled = false
	m.UnauthorizedScope = ""
	m.UnauthorizedErr = nil
	m.ForbiddenCalled = false
	m.ForbiddenScopes = nil
	m.ForbiddenErr = nil
	m.InternalCalled = false
	m.InternalErr = nil
	m.BadRequestCalled = false
	m.BadRequestErr = nil
	m.NotFoundCalled = false
	m.AllowedMethods = nil
	m.JSONStatus = 0
	m.JSONValue = nil
}

func status(code int) *response.Response {
	resp := response.New()
	_ = resp.SetStatus(code)
	return resp
}
