package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesprial/oauth-response/internal/oauth"
	"github.com/jamesprial/oauth-response/internal/transport/internal/mocks"
)

type ctxKey struct{}

func TestMetadataHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		service    *mocks.MetadataService
		wantStatus int
		wantBody   string
	}{
		{
			name: "serves metadata",
			service: &mocks.MetadataService{
				GetMetadataFunc: func(context.Context) (*oauth.ProtectedResourceMetadata, error) {
					return &oauth.ProtectedResourceMetadata{
						Resource:               "https://api.example.com",
						AuthorizationServers:   []string{"https://auth.example.com"},
						BearerMethodsSupported: []string{"header"},
					}, nil
				},
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "service error",
			service: &mocks.MetadataService{
				GetMetadataFunc: func(context.Context) (*oauth.ProtectedResourceMetadata, error) {
					return nil, errors.New("metadata unavailable")
				},
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			NewMetadataHandler(tt.service, testResponder(), discardLogger()).
				ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/.well-known/oauth-protected-resource", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.wantStatus != http.StatusOK {
				assert.NotContains(t, rec.Body.String(), "metadata unavailable")
				return
			}

			var got oauth.ProtectedResourceMetadata
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, "https://api.example.com", got.Resource)
			assert.Equal(t, []string{"https://auth.example.com"}, got.AuthorizationServers)
		})
	}
}

func TestMetadataHandler_ContextPassed(t *testing.T) {
	t.Parallel()

	var seen any
	service := &mocks.MetadataService{
		GetMetadataFunc: func(ctx context.Context) (*oauth.ProtectedResourceMetadata, error) {
			seen = ctx.Value(ctxKey{})
			return &oauth.ProtectedResourceMetadata{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), ctxKey{}, "marker"))
	NewMetadataHandler(service, testResponder(), discardLogger()).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "marker", seen)
}

func TestAuthorizationServerMetadataHandler(t *testing.T) {
	t.Parallel()

	t.Run("real service", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		NewAuthorizationServerMetadataHandler(testServices(t).MetadataService, testResponder(), discardLogger()).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/.well-known/oauth-authorization-server", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "https://auth.example.com", got["issuer"])
		assert.Equal(t, "https://auth.example.com/oauth/token", got["token_endpoint"])
		assert.Equal(t, "https://auth.example.com/.well-known/jwks.json", got["jwks_uri"])
		assert.Equal(t, []any{"client_credentials"}, got["grant_types_supported"])
	})

	t.Run("service error", func(t *testing.T) {
		t.Parallel()

		service := &mocks.MetadataService{
			GetAuthorizationServerMetadataFunc: func(context.Context) (*oauth.AuthorizationServerMetadata, error) {
				return nil, errors.New("boom")
			},
		}
		rec := httptest.NewRecorder()
		NewAuthorizationServerMetadataHandler(service, testResponder(), discardLogger()).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestJWKSHandler(t *testing.T) {
	t.Parallel()

	t.Run("real key set", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		NewJWKSHandler(testServices(t).Keys, testResponder(), discardLogger()).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), `"d":`)

		var set jose.JSONWebKeySet
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
		require.Len(t, set.Keys, 1)
		assert.Equal(t, "test-key", set.Keys[0].KeyID)
		assert.True(t, set.Keys[0].IsPublic())
	})

	t.Run("empty key set", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		NewJWKSHandler(&mocks.KeySource{}, testResponder(), nil).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"keys":null}`, rec.Body.String())
	})
}

func TestMetadataHandlers_PanicOnNil(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewMetadataHandler(nil, testResponder(), nil) })
	assert.Panics(t, func() { NewMetadataHandler(&mocks.MetadataService{}, nil, nil) })
	assert.Panics(t, func() { NewAuthorizationServerMetadataHandler(nil, testResponder(), nil) })
	assert.Panics(t, func() { NewJWKSHandler(nil, testResponder(), nil) })
}
