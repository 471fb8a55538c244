package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ory/fosite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	ierrors "github.com/jamesprial/oauth-response/internal/errors"
	"github.com/jamesprial/oauth-response/internal/oauth/internal/jwks"
	"github.com/jamesprial/oauth-response/internal/oauth/internal/token"
)

const (
	testIssuer   = "https://auth.example.com"
	testAudience = "https://api.example.com"
)

var (
	keySetOnce sync.Once
	keySet     *jwks.KeySet
)

func testKeySet(t *testing.T) *jwks.KeySet {
	t.Helper()
	keySetOnce.Do(func() {
		var err error
		keySet, err = jwks.Generate("test-key")
		if err != nil {
			panic(err)
		}
	})
	return keySet
}

func testConfig() Config {
	return Config{
		Issuer:         testIssuer + "/",
		Audience:       testAudience,
		AccessTokenTTL: time.Hour,
		GlobalSecret:   []byte("0123456789abcdef0123456789abcdef"),
		HashCost:       bcrypt.MinCost,
		Clients: []Client{
			{ID: "svc", Secret: "s3cret", Scopes: []string{"api:read", "api:write"}},
		},
	}
}

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(testConfig(), testKeySet(t))
	require.NoError(t, err)
	return p
}

func tokenRequest(t *testing.T, clientID, secret string, form url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(clientID, secret)
	return req
}

func TestNew(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)

	assert.NotNil(t, p.OAuth2())
	assert.Equal(t, testIssuer, p.Issuer())
	assert.Equal(t, testAudience, p.Audience())
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		mutate      func(c *Config)
		nilKeys     bool
		errContains string
	}{
		{
			name:        "nil key set",
			mutate:      func(*Config) {},
			nilKeys:     true,
			errContains: "key set",
		},
		{
			name:        "short global secret",
			mutate:      func(c *Config) { c.GlobalSecret = []byte("short") },
			errContains: "32 bytes",
		},
		{
			name:        "client without ID",
			mutate:      func(c *Config) { c.Clients = []Client{{Secret: "x"}} },
			errContains: "client ID is required",
		},
		{
			name:        "client without secret",
			mutate:      func(c *Config) { c.Clients = []Client{{ID: "svc"}} },
			errContains: "client secret is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			tt.mutate(&cfg)

			keys := testKeySet(t)
			if tt.nilKeys {
				keys = nil
			}

			p, err := New(cfg, keys)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, ierrors.ErrInternal)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestNew_RegistersHashedClient(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)

	client, err := p.store.GetClient(context.Background(), "svc")
	require.NoError(t, err)

	assert.NotEqual(t, []byte("s3cret"), client.GetHashedSecret())
	assert.NoError(t, bcrypt.CompareHashAndPassword(client.GetHashedSecret(), []byte("s3cret")))
	assert.Equal(t, fosite.Arguments{"client_credentials"}, client.GetGrantTypes())
	assert.Equal(t, fosite.Arguments{"api:read", "api:write"}, client.GetScopes())
	assert.Equal(t, fosite.Arguments{testAudience}, client.GetAudience())
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	sess := p.NewSession("svc")

	assert.Equal(t, "svc", sess.GetSubject())
	assert.Equal(t, "svc", sess.JWTClaims.Subject)
	assert.Equal(t, testIssuer, sess.JWTClaims.Issuer)
	assert.NotNil(t, sess.JWTHeader)
}

func TestGetKeyAndPublicJWKS(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)

	key, err := p.GetKey(context.Background(), "test-key")
	require.NoError(t, err)
	assert.NotNil(t, key)

	_, err = p.GetKey(context.Background(), "missing")
	assert.Error(t, err)

	set := p.PublicJWKS()
	require.Len(t, set.Keys, 1)
	assert.Equal(t, "test-key", set.Keys[0].KeyID)
	assert.True(t, set.Keys[0].IsPublic())
}

func TestClientCredentialsIssuesVerifiableJWT(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {"api:read"},
	}
	req := tokenRequest(t, "svc", "s3cret", form)
	ctx := req.Context()

	ar, err := p.OAuth2().NewAccessRequest(ctx, req, p.NewSession(""))
	require.NoError(t, err)

	p.GrantClientCredentials(ar)
	assert.Equal(t, fosite.Arguments{"api:read"}, ar.GetGrantedScopes())
	assert.Equal(t, fosite.Arguments{testAudience}, ar.GetGrantedAudience())

	resp, err := p.OAuth2().NewAccessResponse(ctx, ar)
	require.NoError(t, err)
	require.NotEmpty(t, resp.GetAccessToken())
	assert.Equal(t, "bearer", strings.ToLower(resp.GetTokenType()))

	validator := token.NewValidator(p, testAudience, testIssuer, time.Minute)
	claims, err := validator.ValidateToken(ctx, resp.GetAccessToken())
	require.NoError(t, err)

	assert.Equal(t, "svc", claims.Subject)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Equal(t, []string{"api:read"}, claims.Scopes)
	assert.Equal(t, "svc", claims.ClientID)
}

func TestClientCredentialsRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		clientID string
		secret   string
		scope    string
	}{
		{name: "wrong secret", clientID: "svc", secret: "nope", scope: "api:read"},
		{name: "unknown client", clientID: "ghost", secret: "s3cret", scope: "api:read"},
		{name: "scope not allowed", clientID: "svc", secret: "s3cret", scope: "api:admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newTestProvider(t)
			form := url.Values{"grant_type": {"client_credentials"}, "scope": {tt.scope}}
			req := tokenRequest(t, tt.clientID, tt.secret, form)

			_, err := p.OAuth2().NewAccessRequest(req.Context(), req, p.NewSession(""))
			assert.Error(t, err)
		})
	}
}
