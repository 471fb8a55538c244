// Package provider assembles the fosite OAuth2 provider that issues,
// introspects and revokes access tokens for registered clients.
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	josev3 "github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v4"
	"github.com/ory/fosite"
	"github.com/ory/fosite/compose"
	"github.com/ory/fosite/handler/oauth2"
	"github.com/ory/fosite/storage"
	"github.com/ory/fosite/token/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/jamesprial/oauth-response/internal/oauth/internal/jwks"
	"github.com/jamesprial/oauth-response/internal/oauth/oautherr"
	"github.com/jamesprial/oauth-response/pkg/oauth"
)

// Client is a confidential client registered at startup.
type Client struct {
	ID     string
	Secret string
	Scopes []string
}

// Config holds what the provider needs beyond the signing keys.
type Config struct {
	Issuer         string
	Audience       string
	AccessTokenTTL time.Duration
	GlobalSecret   []byte
	Clients        []Client

	// HashCost is the bcrypt cost for client secrets. Zero means bcrypt.DefaultCost.
	HashCost int
}

// Provider wraps a composed fosite.OAuth2Provider together with its store
// and signing keys.
type Provider struct {
	oauth2   fosite.OAuth2Provider
	store    *storage.MemoryStore
	keys     *jwks.KeySet
	issuer   string
	audience string
}

// New builds the provider: an in-memory client store, the JWT access token
// strategy signed by keys, and the client credentials, introspection and
// revocation handlers.
func New(cfg Config, keys *jwks.KeySet) (*Provider, error) {
	if keys == nil {
		return nil, oautherr.NewProviderError("New", fmt.Errorf("key set cannot be nil"))
	}
	if len(cfg.GlobalSecret) < 32 {
		return nil, oautherr.NewProviderError("New", fmt.Errorf("global secret must be at least 32 bytes"))
	}

	issuer := strings.TrimRight(cfg.Issuer, "/")

	fositeConfig := &fosite.Config{
		AccessTokenIssuer:   issuer,
		AccessTokenLifespan: cfg.AccessTokenTTL,
		GlobalSecret:        cfg.GlobalSecret,
		TokenURL:            issuer + oauth.PathToken,
		HashCost:            cfg.HashCost,
	}

	store := storage.NewMemoryStore()
	for _, c := range cfg.Clients {
		client, err := newClient(c, cfg.Audience, cfg.HashCost)
		if err != nil {
			return nil, oautherr.NewProviderError("New", err).WithContext("client_id", c.ID)
		}
		store.Clients[client.ID] = client
	}

	// fosite signs with go-jose v3; the key set uses v4.
	signing := keys.SigningKey()
	signingKeyV3 := &josev3.JSONWebKey{
		Key:       signing.Key,
		KeyID:     signing.KeyID,
		Algorithm: signing.Algorithm,
		Use:       signing.Use,
	}

	jwtStrategy := compose.NewOAuth2JWTStrategy(
		func(_ context.Context) (interface{}, error) { return signingKeyV3, nil },
		compose.NewOAuth2HMACStrategy(fositeConfig),
		fositeConfig,
	)

	provider := compose.Compose(
		fositeConfig,
		store,
		&compose.CommonStrategy{CoreStrategy: jwtStrategy},
		compose.OAuth2ClientCredentialsGrantFactory,
		compose.OAuth2TokenIntrospectionFactory,
		compose.OAuth2TokenRevocationFactory,
	)

	return &Provider{
		oauth2:   provider,
		store:    store,
		keys:     keys,
		issuer:   issuer,
		audience: cfg.Audience,
	}, nil
}

func newClient(c Client, audience string, cost int) (*fosite.DefaultClient, error) {
	if c.ID == "" {
		return nil, fmt.Errorf("client ID is required")
	}
	if c.Secret == "" {
		return nil, fmt.Errorf("client secret is required")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(c.Secret), cost)
	if err != nil {
		return nil, fmt.Errorf("hash client secret: %w", err)
	}

	client := &fosite.DefaultClient{
		ID:         c.ID,
		Secret:     hash,
		GrantTypes: fosite.Arguments{oauth.GrantTypeClientCredentials},
		Scopes:     fosite.Arguments(c.Scopes),
	}
	if audience != "" {
		client.Audience = fosite.Arguments{audience}
	}
	return client, nil
}

// OAuth2 returns the composed fosite provider.
func (p *Provider) OAuth2() fosite.OAuth2Provider {
	return p.oauth2
}

// Issuer returns the issuer URL placed in every access token.
func (p *Provider) Issuer() string {
	return p.issuer
}

// Audience returns the audience granted to every access token.
func (p *Provider) Audience() string {
	return p.audience
}

// GetKey resolves a key ID to a public verification key.
func (p *Provider) GetKey(ctx context.Context, keyID string) (any, error) {
	return p.keys.GetKey(ctx, keyID)
}

// PublicJWKS returns the public signing keys.
func (p *Provider) PublicJWKS() *jose.JSONWebKeySet {
	return p.keys.PublicJWKS()
}

// NewSession returns an empty JWT session for subject. fosite fills in the
// remaining claims when it issues the token.
func (p *Provider) NewSession(subject string) *oauth2.JWTSession {
	return &oauth2.JWTSession{
		JWTClaims: &jwt.JWTClaims{
			Subject: subject,
			Issuer:  p.issuer,
			Extra:   make(map[string]interface{}),
		},
		JWTHeader: &jwt.Headers{
			Extra: make(map[string]interface{}),
		},
		Subject: subject,
	}
}

// GrantClientCredentials grants the requested scopes the client is allowed
// and the configured audience. The client credentials handler itself only
// checks that the request is permitted.
func (p *Provider) GrantClientCredentials(ar fosite.AccessRequester) {
	if !ar.GetGrantTypes().ExactOne(oauth.GrantTypeClientCredentials) {
		return
	}

	client := ar.GetClient()
	for _, scope := range ar.GetRequestedScopes() {
		if fosite.HierarchicScopeStrategy(client.GetScopes(), scope) {
			ar.GrantScope(scope)
		}
	}
	if p.audience != "" {
		ar.GrantAudience(p.audience)
	}

	if sess, ok := ar.GetSession().(*oauth2.JWTSession); ok {
		sess.Subject = client.GetID()
		if sess.JWTClaims == nil {
			sess.JWTClaims = &jwt.JWTClaims{}
		}
		sess.JWTClaims.Subject = client.GetID()
		if sess.JWTClaims.Extra == nil {
			sess.JWTClaims.Extra = make(map[string]interface{})
		}
		sess.JWTClaims.Extra["client_id"] = client.GetID()
	}
}
