package transport

import (
	"context"

	"github.com/jamesprial/oauth-response/internal/oauth"
	"github.com/jamesprial/oauth-response/internal/transport/transportcore"
)

// ClaimsContextKey is the key under which validated claims are stored.
const ClaimsContextKey = transportcore.ClaimsContextKey

// ClaimsFromContext returns the claims stored by Authenticate, if any.
func ClaimsFromContext(ctx context.Context) (*oauth.TokenClaims, bool) {
	return transportcore.ClaimsFromContext(ctx)
}

// ContextWithClaims returns a copy of ctx carrying claims.
func ContextWithClaims(ctx context.Context, claims *oauth.TokenClaims) context.Context {
	return transportcore.ContextWithClaims(ctx, claims)
}
