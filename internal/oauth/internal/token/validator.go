package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jamesprial/oauth-response/internal/oauth/oautherr"
)

// KeySource resolves a key ID to a public verification key.
// This avoids importing the parent oauth package.
type KeySource interface {
	GetKey(ctx context.Context, keyID string) (any, error)
}

// TokenClaims represents validated JWT claims from an access token.
type TokenClaims struct {
	Subject   string
	Issuer    string
	Audience  []string
	Scopes    []string
	ClientID  string
	ExpiresAt time.Time
	IssuedAt  time.Time
	JTI       string
}

// HasScope returns true if the token has the specified scope.
func (c *TokenClaims) HasScope(scope string) bool {
	if c == nil {
		return false
	}
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// HasAnyScope returns true if the token has any of the specified scopes.
func (c *TokenClaims) HasAnyScope(scopes ...string) bool {
	if c == nil || len(scopes) == 0 {
		return false
	}
	for _, required := range scopes {
		if c.HasScope(required) {
			return true
		}
	}
	return false
}

// HasAllScopes returns true if the token has all specified scopes.
func (c *TokenClaims) HasAllScopes(scopes ...string) bool {
	if c == nil {
		return len(scopes) == 0
	}
	for _, required := range scopes {
		if !c.HasScope(required) {
			return false
		}
	}
	return true
}

// Asymmetric algorithms only; HS* and none are rejected before key lookup.
var allowedAlgorithms = map[string]bool{
	"RS256": true,
	"RS384": true,
	"RS512": true,
	"ES256": true,
	"ES384": true,
	"ES512": true,
}

// Validator validates JWT access tokens issued by the authorization server.
type Validator struct {
	keys      KeySource
	audience  string
	issuer    string
	clockSkew time.Duration
}

// NewValidator creates a new token validator. An empty issuer disables the
// issuer check.
func NewValidator(keys KeySource, audience, issuer string, clockSkew time.Duration) *Validator {
	return &Validator{
		keys:      keys,
		audience:  audience,
		issuer:    issuer,
		clockSkew: clockSkew,
	}
}

// ValidateToken validates an access token and returns the parsed claims.
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithoutClaimsValidation(),
	)

	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, oautherr.NewInvalidTokenError("ValidateToken", fmt.Errorf("failed to parse token: %w", err))
	}

	alg, ok := token.Header["alg"].(string)
	if !ok || alg == "" {
		return nil, oautherr.NewUnsupportedAlgorithmError("ValidateToken", "none")
	}
	if !allowedAlgorithms[alg] {
		return nil, oautherr.NewUnsupportedAlgorithmError("ValidateToken", alg)
	}

	kid, ok := token.Header["kid"].(string)
	if !ok || kid == "" {
		return nil, oautherr.NewInvalidTokenError("ValidateToken", fmt.Errorf("missing kid in token header"))
	}

	key, err := v.keys.GetKey(ctx, kid)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, oautherr.NewKeyNotFoundError("ValidateToken", kid)
	}

	validatedToken, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != alg {
			return nil, oautherr.NewUnsupportedAlgorithmError("ValidateToken", t.Method.Alg())
		}
		return key, nil
	}, jwt.WithLeeway(v.clockSkew), jwt.WithValidMethods([]string{alg}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, oautherr.NewTokenExpiredError("ValidateToken", err)
		}
		return nil, oautherr.NewInvalidSignatureError("ValidateToken", err)
	}

	if !validatedToken.Valid {
		return nil, oautherr.NewInvalidTokenError("ValidateToken", fmt.Errorf("token is invalid"))
	}

	mapClaims, ok := validatedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, oautherr.NewInvalidTokenError("ValidateToken", fmt.Errorf("invalid claims type"))
	}

	claims, err := v.extractClaims(mapClaims)
	if err != nil {
		return nil, err
	}

	if !v.validateAudience(claims.Audience) {
		return nil, oautherr.NewInvalidAudienceError("ValidateToken", v.audience, claims.Audience)
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, oautherr.NewInvalidIssuerError("ValidateToken", v.issuer, claims.Issuer)
	}

	return claims, nil
}

// extractClaims extracts TokenClaims from JWT MapClaims.
func (v *Validator) extractClaims(mapClaims jwt.MapClaims) (*TokenClaims, error) {
	claims := &TokenClaims{}

	sub, err := mapClaims.GetSubject()
	if err != nil || sub == "" {
		return nil, oautherr.NewMissingClaimError("extractClaims", "sub")
	}
	claims.Subject = sub

	iss, err := mapClaims.GetIssuer()
	if err != nil || iss == "" {
		return nil, oautherr.NewMissingClaimError("extractClaims", "iss")
	}
	claims.Issuer = iss

	aud, err := mapClaims.GetAudience()
	if err != nil || len(aud) == 0 {
		return nil, oautherr.NewMissingClaimError("extractClaims", "aud")
	}
	claims.Audience = aud

	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, oautherr.NewMissingClaimError("extractClaims", "exp")
	}
	claims.ExpiresAt = exp.Time

	// Optional claims
	iat, err := mapClaims.GetIssuedAt()
	if err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}

	if jti, ok := mapClaims["jti"].(string); ok {
		claims.JTI = jti
	}

	if clientID, ok := mapClaims["client_id"].(string); ok {
		claims.ClientID = clientID
	}

	claims.Scopes = scopesFromClaims(mapClaims)

	return claims, nil
}

// validateAudience checks if the expected audience is present in the token's audience claim.
func (v *Validator) validateAudience(audiences []string) bool {
	for _, aud := range audiences {
		if aud == v.audience {
			return true
		}
	}
	return false
}

// scopesFromClaims reads the "scp" array, falling back to the
// space-separated "scope" string.
func scopesFromClaims(mapClaims jwt.MapClaims) []string {
	switch scp := mapClaims["scp"].(type) {
	case []any:
		var scopes []string
		for _, s := range scp {
			if str, ok := s.(string); ok && str != "" {
				scopes = append(scopes, str)
			}
		}
		return scopes
	case string:
		return parseScopes(scp)
	}

	if scopeStr, ok := mapClaims["scope"].(string); ok {
		return parseScopes(scopeStr)
	}
	return nil
}

// parseScopes parses a space-separated scope string into a slice.
func parseScopes(scopeStr string) []string {
	return strings.Fields(scopeStr)
}
