package token

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierrors "github.com/jamesprial/oauth-response/internal/errors"
)

const (
	testAudience = "https://api.example.com"
	testIssuer   = "https://auth.example.com"
	testKeyID    = "test-key-1"
)

// Shared so the suite generates a single RSA key.
var (
	rsaKeyOnce sync.Once
	rsaKey     *rsa.PrivateKey
)

func testRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	rsaKeyOnce.Do(func() {
		var err error
		rsaKey, err = rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
	})
	return rsaKey
}

// mockKeySource implements KeySource for testing.
type mockKeySource struct {
	mu    sync.Mutex
	keys  map[string]any
	err   error
	calls int
}

func newMockKeySource() *mockKeySource {
	return &mockKeySource{keys: make(map[string]any)}
}

func (m *mockKeySource) GetKey(_ context.Context, keyID string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.keys[keyID], nil
}

func (m *mockKeySource) addKey(keyID string, key any) {
	m.mu.Lock()
	m.keys[keyID] = key
	m.mu.Unlock()
}

func signToken(t *testing.T, method jwt.SigningMethod, key any, kid string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(method, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}

	s, err := token.SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":       "svc",
		"iss":       testIssuer,
		"aud":       []string{testAudience},
		"exp":       now.Add(time.Hour).Unix(),
		"iat":       now.Unix(),
		"jti":       "token-id-123",
		"client_id": "svc",
		"scp":       []string{"api:read", "api:write"},
	}
}

func newTestValidator(t *testing.T) (*Validator, *mockKeySource) {
	t.Helper()
	keys := newMockKeySource()
	keys.addKey(testKeyID, &testRSAKey(t).PublicKey)
	return NewValidator(keys, testAudience, testIssuer, time.Minute), keys
}

func TestValidator_ValidateToken_Success(t *testing.T) {
	t.Parallel()

	validator, _ := newTestValidator(t)
	tokenString := signToken(t, jwt.SigningMethodRS256, testRSAKey(t), testKeyID, validClaims())

	claims, err := validator.ValidateToken(context.Background(), tokenString)
	require.NoError(t, err)

	assert.Equal(t, "svc", claims.Subject)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Equal(t, []string{testAudience}, claims.Audience)
	assert.Equal(t, []string{"api:read", "api:write"}, claims.Scopes)
	assert.Equal(t, "svc", claims.ClientID)
	assert.Equal(t, "token-id-123", claims.JTI)
	assert.False(t, claims.ExpiresAt.IsZero())
	assert.False(t, claims.IssuedAt.IsZero())
}

func TestValidator_ValidateToken_ScopeClaimForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c jwt.MapClaims)
		want   []string
	}{
		{
			name:   "scp array",
			mutate: func(jwt.MapClaims) {},
			want:   []string{"api:read", "api:write"},
		},
		{
			name: "scp string",
			mutate: func(c jwt.MapClaims) {
				c["scp"] = "api:read api:write"
			},
			want: []string{"api:read", "api:write"},
		},
		{
			name: "space separated scope",
			mutate: func(c jwt.MapClaims) {
				delete(c, "scp")
				c["scope"] = "api:read  api:write "
			},
			want: []string{"api:read", "api:write"},
		},
		{
			name: "no scopes",
			mutate: func(c jwt.MapClaims) {
				delete(c, "scp")
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			validator, _ := newTestValidator(t)
			claims := validClaims()
			tt.mutate(claims)

			got, err := validator.ValidateToken(context.Background(),
				signToken(t, jwt.SigningMethodRS256, testRSAKey(t), testKeyID, claims))
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got.Scopes)
				return
			}
			assert.Equal(t, tt.want, got.Scopes)
		})
	}
}

func TestValidator_ValidateToken_Rejections(t *testing.T) {
	t.Parallel()

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tests := []struct {
		name        string
		token       func(t *testing.T) string
		errContains string
	}{
		{
			name:        "malformed token",
			token:       func(*testing.T) string { return "not.a.jwt" },
			errContains: "failed to parse token",
		},
		{
			name: "expired token",
			token: func(t *testing.T) string {
				c := validClaims()
				c["exp"] = time.Now().Add(-time.Hour).Unix()
				return signToken(t, jwt.SigningMethodRS256, testRSAKey(t), testKeyID, c)
			},
			errContains: "expired",
		},
		{
			name: "wrong audience",
			token: func(t *testing.T) string {
				c := validClaims()
				c["aud"] = []string{"https://other.example.com"}
				return signToken(t, jwt.SigningMethodRS256, testRSAKey(t), testKeyID, c)
			},
			errContains: "invalid audience",
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				c := validClaims()
				c["iss"] = "https://evil.example.com"
				return signToken(t, jwt.SigningMethodRS256, testRSAKey(t), testKeyID, c)
			},
			errContains: "invalid issuer",
		},
		{
			name: "HMAC algorithm",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte("secret"), testKeyID, validClaims())
			},
			errContains: "unsupported algorithm",
		},
		{
			name: "missing kid",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodRS256, testRSAKey(t), "", validClaims())
			},
			errContains: "missing kid",
		},
		{
			name: "unknown kid",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodRS256, testRSAKey(t), "unknown", validClaims())
			},
			errContains: "key not found",
		},
		{
			name: "signed by another key",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodRS256, otherKey, testKeyID, validClaims())
			},
			errContains: "unauthorized",
		},
		{
			name: "missing subject",
			token: func(t *testing.T) string {
				c := validClaims()
				delete(c, "sub")
				return signToken(t, jwt.SigningMethodRS256, testRSAKey(t), testKeyID, c)
			},
			errContains: "missing claim: sub",
		},
		{
			name: "missing issuer",
			token: func(t *testing.T) string {
				c := validClaims()
				delete(c, "iss")
				return signToken(t, jwt.SigningMethodRS256, testRSAKey(t), testKeyID, c)
			},
			errContains: "missing claim: iss",
		},
		{
			name: "missing audience",
			token: func(t *testing.T) string {
				c := validClaims()
				delete(c, "aud")
				return signToken(t, jwt.SigningMethodRS256, testRSAKey(t), testKeyID, c)
			},
			errContains: "missing claim: aud",
		},
		{
			name: "missing expiry",
			token: func(t *testing.T) string {
				c := validClaims()
				delete(c, "exp")
				return signToken(t, jwt.SigningMethodRS256, testRSAKey(t), testKeyID, c)
			},
			errContains: "missing claim: exp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			validator, _ := newTestValidator(t)

			claims, err := validator.ValidateToken(context.Background(), tt.token(t))
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ierrors.ErrUnauthorized)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestValidator_ValidateToken_ClockSkew(t *testing.T) {
	t.Parallel()

	validator, _ := newTestValidator(t)
	claims := validClaims()
	claims["exp"] = time.Now().Add(-30 * time.Second).Unix()

	_, err := validator.ValidateToken(context.Background(),
		signToken(t, jwt.SigningMethodRS256, testRSAKey(t), testKeyID, claims))
	assert.NoError(t, err, "token within leeway should be accepted")
}

func TestValidator_ValidateToken_NoIssuerCheck(t *testing.T) {
	t.Parallel()

	keys := newMockKeySource()
	keys.addKey(testKeyID, &testRSAKey(t).PublicKey)
	validator := NewValidator(keys, testAudience, "", time.Minute)

	claims := validClaims()
	claims["iss"] = "https://any.example.com"

	got, err := validator.ValidateToken(context.Background(),
		signToken(t, jwt.SigningMethodRS256, testRSAKey(t), testKeyID, claims))
	require.NoError(t, err)
	assert.Equal(t, "https://any.example.com", got.Issuer)
}

func TestValidator_ValidateToken_MultipleAudiences(t *testing.T) {
	t.Parallel()

	validator, _ := newTestValidator(t)
	claims := validClaims()
	claims["aud"] = []string{"https://other.example.com", testAudience}

	got, err := validator.ValidateToken(context.Background(),
		signToken(t, jwt.SigningMethodRS256, testRSAKey(t), testKeyID, claims))
	require.NoError(t, err)
	assert.Len(t, got.Audience, 2)
}

func TestValidator_ValidateToken_ECDSA(t *testing.T) {
	t.Parallel()

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	keys := newMockKeySource()
	keys.addKey("ec", &ecKey.PublicKey)
	validator := NewValidator(keys, testAudience, testIssuer, time.Minute)

	_, err = validator.ValidateToken(context.Background(),
		signToken(t, jwt.SigningMethodES256, ecKey, "ec", validClaims()))
	assert.NoError(t, err)
}

func TestValidator_ValidateToken_KeySourceError(t *testing.T) {
	t.Parallel()

	validator, keys := newTestValidator(t)
	keys.err = errors.New("key store offline")

	_, err := validator.ValidateToken(context.Background(),
		signToken(t, jwt.SigningMethodRS256, testRSAKey(t), testKeyID, validClaims()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key store offline")
	assert.Equal(t, 1, keys.calls)
}

func TestParseScopes(t *testing.T) {
	t.Parallel()

	assert.Empty(t, parseScopes(""))
	assert.Empty(t, parseScopes("   "))
	assert.Equal(t, []string{"a"}, parseScopes("a"))
	assert.Equal(t, []string{"a", "b"}, parseScopes(" a  b "))
}

func BenchmarkValidator_ValidateToken(b *testing.B) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		b.Fatal(err)
	}
	keys := newMockKeySource()
	keys.addKey(testKeyID, &key.PublicKey)
	validator := NewValidator(keys, testAudience, testIssuer, time.Minute)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, validClaims())
	token.Header["kid"] = testKeyID
	tokenString, err := token.SignedString(key)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = validator.ValidateToken(context.Background(), tokenString)
	}
}
