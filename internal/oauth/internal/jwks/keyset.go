// Package jwks holds the authorization server's signing key and serves its
// public half as a JSON Web Key Set.
package jwks

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/go-jose/go-jose/v4"
	"github.com/jamesprial/oauth-response/internal/oauth/oautherr"
)

// rsaKeyBits is the modulus size of generated signing keys.
const rsaKeyBits = 2048

// KeySet is an in-memory set of signing keys. The first key signs new tokens;
// every key remains available for verification.
// It is safe for concurrent use by multiple goroutines.
type KeySet struct {
	mu      sync.RWMutex
	signing *jose.JSONWebKey
	keys    map[string]jose.JSONWebKey
}

// NewKeySet creates a key set whose signing key is signer. An empty keyID is
// derived from the RFC 7638 thumbprint of the public key.
func NewKeySet(signer crypto.Signer, keyID string) (*KeySet, error) {
	if signer == nil {
		return nil, oautherr.NewKeyLoadError("NewKeySet", fmt.Errorf("signer cannot be nil"))
	}

	alg, err := DeriveAlgorithm(signer)
	if err != nil {
		return nil, oautherr.NewKeyLoadError("NewKeySet", err)
	}

	if keyID == "" {
		keyID, err = DeriveKeyID(signer)
		if err != nil {
			return nil, oautherr.NewKeyLoadError("NewKeySet", err)
		}
	}

	jwk := jose.JSONWebKey{
		Key:       signer,
		KeyID:     keyID,
		Algorithm: alg,
		Use:       "sig",
	}

	return &KeySet{
		signing: &jwk,
		keys:    map[string]jose.JSONWebKey{keyID: jwk},
	}, nil
}

// Generate creates a key set around a freshly generated RSA key.
func Generate(keyID string) (*KeySet, error) {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, oautherr.NewKeyLoadError("Generate", err)
	}
	return NewKeySet(key, keyID)
}

// SigningKey returns the private JWK used to sign new tokens.
func (s *KeySet) SigningKey() jose.JSONWebKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return *s.signing
}

// Add registers an additional verification key, e.g. one being rotated out.
func (s *KeySet) Add(key jose.JSONWebKey) error {
	if key.KeyID == "" {
		return oautherr.NewKeyLoadError("Add", fmt.Errorf("key ID is required"))
	}
	if !key.Valid() {
		return oautherr.NewKeyLoadError("Add", fmt.Errorf("key %q is not valid", key.KeyID))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[key.KeyID] = key
	return nil
}

// GetKey returns the public key for the given key ID, suitable for JWT
// signature verification.
func (s *KeySet) GetKey(_ context.Context, keyID string) (any, error) {
	if keyID == "" {
		return nil, oautherr.NewKeyNotFoundError("GetKey", "key ID is required")
	}

	s.mu.RLock()
	key, ok := s.keys[keyID]
	s.mu.RUnlock()

	if !ok {
		return nil, oautherr.NewKeyNotFoundError("GetKey", keyID)
	}
	return key.Public().Key, nil
}

// PublicJWKS returns a copy of the set containing only public keys.
func (s *KeySet) PublicJWKS() *jose.JSONWebKeySet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := &jose.JSONWebKeySet{
		Keys: make([]jose.JSONWebKey, 0, len(s.keys)),
	}

	// Signing key first so clients that only read keys[0] pick the current one.
	set.Keys = append(set.Keys, s.signing.Public())
	for kid, key := range s.keys {
		if kid == s.signing.KeyID {
			continue
		}
		set.Keys = append(set.Keys, key.Public())
	}
	return set
}

// DeriveKeyID computes a key ID from the public key using the RFC 7638 JWK
// thumbprint, base64url-encoded without padding.
func DeriveKeyID(key crypto.Signer) (string, error) {
	jwk := jose.JSONWebKey{Key: key.Public()}

	thumbprint, err := jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", fmt.Errorf("failed to compute key thumbprint: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(thumbprint), nil
}
