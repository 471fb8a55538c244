package jwks

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/jamesprial/oauth-response/internal/oauth/oautherr"
)

// Load builds a key set from a PEM file, or generates a fresh RSA key when
// path is empty.
func Load(path, keyID string) (*KeySet, error) {
	if path == "" {
		return Generate(keyID)
	}

	signer, err := LoadSigningKey(path)
	if err != nil {
		return nil, oautherr.NewKeyLoadError("Load", err).WithContext("path", path)
	}
	return NewKeySet(signer, keyID)
}

// LoadSigningKey loads a private key from a PEM file.
// RSA keys may be PKCS1 or PKCS8; EC keys may be SEC 1 or PKCS8.
func LoadSigningKey(path string) (crypto.Signer, error) {
	keyPEM, err := os.ReadFile(path) // #nosec G304 - path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read signing key: %w", err)
	}
	return ParseSigningKey(keyPEM)
}

// ParseSigningKey decodes the first PEM block in keyPEM into a signer.
func ParseSigningKey(keyPEM []byte) (crypto.Signer, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block from signing key")
	}

	if rsaKey, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return rsaKey, nil
	}

	if ecKey, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return ecKey, nil
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}

	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("signing key does not implement crypto.Signer")
	}
	return signer, nil
}

// DeriveAlgorithm returns the JWS algorithm matching the key type.
func DeriveAlgorithm(key crypto.Signer) (string, error) {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		return "RS256", nil
	case *ecdsa.PrivateKey:
		switch k.Curve {
		case elliptic.P256():
			return "ES256", nil
		case elliptic.P384():
			return "ES384", nil
		case elliptic.P521():
			return "ES512", nil
		default:
			return "", fmt.Errorf("unsupported EC curve: %s", k.Curve.Params().Name)
		}
	default:
		return "", fmt.Errorf("unsupported key type: %T", key)
	}
}
