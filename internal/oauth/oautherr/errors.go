// Package oautherr provides constructors for OAuth domain errors.
// It is separate from internal/oauth so the internal packages can create
// errors without an import cycle.
package oautherr

import (
	"fmt"

	ierrors "github.com/jamesprial/oauth-response/internal/errors"
)

// Domain identifier for OAuth errors.
const domainOAuth = "oauth"

// NewInvalidTokenError creates a DomainError for an invalid access token.
func NewInvalidTokenError(op string, err error) *ierrors.DomainError {
	return ierrors.New(domainOAuth, op, ierrors.ErrUnauthorized, err).
		WithContext("oauth_error", ierrors.ErrorCodeInvalidToken)
}

// NewInsufficientScopeError creates a DomainError for insufficient scope.
func NewInsufficientScopeError(op string, required []string) *ierrors.DomainError {
	return ierrors.New(domainOAuth, op, ierrors.ErrForbidden, fmt.Errorf("insufficient_scope")).
		WithContext("oauth_error", ierrors.ErrorCodeInsufficientScope).
		WithContext("required_scopes", required)
}

// NewInvalidAudienceError creates a DomainError for an audience mismatch.
func NewInvalidAudienceError(op string, expected string, actual []string) *ierrors.DomainError {
	return ierrors.New(domainOAuth, op, ierrors.ErrUnauthorized, fmt.Errorf("invalid audience")).
		WithContext("oauth_error", ierrors.ErrorCodeInvalidToken).
		WithContext("expected_audience", expected).
		WithContext("actual_audience", actual)
}

// NewInvalidIssuerError creates a DomainError for an issuer mismatch.
func NewInvalidIssuerError(op string, expected, actual string) *ierrors.DomainError {
	return ierrors.New(domainOAuth, op, ierrors.ErrUnauthorized, fmt.Errorf("invalid issuer")).
		WithContext("oauth_error", ierrors.ErrorCodeInvalidToken).
		WithContext("expected_issuer", expected).
		WithContext("actual_issuer", actual)
}

// NewTokenExpiredError creates a DomainError for an expired token.
func NewTokenExpiredError(op string, err error) *ierrors.DomainError {
	return ierrors.New(domainOAuth, op, ierrors.ErrUnauthorized, err).
		WithContext("oauth_error", ierrors.ErrorCodeInvalidToken).
		WithContext("reason", "token_expired")
}

// NewInvalidSignatureError creates a DomainError for signature verification failure.
func NewInvalidSignatureError(op string, err error) *ierrors.DomainError {
	return ierrors.New(domainOAuth, op, ierrors.ErrUnauthorized, err).
		WithContext("oauth_error", ierrors.ErrorCodeInvalidToken).
		WithContext("reason", "invalid_signature")
}

// NewUnsupportedAlgorithmError creates a DomainError for a signing algorithm
// outside the allow list.
func NewUnsupportedAlgorithmError(op string, algorithm string) *ierrors.DomainError {
	return ierrors.New(domainOAuth, op, ierrors.ErrUnauthorized, fmt.Errorf("unsupported algorithm")).
		WithContext("oauth_error", ierrors.ErrorCodeInvalidToken).
		WithContext("algorithm", algorithm)
}

// NewMissingClaimError creates a DomainError for a missing JWT claim.
func NewMissingClaimError(op string, claim string) *ierrors.DomainError {
	return ierrors.New(domainOAuth, op, ierrors.ErrUnauthorized, fmt.Errorf("missing claim: %s", claim)).
		WithContext("oauth_error", ierrors.ErrorCodeInvalidToken).
		WithContext("missing_claim", claim)
}

// NewKeyNotFoundError creates a DomainError for an unknown key ID.
func NewKeyNotFoundError(op string, keyID string) *ierrors.DomainError {
	return ierrors.New(domainOAuth, op, ierrors.ErrUnauthorized, fmt.Errorf("key not found")).
		WithContext("oauth_error", ierrors.ErrorCodeInvalidToken).
		WithContext("key_id", keyID)
}

// NewKeyLoadError creates a DomainError for a signing key that could not be
// loaded, parsed or generated.
func NewKeyLoadError(op string, err error) *ierrors.DomainError {
	return ierrors.New(domainOAuth, op, ierrors.ErrInternal, fmt.Errorf("signing key: %w", err))
}

// NewProviderError creates a DomainError for an authorization server that
// could not be configured.
func NewProviderError(op string, err error) *ierrors.DomainError {
	return ierrors.New(domainOAuth, op, ierrors.ErrInternal, err)
}
