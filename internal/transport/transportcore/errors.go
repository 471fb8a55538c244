package transportcore

import (
	"errors"
)

// Sentinel errors for bearer authentication. Wrap them in a DomainError from
// internal/errors when more context is needed.
var (
	// ErrMissingToken indicates the request carried no bearer credentials.
	ErrMissingToken = errors.New("missing authorization token")

	// ErrInvalidToken indicates the Authorization header is not a Bearer token.
	ErrInvalidToken = errors.New("invalid authorization token")

	// ErrInsufficientScope indicates the token lacks required scope(s).
	ErrInsufficientScope = errors.New("insufficient scope")
)
