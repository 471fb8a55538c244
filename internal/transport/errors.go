package transport

import (
	"github.com/jamesprial/oauth-response/internal/transport/transportcore"
)

var (
	// ErrMissingToken indicates the request carried no bearer credentials.
	ErrMissingToken = transportcore.ErrMissingToken

	// ErrInvalidToken indicates the Authorization header is not a Bearer token.
	ErrInvalidToken = transportcore.ErrInvalidToken

	// ErrInsufficientScope indicates the token lacks required scope(s).
	ErrInsufficientScope = transportcore.ErrInsufficientScope
)
