package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jamesprial/oauth-response/internal/transport/transportcore"
)

// NewRecoveryMiddleware creates middleware that turns a handler panic into
// a logged stack trace and a 500 descriptor. http.ErrAbortHandler is
// re-raised so net/http can abort the connection.
// If logger is nil, it uses the default slog logger.
func NewRecoveryMiddleware(responder transportcore.Responder, logger *slog.Logger) transportcore.Middleware {
	if responder == nil {
		panic("responder cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler { //nolint:errorlint // sentinel compared by identity
					panic(recovered)
				}

				logger.Error("panic recovered",
					"panic", recovered,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				responder.InternalError(fmt.Errorf("panic: %v", recovered)).ServeHTTP(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
