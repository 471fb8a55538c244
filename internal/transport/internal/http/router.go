package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jamesprial/oauth-response/internal/transport/transportcore"
)

// probeMethods are the methods checked when building an Allow header.
var probeMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// router implements transportcore.Router using chi.
type router struct {
	mux       *chi.Mux
	responder transportcore.Responder
}

// NewRouter creates a new HTTP router backed by chi. Unknown paths and
// unsupported methods are rendered through the responder as JSON errors.
func NewRouter(responder transportcore.Responder) transportcore.Router {
	r := &router{
		mux:       chi.NewRouter(),
		responder: responder,
	}
	r.mux.NotFound(r.notFound)
	r.mux.MethodNotAllowed(r.methodNotAllowed)
	return r
}

// Handle registers a handler for the given pattern. A "METHOD /path"
// pattern restricts the route to that method.
func (r *router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

// HandleFunc registers a handler function for the given pattern.
func (r *router) HandleFunc(pattern string, handler http.HandlerFunc) {
	r.Handle(pattern, handler)
}

// Use appends middleware to the stack. The first middleware registered is
// the outermost layer. Like chi, it panics once a route has been registered.
func (r *router) Use(middlewares ...transportcore.Middleware) {
	for _, mw := range middlewares {
		r.mux.Use(mw)
	}
}

// ServeHTTP implements http.Handler by delegating to chi.
func (r *router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *router) notFound(w http.ResponseWriter, req *http.Request) {
	r.responder.NotFound().ServeHTTP(w, req)
}

func (r *router) methodNotAllowed(w http.ResponseWriter, req *http.Request) {
	r.responder.MethodNotAllowed(r.allowedMethods(req.URL.Path)).ServeHTTP(w, req)
}

// allowedMethods lists the methods with a route matching path.
func (r *router) allowedMethods(path string) []string {
	var allowed []string
	for _, method := range probeMethods {
		if r.mux.Match(chi.NewRouteContext(), method, path) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}
