package response

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	ierrors "github.com/jamesprial/oauth-response/internal/errors"
)

// WriteTo renders the response onto w: every header value (values of one
// name keep their order), then the status, then the body (empty when unset).
//
// The descriptor is not consumed and may be written again.
func (r *Response) WriteTo(w http.ResponseWriter) error {
	dst := w.Header()
	for name, values := range r.header {
		for _, v := range values {
			dst.Add(name, v)
		}
	}
	w.WriteHeader(r.Status())

	if len(r.body) == 0 {
		return nil
	}
	if _, err := w.Write(r.body); err != nil {
		return ierrors.New(domainResponse, "WriteTo", ErrEncodeResponse, err)
	}
	return nil
}

// ServeHTTP makes a Response usable as a static http.Handler. Write
// failures go to slog.Default; use AdaptWithLogger to route them elsewhere.
func (r *Response) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	r.serve(w, slog.Default())
}

func (r *Response) serve(w http.ResponseWriter, logger *slog.Logger) {
	if err := r.WriteTo(w); err != nil {
		logger.Warn("failed to write response", "error", err)
	}
}

// HandlerFunc is an endpoint that returns a descriptor instead of writing one.
type HandlerFunc func(r *http.Request) (*Response, error)

// Adapt is AdaptWithLogger using slog.Default.
func Adapt(h HandlerFunc) http.HandlerFunc {
	return AdaptWithLogger(slog.Default(), h)
}

// AdaptWithLogger converts a descriptor-returning endpoint into an
// http.HandlerFunc. A returned error is logged to logger and rendered as a
// plain-text 500. A nil logger falls back to slog.Default.
func AdaptWithLogger(logger *slog.Logger, h HandlerFunc) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(req)
		if err != nil {
			attrs := []any{"error", err, "method", req.Method, "path", req.URL.Path}
			if de, ok := ierrors.As(err); ok {
				attrs = append(attrs, de.LogAttrs()...)
			}
			logger.Error("handler failed", attrs...)
			resp = internalError()
		}
		if resp == nil {
			resp = New()
		}
		resp.serve(w, logger)
	}
}

func internalError() *Response {
	resp := New()
	_ = resp.SetStatus(http.StatusInternalServerError)
	_ = resp.BodyText(http.StatusText(http.StatusInternalServerError))
	return resp
}

// FromHTTPResponse converts a framework response back into a descriptor.
// The body is fully read and closed.
func FromHTTPResponse(res *http.Response) (*Response, error) {
	if res == nil {
		return nil, ierrors.New(domainResponse, "FromHTTPResponse", ierrors.ErrBadRequest,
			fmt.Errorf("nil response"))
	}

	resp := &Response{
		status: res.StatusCode,
		header: res.Header.Clone(),
	}
	if resp.header == nil {
		resp.header = make(http.Header)
	}

	if res.Body != nil {
		defer func() { _ = res.Body.Close() }()
		body, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, ierrors.New(domainResponse, "FromHTTPResponse", ierrors.ErrInternal, err)
		}
		resp.body = body
	}
	resp.hasBody = true
	return resp, nil
}

// FromParts builds a descriptor from an already-rendered status, header set
// and body, such as the fields of an httptest.ResponseRecorder. The header
// and body are copied and the body counts as set.
func FromParts(code int, header http.Header, body []byte) *Response {
	resp := &Response{
		status:  code,
		header:  header.Clone(),
		hasBody: true,
	}
	if resp.header == nil {
		resp.header = make(http.Header)
	}
	if body != nil {
		resp.body = append([]byte(nil), body...)
	}
	return resp
}
