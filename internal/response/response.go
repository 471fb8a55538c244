// Package response provides a framework-agnostic HTTP response descriptor
// and the conversions between it and net/http.
//
// A Response is what OAuth endpoint code produces: a status code, a header
// multimap and a body. fosite writes into one through its
// http.ResponseWriter implementation, hand-written handlers drive it through
// the WebResponse contract, and WriteTo renders it onto whatever
// http.ResponseWriter the router (chi) hands the handler.
package response

import (
	"fmt"
	"net/http"

	ierrors "github.com/jamesprial/oauth-response/internal/errors"
	"github.com/jamesprial/oauth-response/pkg/oauth"
	"golang.org/x/net/http/httpguts"
)

const domainResponse = "response"

// ErrEncodeResponse is the kind of every error returned while building or
// writing a Response: invalid header names or values, out-of-range status
// codes, a nil redirect target and failed body writes.
var ErrEncodeResponse = ierrors.ErrEncode

// Response is a generic response descriptor.
//
// The zero value is usable: it reads as a 200 with no headers and an empty body.
type Response struct {
	status  int
	header  http.Header
	body    []byte
	hasBody bool

	// wroteHeader tracks the http.ResponseWriter "first WriteHeader wins" rule.
	wroteHeader bool
}

// New returns an empty 200 response.
func New() *Response {
	return &Response{
		status: http.StatusOK,
		header: make(http.Header),
	}
}

// Status returns the status code, defaulting to 200.
func (r *Response) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// Header returns the header multimap. Mutations are visible to the response,
// which is also what makes Response an http.ResponseWriter.
func (r *Response) Header() http.Header {
	if r.header == nil {
		r.header = make(http.Header)
	}
	return r.header
}

// Body returns the body, or "" when none was set.
func (r *Response) Body() string {
	return string(r.body)
}

// HasBody reports whether a body was set, even an empty one.
func (r *Response) HasBody() bool {
	return r.hasBody
}

// AddHeader appends a header value. Existing values for the same name are kept.
func (r *Response) AddHeader(name, value string) error {
	if !httpguts.ValidHeaderFieldName(name) {
		return ierrors.New(domainResponse, "AddHeader", ErrEncodeResponse,
			fmt.Errorf("invalid header name %q", name)).
			WithContext("header", name)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return ierrors.New(domainResponse, "AddHeader", ErrEncodeResponse,
			fmt.Errorf("invalid value for header %q", name)).
			WithContext("header", name)
	}
	r.Header().Add(name, value)
	return nil
}

// setHeader replaces all values of a header after validating the value.
func (r *Response) setHeader(op, name, value string) error {
	if !httpguts.ValidHeaderFieldValue(value) {
		return ierrors.New(domainResponse, op, ErrEncodeResponse,
			fmt.Errorf("invalid value for header %q", name)).
			WithContext("header", name)
	}
	r.Header().Set(name, value)
	return nil
}

// SetStatus sets the status code. Codes outside 100..999 are rejected.
func (r *Response) SetStatus(code int) error {
	if code < 100 || code > 999 {
		return ierrors.New(domainResponse, "SetStatus", ErrEncodeResponse,
			fmt.Errorf("invalid status code %d", code)).
			WithContext("status", code)
	}
	r.status = code
	return nil
}

// WithContentType sets the Content-Type header and returns the response for chaining.
func (r *Response) WithContentType(contentType string) (*Response, error) {
	if err := r.setHeader("WithContentType", oauth.HeaderContentType, contentType); err != nil {
		return nil, err
	}
	return r, nil
}

// WithBody replaces the body and returns the response for chaining.
func (r *Response) WithBody(body string) *Response {
	r.setBody(body)
	return r
}

func (r *Response) setBody(body string) {
	r.body = []byte(body)
	r.hasBody = true
}

// Clone returns a deep copy of the response.
func (r *Response) Clone() *Response {
	return &Response{
		status:      r.status,
		header:      r.Header().Clone(),
		body:        append([]byte(nil), r.body...),
		hasBody:     r.hasBody,
		wroteHeader: r.wroteHeader,
	}
}

// String returns a compact debug representation.
func (r *Response) String() string {
	return fmt.Sprintf("Response{Status: %d, Header: %v, Body: %d bytes}",
		r.Status(), r.header, len(r.body))
}
