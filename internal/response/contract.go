package response

import (
	"errors"
	"net/http"
	"net/url"

	ierrors "github.com/jamesprial/oauth-response/internal/errors"
	"github.com/jamesprial/oauth-response/pkg/oauth"
)

// WebResponse is the set of operations OAuth endpoint logic needs from a
// response, independent of the web framework that eventually sends it.
type WebResponse interface {
	// OK marks the response as 200 OK.
	OK() error

	// Redirect marks the response as 302 Found with the given Location.
	Redirect(u *url.URL) error

	// ClientError marks the response as 400 Bad Request.
	ClientError() error

	// Unauthorized marks the response as 401 and appends kind as a
	// WWW-Authenticate challenge.
	Unauthorized(kind string) error

	// BodyText sets a text/plain body.
	BodyText(text string) error

	// BodyJSON sets an application/json body. The string must already be encoded JSON.
	BodyJSON(json string) error
}

var _ WebResponse = (*Response)(nil)

// OK implements WebResponse.
func (r *Response) OK() error {
	return r.SetStatus(http.StatusOK)
}

// Redirect implements WebResponse.
func (r *Response) Redirect(u *url.URL) error {
	if u == nil {
		return ierrors.New(domainResponse, "Redirect", ErrEncodeResponse, errors.New("nil redirect url"))
	}
	if err := r.SetStatus(http.StatusFound); err != nil {
		return err
	}
	return r.AddHeader(oauth.HeaderLocation, u.String())
}

// ClientError implements WebResponse.
func (r *Response) ClientError() error {
	return r.SetStatus(http.StatusBadRequest)
}

// Unauthorized implements WebResponse.
func (r *Response) Unauthorized(kind string) error {
	if err := r.SetStatus(http.StatusUnauthorized); err != nil {
		return err
	}
	return r.AddHeader(oauth.HeaderWWWAuthenticate, kind)
}

// BodyText implements WebResponse.
func (r *Response) BodyText(text string) error {
	r.setBody(text)
	return r.setHeader("BodyText", oauth.HeaderContentType, oauth.ContentTypeText)
}

// BodyJSON implements WebResponse.
func (r *Response) BodyJSON(json string) error {
	r.setBody(json)
	return r.setHeader("BodyJSON", oauth.HeaderContentType, oauth.ContentTypeJSON)
}
