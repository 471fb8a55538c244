package response

import "net/http"

var _ http.ResponseWriter = (*Response)(nil)

// WriteHeader records the status code. As with net/http only the first call
// has effect; invalid codes are ignored.
func (r *Response) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	if err := r.SetStatus(code); err != nil {
		return
	}
	r.wroteHeader = true
}

// Write appends p to the body. If WriteHeader has not been called, the
// current status (200 unless set through SetStatus or the WebResponse
// methods) is recorded as the written one.
func (r *Response) Write(p []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(r.Status())
	}
	r.hasBody = true
	r.body = append(r.body, p...)
	return len(p), nil
}
