package http

import (
	"bytes"
	"net/http"
)

// StaticRequest is a Request built from plain values, for transports other
// than net/http and for tests.
type StaticRequest struct {
	Path    string
	Context string
	Values  map[string][]string
}

var _ Request = StaticRequest{}

func (r StaticRequest) URI() string                 { return r.Path }
func (r StaticRequest) ContextPath() string         { return r.Context }
func (r StaticRequest) Params() map[string][]string { return r.Values }

// BufferResponse collects the body and status in memory. Like net/http,
// the first write implies status 200.
type BufferResponse struct {
	bytes.Buffer
	Code    int
	Headers http.Header
}

var (
	_ Response     = (*BufferResponse)(nil)
	_ StatusWriter = (*BufferResponse)(nil)
	_ HeaderWriter = (*BufferResponse)(nil)
)

func (r *BufferResponse) Write(p []byte) (int, error) {
	r.WriteHeader(http.StatusOK)
	return r.Buffer.Write(p)
}

func (r *BufferResponse) WriteString(s string) (int, error) {
	r.WriteHeader(http.StatusOK)
	return r.Buffer.WriteString(s)
}

// WriteHeader records the first status; later calls are ignored.
func (r *BufferResponse) WriteHeader(code int) {
	if r.Code == 0 {
		r.Code = code
	}
}

func (r *BufferResponse) Header() http.Header {
	if r.Headers == nil {
		r.Headers = make(http.Header)
	}
	return r.Headers
}
