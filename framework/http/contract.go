package http

import (
	"encoding/json"
	"io"
	"net/http"
)

// Request is what the dispatcher needs from an inbound request: the full
// path, the context prefix to strip from it and the parameter map.
type Request interface {
	URI() string
	ContextPath() string
	Params() map[string][]string
}

// Response is the outbound body sink.
type Response interface {
	io.Writer
}

// StatusWriter is implemented by responses that carry a status code.
type StatusWriter interface {
	WriteHeader(code int)
}

// HeaderWriter is implemented by responses that carry headers.
type HeaderWriter interface {
	Header() http.Header
}

// NotFoundBody is written for every path without a route.
const NotFoundBody = "404 Not Found"

// NotFound writes the plain-text 404 body, with status 404 when resp
// supports status codes.
func NotFound(resp Response) {
	if h, ok := resp.(HeaderWriter); ok {
		h.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	if s, ok := resp.(StatusWriter); ok {
		s.WriteHeader(http.StatusNotFound)
	}
	_, _ = io.WriteString(resp, NotFoundBody)
}

// WriteJSON encodes v onto resp, setting the content type and status when
// resp supports them.
func WriteJSON(resp Response, status int, v any) error {
	if h, ok := resp.(HeaderWriter); ok {
		h.Header().Set("Content-Type", "application/json")
	}
	if s, ok := resp.(StatusWriter); ok {
		s.WriteHeader(status)
	}
	return json.NewEncoder(resp).Encode(v)
}

// First returns the first value of name in params.
func First(params map[string][]string, name string) (string, bool) {
	vals, ok := params[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}
