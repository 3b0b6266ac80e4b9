package http

import (
	"net/http"
	"strings"
	"sync"
)

const maxMemory = 32 << 20 // 32 MB

// WebRequest adapts *http.Request to Request, with a few Laravel-style
// input helpers on top.
type WebRequest struct {
	raw         *http.Request
	contextPath string

	parseOnce sync.Once
}

var _ Request = (*WebRequest)(nil)

// NewRequest wraps a standard *http.Request served under contextPath.
func NewRequest(r *http.Request, contextPath string) *WebRequest {
	return &WebRequest{raw: r, contextPath: contextPath}
}

// Raw returns the underlying *http.Request.
func (req *WebRequest) Raw() *http.Request { return req.raw }

// ── Request ──────────────────────────────────────────────────────────────────

// URI returns the request path, context prefix included.
func (req *WebRequest) URI() string { return req.raw.URL.Path }

// ContextPath returns the prefix the application is served under.
func (req *WebRequest) ContextPath() string { return req.contextPath }

// Params returns query string and form values merged, query first.
func (req *WebRequest) Params() map[string][]string {
	req.parse()
	return req.raw.Form
}

func (req *WebRequest) parse() {
	req.parseOnce.Do(func() {
		if strings.HasPrefix(req.ContentType(), "multipart/form-data") {
			_ = req.raw.ParseMultipartForm(maxMemory)
			return
		}
		_ = req.raw.ParseForm()
	})
}

// ── Input helpers ────────────────────────────────────────────────────────────

// Input returns a single input value (query string OR post body).
func (req *WebRequest) Input(key string, fallback ...string) string {
	v, ok := First(req.Params(), key)
	if (!ok || v == "") && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// Has returns true if the key is present and non-empty.
func (req *WebRequest) Has(key string) bool {
	return req.Input(key) != ""
}

// Header returns a request header value.
func (req *WebRequest) Header(key string) string {
	return req.raw.Header.Get(key)
}

// Method returns the HTTP method.
func (req *WebRequest) Method() string { return req.raw.Method }

// ContentType returns the Content-Type header value.
func (req *WebRequest) ContentType() string {
	return req.raw.Header.Get("Content-Type")
}
