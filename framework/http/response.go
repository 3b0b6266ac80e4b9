package http

import (
	"net/http"

	"github.com/km-arc/go-mvc/framework/http/validation"
)

// ── WebResponse ──────────────────────────────────────────────────────────────

// WebResponse adapts http.ResponseWriter to Response and remembers the
// status it wrote. It is itself an http.ResponseWriter, so handlers asking
// for the raw writer still go through the status bookkeeping.
type WebResponse struct {
	w       http.ResponseWriter
	status  int
	written int
}

var (
	_ Response     = (*WebResponse)(nil)
	_ StatusWriter = (*WebResponse)(nil)
	_ HeaderWriter = (*WebResponse)(nil)

	_ http.ResponseWriter = (*WebResponse)(nil)
)

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *WebResponse {
	return &WebResponse{w: w}
}

// Unwrap returns the underlying ResponseWriter, for http.ResponseController.
func (res *WebResponse) Unwrap() http.ResponseWriter { return res.w }

func (res *WebResponse) Header() http.Header { return res.w.Header() }

// WriteHeader sends status once; later calls are ignored.
func (res *WebResponse) WriteHeader(status int) {
	if res.status != 0 {
		return
	}
	res.status = status
	res.w.WriteHeader(status)
}

func (res *WebResponse) Write(p []byte) (int, error) {
	if res.status == 0 {
		res.status = http.StatusOK
	}
	n, err := res.w.Write(p)
	res.written += n
	return n, err
}

// WriteString writes s as the body.
func (res *WebResponse) WriteString(s string) (int, error) {
	return res.Write([]byte(s))
}

// Status returns the status written so far, 0 if none.
func (res *WebResponse) Status() int { return res.status }

// Written returns the number of body bytes written.
func (res *WebResponse) Written() int { return res.written }

// ── JSON helpers ─────────────────────────────────────────────────────────────

// JSON sends a JSON response.
//
//	res.JSON(http.StatusOK, map[string]any{"message": "ok"})
func (res *WebResponse) JSON(status int, data any) {
	_ = WriteJSON(res, status, data)
}

// Success sends 200 JSON: {"data": v}
func (res *WebResponse) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Error sends a JSON error response.
//
//	res.Error(http.StatusBadRequest, "bad input")
func (res *WebResponse) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// ValidationError sends 422 with the error bag.
func (res *WebResponse) ValidationError(errors *validation.Errors) {
	res.JSON(http.StatusUnprocessableEntity, errors)
}

type envelope map[string]any
