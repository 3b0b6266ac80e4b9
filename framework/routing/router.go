package routing

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Router is the net/http front of the application: a chi mux carrying the
// middleware stack, fixed endpoints such as /readyz, and a fallback that
// hands every other request to the dispatcher. Routes are mounted on first
// use, so middleware can be added until the router serves.
type Router struct {
	mux      chi.Router
	fixed    []fixedRoute
	fallback http.Handler
	mount    sync.Once
}

type fixedRoute struct {
	pattern string
	h       http.HandlerFunc
}

// New creates a Router with request ids, real IPs, zap access logging and
// panic recovery.
func New(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(logger))
	r.Use(middleware.Recoverer)
	return &Router{mux: r}
}

// Get registers a fixed GET endpoint ahead of the fallback.
func (r *Router) Get(pattern string, h http.HandlerFunc) {
	r.fixed = append(r.fixed, fixedRoute{pattern, h})
}

// Middleware adds one or more middleware to the router. Like chi, it
// panics once the router has served.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// Fallback routes every method on every path not matched by a fixed
// endpoint to h.
func (r *Router) Fallback(h http.Handler) {
	r.fallback = h
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Handler().ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler.
func (r *Router) Handler() http.Handler {
	r.mount.Do(func() {
		for _, f := range r.fixed {
			r.mux.Get(f.pattern, f.h)
		}
		if r.fallback != nil {
			r.mux.Handle("/*", r.fallback)
		}
	})
	return r.mux
}
