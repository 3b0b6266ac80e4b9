package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/km-arc/go-mvc/framework/beans"
	"github.com/km-arc/go-mvc/framework/config"
	"github.com/km-arc/go-mvc/framework/container"
	"github.com/km-arc/go-mvc/framework/diag"
	"github.com/km-arc/go-mvc/framework/providers"
	"github.com/km-arc/go-mvc/framework/routing"
	"github.com/km-arc/go-mvc/framework/scanner"
)

// Version of the framework.
const Version = "0.1.0"

// ShutdownTimeout bounds the graceful shutdown in Serve.
var ShutdownTimeout = 5 * time.Second

// ReadyPath answers 200 once the application dispatches requests, 503
// before. It is not under the context path.
const ReadyPath = "/readyz"

// ErrAlreadyBooted is returned by a second call to Boot.
var ErrAlreadyBooted = errors.New("app: already booted")

// Application owns the init phase (scan, instantiate, inject, build routes)
// and the HTTP server that serves the result.
//
//	application := app.New(cfg, logger, beans.Default)
//	report, err := application.Boot()
//	...
//	application.Run(ctx)
type Application struct {
	Config  *config.Config
	Logger  *zap.Logger
	Catalog *beans.Catalog

	// ClassPath is scanned for beans. When nil, Boot uses the directory in
	// scan.classpath, or mounts Catalog on an in-memory file system.
	ClassPath afero.Fs

	providers []providers.Provider
	router    *routing.Router

	bootMu sync.Mutex
	booted bool
	beans  *container.Container
	table  *routing.Table

	// published once boot succeeded; nil means not ready
	dispatcher atomic.Pointer[routing.Dispatcher]
}

// New creates an application. A nil logger discards output; a nil catalog
// means beans.Default.
func New(cfg *config.Config, logger *zap.Logger, catalog *beans.Catalog) *Application {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalog == nil {
		catalog = beans.Default
	}
	a := &Application{
		Config:    cfg,
		Logger:    logger,
		Catalog:   catalog,
		providers: providers.Defaults(cfg, logger),
		router:    routing.New(logger),
	}
	a.router.Get(ReadyPath, a.readiness)
	a.router.Fallback(http.HandlerFunc(a.serve))
	return a
}

// Register adds providers run before the scanned beans are instantiated.
func (a *Application) Register(p ...providers.Provider) {
	a.providers = append(a.providers, p...)
}

// Use adds HTTP middleware in front of the dispatcher. Call it before the
// first request is served.
func (a *Application) Use(mw ...func(http.Handler) http.Handler) {
	a.router.Middleware(mw...)
}

// ── Boot ──────────────────────────────────────────────────────────────────────

// Boot runs the init phase once. Issues are collected on the returned
// report and logged as they happen; they only abort the boot when
// boot.strict is set. Requests are dispatched only after Boot returns
// without error.
func (a *Application) Boot() (*diag.Report, error) {
	a.bootMu.Lock()
	defer a.bootMu.Unlock()
	if a.booted {
		return nil, ErrAlreadyBooted
	}

	report := diag.NewReport(a.Logger)
	fs, err := a.classPath()
	if err != nil {
		return report, err
	}

	// ScanNotFound is already on the report.
	ids, _ := scanner.Scan(fs, a.Config.Scan.Package, a.Config.Scan.Suffix, report)

	c := container.New()
	for _, p := range a.providers {
		p.Register(c)
	}
	c.Instantiate(a.Catalog, ids, report)
	c.Inject(a.Catalog, report)
	c.Freeze()

	if err := report.Fatal(a.Config.Boot.Strict); err != nil {
		return report, err
	}

	table := routing.Build(c, report, a.Logger)
	a.beans, a.table, a.booted = c, table, true
	a.dispatcher.Store(routing.NewDispatcher(table, c, a.Logger))

	a.Logger.Info("booted",
		zap.Int("units", len(ids)),
		zap.Int("beans", len(c.Beans())),
		zap.Int("routes", table.Len()),
		zap.Int("issues", len(report.Issues())),
	)
	return report, nil
}

func (a *Application) classPath() (afero.Fs, error) {
	if a.ClassPath != nil {
		return a.ClassPath, nil
	}
	if dir := a.Config.Scan.ClassPath; dir != "" {
		return afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
	}
	fs := afero.NewMemMapFs()
	if err := a.Catalog.Mount(fs, a.Config.Scan.Suffix); err != nil {
		return nil, err
	}
	return fs, nil
}

// ── Accessors ─────────────────────────────────────────────────────────────────

// Ready reports whether requests are being dispatched.
func (a *Application) Ready() bool { return a.dispatcher.Load() != nil }

// Container returns the frozen bean container, nil before boot.
func (a *Application) Container() *container.Container {
	a.bootMu.Lock()
	defer a.bootMu.Unlock()
	return a.beans
}

// Routes returns the route table entries in registration order.
func (a *Application) Routes() []*routing.Entry {
	a.bootMu.Lock()
	defer a.bootMu.Unlock()
	if a.table == nil {
		return nil
	}
	return a.table.Entries()
}

// Beans returns every bean once, in registration order.
func (a *Application) Beans() []*container.Bean {
	c := a.Container()
	if c == nil {
		return nil
	}
	return c.Beans()
}

// ── Serve ─────────────────────────────────────────────────────────────────────

// Handler returns the HTTP entry point. Before a successful Boot every
// request gets 503.
func (a *Application) Handler() http.Handler { return a.router }

func (a *Application) readiness(w http.ResponseWriter, _ *http.Request) {
	if !a.Ready() {
		http.Error(w, "booting", http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("ready"))
}

func (a *Application) serve(w http.ResponseWriter, r *http.Request) {
	d := a.dispatcher.Load()
	if d == nil {
		http.Error(w, "503 Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	d.Handler(a.Config.App.ContextPath).ServeHTTP(w, r)
}

// Run boots the application if needed and serves on App.Port until ctx is
// done.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Config.Addr())
	if err != nil {
		return fmt.Errorf("app: listen: %w", err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	if !a.Ready() {
		if _, err := a.Boot(); err != nil && !errors.Is(err, ErrAlreadyBooted) {
			_ = ln.Close()
			return err
		}
	}

	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	a.Logger.Info("listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("context_path", a.Config.App.ContextPath),
		zap.String("env", a.Config.App.Env),
	)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	a.Logger.Info("stopped")
	return nil
}
