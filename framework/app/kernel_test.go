package app_test

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/go-mvc/framework/app"
	"github.com/km-arc/go-mvc/framework/beans"
	"github.com/km-arc/go-mvc/framework/config"
	"github.com/km-arc/go-mvc/framework/diag"
	gohttp "github.com/km-arc/go-mvc/framework/http"
)

// ── fixtures ─────────────────────────────────────────────────────────────────

type IDemoService interface{ Get(name string) string }

type DemoService struct {
	beans.Service
}

func (s *DemoService) Get(name string) string { return "My name is " + name }

type DemoAction struct {
	beans.Controller `path:"demo"`

	demoService IDemoService   `autowired:""`
	cfg         *config.Config `autowired:""`
}

func (a *DemoAction) RequestMappings() []beans.Mapping {
	return []beans.Mapping{
		{Method: "Query", Path: "query", Params: []string{"name"}},
		{Method: "Env", Path: "env"},
	}
}

func (a *DemoAction) Query(req gohttp.Request, resp gohttp.Response, name string) {
	fmt.Fprint(resp, a.demoService.Get(name))
}

func (a *DemoAction) Env(resp gohttp.Response) {
	fmt.Fprint(resp, a.cfg.App.Env)
}

type Lonely struct {
	beans.Controller
	Missing io.Reader `autowired:"nothing"`
}

func catalog() *beans.Catalog {
	c := beans.NewCatalog()
	c.RegisterInterface("app.service", (*IDemoService)(nil))
	c.Register("app.service", (*DemoService)(nil))
	c.Register("app.controller", (*DemoAction)(nil))
	return c
}

func testConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Name: "test", Env: "testing", ContextPath: "/app-context"},
		Scan: config.ScanConfig{Package: "app", Suffix: ".bean"},
		Log:  config.LogConfig{Level: "debug"},
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

// ── Boot ─────────────────────────────────────────────────────────────────────

func TestBoot_EndToEnd(t *testing.T) {
	a := app.New(testConfig(), nil, catalog())

	report, err := a.Boot()
	require.NoError(t, err)
	assert.True(t, report.Empty(), "%v", report.Err())
	assert.True(t, a.Ready())

	rr := get(t, a.Handler(), "/app-context/demo/query?name=Bob")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "My name is Bob", rr.Body.String())

	rr = get(t, a.Handler(), "/app-context/demo/env")
	assert.Equal(t, "testing", rr.Body.String(), "framework config bean autowired by type")

	rr = get(t, a.Handler(), "/app-context/demo/nothing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "404 Not Found", rr.Body.String())
}

func TestBoot_RoutesAndBeans(t *testing.T) {
	a := app.New(testConfig(), nil, catalog())
	assert.Nil(t, a.Routes())
	assert.Nil(t, a.Beans())

	_, err := a.Boot()
	require.NoError(t, err)

	routes := a.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/demo/query", routes[0].Path)
	assert.Equal(t, "demoAction", routes[0].Bean)

	var names []string
	for _, b := range a.Beans() {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{
		"github.com/km-arc/go-mvc/framework/config.Config",
		"go.uber.org/zap.Logger",
		"demoAction",
		"demoService",
	}, names, "providers first, then scan order")
	assert.Same(t, a.Container().Make("demoService"), a.Container().Make("app.service.IDemoService"))
}

func TestBoot_Twice(t *testing.T) {
	a := app.New(testConfig(), nil, catalog())
	_, err := a.Boot()
	require.NoError(t, err)
	_, err = a.Boot()
	assert.ErrorIs(t, err, app.ErrAlreadyBooted)
}

func TestHandler_UnavailableBeforeBoot(t *testing.T) {
	a := app.New(testConfig(), nil, catalog())

	rr := get(t, a.Handler(), "/app-context/demo/query?name=Bob")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.False(t, a.Ready())
}

func TestBoot_IssuesAreReportedNotFatal(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cat := catalog()
	cat.Register("app.controller", (*Lonely)(nil))

	a := app.New(testConfig(), zap.New(core), cat)
	report, err := a.Boot()

	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(diag.MissingDependency))
	assert.Equal(t, 1, logs.FilterMessage("missing_dependency").Len())
	assert.True(t, a.Ready())
}

func TestBoot_StrictAborts(t *testing.T) {
	cat := catalog()
	cat.Register("app.controller", (*Lonely)(nil))
	cfg := testConfig()
	cfg.Boot.Strict = true

	a := app.New(cfg, nil, cat)
	report, err := a.Boot()

	assert.ErrorIs(t, err, diag.ErrMissingDependency)
	assert.True(t, report.Has(diag.MissingDependency))
	assert.False(t, a.Ready())
	assert.Equal(t, http.StatusServiceUnavailable, get(t, a.Handler(), "/app-context/demo/query?name=x").Code)
}

func TestBoot_ScanNotFound(t *testing.T) {
	cfg := testConfig()
	cfg.Scan.Package = "nowhere"

	a := app.New(cfg, nil, catalog())
	report, err := a.Boot()
	require.NoError(t, err)
	assert.True(t, report.Has(diag.ScanNotFound))
	assert.Empty(t, a.Routes())

	cfg = testConfig()
	cfg.Scan.Package = "nowhere"
	cfg.Boot.Strict = true
	_, err = app.New(cfg, nil, catalog()).Boot()
	assert.ErrorIs(t, err, diag.ErrScanNotFound)
}

func TestBoot_ExplicitClassPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("app/service", 0o755))
	require.NoError(t, fs.MkdirAll("app/controller", 0o755))
	require.NoError(t, afero.WriteFile(fs, "app/service/DemoService.bean", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "app/service/IDemoService.bean", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "app/controller/DemoAction.bean", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "app/controller/Ghost.bean", nil, 0o644))

	a := app.New(testConfig(), nil, catalog())
	a.ClassPath = fs
	report, err := a.Boot()

	require.NoError(t, err)
	require.Equal(t, 1, report.Count(diag.InstantiationFailure))
	assert.Equal(t, "app.controller.Ghost", report.Issues()[0].Subject)
	assert.Equal(t, "My name is Ann", get(t, a.Handler(), "/app-context/demo/query?name=Ann").Body.String())
}

// ── Serve ────────────────────────────────────────────────────────────────────

func TestServe_GracefulShutdown(t *testing.T) {
	a := app.New(testConfig(), nil, catalog())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/app-context/demo/query?name=Bob"
	require.Eventually(t, func() bool {
		res, err := http.Get(url)
		if err != nil {
			return false
		}
		defer res.Body.Close()
		body, _ := io.ReadAll(res.Body)
		return string(body) == "My name is Bob"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestUse_MiddlewareWrapsDispatcher(t *testing.T) {
	a := app.New(testConfig(), nil, catalog())
	a.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Frame-Options", "DENY")
			next.ServeHTTP(w, r)
		})
	})
	_, err := a.Boot()
	require.NoError(t, err)

	rr := get(t, a.Handler(), "/app-context/demo/query?name=Bob")
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "My name is Bob", rr.Body.String())
}

func TestReadyz(t *testing.T) {
	a := app.New(testConfig(), nil, catalog())

	rr := get(t, a.Handler(), app.ReadyPath)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	_, err := a.Boot()
	require.NoError(t, err)
	rr = get(t, a.Handler(), app.ReadyPath)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ready", rr.Body.String())
}
