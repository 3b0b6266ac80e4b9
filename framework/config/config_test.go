package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-mvc/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func load(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(dir, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	return cfg
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	cfg := load(t, t.TempDir())

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"App.Name", cfg.App.Name, "GoMVC"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Debug", cfg.App.Debug, true},
		{"App.Port", cfg.App.Port, 8000},
		{"App.ContextPath", cfg.App.ContextPath, ""},
		{"Scan.Package", cfg.Scan.Package, "app"},
		{"Scan.ClassPath", cfg.Scan.ClassPath, ""},
		{"Scan.Suffix", cfg.Scan.Suffix, ".bean"},
		{"Boot.Strict", cfg.Boot.Strict, false},
		{"Log.Level", cfg.Log.Level, "info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
	assert.Equal(t, ":8000", cfg.Addr())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_PropertiesFile(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "application.properties", "app.port=9090\napp.context_path=/app-context\nscan.package=com.demo\nboot.strict=true\n")

	cfg := load(t, dir)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "/app-context", cfg.App.ContextPath)
	assert.Equal(t, "com.demo", cfg.Scan.Package)
	assert.True(t, cfg.Boot.Strict)
}

func TestLoad_LegacyScanPackage(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "application.properties", "scanPackage=com.gupaoedu.demo\n")

	assert.Equal(t, "com.gupaoedu.demo", load(t, dir).Scan.Package)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "application.properties", "app.port=9090\n")
	t.Setenv("APP_PORT", "7000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SCAN_PACKAGE", "svc")

	cfg := load(t, dir)
	assert.Equal(t, 7000, cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "svc", cfg.Scan.Package)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	env := write(t, dir, "test.env", "LOG_LEVEL=debug\n")
	t.Cleanup(func() { _ = os.Unsetenv("LOG_LEVEL") })

	cfg, err := config.LoadFrom(dir, env)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidIsRejected(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "application.properties", "app.context_path=app/\n")

	_, err := config.LoadFrom(dir, filepath.Join(dir, "missing.env"))
	assert.ErrorContains(t, err, "context_path")
}

func TestLoad_KeyBothValueAndSection(t *testing.T) {
	for _, body := range []string{
		"app=x\napp.port=9000\n",
		"app.port=9000\napp=x\n",
		"app.port.max=1\napp.port=9000\n",
	} {
		dir := t.TempDir()
		write(t, dir, "application.properties", body)

		_, err := config.LoadFrom(dir, filepath.Join(dir, "missing.env"))
		assert.ErrorContains(t, err, "both a value and a section", body)
	}
}

// ── Validate ─────────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			App:  config.AppConfig{Port: 8000, ContextPath: "/ctx"},
			Scan: config.ScanConfig{Package: "app"},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"context path without slash", func(c *config.Config) { c.App.ContextPath = "ctx" }},
		{"context path trailing slash", func(c *config.Config) { c.App.ContextPath = "/ctx/" }},
		{"empty package", func(c *config.Config) { c.Scan.Package = " / " }},
		{"port", func(c *config.Config) { c.App.Port = 70000 }},
		{"log format", func(c *config.Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
