package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-mvc/framework/config"
	"github.com/km-arc/go-mvc/framework/container"
)

// Provider places framework beans into the container before the scanned
// beans are instantiated, so they can be autowired like any other bean.
type Provider interface {
	Register(c *container.Container)
}

// ── ConfigProvider ────────────────────────────────────────────────────────────

// ConfigProvider binds the application configuration.
//
// Bound names:
//   - "github.com/km-arc/go-mvc/framework/config.Config" → *config.Config
//   - "config" (alias)
//
// Usage in a bean:
//
//	cfg *config.Config `autowired:""`
type ConfigProvider struct {
	Config *config.Config
}

func (p *ConfigProvider) Register(c *container.Container) {
	bind(c, "config", p.Config)
}

// ── LoggerProvider ────────────────────────────────────────────────────────────

// LoggerProvider binds the application logger.
//
// Bound names:
//   - "go.uber.org/zap.Logger" → *zap.Logger
//   - "logger" (alias)
type LoggerProvider struct {
	Logger *zap.Logger
}

func (p *LoggerProvider) Register(c *container.Container) {
	bind(c, "logger", p.Logger)
}

// Defaults returns the providers every application registers.
func Defaults(cfg *config.Config, logger *zap.Logger) []Provider {
	return []Provider{
		&ConfigProvider{Config: cfg},
		&LoggerProvider{Logger: logger},
	}
}

// bind stores v under its type key and aliases it as name.
func bind(c *container.Container, name string, v any) {
	key := container.TypeKey(v)
	c.Instance(key, &container.Bean{Name: key, TypeID: key, Instance: v})
	_ = c.Alias(key, name)
}
