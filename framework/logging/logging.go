// Package logging builds the application's zap logger from configuration.
// Production uses JSON output, everything else the development console
// encoder, unless log.format says otherwise.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-mvc/framework/config"
)

// New creates a logger at cfg.Log.Level.
func New(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	var zc zap.Config
	if Format(cfg) == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.Development = cfg.App.Debug
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.InitialFields = map[string]any{"app": cfg.App.Name}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// Format resolves the output format, picking json in production when
// log.format is unset.
func Format(cfg *config.Config) string {
	if cfg.Log.Format != "" {
		return cfg.Log.Format
	}
	if cfg.IsProduction() {
		return "json"
	}
	return "console"
}
