package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the central typed configuration struct.
type Config struct {
	App  AppConfig  `mapstructure:"app"`
	Scan ScanConfig `mapstructure:"scan"`
	Boot BootConfig `mapstructure:"boot"`
	Log  LogConfig  `mapstructure:"log"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Env         string `mapstructure:"env"` // local | production | testing
	Debug       bool   `mapstructure:"debug"`
	Port        int    `mapstructure:"port"`
	ContextPath string `mapstructure:"context_path"`
}

// ScanConfig locates the beans: the root namespace, and the directory
// holding the class path ("" mounts the type catalog in memory).
type ScanConfig struct {
	Package   string `mapstructure:"package"`
	ClassPath string `mapstructure:"classpath"`
	Suffix    string `mapstructure:"suffix"`
}

type BootConfig struct {
	// Strict aborts boot on scan, instantiation and injection issues.
	Strict bool `mapstructure:"strict"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console | json; "" picks by App.Env
}

// PropertiesName is the optional properties file read from the config
// directory, application.properties.
const PropertiesName = "application"

// Load reads .env (if present), then ./application.properties (if present),
// then the environment. Call once at bootstrap:
//
//	cfg, err := config.Load()
func Load(envFiles ...string) (*Config, error) {
	return LoadFrom(".", envFiles...)
}

// LoadFrom is Load with application.properties looked up in dir.
// Environment variables win over the file: APP_PORT sets app.port.
func LoadFrom(dir string, envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	v := viper.NewWithOptions(viper.WithCodecRegistry(codecs()))
	v.SetDefault("app.name", "GoMVC")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.port", 8000)
	v.SetDefault("app.context_path", "")
	v.SetDefault("scan.package", "app")
	v.SetDefault("scan.classpath", "")
	v.SetDefault("scan.suffix", ".bean")
	v.SetDefault("boot.strict", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")

	v.SetConfigName(PropertiesName)
	v.SetConfigType("properties")
	v.AddConfigPath(dir)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s.properties: %w", PropertiesName, err)
		}
	}
	// scanPackage=com.example is the legacy spelling of scan.package.
	if v.InConfig("scanpackage") && !v.InConfig("scan.package") {
		v.SetDefault("scan.package", v.GetString("scanpackage"))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values the boot sequence depends on.
func (c *Config) Validate() error {
	if p := c.App.ContextPath; p != "" {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("config: app.context_path must start with '/', got: %s", p)
		}
		if strings.HasSuffix(p, "/") {
			return fmt.Errorf("config: app.context_path must not end with '/', got: %s", p)
		}
	}
	if c.App.Port < 0 || c.App.Port > 65535 {
		return fmt.Errorf("config: app.port out of range: %d", c.App.Port)
	}
	if strings.Trim(strings.TrimSpace(c.Scan.Package), "./") == "" {
		return errors.New("config: scan.package must not be empty")
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: log.format must be console or json, got: %s", c.Log.Format)
	}
	return nil
}

// Addr is the listen address for App.Port.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.App.Port) }

// IsProduction reports whether App.Env is "production".
func (c *Config) IsProduction() bool { return c.App.Env == "production" }
