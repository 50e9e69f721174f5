package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. FINTRACK_API_BASE_URL.
const EnvPrefix = "FINTRACK"

// Config is the resolved application configuration.
type Config struct {
	Logging  LoggingConfig
	API      APIConfig
	UI       UIConfig
	Database DatabaseConfig
	Server   ServerConfig
}

// APIConfig configures the client side of the resource API.
type APIConfig struct {
	BaseURL string
	// CAFile is a PEM bundle trusted in addition to the system roots,
	// e.g. the certificate of a local `serve --tls` backend.
	CAFile           string
	Timeout          time.Duration
	RetryMaxAttempts int
}

// UIConfig configures the terminal surfaces.
type UIConfig struct {
	Locale string
	Theme  string
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string
	Format string
	// File receives logs while the TUI owns the terminal.
	File string
}

// ServerConfig configures the reference backend.
type ServerConfig struct {
	Addr        string
	CertDir     string
	CORSOrigins []string
	Seed        bool
	TLS         bool
}

// DatabaseConfig configures backend storage.
type DatabaseConfig struct {
	Path string
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:3000")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.retry.max_attempts", 1)
	v.SetDefault("ui.locale", "en")
	v.SetDefault("ui.theme", "default")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "~/.local/share/fintrack/fintrack.log")
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.seed", false)
	v.SetDefault("server.tls", false)
	v.SetDefault("server.cert_dir", "~/.local/share/fintrack/certs")
	v.SetDefault("database.path", "~/.local/share/fintrack/fintrack.db")
}

// LoadDotEnv loads .env files into the process environment. Missing files
// are ignored and variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the configuration from v, which should already have its
// config file and environment bindings set up.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		API: APIConfig{
			BaseURL:          strings.TrimRight(v.GetString("api.base_url"), "/"),
			CAFile:           ExpandPath(v.GetString("api.ca_file")),
			Timeout:          v.GetDuration("api.timeout"),
			RetryMaxAttempts: v.GetInt("api.retry.max_attempts"),
		},
		UI: UIConfig{
			Locale: v.GetString("ui.locale"),
			Theme:  v.GetString("ui.theme"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			File:   ExpandPath(v.GetString("logging.file")),
		},
		Server: ServerConfig{
			Addr:        v.GetString("server.addr"),
			CORSOrigins: splitList(v.GetStringSlice("server.cors_origins")),
			Seed:        v.GetBool("server.seed"),
			TLS:         v.GetBool("server.tls"),
			CertDir:     ExpandPath(v.GetString("server.cert_dir")),
		},
		Database: DatabaseConfig{
			Path: ExpandPath(v.GetString("database.path")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q must be an http(s) URL", common.ErrInvalidConfig, c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.API.RetryMaxAttempts < 1 {
		return fmt.Errorf("%w: api.retry.max_attempts must be at least 1", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format %q must be console or json", common.ErrInvalidConfig, c.Logging.Format)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr", common.ErrMissingConfig)
	}
	if c.Server.TLS && c.Server.CertDir == "" {
		return fmt.Errorf("%w: server.cert_dir is required with server.tls", common.ErrMissingConfig)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	return nil
}

// DatabaseDir returns the directory holding the database file, or "" for
// an in-memory database.
func (c *Config) DatabaseDir() string {
	if c.Database.Path == ":memory:" || strings.HasPrefix(c.Database.Path, "file::memory:") {
		return ""
	}
	return filepath.Dir(c.Database.Path)
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
