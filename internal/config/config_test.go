package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 1, cfg.API.RetryMaxAttempts)
	assert.Equal(t, "en", cfg.UI.Locale)
	assert.Equal(t, "default", cfg.UI.Theme)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Server.Seed)
	assert.False(t, cfg.Server.TLS)
	assert.Equal(t, filepath.Join(home, ".local/share/fintrack/certs"), cfg.Server.CertDir)
	assert.Empty(t, cfg.API.CAFile)
	assert.Equal(t, filepath.Join(home, ".local/share/fintrack/fintrack.db"), cfg.Database.Path)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FINTRACK_API_BASE_URL", "https://money.example.com/")
	t.Setenv("FINTRACK_API_TIMEOUT", "3s")
	t.Setenv("FINTRACK_UI_LOCALE", "pt-BR")
	t.Setenv("FINTRACK_SERVER_CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("FINTRACK_SERVER_SEED", "true")
	t.Setenv("FINTRACK_DATABASE_PATH", ":memory:")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "https://money.example.com", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "pt-BR", cfg.UI.Locale)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Server.Seed)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, "", cfg.DatabaseDir())
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"api:",
		"  base_url: http://backend:8080",
		"  retry:",
		"    max_attempts: 3",
		"logging:",
		"  format: json",
	}, "\n")), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "http://backend:8080", cfg.API.BaseURL)
	assert.Equal(t, 3, cfg.API.RetryMaxAttempts)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			API:      APIConfig{BaseURL: "http://localhost:3000", Timeout: time.Second, RetryMaxAttempts: 1},
			Logging:  LoggingConfig{Level: "info", Format: "console"},
			Server:   ServerConfig{Addr: ":3000"},
			Database: DatabaseConfig{Path: "/tmp/db"},
		}
	}

	tests := []struct {
		mutate  func(*Config)
		wantErr error
		name    string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "relative base url", mutate: func(c *Config) { c.API.BaseURL = "localhost:3000" }, wantErr: common.ErrInvalidConfig},
		{name: "zero timeout", mutate: func(c *Config) { c.API.Timeout = 0 }, wantErr: common.ErrInvalidConfig},
		{name: "zero attempts", mutate: func(c *Config) { c.API.RetryMaxAttempts = 0 }, wantErr: common.ErrInvalidConfig},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: common.ErrInvalidConfig},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: common.ErrInvalidConfig},
		{name: "no addr", mutate: func(c *Config) { c.Server.Addr = "" }, wantErr: common.ErrMissingConfig},
		{name: "tls without cert dir", mutate: func(c *Config) { c.Server.TLS = true }, wantErr: common.ErrMissingConfig},
		{name: "tls with cert dir", mutate: func(c *Config) { c.Server.TLS = true; c.Server.CertDir = "/tmp/certs" }},
		{name: "no database", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: common.ErrMissingConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("FINTRACK_UI_LOCALE=pt-BR\n"), 0o600))
	t.Setenv("FINTRACK_UI_LOCALE", "")
	require.NoError(t, os.Unsetenv("FINTRACK_UI_LOCALE"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "pt-BR", os.Getenv("FINTRACK_UI_LOCALE"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("FINTRACK_TEST_DIR", "/srv/data")
	t.Setenv("FINTRACK_TEST_HOME_DIR", "~/finance")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "home", in: "~", want: home},
		{name: "under home", in: "~/db/fintrack.db", want: filepath.Join(home, "db/fintrack.db")},
		{name: "env var", in: "$FINTRACK_TEST_DIR/fintrack.db", want: "/srv/data/fintrack.db"},
		{name: "absolute", in: "/var/lib/fintrack.db", want: "/var/lib/fintrack.db"},
		{name: "env var holding tilde", in: "$FINTRACK_TEST_HOME_DIR/fintrack.db", want: filepath.Join(home, "finance", "fintrack.db")},
		{name: "cleaned", in: "/var/lib/../lib/./fintrack.db", want: "/var/lib/fintrack.db"},
		{name: "sqlite memory", in: ":memory:", want: ":memory:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
