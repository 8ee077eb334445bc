package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithEnvSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.App.Port)
	assert.Equal(t, ":4000", cfg.App.Address())
	assert.Equal(t, int64(5<<20), cfg.App.MaxBodyBytes)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, RevocationDatabase, cfg.Revocation.Backend)
	assert.False(t, cfg.App.IsProd())
}

func TestLoadRequiresSecret(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth")
}

func TestLoadLegacyVariables(t *testing.T) {
	t.Setenv("JWT_SECRET", "legacy")
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/pixelnote")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "legacy", cfg.Auth.Secret)
	assert.Equal(t, 8081, cfg.App.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@localhost:5432/pixelnote", cfg.Database.DSN)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  env: prod
  port: 9090
  log_level: debug
auth:
  secret: from-file
  token_ttl: 0s
revocation:
  backend: redis
  redis_addr: cache:6379
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProd())
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, time.Duration(0), cfg.Auth.TokenTTL)
	assert.Equal(t, RevocationRedis, cfg.Revocation.Backend)
	assert.Equal(t, "cache:6379", cfg.Revocation.RedisAddr)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() Config {
		return Config{
			App:        AppConfig{Port: 4000, LogLevel: "info", MaxBodyBytes: 1024},
			Database:   DatabaseConfig{Driver: DriverSQLite, DSN: "x.db"},
			Auth:       AuthConfig{Secret: "k", TokenTTL: time.Hour, BcryptCost: 10},
			Revocation: RevocationConfig{Backend: RevocationDatabase},
		}
	}

	ok := base()
	require.NoError(t, ok.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.App.Port = 70000 }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }},
		{"negative ttl", func(c *Config) { c.Auth.TokenTTL = -time.Second }},
		{"bcrypt cost too high", func(c *Config) { c.Auth.BcryptCost = 99 }},
		{"redis without addr", func(c *Config) { c.Revocation = RevocationConfig{Backend: RevocationRedis} }},
		{"unknown log level", func(c *Config) { c.App.LogLevel = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
