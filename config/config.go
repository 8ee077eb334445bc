// Package config loads PixelNote settings from an optional YAML file,
// a .env file and the environment, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Revocation backends.
const (
	RevocationDatabase = "database"
	RevocationRedis    = "redis"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Revocation RevocationConfig `mapstructure:"revocation"`
}

type AppConfig struct {
	Env          string   `mapstructure:"env"`
	Port         int      `mapstructure:"port"`
	LogLevel     string   `mapstructure:"log_level"`
	MaxBodyBytes int64    `mapstructure:"max_body_bytes"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

// Address returns the HTTP listen address.
func (c *AppConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// IsProd reports whether the app runs in production mode.
func (c *AppConfig) IsProd() bool {
	return c.Env == "prod"
}

func (c *AppConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.MaxBodyBytes, validation.Required, validation.Min(int64(1))),
	)
}

type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

func (c *DatabaseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.DSN, validation.Required),
	)
}

type AuthConfig struct {
	Secret     string        `mapstructure:"secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

func (c *AuthConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Secret, validation.Required),
		validation.Field(&c.TokenTTL, validation.Min(time.Duration(0))),
		validation.Field(&c.BcryptCost, validation.Required, validation.Min(bcrypt.MinCost), validation.Max(bcrypt.MaxCost)),
	)
}

type RevocationConfig struct {
	Backend   string `mapstructure:"backend"`
	RedisAddr string `mapstructure:"redis_addr"`
}

func (c *RevocationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(RevocationDatabase, RevocationRedis)),
		validation.Field(&c.RedisAddr, validation.When(c.Backend == RevocationRedis, validation.Required)),
	)
}

func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Revocation.Validate(); err != nil {
		return fmt.Errorf("revocation: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.port", 4000)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.max_body_bytes", 5<<20)
	v.SetDefault("app.cors_origins", []string{"*"})
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "pixelnote.db")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("revocation.backend", RevocationDatabase)
	v.SetDefault("revocation.redis_addr", "localhost:6379")
}

// Load reads configuration. path may be empty, in which case only defaults,
// .env and environment variables are used. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Legacy variable names
	if port := v.GetInt("PORT"); port != 0 {
		cfg.App.Port = port
	}
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		cfg.Database.Driver = DriverPostgres
		cfg.Database.DSN = dbURL
	}
	if secret := v.GetString("JWT_SECRET"); secret != "" {
		cfg.Auth.Secret = secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}
