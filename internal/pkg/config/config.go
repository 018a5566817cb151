package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	CORS  CORSConfig
	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
}

// AuthConfig carries the signing secret and the configured admin account.
// All three secrets are required; there is no built-in fallback.
type AuthConfig struct {
	JWTSecret     string `env:"JWT_SECRET,     required"`
	AdminUsername string `env:"ADMIN_USERNAME, required"`
	AdminPassword string `env:"ADMIN_PASSWORD, required"`
	BcryptCost    int    `env:"BCRYPT_COST,    default=10"`
}

type CORSConfig struct {
	Origins []string `env:"CORS_ORIGINS, default=*"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=video_archive"`
	Timeout  time.Duration `env:"STORE_TIMEOUT, default=5s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type SMTPConfig struct {
	Host     string        `env:"SMTP_HOST,      default=smtp.gmail.com"`
	Port     int           `env:"SMTP_PORT,      default=587"`
	Username string        `env:"SMTP_USERNAME"`
	Password string        `env:"SMTP_PASSWORD"`
	From     string        `env:"SMTP_FROM"`
	Timeout  time.Duration `env:"NOTIFY_TIMEOUT, default=15s"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.Username
	}
	return &cfg, nil
}
