package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// BackendURL is the base URL of the upstream leave-management API.
	BackendURL     string        `env:"BACKEND_URL,     default=http://localhost:3000/api"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT, default=10s"`

	Session SessionConfig
	Redis   RedisConfig
	Mongo   MongoConfig
}

type SessionConfig struct {
	// CookieName carries the portal session id in the browser.
	CookieName string        `env:"SESSION_COOKIE, default=portal_session"`
	TTL        time.Duration `env:"SESSION_TTL,    default=24h"`
	// Secure marks the session cookie Secure; disable only for local HTTP.
	Secure bool `env:"SESSION_SECURE, default=true"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=leave_portal"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
