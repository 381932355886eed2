// Package config loads configuration from an optional yaml file and
// environment variables. Environment variables take precedence.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every configuration section for the client and the demo
// auth server. Instances are constructed explicitly and passed down; there
// is no package-level singleton.
type Config struct {
	Env    string       `yaml:"env" env:"APP_ENV" env-default:"dev"`
	Log    LogConfig    `yaml:"log"`
	Client ClientConfig `yaml:"client"`
	Server ServerConfig `yaml:"server"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// ClientConfig configures the claims client: the remote endpoint and the
// encrypted on-device store.
type ClientConfig struct {
	BaseURL   string        `yaml:"base_url" env:"CLAIMS_BASE_URL" env-default:"https://dummyjson.com"`
	Timeout   time.Duration `yaml:"timeout" env:"CLAIMS_HTTP_TIMEOUT" env-default:"10s"`
	StorePath string        `yaml:"store_path" env:"CLAIMS_STORE_PATH" env-default:"claims.store"`
	StoreID   string        `yaml:"store_id" env:"CLAIMS_STORE_ID" env-default:"medical-claims-storage"`
	StoreKey  string        `yaml:"store_key" env:"CLAIMS_STORE_KEY" env-default:"medical-claims-encryption-key-2025"`
}

// ServerConfig configures the demo auth endpoint.
type ServerConfig struct {
	Addr        string      `yaml:"addr" env:"SERVER_ADDRESS" env-default:"localhost:8080"`
	DatabaseDSN string      `yaml:"database_dsn" env:"DATABASE_DSN"`
	Redis       RedisConfig `yaml:"redis"`
	Token       TokenConfig `yaml:"token"`
}

// RedisConfig configures the refresh-session store.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// TokenConfig configures JWT issuance.
type TokenConfig struct {
	AccessSecret  string        `yaml:"access_secret" env:"TOKEN_ACCESS_SECRET" env-default:"dev-access-secret"`
	RefreshSecret string        `yaml:"refresh_secret" env:"TOKEN_REFRESH_SECRET" env-default:"dev-refresh-secret"`
	AccessTTL     time.Duration `yaml:"access_ttl" env:"TOKEN_ACCESS_TTL" env-default:"30m"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl" env:"TOKEN_REFRESH_TTL" env-default:"168h"`
}

// Load reads the yaml file at path (when non-empty) and then applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	return cfg, nil
}
