// Package config loads rtfstream's server/CLI configuration from
// rtfstream.yaml plus environment overrides, in the shape the rest of the
// retrieval pack uses for the same concern.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level configuration for `rtfstream serve`
// (`rtfstream watch` and `rtfstream dump` load none).
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// ServerConfig controls the HTTP/WebSocket listener.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig selects and configures the audit store.
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite". SQLite needs no URL beyond a file
	// path; Postgres expects a libpq-style DSN.
	Driver string `mapstructure:"driver"`
	URL    string `mapstructure:"url"`
}

// RedisConfig configures the dedupe cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig configures JWT validation for /v1/parse and /v1/stream.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// Load reads rtfstream.yaml (if present) from the current directory,
// applies RTFSTREAM_-prefixed environment overrides, and validates the
// result.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "rtfstream.db")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetConfigName("rtfstream")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RTFSTREAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("rtfstream: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("rtfstream: unmarshalling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("rtfstream: database.driver must be \"postgres\" or \"sqlite\", got %q", cfg.Database.Driver)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("rtfstream: server.port out of range: %d", cfg.Server.Port)
	}
	return nil
}
