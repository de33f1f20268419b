// Package config loads process configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage types
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQL    = "sql"
)

// Config is the full process configuration
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN"`
	ServerID     string `env:"FIVEM_SERVER_ID" envDefault:"byzd3d"`

	Storage   StorageConfig
	HTTP      HTTPConfig
	Roster    RosterConfig
	Bot       BotConfig
	Logging   LoggingConfig
	Telemetry TelemetryConfig
}

// StorageConfig selects and configures the registry backend
type StorageConfig struct {
	Type        string `env:"STORAGE_TYPE" envDefault:"sql"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"registry.db"`
	RedisURL    string `env:"REDIS_URL"`
}

// HTTPConfig configures the status surface
type HTTPConfig struct {
	Host           string   `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port           int      `env:"HTTP_PORT" envDefault:"5000"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// RosterConfig configures retrieval and grouping
type RosterConfig struct {
	Categories    []string      `env:"ROSTER_CATEGORIES" envSeparator:"," envDefault:"families,bennys,angels,ballas,randola,policia,vagos,marabunta,the lost"`
	OtherCategory string        `env:"ROSTER_OTHER_CATEGORY" envDefault:"outros"`
	APITimeout    time.Duration `env:"ROSTER_API_TIMEOUT" envDefault:"10s"`
	PageTimeout   time.Duration `env:"ROSTER_PAGE_TIMEOUT" envDefault:"15s"`
}

// BotConfig configures chat handling
type BotConfig struct {
	FieldLimit     int           `env:"EMBED_FIELD_LIMIT" envDefault:"1000"`
	CommandTimeout time.Duration `env:"BOT_COMMAND_TIMEOUT" envDefault:"60s"`
}

// LoggingConfig configures the process logger
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// TelemetryConfig configures trace export
type TelemetryConfig struct {
	Enabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint string `env:"OTEL_ENDPOINT"`
}

// TokenConfigured reports whether a chat token was supplied.
func (c Config) TokenConfigured() bool {
	return strings.TrimSpace(c.DiscordToken) != ""
}

// Load reads an optional .env file and then the environment. Variables
// already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return Parse()
}

// Parse reads configuration from the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints. A missing chat token is not an
// error; the bot task is simply not started.
func (c Config) Validate() error {
	switch c.Storage.Type {
	case StorageTypeMemory, StorageTypeSQL:
	case StorageTypeRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, redis or sql", c.Storage.Type)
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTP.Port)
	}
	if c.Bot.FieldLimit <= 0 || c.Bot.FieldLimit > 1024 {
		return fmt.Errorf("invalid EMBED_FIELD_LIMIT %d: must be between 1 and 1024", c.Bot.FieldLimit)
	}
	if strings.TrimSpace(c.ServerID) == "" {
		return errors.New("FIVEM_SERVER_ID must not be empty")
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return errors.New("OTEL_ENDPOINT required when OTEL_ENABLED=true")
	}
	return nil
}
