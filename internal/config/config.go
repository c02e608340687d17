// Package config loads process configuration from the environment.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/d20tracker/d20-api/internal/errors"
)

// Config is the server process configuration
type Config struct {
	HTTPPort int `env:"D20_HTTP_PORT" envDefault:"8080"`
	GRPCPort int `env:"D20_GRPC_PORT" envDefault:"50051"`

	RedisAddr     string `env:"D20_REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string `env:"D20_REDIS_PASSWORD"`
	RedisDB       int    `env:"D20_REDIS_DB"       envDefault:"0"`

	BotToken       string        `env:"BOT_TOKEN"`
	BotUsername    string        `env:"D20_BOT_USERNAME"      envDefault:"d20_bot"`
	InitDataMaxAge time.Duration `env:"D20_INIT_DATA_MAX_AGE" envDefault:"24h"`

	SRDBaseURL  string        `env:"D20_SRD_BASE_URL"   envDefault:"https://www.dnd5eapi.co/api/2014/"`
	SRDCacheTTL time.Duration `env:"D20_SRD_CACHE_TTL"  envDefault:"24h"`
	DndSuURL    string        `env:"D20_DNDSU_BASE_URL" envDefault:"https://next.dnd.su"`

	LogLevel string `env:"D20_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the Config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	validatePort(vb, "D20_HTTP_PORT", c.HTTPPort)
	validatePort(vb, "D20_GRPC_PORT", c.GRPCPort)
	vb.NotBlank("D20_REDIS_ADDR", c.RedisAddr)
	vb.NotBlank("BOT_TOKEN", c.BotToken)
	if c.InitDataMaxAge < 0 {
		vb.Field("D20_INIT_DATA_MAX_AGE", "must not be negative")
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		vb.Fieldf("D20_LOG_LEVEL", "unknown level %q", c.LogLevel)
	}

	return vb.Build()
}

// SlogLevel returns the configured log level, info when unset
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func validatePort(vb *errors.ValidationBuilder, field string, port int) {
	if port < 1 || port > 65535 {
		vb.Fieldf(field, "port %d out of range", port)
	}
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
