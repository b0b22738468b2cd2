package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Expense Tracker"`
		Port     int    `envconfig:"PORT" default:"8080"`
		Currency string `envconfig:"CURRENCY" default:"DZD"`
	}

	Store struct {
		Backend string        `envconfig:"STORE_BACKEND" default:"mongo"`
		Timeout time.Duration `envconfig:"DB_TIMEOUT" default:"5s"`
	}

	Mongo struct {
		URI            string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017/"`
		Database       string        `envconfig:"MONGO_DATABASE" default:"expense_db"`
		Collection     string        `envconfig:"MONGO_COLLECTION" default:"expenses"`
		ConnectTimeout time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`
	}

	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
		File  string `envconfig:"LOG_FILE" default:"expense-tracker.log"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}

	Export struct {
		Dir string `envconfig:"EXPORT_DIR" default:"."`
	}
}

// SlogLevel maps LOG_LEVEL onto a slog level. Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	return slog.LevelInfo
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Store.Backend {
	case "mongo", "memory":
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q (want mongo or memory)", cfg.Store.Backend)
	}

	return &cfg, nil
}
