package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/arcade.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// RedisURL enables the Redis leaderboard. Empty keeps rankings in SQLite.
	RedisURL string `env:"REDIS_URL"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	RewardTimeout      time.Duration `env:"REWARD_TIMEOUT" envDefault:"5s"`
	SeedDemo           bool          `env:"SEED_DEMO" envDefault:"true"`
}

// Load reads the environment. Variables from a .env file in the working
// directory fill in anything not already set; the file is optional.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return nil, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return &cfg, nil
}
