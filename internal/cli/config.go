package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// envPrefix is prepended to every environment variable the CLI reads
const envPrefix = "MEMGAME_"

// Config holds CLI configuration. Environment variables set the defaults;
// flags override them.
type Config struct {
	DataDir       string        `env:"DATA_DIR"`
	Storage       string        `env:"STORAGE" envDefault:"file"`
	RedisURL      string        `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	ImagesDir     string        `env:"IMAGES_DIR"`
	AvatarsDir    string        `env:"AVATARS_DIR"`
	LogLevel      slog.Level    `env:"LOG_LEVEL" envDefault:"WARN"`
	MismatchDelay time.Duration `env:"MISMATCH_DELAY" envDefault:"1s"`
	Output        string        `env:"OUTPUT" envDefault:"text"`
	Verbose       bool          `env:"VERBOSE"`
}

// LoadConfig reads the configuration from MEMGAME_* environment variables
func LoadConfig() (*Config, error) {
	c, err := env.ParseAsWithOptions[Config](env.Options{Prefix: envPrefix})
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	return &c, nil
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".memgame"
	}
	return filepath.Join(dir, "memgame")
}
