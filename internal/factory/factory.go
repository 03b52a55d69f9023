package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/memgame-go/internal/dependencies/clock"
	"github.com/mcoot/memgame-go/internal/dependencies/random"
	"github.com/mcoot/memgame-go/internal/services/assets"
	"github.com/mcoot/memgame-go/internal/services/deck"
	"github.com/mcoot/memgame-go/internal/services/game"
	"github.com/mcoot/memgame-go/internal/services/profile"
	"github.com/mcoot/memgame-go/internal/services/round"
	"github.com/mcoot/memgame-go/internal/services/session"
	"github.com/mcoot/memgame-go/internal/services/settings"
	"github.com/mcoot/memgame-go/internal/storage"
	"github.com/mcoot/memgame-go/internal/storage/file"
	"github.com/mcoot/memgame-go/internal/storage/memory"
	redisstorage "github.com/mcoot/memgame-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeFile   = "file"
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	DeckBuilder     *deck.Builder
	SettingsService *settings.Service
	AssetProvider   *assets.Provider
	ProfileService  *profile.Service
	Session         *session.Context
	GameController  *game.Controller

	Logger *slog.Logger

	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("file", "memory" or "redis")
	// If empty, defaults to "file"
	StorageType string
	// DataDir is where the file backend keeps its documents (required if StorageType is "file")
	DataDir string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Assets points at image and avatar directories; empty fields use the built-in pools
	Assets assets.Config
	// Round holds the reveal and mismatch delays
	// If zero value, the mismatch delay is zero too
	Round round.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	var closer io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeFile
	}

	switch storageType {
	case StorageTypeFile:
		if cfg.DataDir == "" {
			return nil, errors.New("DataDir required when StorageType is file")
		}
		store = file.New(cfg.DataDir, logger)
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig, logger)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closer = redisStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'file', 'memory' or 'redis'", storageType)
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	app := newWithDependencies(store, clk, rnd, cfg.Assets, cfg.Round, logger)
	app.closer = closer
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	assetCfg assets.Config,
	roundCfg round.Config,
	logger *slog.Logger,
) *App {
	// Create services
	deckBuilder := deck.New(rnd, logger)
	settingsService := settings.New(store, logger)
	assetProvider := assets.New(assetCfg, logger)
	profileService := profile.New(store, logger)
	gameController := game.NewController(profileService, settingsService, assetProvider, deckBuilder, roundCfg, clk, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		DeckBuilder:     deckBuilder,
		SettingsService: settingsService,
		AssetProvider:   assetProvider,
		ProfileService:  profileService,
		Session:         session.New(),
		GameController:  gameController,
		Logger:          logger,
	}
}

// Close releases storage connections
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
