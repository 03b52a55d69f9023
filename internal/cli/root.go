package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/memgame-go/internal/factory"
	"github.com/mcoot/memgame-go/internal/services/assets"
	"github.com/mcoot/memgame-go/internal/services/round"
	redisstorage "github.com/mcoot/memgame-go/internal/storage/redis"
)

var (
	cfg *Config
	app *factory.App
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	loaded, err := LoadConfig()
	if err != nil {
		// Fall back to built-in defaults; the error is reported before any command runs
		loaded = &Config{
			DataDir:       defaultDataDir(),
			Storage:       factory.StorageTypeFile,
			RedisURL:      redisstorage.DefaultConfig().URL,
			LogLevel:      slog.LevelWarn,
			MismatchDelay: round.DefaultConfig().MismatchDelay,
			Output:        "text",
		}
	}
	cfg = loaded

	rootCmd := &cobra.Command{
		Use:   "memgame",
		Short: "A single-player memory card game",
		Long: `memgame is a terminal memory game: turn over cards two at a time and find
every matching pair before the clock runs out.

Each local user keeps their own statistics and one saved game.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err != nil {
				return err
			}
			return openApp(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			closeErr := app.Close()
			app = nil
			return closeErr
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for saved users and settings (env: MEMGAME_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend: file, memory, redis (env: MEMGAME_STORAGE)")
	rootCmd.PersistentFlags().StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL for the redis backend (env: MEMGAME_REDIS_URL)")
	rootCmd.PersistentFlags().StringVar(&cfg.ImagesDir, "images-dir", cfg.ImagesDir, "Directory of card images (env: MEMGAME_IMAGES_DIR)")
	rootCmd.PersistentFlags().StringVar(&cfg.AvatarsDir, "avatars-dir", cfg.AvatarsDir, "Directory of avatar images (env: MEMGAME_AVATARS_DIR)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newAboutCmd())
	rootCmd.AddCommand(newPlayCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// openApp wires the application for the current invocation
func openApp(cmd *cobra.Command) error {
	level := cfg.LogLevel
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))

	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = cfg.RedisURL

	roundCfg := round.DefaultConfig()
	roundCfg.MismatchDelay = cfg.MismatchDelay

	a, err := factory.New(factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage,
		DataDir:     cfg.DataDir,
		RedisConfig: &redisCfg,
		Assets: assets.Config{
			ImagesDir:  cfg.ImagesDir,
			AvatarsDir: cfg.AvatarsDir,
		},
		Round: roundCfg,
	})
	if err != nil {
		return err
	}
	app = a
	return nil
}

func newOutput(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
