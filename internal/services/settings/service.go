package settings

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/memgame-go/internal/model"
	"github.com/mcoot/memgame-go/internal/storage"
)

// Service reads and updates the game settings
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new settings Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Current returns the stored settings, or the defaults when none are stored
// or the stored value cannot be used
func (s *Service) Current(ctx context.Context) model.Settings {
	stored, err := s.storage.LoadSettings(ctx)
	if errors.Is(err, model.ErrSettingsNotFound) {
		return model.DefaultSettings()
	}
	if err != nil {
		s.logger.Warn("failed to load settings, using defaults", slog.String("error", err.Error()))
		return model.DefaultSettings()
	}

	clamped := stored.Clamped()
	if err := clamped.Validate(); err != nil {
		s.logger.Warn("stored settings are invalid, using defaults", slog.String("error", err.Error()))
		return model.DefaultSettings()
	}
	return clamped
}

// Update clamps and validates the new settings and stores them. On error the
// previous settings are left in place.
func (s *Service) Update(ctx context.Context, next model.Settings) (model.Settings, error) {
	clamped := next.Clamped()
	if err := clamped.Validate(); err != nil {
		return s.Current(ctx), err
	}

	if err := s.storage.SaveSettings(ctx, clamped); err != nil {
		s.logger.Error("failed to save settings", slog.String("error", err.Error()))
		return s.Current(ctx), err
	}

	s.logger.Info("settings updated",
		slog.Int("time_limit", clamped.TimeLimit),
		slog.Int("rows", clamped.Rows),
		slog.Int("columns", clamped.Columns),
	)
	return clamped, nil
}
