package profile

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/memgame-go/internal/model"
	"github.com/mcoot/memgame-go/internal/storage"
)

// Service manages local player profiles and their statistics
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new profile Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// List returns every profile in stored order
func (s *Service) List(ctx context.Context) ([]*model.Profile, error) {
	return s.storage.LoadProfiles(ctx)
}

// Get finds a profile by username, ignoring case
func (s *Service) Get(ctx context.Context, username string) (*model.Profile, error) {
	profiles, err := s.storage.LoadProfiles(ctx)
	if err != nil {
		return nil, err
	}
	return find(profiles, username)
}

// Create adds a new profile with no games played
func (s *Service) Create(ctx context.Context, username, avatarPath string) (*model.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, model.ErrUsernameEmpty
	}

	profiles, err := s.storage.LoadProfiles(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := find(profiles, username); err == nil {
		return nil, model.ErrUsernameExists
	}

	p := &model.Profile{
		Username:   username,
		AvatarPath: avatarPath,
	}
	if err := s.storage.SaveProfile(ctx, p); err != nil {
		s.logger.Error("failed to save new profile",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("profile created", slog.String("username", username))
	return p, nil
}

// Delete removes a profile along with its statistics and saved game
func (s *Service) Delete(ctx context.Context, username string) error {
	p, err := s.Get(ctx, username)
	if err != nil {
		return err
	}

	found, err := s.storage.DeleteProfile(ctx, p.Username)
	if err != nil {
		return err
	}
	if !found {
		return model.ErrProfileNotFound
	}

	s.logger.Info("profile deleted", slog.String("username", p.Username))
	return nil
}

// SetAvatar changes a profile's avatar
func (s *Service) SetAvatar(ctx context.Context, username, avatarPath string) (*model.Profile, error) {
	return s.update(ctx, username, func(p *model.Profile) {
		p.AvatarPath = avatarPath
	})
}

// RecordOutcome counts a finished round and drops the saved game
func (s *Service) RecordOutcome(ctx context.Context, username string, won bool) (*model.Profile, error) {
	p, err := s.update(ctx, username, func(p *model.Profile) {
		p.GamesPlayed++
		if won {
			p.GamesWon++
		}
		p.SavedGameState = nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("round outcome recorded",
		slog.String("username", p.Username),
		slog.Bool("won", won),
		slog.Int("games_played", p.GamesPlayed),
		slog.Int("games_won", p.GamesWon),
	)
	return p, nil
}

// SaveSnapshot stores state as the profile's single saved game, replacing any previous one
func (s *Service) SaveSnapshot(ctx context.Context, username string, state *model.SavedGameState) (*model.Profile, error) {
	return s.update(ctx, username, func(p *model.Profile) {
		p.SavedGameState = state
	})
}

// ClearSnapshot drops the profile's saved game
func (s *Service) ClearSnapshot(ctx context.Context, username string) (*model.Profile, error) {
	return s.update(ctx, username, func(p *model.Profile) {
		p.SavedGameState = nil
	})
}

// update applies fn to a freshly loaded copy and stores it. Nothing the
// caller holds is touched if the write fails.
func (s *Service) update(ctx context.Context, username string, fn func(*model.Profile)) (*model.Profile, error) {
	p, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}

	fn(p)

	if err := s.storage.SaveProfile(ctx, p); err != nil {
		s.logger.Error("failed to save profile",
			slog.String("username", p.Username),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return p, nil
}

func find(profiles []*model.Profile, username string) (*model.Profile, error) {
	username = strings.TrimSpace(username)
	for _, p := range profiles {
		if model.SameUsername(p.Username, username) {
			return p, nil
		}
	}
	return nil, model.ErrProfileNotFound
}
