package memory

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/mcoot/memgame-go/internal/model"
	"github.com/mcoot/memgame-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Documents are kept encoded so callers never share profile pointers with it.
type Storage struct {
	mu sync.RWMutex

	profiles []byte
	settings []byte
	logger   *slog.Logger
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Profile operations

func (s *Storage) LoadProfiles(ctx context.Context) ([]*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return storage.DecodeProfiles(s.profiles, s.logger)
}

func (s *Storage) SaveProfiles(ctx context.Context, profiles []*model.Profile) error {
	data, err := storage.EncodeProfiles(profiles)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = data
	return nil
}

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := storage.DecodeDocument(s.profiles, s.logger)
	if err != nil {
		return err
	}
	doc.Upsert(profile)
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	s.profiles = data
	return nil
}

func (s *Storage) DeleteProfile(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := storage.DecodeDocument(s.profiles, s.logger)
	if err != nil {
		return false, err
	}
	if !doc.Remove(username) {
		return false, nil
	}
	data, err := doc.Encode()
	if err != nil {
		return false, err
	}
	s.profiles = data
	return true, nil
}

// Settings operations

func (s *Storage) LoadSettings(ctx context.Context) (model.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return model.Settings{}, model.ErrSettingsNotFound
	}
	return storage.DecodeSettings(s.settings)
}

func (s *Storage) SaveSettings(ctx context.Context, settings model.Settings) error {
	data, err := storage.EncodeSettings(settings)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = data
	return nil
}
