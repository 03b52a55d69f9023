package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/mcoot/memgame-go/internal/model"
	"github.com/mcoot/memgame-go/internal/storage"
)

// File names inside the data directory
const (
	ProfilesFile = "users.json"
	SettingsFile = "settings.json"
)

// Storage keeps profiles and settings as JSON files in a directory.
// Files are replaced atomically: a write never leaves a partial document.
type Storage struct {
	mu     sync.Mutex
	dir    string
	logger *slog.Logger
}

// New creates a file storage rooted at dir. The directory is created on first write.
func New(dir string, logger *slog.Logger) *Storage {
	return &Storage{
		dir:    dir,
		logger: logger,
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Dir returns the data directory
func (s *Storage) Dir() string {
	return s.dir
}

// Profile operations

func (s *Storage) LoadProfiles(ctx context.Context) ([]*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadProfiles()
}

func (s *Storage) SaveProfiles(ctx context.Context, profiles []*model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveProfiles(profiles)
}

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadDocument()
	if err != nil {
		return err
	}
	doc.Upsert(profile)
	return s.saveDocument(doc)
}

func (s *Storage) DeleteProfile(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadDocument()
	if err != nil {
		return false, err
	}
	if !doc.Remove(username) {
		return false, nil
	}
	if err := s.saveDocument(doc); err != nil {
		return false, err
	}
	return true, nil
}

// Settings operations

func (s *Storage) LoadSettings(ctx context.Context) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read(SettingsFile)
	if err != nil {
		return model.Settings{}, err
	}
	if data == nil {
		return model.Settings{}, model.ErrSettingsNotFound
	}
	return storage.DecodeSettings(data)
}

func (s *Storage) SaveSettings(ctx context.Context, settings model.Settings) error {
	data, err := storage.EncodeSettings(settings)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(SettingsFile, data)
}

func (s *Storage) loadProfiles() ([]*model.Profile, error) {
	doc, err := s.loadDocument()
	if err != nil {
		return nil, err
	}
	return doc.Profiles(), nil
}

func (s *Storage) loadDocument() (*storage.Document, error) {
	data, err := s.read(ProfilesFile)
	if err != nil {
		return nil, err
	}
	if data == nil {
		s.logger.Debug("no profile file yet", slog.String("dir", s.dir))
	}
	return storage.DecodeDocument(data, s.logger)
}

func (s *Storage) saveProfiles(profiles []*model.Profile) error {
	data, err := storage.EncodeProfiles(profiles)
	if err != nil {
		return err
	}
	if err := s.write(ProfilesFile, data); err != nil {
		return err
	}
	s.logger.Debug("saved profiles", slog.Int("count", len(profiles)))
	return nil
}

func (s *Storage) saveDocument(doc *storage.Document) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	return s.write(ProfilesFile, data)
}

// read returns nil data when the file does not exist
func (s *Storage) read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", model.ErrPersistenceRead, err)
	}
	return data, nil
}

// write replaces name atomically so a failed write never leaves a partial document
func (s *Storage) write(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistenceWrite, err)
	}
	if err := atomic.WriteFile(filepath.Join(s.dir, name), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistenceWrite, err)
	}
	return nil
}
