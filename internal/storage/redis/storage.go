package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/memgame-go/internal/model"
	"github.com/mcoot/memgame-go/internal/storage"
)

// ErrTxContention is returned when a profile write keeps losing its optimistic lock
var ErrTxContention = errors.New("profile document changed concurrently")

// Storage is a Redis-backed implementation of the storage interface.
// Profiles live in a single JSON document, the same shape as the file backend.
type Storage struct {
	client *redis.Client
	cfg    Config
	logger *slog.Logger
}

// New creates a new Redis storage instance
func New(cfg Config, logger *slog.Logger) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", model.ErrPersistenceRead, err)
	}

	return NewWithClient(client, cfg, logger), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, logger *slog.Logger) *Storage {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Profile operations

func (s *Storage) LoadProfiles(ctx context.Context) ([]*model.Profile, error) {
	data, err := s.get(ctx, s.client, profilesKey())
	if err != nil {
		return nil, err
	}
	return storage.DecodeProfiles(data, s.logger)
}

func (s *Storage) SaveProfiles(ctx context.Context, profiles []*model.Profile) error {
	data, err := storage.EncodeProfiles(profiles)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, profilesKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistenceWrite, err)
	}
	return nil
}

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	_, err := s.updateProfiles(ctx, func(doc *storage.Document) bool {
		doc.Upsert(profile)
		return true
	})
	return err
}

func (s *Storage) DeleteProfile(ctx context.Context, username string) (bool, error) {
	return s.updateProfiles(ctx, func(doc *storage.Document) bool {
		return doc.Remove(username)
	})
}

// Settings operations

func (s *Storage) LoadSettings(ctx context.Context) (model.Settings, error) {
	data, err := s.get(ctx, s.client, settingsKey())
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
	if err := s.client.Set(ctx, settingsKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistenceWrite, err)
	}
	return nil
}

// updateProfiles applies fn to the profile document under WATCH so two
// processes editing different profiles do not drop each other's writes.
// fn reports whether anything changed; nothing is written otherwise.
func (s *Storage) updateProfiles(
	ctx context.Context,
	fn func(*storage.Document) bool,
) (bool, error) {
	key := profilesKey()
	var changed bool

	txf := func(tx *redis.Tx) error {
		data, err := s.get(ctx, tx, key)
		if err != nil {
			return err
		}
		doc, err := storage.DecodeDocument(data, s.logger)
		if err != nil {
			return err
		}

		changed = fn(doc)
		if !changed {
			return nil
		}

		encoded, err := doc.Encode()
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return changed, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			s.logger.Debug("profile document changed during update, retrying", slog.Int("attempt", attempt+1))
			continue
		}
		if errors.Is(err, model.ErrPersistenceRead) || errors.Is(err, model.ErrPersistenceWrite) {
			return false, err
		}
		return false, fmt.Errorf("%w: %v", model.ErrPersistenceWrite, err)
	}
	return false, fmt.Errorf("%w: %w", model.ErrPersistenceWrite, ErrTxContention)
}

// get returns nil data when the key does not exist
func (s *Storage) get(ctx context.Context, c redis.Cmdable, key string) ([]byte, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", model.ErrPersistenceRead, err)
	}
	return data, nil
}
