package storage

import (
	"context"

	"github.com/mcoot/memgame-go/internal/model"
)

// Storage persists profiles and settings. Every operation reads or replaces
// the whole document; concurrent writers are not coordinated and the last
// one wins.
type Storage interface {
	// Profile operations
	LoadProfiles(ctx context.Context) ([]*model.Profile, error)
	SaveProfiles(ctx context.Context, profiles []*model.Profile) error
	SaveProfile(ctx context.Context, profile *model.Profile) error
	DeleteProfile(ctx context.Context, username string) (bool, error)

	// Settings operations
	LoadSettings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, settings model.Settings) error
}
