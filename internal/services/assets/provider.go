package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"

	"github.com/mcoot/memgame-go/internal/model"
)

// Extensions recognised as image assets
var imageExtensions = []string{".jpg", ".jpeg", ".png"}

// Built-in pools used when no directory is configured
var (
	builtinImages = []string{
		"apple", "banana", "cherry", "grape", "lemon", "lime", "mango", "melon",
		"orange", "peach", "pear", "plum", "kiwi", "fig", "coconut", "papaya",
		"anchor", "balloon", "bicycle", "camera", "compass", "crown", "drum", "feather",
		"guitar", "kite", "lantern", "rocket", "sailboat", "telescope", "umbrella", "violin",
	}
	builtinAvatars = []string{
		"cat", "dog", "fox", "owl", "panda", "rabbit", "tiger", "turtle",
	}
)

// Config points the provider at asset directories. Empty means built-in.
type Config struct {
	ImagesDir  string
	AvatarsDir string
}

// Provider lists the card images and avatars available to the game
type Provider struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a new asset Provider
func New(cfg Config, logger *slog.Logger) *Provider {
	return &Provider{
		cfg:    cfg,
		logger: logger,
	}
}

// Images returns the card image pool
func (p *Provider) Images(ctx context.Context) ([]string, error) {
	if p.cfg.ImagesDir == "" {
		return builtin("images", builtinImages), nil
	}
	return p.scan(p.cfg.ImagesDir)
}

// Avatars returns the avatar pool
func (p *Provider) Avatars(ctx context.Context) ([]string, error) {
	if p.cfg.AvatarsDir == "" {
		return builtin("avatars", builtinAvatars), nil
	}
	return p.scan(p.cfg.AvatarsDir)
}

// scan lists image files directly inside dir, sorted by name
func (p *Provider) scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", model.ErrAssetPoolEmpty, dir)
		}
		return nil, fmt.Errorf("%w: %v", model.ErrPersistenceRead, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	p.logger.Debug("scanned asset directory",
		slog.String("dir", dir),
		slog.Int("count", len(paths)),
	)
	return paths, nil
}

// IsImage reports whether name has a recognised image extension
func IsImage(name string) bool {
	return slices.Contains(imageExtensions, strings.ToLower(filepath.Ext(name)))
}

// Label turns an asset path into a short display name
func Label(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if label := slug.Make(base); label != "" {
		return label
	}
	return base
}

// Cycle steps through pool from current, wrapping at either end. A current
// value not in the pool starts from the first (forward) or last (backward) entry.
func Cycle(pool []string, current string, step int) (string, error) {
	if len(pool) == 0 {
		return "", model.ErrAssetPoolEmpty
	}

	idx := slices.Index(pool, current)
	if idx < 0 {
		if step < 0 {
			return pool[len(pool)-1], nil
		}
		return pool[0], nil
	}

	n := len(pool)
	return pool[((idx+step)%n+n)%n], nil
}

func builtin(dir string, names []string) []string {
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = dir + "/" + name + ".png"
	}
	return paths
}
