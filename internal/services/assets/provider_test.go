package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/memgame-go/internal/model"
	"github.com/mcoot/memgame-go/internal/testutil"
)

type ProviderSuite struct {
	suite.Suite
	ctx context.Context
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderSuite))
}

func (s *ProviderSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *ProviderSuite) touch(dir string, names ...string) {
	for _, name := range names {
		s.Require().NoError(os.WriteFile(filepath.Join(dir, name), []byte{0}, 0o600))
	}
}

func (s *ProviderSuite) TestBuiltinImages() {
	p := New(Config{}, testutil.NopLogger())

	images, err := p.Images(s.ctx)
	s.Require().NoError(err)
	s.Len(images, 32)
	s.Equal("images/apple.png", images[0])
}

func (s *ProviderSuite) TestBuiltinAvatars() {
	p := New(Config{}, testutil.NopLogger())

	avatars, err := p.Avatars(s.ctx)
	s.Require().NoError(err)
	s.NotEmpty(avatars)
	s.Equal("avatars/cat.png", avatars[0])
}

func (s *ProviderSuite) TestScanFiltersByExtension() {
	dir := s.T().TempDir()
	s.touch(dir, "b.PNG", "a.jpg", "c.jpeg", "notes.txt", "d.gif")
	s.Require().NoError(os.Mkdir(filepath.Join(dir, "nested.png"), 0o700))

	p := New(Config{ImagesDir: dir}, testutil.NopLogger())
	images, err := p.Images(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.PNG"),
		filepath.Join(dir, "c.jpeg"),
	}, images)
}

func (s *ProviderSuite) TestScanEmptyDirectory() {
	p := New(Config{AvatarsDir: s.T().TempDir()}, testutil.NopLogger())

	avatars, err := p.Avatars(s.ctx)
	s.Require().NoError(err)
	s.Empty(avatars)
}

func (s *ProviderSuite) TestScanMissingDirectory() {
	p := New(Config{ImagesDir: filepath.Join(s.T().TempDir(), "missing")}, testutil.NopLogger())

	_, err := p.Images(s.ctx)
	s.ErrorIs(err, model.ErrAssetPoolEmpty)
}

func (s *ProviderSuite) TestLabel() {
	s.Equal("red-fox", Label("/home/me/avatars/Red Fox.png"))
	s.Equal("apple", Label("images/apple.png"))
	s.Equal("", Label(""))
}

func (s *ProviderSuite) TestCycleWraps() {
	pool := []string{"a", "b", "c"}

	next, err := Cycle(pool, "c", 1)
	s.Require().NoError(err)
	s.Equal("a", next)

	prev, err := Cycle(pool, "a", -1)
	s.Require().NoError(err)
	s.Equal("c", prev)

	same, err := Cycle(pool, "b", 0)
	s.Require().NoError(err)
	s.Equal("b", same)
}

func (s *ProviderSuite) TestCycleUnknownCurrent() {
	pool := []string{"a", "b", "c"}

	next, err := Cycle(pool, "zzz", 1)
	s.Require().NoError(err)
	s.Equal("a", next)

	prev, err := Cycle(pool, "zzz", -1)
	s.Require().NoError(err)
	s.Equal("c", prev)
}

func (s *ProviderSuite) TestCycleEmptyPool() {
	_, err := Cycle(nil, "a", 1)
	s.ErrorIs(err, model.ErrAssetPoolEmpty)
}
