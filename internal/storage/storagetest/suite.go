// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/memgame-go/internal/model"
	"github.com/mcoot/memgame-go/internal/storage"
)

// Suite runs the common storage contract against a backend.
// Embed it and set Storage in SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) profile(name string) *model.Profile {
	return &model.Profile{
		Username:   name,
		AvatarPath: "avatars/" + name + ".png",
	}
}

func (s *Suite) TestLoadProfilesEmpty() {
	profiles, err := s.Storage.LoadProfiles(s.Ctx)
	s.Require().NoError(err)
	s.NotNil(profiles)
	s.Empty(profiles)
}

func (s *Suite) TestSaveAndLoadProfiles() {
	err := s.Storage.SaveProfiles(s.Ctx, []*model.Profile{s.profile("alice"), s.profile("bob")})
	s.Require().NoError(err)

	profiles, err := s.Storage.LoadProfiles(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(profiles, 2)
	s.Equal("alice", profiles[0].Username)
	s.Equal("bob", profiles[1].Username)
	s.Equal("avatars/bob.png", profiles[1].AvatarPath)
}

func (s *Suite) TestSaveProfileAppendsAndReplaces() {
	s.Require().NoError(s.Storage.SaveProfile(s.Ctx, s.profile("alice")))
	s.Require().NoError(s.Storage.SaveProfile(s.Ctx, s.profile("bob")))

	updated := s.profile("alice")
	updated.GamesPlayed = 3
	updated.GamesWon = 2
	s.Require().NoError(s.Storage.SaveProfile(s.Ctx, updated))

	profiles, err := s.Storage.LoadProfiles(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(profiles, 2)
	s.Equal("alice", profiles[0].Username)
	s.Equal(3, profiles[0].GamesPlayed)
	s.Equal(2, profiles[0].GamesWon)
}

func (s *Suite) TestSavedGameRoundTrip() {
	saved := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	p := s.profile("alice")
	p.SavedGameState = &model.SavedGameState{
		Cards: []model.SavedCard{
			{ID: 0, ImagePath: "a.png", IsMatched: true, IsFlipped: true},
			{ID: 1, ImagePath: "a.png", IsMatched: true, IsFlipped: true},
			{ID: 2, ImagePath: "b.png", IsFlipped: true},
			{ID: 3, ImagePath: "b.png"},
		},
		TimeRemaining: 42,
		Moves:         3,
		GridRows:      2,
		GridColumns:   2,
		SavedDate:     saved,
	}
	s.Require().NoError(s.Storage.SaveProfile(s.Ctx, p))

	profiles, err := s.Storage.LoadProfiles(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(profiles, 1)
	got := profiles[0].SavedGameState
	s.Require().NotNil(got)
	s.Equal(p.SavedGameState.Cards, got.Cards)
	s.Equal(42, got.TimeRemaining)
	s.Equal(3, got.Moves)
	s.Equal(2, got.GridRows)
	s.Equal(2, got.GridColumns)
	s.True(saved.Equal(got.SavedDate))
}

func (s *Suite) TestLoadedProfilesAreCopies() {
	s.Require().NoError(s.Storage.SaveProfile(s.Ctx, s.profile("alice")))

	profiles, err := s.Storage.LoadProfiles(s.Ctx)
	s.Require().NoError(err)
	profiles[0].GamesWon = 99

	again, err := s.Storage.LoadProfiles(s.Ctx)
	s.Require().NoError(err)
	s.Equal(0, again[0].GamesWon)
}

func (s *Suite) TestDeleteProfile() {
	s.Require().NoError(s.Storage.SaveProfiles(s.Ctx, []*model.Profile{s.profile("alice"), s.profile("bob")}))

	found, err := s.Storage.DeleteProfile(s.Ctx, "alice")
	s.Require().NoError(err)
	s.True(found)

	profiles, err := s.Storage.LoadProfiles(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(profiles, 1)
	s.Equal("bob", profiles[0].Username)
}

func (s *Suite) TestDeleteProfileNotFound() {
	s.Require().NoError(s.Storage.SaveProfile(s.Ctx, s.profile("alice")))

	found, err := s.Storage.DeleteProfile(s.Ctx, "nobody")
	s.Require().NoError(err)
	s.False(found)

	profiles, err := s.Storage.LoadProfiles(s.Ctx)
	s.Require().NoError(err)
	s.Len(profiles, 1)
}

func (s *Suite) TestLoadSettingsNotFound() {
	_, err := s.Storage.LoadSettings(s.Ctx)
	s.ErrorIs(err, model.ErrSettingsNotFound)
}

func (s *Suite) TestSaveAndLoadSettings() {
	want := model.Settings{TimeLimit: 90, Rows: 4, Columns: 6}
	s.Require().NoError(s.Storage.SaveSettings(s.Ctx, want))

	got, err := s.Storage.LoadSettings(s.Ctx)
	s.Require().NoError(err)
	s.Equal(want, got)
}
