package model

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ModelSuite struct {
	suite.Suite
}

func TestModelSuite(t *testing.T) {
	suite.Run(t, new(ModelSuite))
}

func (s *ModelSuite) TestDefaultSettingsAreValid() {
	settings := DefaultSettings()
	s.Equal(60, settings.TimeLimit)
	s.Equal(16, settings.TotalCards())
	s.Equal(8, settings.PairCount())
	s.NoError(settings.Validate())
}

func (s *ModelSuite) TestClampedForcesRanges() {
	low := Settings{TimeLimit: 1, Rows: 0, Columns: -3}.Clamped()
	s.Equal(Settings{TimeLimit: MinTimeLimit, Rows: MinGridSide, Columns: MinGridSide}, low)

	high := Settings{TimeLimit: 1000, Rows: 12, Columns: 9}.Clamped()
	s.Equal(Settings{TimeLimit: MaxTimeLimit, Rows: MaxGridSide, Columns: MaxGridSide}, high)

	inRange := Settings{TimeLimit: 45, Rows: 3, Columns: 4}
	s.Equal(inRange, inRange.Clamped())
}

func (s *ModelSuite) TestValidateRejectsOddBoards() {
	err := Settings{TimeLimit: 60, Rows: 3, Columns: 3}.Validate()
	s.ErrorIs(err, ErrConfigurationInvalid)

	err = Settings{TimeLimit: 60, Rows: 0, Columns: 4}.Validate()
	s.ErrorIs(err, ErrConfigurationInvalid)

	s.NoError(Settings{TimeLimit: 60, Rows: 3, Columns: 4}.Validate())
}

func (s *ModelSuite) TestValidateRejectsOutOfRange() {
	cases := []Settings{
		{TimeLimit: -5, Rows: 2, Columns: 2},
		{TimeLimit: 9, Rows: 2, Columns: 2},
		{TimeLimit: 301, Rows: 2, Columns: 2},
		{TimeLimit: 60, Rows: 1, Columns: 2},
		{TimeLimit: 60, Rows: 20, Columns: 20},
		{TimeLimit: 60, Rows: 2, Columns: 10},
	}
	for _, c := range cases {
		s.ErrorIs(c.Validate(), ErrConfigurationInvalid, "%+v", c)
		s.NoError(c.Clamped().Validate(), "clamped %+v", c)
	}

	s.NoError(Settings{TimeLimit: MinTimeLimit, Rows: MinGridSide, Columns: MinGridSide}.Validate())
	s.NoError(Settings{TimeLimit: MaxTimeLimit, Rows: MaxGridSide, Columns: MaxGridSide}.Validate())
}

func (s *ModelSuite) TestWinRate() {
	s.Zero((&Profile{}).WinRate())
	s.InDelta(25.0, (&Profile{GamesPlayed: 4, GamesWon: 1}).WinRate(), 0.001)
	s.InDelta(100.0, (&Profile{GamesPlayed: 2, GamesWon: 2}).WinRate(), 0.001)
}

func (s *ModelSuite) TestSameUsernameIgnoresCase() {
	s.True(SameUsername("Alice", "aLICE"))
	s.False(SameUsername("Alice", "Alicia"))
}

func (s *ModelSuite) TestRoundCounts() {
	r := &Round{
		State: RoundStateActive,
		Cards: []Card{
			{ID: 0, ImagePath: "a", IsMatched: true},
			{ID: 1, ImagePath: "a", IsMatched: true},
			{ID: 2, ImagePath: "b", IsFlipped: true},
			{ID: 3, ImagePath: "b"},
		},
	}

	s.Equal(2, r.MatchedCount())
	s.False(r.AllMatched())
	s.Empty(r.Outcome())
	s.Same(&r.Cards[2], r.Card(2))
	s.Nil(r.Card(9))
	s.Nil(r.CardAt(4))
	s.True(r.CardAt(2).IsFaceUp())
	s.False(r.CardAt(3).IsFaceUp())
	s.True(r.Card(2).Matches(r.Card(3)))

	r.Cards[2].IsMatched = true
	r.Cards[3].IsMatched = true
	r.State = RoundStateWon
	s.True(r.AllMatched())
	s.Equal(RoundStateWon, r.Outcome())
}

func (s *ModelSuite) TestEmptyRoundIsNotWon() {
	s.False((&Round{}).AllMatched())
}
