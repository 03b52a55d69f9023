package model

import "fmt"

// Settings limits
const (
	MinTimeLimit = 10
	MaxTimeLimit = 300
	MinGridSide  = 2
	MaxGridSide  = 8
)

// Settings holds the options applied when a new round is dealt
type Settings struct {
	TimeLimit int `json:"TimeLimit"` // Seconds
	Rows      int `json:"Rows"`
	Columns   int `json:"Columns"`
}

// DefaultSettings returns the default game settings
func DefaultSettings() Settings {
	return Settings{
		TimeLimit: 60,
		Rows:      4,
		Columns:   4,
	}
}

// TotalCards returns the number of cards on a board of this size
func (s Settings) TotalCards() int {
	return s.Rows * s.Columns
}

// PairCount returns the number of pairs dealt for this board size
func (s Settings) PairCount() int {
	return s.TotalCards() / 2
}

// Clamped returns a copy with every field forced into its allowed range
func (s Settings) Clamped() Settings {
	return Settings{
		TimeLimit: clamp(s.TimeLimit, MinTimeLimit, MaxTimeLimit),
		Rows:      clamp(s.Rows, MinGridSide, MaxGridSide),
		Columns:   clamp(s.Columns, MinGridSide, MaxGridSide),
	}
}

// Validate checks every field is within its limits and that the board can
// be filled with pairs
func (s Settings) Validate() error {
	if s.TimeLimit < MinTimeLimit || s.TimeLimit > MaxTimeLimit {
		return fmt.Errorf("%w: time limit %ds outside %d-%d", ErrConfigurationInvalid, s.TimeLimit, MinTimeLimit, MaxTimeLimit)
	}
	if !inRange(s.Rows, MinGridSide, MaxGridSide) || !inRange(s.Columns, MinGridSide, MaxGridSide) {
		return fmt.Errorf("%w: grid %dx%d outside %d-%d per side", ErrConfigurationInvalid, s.Rows, s.Columns, MinGridSide, MaxGridSide)
	}
	if s.TotalCards()%2 != 0 {
		return fmt.Errorf("%w: %dx%d has an odd number of cards", ErrConfigurationInvalid, s.Rows, s.Columns)
	}
	return nil
}

func inRange(v, lo, hi int) bool {
	return v >= lo && v <= hi
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
