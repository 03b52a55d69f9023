package model

import (
	"strings"
	"time"
)

// Profile is a local player with persisted statistics.
// Field names double as the persisted JSON layout.
type Profile struct {
	Username       string          `json:"Username"`
	AvatarPath     string          `json:"AvatarPath"`
	GamesWon       int             `json:"GamesWon"`
	GamesPlayed    int             `json:"GamesPlayed"`
	SavedGameState *SavedGameState `json:"SavedGameState,omitempty"`
}

// WinRate returns the percentage of games won, 0 when nothing has been played
func (p *Profile) WinRate() float64 {
	if p.GamesPlayed <= 0 {
		return 0
	}
	return float64(p.GamesWon) / float64(p.GamesPlayed) * 100
}

// HasSavedGame returns true if the profile holds an in-progress round
func (p *Profile) HasSavedGame() bool {
	return p.SavedGameState != nil
}

// SameUsername compares usernames case-insensitively
func SameUsername(a, b string) bool {
	return strings.EqualFold(a, b)
}

// SavedCard is the persisted form of a Card
type SavedCard struct {
	ID        int    `json:"Id"`
	ImagePath string `json:"ImagePath"`
	IsMatched bool   `json:"IsMatched"`
	IsFlipped bool   `json:"IsFlipped"`
}

// SavedGameState is a snapshot of an in-progress round owned by one profile
type SavedGameState struct {
	Cards         []SavedCard `json:"Cards"`
	TimeRemaining int         `json:"TimeRemaining"`
	Moves         int         `json:"Moves"`
	GridRows      int         `json:"GridRows"`
	GridColumns   int         `json:"GridColumns"`
	SavedDate     time.Time   `json:"SavedDate"`
}
