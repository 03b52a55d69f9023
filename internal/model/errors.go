package model

import "errors"

// Common errors used across the application
var (
	// Settings errors
	ErrConfigurationInvalid = errors.New("invalid game configuration")
	ErrSettingsNotFound     = errors.New("settings not found")

	// Asset errors
	ErrAssetPoolEmpty        = errors.New("asset pool is empty")
	ErrAssetPoolInsufficient = errors.New("not enough distinct assets for every pair")

	// Round errors
	ErrRoundNotStarted      = errors.New("round has not been dealt")
	ErrRoundAlreadyTerminal = errors.New("round is already finished")
	ErrSnapshotInvalid      = errors.New("saved game is invalid")
	ErrNoSavedRound         = errors.New("no saved game")

	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")
	ErrUsernameEmpty   = errors.New("username must not be empty")
	ErrUsernameExists  = errors.New("a user with this name already exists")
	ErrNoCurrentUser   = errors.New("no user signed in")

	// Persistence errors
	ErrPersistenceRead  = errors.New("failed to read saved data")
	ErrPersistenceWrite = errors.New("failed to write saved data")
)
