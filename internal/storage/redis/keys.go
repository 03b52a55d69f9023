package redis

import "fmt"

// Key prefix for all memory game data
const keyPrefix = "memgame"

// profilesKey returns the Redis key holding the profile document
func profilesKey() string {
	return fmt.Sprintf("%s:profiles", keyPrefix)
}

// settingsKey returns the Redis key holding the settings document
func settingsKey() string {
	return fmt.Sprintf("%s:settings", keyPrefix)
}
