package redis

import (
	"fmt"

	"github.com/ChampneyBull/dubai-app/internal/model"
)

// Key prefix for all leaderboard data
const keyPrefix = "dubai"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%d", keyPrefix, id)
}

// playersIndexKey returns the Redis key for the SET of all player keys
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// requestKey returns the Redis key for a WinningsRequest
func requestKey(id model.RequestID) string {
	return fmt.Sprintf("%s:request:%s", keyPrefix, id)
}

// requestsIndexKey returns the Redis key for the SET of all request keys
func requestsIndexKey() string {
	return fmt.Sprintf("%s:idx:requests", keyPrefix)
}
