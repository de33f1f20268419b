package redis

import "fmt"

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func (s *Storage) registeredPlayerKey(steamID string) string {
	return fmt.Sprintf("%s:registered_player:%s", s.cfg.KeyPrefix, steamID)
}

// registeredPlayersIndexKey returns the Redis key for the SET of registered steam ids
func (s *Storage) registeredPlayersIndexKey() string {
	return fmt.Sprintf("%s:idx:registered_players", s.cfg.KeyPrefix)
}
