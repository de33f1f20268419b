package model

import "time"

// RegisteredPlayer is a registry record keyed by the verbatim FiveM steam
// identifier (e.g. "steam:110000100000001").
type RegisteredPlayer struct {
	SteamID   string
	Nickname  string
	Notes     string
	Group     string // empty when unset
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity holds the identifiers pulled out of a roster entry.
// An empty string means the identifier was not present.
type Identity struct {
	SteamID   string
	DiscordID string
}
