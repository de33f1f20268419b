// Package identity extracts player identifiers from roster entries.
package identity

import (
	"strings"

	"github.com/mcoot/fivem-rosterbot/internal/model"
)

const (
	SteamPrefix   = "steam:"
	DiscordPrefix = "discord:"

	mapSteamKey   = "steam"
	mapDiscordKey = "discord"
)

// Normalize returns the steam and discord identifiers of a roster entry.
// Keyed identifiers are returned as stored; listed identifiers are returned
// with their prefix, matching the registry key format.
func Normalize(p model.RawPlayer) model.Identity {
	switch ids := p.Identifiers.(type) {
	case model.IdentifiersMap:
		return model.Identity{
			SteamID:   ids[mapSteamKey],
			DiscordID: ids[mapDiscordKey],
		}
	case model.IdentifiersList:
		var id model.Identity
		var steamFound, discordFound bool
		for _, v := range ids {
			if !steamFound && strings.HasPrefix(v, SteamPrefix) {
				id.SteamID = v
				steamFound = true
			}
			if !discordFound && strings.HasPrefix(v, DiscordPrefix) {
				id.DiscordID = v
				discordFound = true
			}
			if steamFound && discordFound {
				break
			}
		}
		return id
	default:
		return model.Identity{}
	}
}
