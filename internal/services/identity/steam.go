package identity

import (
	"strconv"
	"strings"

	"github.com/leighmacdonald/steamid/v4/steamid"
)

const steamProfileBase = "https://steamcommunity.com/profiles/"

// SteamProfileURL converts a FiveM "steam:<hex>" identifier into a Steam
// community profile link. ok is false when the identifier is not a valid
// individual steam account.
func SteamProfileURL(steamID string) (string, bool) {
	hex, found := strings.CutPrefix(strings.TrimSpace(steamID), SteamPrefix)
	if !found || hex == "" {
		return "", false
	}

	id64, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return "", false
	}

	sid := steamid.New(id64)
	if !sid.Valid() {
		return "", false
	}

	return steamProfileBase + sid.String(), true
}
