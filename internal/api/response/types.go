package response

import (
	"time"

	"github.com/mcoot/fivem-rosterbot/internal/model"
)

// Status values
const (
	StatusOnline         = "online"
	BotStatusActive      = "active"
	BotStatusSetupNeeded = "setup_required"
)

// HealthResponse is the liveness probe body
type HealthResponse struct {
	Status string `json:"status"`
}

// StatusResponse describes the bot and web surface
type StatusResponse struct {
	BotStatus       string `json:"bot_status"`
	WebServer       string `json:"web_server"`
	TokenConfigured bool   `json:"token_configured"`
	BotThreadActive bool   `json:"bot_thread_active"`
}

// RegisteredPlayer represents a registry record in API responses
type RegisteredPlayer struct {
	SteamID   string    `json:"steam_id"`
	Nickname  string    `json:"nickname"`
	Notes     string    `json:"notes,omitempty"`
	Group     string    `json:"group,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisteredPlayerFromModel converts a model.RegisteredPlayer to a response RegisteredPlayer
func RegisteredPlayerFromModel(rp *model.RegisteredPlayer) RegisteredPlayer {
	return RegisteredPlayer{
		SteamID:   rp.SteamID,
		Nickname:  rp.Nickname,
		Notes:     rp.Notes,
		Group:     rp.Group,
		CreatedAt: rp.CreatedAt,
		UpdatedAt: rp.UpdatedAt,
	}
}

// RegistryResponse lists registry records
type RegistryResponse struct {
	Players []RegisteredPlayer `json:"players"`
}
