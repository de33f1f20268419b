package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mcoot/fivem-rosterbot/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case RegisteredPlayer:
		o.printRegisteredPlayer(v)
	case []RegisteredPlayer:
		o.printRegistry(v)
	case RosterReport:
		o.printRoster(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// RegisteredPlayer is the CLI view of a registry record
type RegisteredPlayer struct {
	SteamID   string    `json:"steam_id"`
	Nickname  string    `json:"nickname"`
	Group     string    `json:"group,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func registeredPlayerFromModel(rp *model.RegisteredPlayer) RegisteredPlayer {
	return RegisteredPlayer{
		SteamID:   rp.SteamID,
		Nickname:  rp.Nickname,
		Group:     rp.Group,
		Notes:     rp.Notes,
		CreatedAt: rp.CreatedAt,
		UpdatedAt: rp.UpdatedAt,
	}
}

// RosterReport is one grouped roster snapshot
type RosterReport struct {
	ServerID   string        `json:"server_id"`
	Success    bool          `json:"success"`
	Message    string        `json:"message,omitempty"`
	Hostname   string        `json:"hostname"`
	Source     string        `json:"source"`
	Online     int           `json:"online"`
	MaxPlayers *int          `json:"max_players,omitempty"`
	Groups     []RosterGroup `json:"groups"`
}

// RosterGroup is one category of a roster report
type RosterGroup struct {
	Name  string   `json:"name"`
	Lines []string `json:"lines"`
}

// HealthResult combines the health probe and the status endpoint
type HealthResult struct {
	Status          string `json:"status"`
	BotStatus       string `json:"bot_status"`
	WebServer       string `json:"web_server"`
	TokenConfigured bool   `json:"token_configured"`
	BotThreadActive bool   `json:"bot_thread_active"`
}

func (o *Output) printRegisteredPlayer(p RegisteredPlayer) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.Nickname, p.SteamID)
	if p.Group != "" {
		fmt.Fprintf(o.w, "Group: %s\n", p.Group)
	}
	if p.Notes != "" {
		fmt.Fprintf(o.w, "Notes: %s\n", p.Notes)
	}
	fmt.Fprintf(o.w, "Updated: %s\n", p.UpdatedAt.Format(time.RFC3339))
}

func (o *Output) printRegistry(players []RegisteredPlayer) {
	fmt.Fprintf(o.w, "Registered players (%d):\n", len(players))
	for _, p := range players {
		group := p.Group
		if group == "" {
			group = "N/A"
		}
		fmt.Fprintf(o.w, "  - %s (%s) - %s\n", p.Nickname, p.SteamID, group)
	}
}

func (o *Output) printRoster(r RosterReport) {
	if !r.Success {
		fmt.Fprintf(o.w, "Roster unavailable for %s: %s\n", r.ServerID, r.Message)
		return
	}

	maxPlayers := 0
	if r.MaxPlayers != nil {
		maxPlayers = *r.MaxPlayers
	}
	fmt.Fprintf(o.w, "%s (%d/%d online, via %s)\n", r.Hostname, r.Online, maxPlayers, r.Source)
	if len(r.Groups) == 0 {
		fmt.Fprintln(o.w, "No players online.")
		return
	}
	for _, g := range r.Groups {
		fmt.Fprintf(o.w, "\n%s (%d):\n", g.Name, len(g.Lines))
		for _, line := range g.Lines {
			fmt.Fprintf(o.w, "  %s\n", line)
		}
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	if h.BotStatus != "" {
		fmt.Fprintf(o.w, "Bot: %s (token configured: %t, running: %t)\n", h.BotStatus, h.TokenConfigured, h.BotThreadActive)
	}
}
