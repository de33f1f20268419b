// Package presenter renders bot replies as Discord embeds.
package presenter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/mcoot/fivem-rosterbot/internal/dependencies/clock"
	"github.com/mcoot/fivem-rosterbot/internal/model"
	"github.com/mcoot/fivem-rosterbot/internal/services/grouping"
	"github.com/mcoot/fivem-rosterbot/internal/services/identity"
	"github.com/mcoot/fivem-rosterbot/internal/services/registry"
)

// Embed colours
const (
	ColorInfo    = 0x3498DB
	ColorSuccess = 0x2ECC71
	ColorWarning = 0xE67E22
	ColorError   = 0xE74C3C
	ColorDefault = 0x696969
)

// DefaultCategoryColors maps lower-cased category names to embed colours.
var DefaultCategoryColors = map[string]int{
	"families":  0x00FF00,
	"bennys":    0x0000FF,
	"angels":    0xFFFFFF,
	"ballas":    0x800080,
	"randola":   0xFFA500,
	"policia":   0x000080,
	"vagos":     0xFFFF00,
	"marabunta": 0x00FFFF,
	"the lost":  0x808080,
	"outros":    ColorDefault,
}

const (
	updatedAtLayout   = "02/01/2006 15:04"
	continuationTitle = " (Cont.)"
	serverListURL     = "https://servers.fivem.net/"
	apiStatusURL      = "https://status.cfx.re/"
)

// RegisterUsage is the reply to a malformed register command.
const RegisterUsage = "❌ Formato inválido. Use: `@bot register steam:ID NomeJogador - Grupo/Notas`"

// Config holds presenter configuration
type Config struct {
	ServerID   string
	FieldLimit int
	Colors     map[string]int
}

// Presenter builds reply embeds. It is stateless apart from configuration.
type Presenter struct {
	serverID   string
	fieldLimit int
	colors     map[string]int
	clock      clock.Clock
}

// New creates a new Presenter
func New(cfg Config, clock clock.Clock) *Presenter {
	if cfg.FieldLimit <= 0 {
		cfg.FieldLimit = grouping.DefaultChunkLimit
	}
	if cfg.Colors == nil {
		cfg.Colors = DefaultCategoryColors
	}
	return &Presenter{
		serverID:   cfg.ServerID,
		fieldLimit: cfg.FieldLimit,
		colors:     cfg.Colors,
		clock:      clock,
	}
}

func (p *Presenter) timestamp() string {
	return p.clock.Now().UTC().Format(time.RFC3339)
}

// Help renders the command overview.
func (p *Presenter) Help(botName, guildName string) *discordgo.MessageEmbed {
	if guildName == "" {
		guildName = "FiveM Discord"
	}
	return &discordgo.MessageEmbed{
		Title:       "Ajuda do Bot FiveM",
		Description: "Este bot permite verificar informações de servidores FiveM.",
		Color:       ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "📋 Comandos Disponíveis",
				Value: fmt.Sprintf("• `@bot players` - Mostra os jogadores do servidor %s\n", p.serverID) +
					"• `@bot register steam:ID NomeJogador - Grupo/Notas` - Registra ou atualiza um jogador\n" +
					"• `@bot player steam:ID` - Busca as informações registradas de um jogador\n" +
					"• `@bot help` ou `@bot ajuda` - Mostra esta mensagem de ajuda",
			},
			{
				Name: "💡 Como usar",
				Value: fmt.Sprintf("Mencione o bot seguido do comando. Por exemplo:\n`@%s players`\n\n", botName) +
					"O erro 403 significa que a API do FiveM está limitando o acesso.",
			},
			{
				Name:  "🌐 Links Úteis",
				Value: fmt.Sprintf("• [Lista de Servidores FiveM](%s)\n• [Status da API FiveM](%s)", serverListURL, apiStatusURL),
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Bot criado por " + guildName},
	}
}

// Registered confirms a register command.
func (p *Presenter) Registered(rp *model.RegisteredPlayer, created bool) string {
	if created {
		return fmt.Sprintf("✅ Jogador registrado: `%s` com ID `%s`", rp.Nickname, rp.SteamID)
	}
	return fmt.Sprintf("✅ Jogador atualizado: `%s` com ID `%s`", rp.Nickname, rp.SteamID)
}

// PlayerFound renders a registry record.
func (p *Presenter) PlayerFound(rp *model.RegisteredPlayer) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Informações do Jogador: " + rp.Nickname,
		Color: ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Steam ID", Value: "`" + rp.SteamID + "`"},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Última atualização: " + rp.UpdatedAt.Format(updatedAtLayout),
		},
	}
	if rp.Group != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Grupo", Value: rp.Group, Inline: true})
	}
	if rp.Notes != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Notas", Value: rp.Notes})
	}
	if url, ok := identity.SteamProfileURL(rp.SteamID); ok {
		embed.URL = url
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Perfil Steam", Value: url})
	}
	return embed
}

// PlayerNotFound is the reply for an unknown steam id.
func (p *Presenter) PlayerNotFound(steamID string) string {
	return fmt.Sprintf("❌ Jogador com ID `%s` não encontrado no registro.", steamID)
}

// PlayerLookupUsage is the reply to a player command without an id.
func (p *Presenter) PlayerLookupUsage() string {
	return "❌ Informe o ID. Use: `@bot player steam:ID`"
}

// RosterUnavailable renders a failed fetch.
func (p *Presenter) RosterUnavailable(result model.FetchResult, botName string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "FiveM Server Info",
		Description: "⚠️ Não foi possível obter dados do servidor FiveM",
		Color:       ColorWarning,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "🔍 Status",
				Value: truncate("Erro: "+result.Message, p.fieldLimit),
			},
			{
				Name:  "💡 Como encontrar servidores",
				Value: "Você pode encontrar servidores no próprio jogo FiveM ou pelo site: " + serverListURL,
			},
			{
				Name:  "🔧 Como usar o bot",
				Value: fmt.Sprintf("Mencione o bot junto com 'players':\n`@%s players`", botName),
			},
		},
		Timestamp: p.timestamp(),
	}
}

func onlineSummary(result model.FetchResult) string {
	maxPlayers := 0
	if result.MaxPlayers != nil {
		maxPlayers = *result.MaxPlayers
	}
	return fmt.Sprintf("**%d/%d** players online", result.PlayerCount(), maxPlayers)
}

// EmptyRoster renders a successful fetch with nobody online.
func (p *Presenter) EmptyRoster(result model.FetchResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       result.Hostname,
		Description: onlineSummary(result),
		Color:       ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🔍 Server Status", Value: "No players online at the moment."},
		},
		Timestamp: p.timestamp(),
	}
}

// RosterLines renders one line per player, sorted by case-insensitive name.
// Registered players show their nickname and group instead of their steam id.
func RosterLines(players []model.RawPlayer, overlays map[string]registry.Overlay) []string {
	sorted := make([]model.RawPlayer, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})

	lines := make([]string, 0, len(sorted))
	for _, player := range sorted {
		id := identity.Normalize(player)
		if overlay, ok := overlays[id.SteamID]; ok && id.SteamID != "" {
			group := overlay.Group
			if group == "" {
				group = "N/A"
			}
			lines = append(lines, fmt.Sprintf("• **%s** (%s)", overlay.Nickname, group))
			continue
		}

		lines = append(lines, fmt.Sprintf("• **%s** | Steam: `%s`", player.Name, id.SteamID))
	}
	return lines
}

// RosterGroups renders one embed per non-empty bucket chunk, in bucket order.
func (p *Presenter) RosterGroups(result model.FetchResult, groups grouping.Groups) []*discordgo.MessageEmbed {
	var embeds []*discordgo.MessageEmbed
	for _, bucket := range groups.NonEmpty() {
		label := strings.ToUpper(bucket.Name)
		color, ok := p.colors[strings.ToLower(bucket.Name)]
		if !ok {
			color = ColorDefault
		}

		lines := make([]string, len(bucket.Lines))
		for i, line := range bucket.Lines {
			lines[i] = truncate(line, p.fieldLimit)
		}

		for i, chunk := range grouping.Chunk(lines, p.fieldLimit) {
			title := fmt.Sprintf("%s - %s", result.Hostname, label)
			if i > 0 {
				title += continuationTitle
			}
			embeds = append(embeds, &discordgo.MessageEmbed{
				Title:       title,
				Description: onlineSummary(result),
				Color:       color,
				Fields: []*discordgo.MessageEmbedField{
					{Name: fmt.Sprintf("👥 %s Players", label), Value: strings.Join(chunk, "\n")},
				},
				Timestamp: p.timestamp(),
			})
		}
	}
	return embeds
}

// Error renders an unexpected failure.
func (p *Presenter) Error(description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Error",
		Description: truncate(description, p.fieldLimit),
		Color:       ColorError,
	}
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
