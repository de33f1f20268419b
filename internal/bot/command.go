package bot

import (
	"regexp"
	"strings"

	"github.com/mcoot/fivem-rosterbot/internal/services/registry"
)

// CommandKind identifies what a mention asked for.
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandHelp
	CommandRegister
	CommandPlayerLookup
	CommandRoster
)

func (k CommandKind) String() string {
	switch k {
	case CommandHelp:
		return "help"
	case CommandRegister:
		return "register"
	case CommandPlayerLookup:
		return "player"
	case CommandRoster:
		return "players"
	default:
		return "none"
	}
}

// Command is a parsed chat command.
type Command struct {
	Kind CommandKind

	// Register
	Registration registry.Registration
	Malformed    bool

	// PlayerLookup
	SteamID string
}

var (
	mentionPattern  = regexp.MustCompile(`<@[!&]?\d+>`)
	registerPattern = regexp.MustCompile(`(?i)register`)
	playerPattern   = regexp.MustCompile(`(?i)player`)
)

// ParseCommand interprets message content. Keywords are matched as
// case-insensitive substrings in priority order: help, register, player
// lookup, roster. Anything else is CommandNone.
func ParseCommand(content string) Command {
	text := strings.TrimSpace(mentionPattern.ReplaceAllString(content, " "))
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "help") || strings.Contains(lower, "ajuda"):
		return Command{Kind: CommandHelp}
	case strings.Contains(lower, "register"):
		return parseRegister(afterFirst(registerPattern, text))
	case strings.Contains(lower, "player ") && !strings.Contains(lower, "players"):
		return Command{Kind: CommandPlayerLookup, SteamID: afterFirst(playerPattern, text)}
	case strings.Contains(lower, "players"):
		return Command{Kind: CommandRoster}
	default:
		return Command{Kind: CommandNone}
	}
}

func afterFirst(pattern *regexp.Regexp, text string) string {
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	return strings.TrimSpace(text[loc[1]:])
}

// parseRegister reads "<id> <nickname>[ - <notes>]". The group is the first
// word of the notes.
func parseRegister(args string) Command {
	cmd := Command{Kind: CommandRegister}

	steamID, rest, found := strings.Cut(args, " ")
	if !found {
		cmd.Malformed = true
		return cmd
	}

	reg := registry.Registration{SteamID: strings.TrimSpace(steamID)}
	rest = strings.TrimSpace(rest)
	if nickname, notes, hasNotes := strings.Cut(rest, "-"); hasNotes {
		reg.Nickname = strings.TrimSpace(nickname)
		reg.Notes = strings.TrimSpace(notes)
		if fields := strings.Fields(reg.Notes); len(fields) > 0 {
			reg.Group = fields[0]
		}
	} else {
		reg.Nickname = rest
	}

	cmd.Registration = reg
	return cmd
}
