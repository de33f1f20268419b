package model

import (
	"encoding/json"
	"fmt"
)

// FetchSource records which source produced a FetchResult.
type FetchSource string

const (
	SourceAPI    FetchSource = "api"
	SourceScrape FetchSource = "scrape"
	SourceNone   FetchSource = "none"
)

// FetchResult is the outcome of one roster retrieval. It is never persisted.
type FetchResult struct {
	Success    bool
	Message    string
	Hostname   string
	Players    []RawPlayer
	MaxPlayers *int
	Source     FetchSource
}

// PlayerCount is the number of roster entries that decoded as players.
func (r FetchResult) PlayerCount() int {
	return len(r.Players)
}

// RawPlayer is one roster entry as reported by the game server.
type RawPlayer struct {
	Name        string
	Identifiers Identifiers
	ID          int
	Ping        int
}

// Identifiers is the identifier collection of a roster entry. It is one of
// IdentifiersMap, IdentifiersList or IdentifiersUnrecognized.
type Identifiers interface {
	identifiers()
}

// IdentifiersMap is the keyed shape, e.g. {"steam": "...", "discord": "..."}.
type IdentifiersMap map[string]string

// IdentifiersList is the prefixed shape, e.g. ["steam:...", "license:..."].
type IdentifiersList []string

// IdentifiersUnrecognized covers absent or malformed identifier fields.
type IdentifiersUnrecognized struct{}

func (IdentifiersMap) identifiers()          {}
func (IdentifiersList) identifiers()         {}
func (IdentifiersUnrecognized) identifiers() {}

const unknownPlayerName = "Unknown"

// DecodeRoster decodes a JSON roster array. Entries that are not JSON objects
// are skipped and counted; every object entry is kept even without usable
// identifiers. A JSON null roster decodes to an empty slice.
func DecodeRoster(raw json.RawMessage) ([]RawPlayer, int, error) {
	if len(raw) == 0 {
		return []RawPlayer{}, 0, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRosterNotArray, err)
	}

	players := make([]RawPlayer, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			skipped++
			continue
		}
		players = append(players, decodePlayer(fields))
	}

	return players, skipped, nil
}

func decodePlayer(fields map[string]json.RawMessage) RawPlayer {
	p := RawPlayer{
		Name:        unknownPlayerName,
		Identifiers: decodeIdentifiers(fields["identifiers"]),
	}

	var name string
	if err := json.Unmarshal(fields["name"], &name); err == nil {
		p.Name = name
	}
	_ = json.Unmarshal(fields["id"], &p.ID)
	_ = json.Unmarshal(fields["ping"], &p.Ping)

	return p
}

func decodeIdentifiers(raw json.RawMessage) Identifiers {
	if len(raw) == 0 {
		return IdentifiersUnrecognized{}
	}

	var keyed map[string]any
	if err := json.Unmarshal(raw, &keyed); err == nil && keyed != nil {
		out := make(IdentifiersMap, len(keyed))
		for k, v := range keyed {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
		return out
	}

	var listed []any
	if err := json.Unmarshal(raw, &listed); err == nil && listed != nil {
		out := make(IdentifiersList, 0, len(listed))
		for _, v := range listed {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}

	return IdentifiersUnrecognized{}
}
