package presenter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fivem-rosterbot/internal/dependencies/mocks"
	"github.com/mcoot/fivem-rosterbot/internal/model"
	"github.com/mcoot/fivem-rosterbot/internal/services/grouping"
	"github.com/mcoot/fivem-rosterbot/internal/services/registry"
)

type PresenterSuite struct {
	suite.Suite
	clock     *mocks.MockClock
	presenter *Presenter
}

func TestPresenterSuite(t *testing.T) {
	suite.Run(t, new(PresenterSuite))
}

func (s *PresenterSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC))
	s.presenter = New(Config{ServerID: "byzd3d"}, s.clock)
}

func intPtr(v int) *int { return &v }

// Roster line tests

func (s *PresenterSuite) TestRosterLinesSortedAndOverlaid() {
	players := []model.RawPlayer{
		{Name: "zed", Identifiers: model.IdentifiersList{"steam:3"}},
		{Name: "Alice", Identifiers: model.IdentifiersList{"steam:1"}},
		{Name: "bob", Identifiers: model.IdentifiersUnrecognized{}},
	}
	overlays := map[string]registry.Overlay{
		"steam:1": {Nickname: "Ali", Group: "Families"},
	}

	lines := RosterLines(players, overlays)

	s.Equal([]string{
		"• **Ali** (Families)",
		"• **bob** | Steam: ``",
		"• **zed** | Steam: `steam:3`",
	}, lines)
}

func (s *PresenterSuite) TestRosterLinesWithoutOverlays() {
	lines := RosterLines([]model.RawPlayer{{Name: "Alice", Identifiers: model.IdentifiersMap{"steam": "steam:1"}}}, nil)

	s.Equal([]string{"• **Alice** | Steam: `steam:1`"}, lines)
}

func (s *PresenterSuite) TestRosterLinesDoNotReorderInput() {
	players := []model.RawPlayer{{Name: "b"}, {Name: "a"}}

	RosterLines(players, nil)

	s.Equal("b", players[0].Name)
}

// Roster embed tests

func (s *PresenterSuite) TestRosterGroupsTitlesAndColours() {
	result := model.FetchResult{Success: true, Hostname: "My RP", Players: make([]model.RawPlayer, 3), MaxPlayers: intPtr(64)}
	groups := grouping.New(grouping.DefaultCategories, grouping.DefaultOtherCategory).
		Classify([]string{"• **A** (Families)", "• **B** (ballas)", "• **C** | Steam: `x`"})

	embeds := s.presenter.RosterGroups(result, groups)

	s.Require().Len(embeds, 3)
	s.Equal("My RP - FAMILIES", embeds[0].Title)
	s.Equal(0x00FF00, embeds[0].Color)
	s.Equal("**3/64** players online", embeds[0].Description)
	s.Equal("👥 FAMILIES Players", embeds[0].Fields[0].Name)
	s.Equal("My RP - BALLAS", embeds[1].Title)
	s.Equal("My RP - OUTROS", embeds[2].Title)
	s.Equal(ColorDefault, embeds[2].Color)
	s.Equal("2024-03-05T18:30:00Z", embeds[0].Timestamp)
}

func (s *PresenterSuite) TestRosterGroupsContinuationChunks() {
	p := New(Config{FieldLimit: 30}, s.clock)
	lines := []string{
		"• **Player One** families",
		"• **Player Two** families",
		"• **Player Three** families",
	}
	groups := grouping.New([]string{"families"}, "").Classify(lines)

	embeds := p.RosterGroups(model.FetchResult{Hostname: "RP"}, groups)

	s.Require().Len(embeds, 3)
	s.Equal("RP - FAMILIES", embeds[0].Title)
	s.Equal("RP - FAMILIES (Cont.)", embeds[1].Title)
	s.Equal("RP - FAMILIES (Cont.)", embeds[2].Title)
	s.Equal("**0/0** players online", embeds[0].Description)

	var all []string
	for _, e := range embeds {
		all = append(all, strings.Split(e.Fields[0].Value, "\n")...)
	}
	s.Equal(lines, all)
}

func (s *PresenterSuite) TestRosterGroupsTruncateLongLines() {
	long := "• **" + strings.Repeat("x", 1500) + "** (Families)"
	groups := grouping.New(grouping.DefaultCategories, grouping.DefaultOtherCategory).
		Classify([]string{long, "• **B** (Families)"})

	embeds := s.presenter.RosterGroups(model.FetchResult{Hostname: "h"}, groups)

	s.Require().NotEmpty(embeds)
	for _, e := range embeds {
		s.LessOrEqual(len([]rune(e.Fields[0].Value)), grouping.DefaultChunkLimit)
	}
	s.True(strings.HasSuffix(embeds[0].Fields[0].Value, "…"))
}

func (s *PresenterSuite) TestEmptyRoster() {
	embed := s.presenter.EmptyRoster(model.FetchResult{Success: true, Hostname: "My RP", Players: []model.RawPlayer{}, MaxPlayers: intPtr(32)})

	s.Equal("My RP", embed.Title)
	s.Equal("**0/32** players online", embed.Description)
	s.Equal("No players online at the moment.", embed.Fields[0].Value)
}

func (s *PresenterSuite) TestRosterUnavailable() {
	embed := s.presenter.RosterUnavailable(model.FetchResult{Message: "status 403"}, "rosterbot")

	s.Equal("FiveM Server Info", embed.Title)
	s.Contains(embed.Fields[0].Value, "status 403")
	s.Contains(embed.Fields[2].Value, "@rosterbot players")
}

// Player tests

func (s *PresenterSuite) TestPlayerFound() {
	rp := &model.RegisteredPlayer{
		SteamID:   "steam:110000100000001",
		Nickname:  "Alice",
		Notes:     "Families leader",
		Group:     "Families",
		UpdatedAt: time.Date(2024, 2, 1, 9, 5, 0, 0, time.UTC),
	}

	embed := s.presenter.PlayerFound(rp)

	s.Equal("Informações do Jogador: Alice", embed.Title)
	s.Equal("`steam:110000100000001`", embed.Fields[0].Value)
	s.Equal("Families", embed.Fields[1].Value)
	s.Equal("Families leader", embed.Fields[2].Value)
	s.Equal("https://steamcommunity.com/profiles/76561197960265729", embed.URL)
	s.Equal("Última atualização: 01/02/2024 09:05", embed.Footer.Text)
}

func (s *PresenterSuite) TestPlayerFoundWithoutOptionalFields() {
	embed := s.presenter.PlayerFound(&model.RegisteredPlayer{SteamID: "license:abc", Nickname: "Bob"})

	s.Len(embed.Fields, 1)
	s.Empty(embed.URL)
}

func (s *PresenterSuite) TestRegisteredMessages() {
	rp := &model.RegisteredPlayer{SteamID: "steam:1", Nickname: "Alice"}

	s.Contains(s.presenter.Registered(rp, true), "registrado")
	s.Contains(s.presenter.Registered(rp, false), "atualizado")
}

func (s *PresenterSuite) TestHelpMentionsServer() {
	embed := s.presenter.Help("rosterbot", "")

	s.Contains(embed.Fields[0].Value, "byzd3d")
	s.Contains(embed.Fields[1].Value, "@rosterbot players")
	s.Equal("Bot criado por FiveM Discord", embed.Footer.Text)
}

func (s *PresenterSuite) TestErrorTruncates() {
	p := New(Config{FieldLimit: 10}, s.clock)

	embed := p.Error(strings.Repeat("x", 50))

	s.Len([]rune(embed.Description), 10)
}
