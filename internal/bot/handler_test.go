package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fivem-rosterbot/internal/dependencies/mocks"
	"github.com/mcoot/fivem-rosterbot/internal/model"
	"github.com/mcoot/fivem-rosterbot/internal/presenter"
	"github.com/mcoot/fivem-rosterbot/internal/services/grouping"
	"github.com/mcoot/fivem-rosterbot/internal/services/registry"
	"github.com/mcoot/fivem-rosterbot/internal/storage/memory"
	"github.com/mcoot/fivem-rosterbot/internal/testutil"
)

type sentMessage struct {
	kind      string // reply, text, send
	channelID string
	embed     *discordgo.MessageEmbed
	text      string
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []sentMessage
	typing  int
	sendErr error
}

func (f *fakeSender) Reply(ctx context.Context, ref MessageRef, embed *discordgo.MessageEmbed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{kind: "reply", channelID: ref.ChannelID, embed: embed})
	return nil
}

func (f *fakeSender) ReplyText(ctx context.Context, ref MessageRef, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{kind: "text", channelID: ref.ChannelID, text: text})
	return nil
}

func (f *fakeSender) Send(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{kind: "send", channelID: channelID, embed: embed})
	return nil
}

func (f *fakeSender) Typing(ctx context.Context, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing++
	return nil
}

type fakeFetcher struct {
	result model.FetchResult
	calls  int
	panics bool
}

func (f *fakeFetcher) Fetch(ctx context.Context, serverID string) model.FetchResult {
	f.calls++
	if f.panics {
		panic("fetch exploded")
	}
	return f.result
}

type brokenRegistry struct {
	*registry.Service
}

func (brokenRegistry) Overlays(context.Context) (map[string]registry.Overlay, error) {
	return nil, errors.New("db down")
}

// failingStore fails every write and read of a single record.
type failingStore struct {
	*memory.Storage
}

func (failingStore) SaveRegisteredPlayer(context.Context, *model.RegisteredPlayer) error {
	return errors.New("db down")
}

func (failingStore) GetRegisteredPlayer(context.Context, string) (*model.RegisteredPlayer, error) {
	return nil, errors.New("db down")
}

type HandlerSuite struct {
	suite.Suite
	storage  *memory.Storage
	registry *registry.Service
	fetcher  *fakeFetcher
	sender   *fakeSender
	handler  *Handler
	ctx      context.Context
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.storage = memory.New()
	s.registry = registry.New(s.storage, clk, testutil.NopLogger())
	s.fetcher = &fakeFetcher{}
	s.sender = &fakeSender{}
	s.ctx = context.Background()
	s.handler = s.newHandler(s.registry)
}

func (s *HandlerSuite) newHandler(reg Registry) *Handler {
	return s.newHandlerWithLogger(reg, testutil.NopLogger())
}

func (s *HandlerSuite) newHandlerWithLogger(reg Registry, logger *slog.Logger) *Handler {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	return NewHandler(
		s.fetcher,
		reg,
		grouping.New(grouping.DefaultCategories, grouping.DefaultOtherCategory),
		presenter.New(presenter.Config{ServerID: "byzd3d"}, clk),
		"byzd3d",
		logger,
	)
}

func (s *HandlerSuite) message(content string) Message {
	return Message{
		MessageRef: MessageRef{GuildID: "g1", ChannelID: "c1", MessageID: "m1"},
		GuildName:  "Test Guild",
		AuthorID:   "u1",
		AuthorName: "tester",
		Content:    content,
		BotName:    "rosterbot",
	}
}

func (s *HandlerSuite) onlinePlayers(players ...model.RawPlayer) {
	maxPlayers := 64
	s.fetcher.result = model.FetchResult{
		Success:    true,
		Hostname:   "My RP",
		Players:    players,
		MaxPlayers: &maxPlayers,
		Source:     model.SourceAPI,
	}
}

// Help

func (s *HandlerSuite) TestHelp() {
	s.handler.HandleMessage(s.ctx, s.sender, s.message("<@1> help"))

	s.Require().Len(s.sender.sent, 1)
	s.Equal("reply", s.sender.sent[0].kind)
	s.Equal("Ajuda do Bot FiveM", s.sender.sent[0].embed.Title)
	s.Equal("Bot criado por Test Guild", s.sender.sent[0].embed.Footer.Text)
}

func (s *HandlerSuite) TestUnknownCommandIsSilent() {
	s.handler.HandleMessage(s.ctx, s.sender, s.message("<@1> good morning"))

	s.Empty(s.sender.sent)
	s.Zero(s.fetcher.calls)
}

// Register

func (s *HandlerSuite) TestRegisterCreatesRecord() {
	s.handler.HandleMessage(s.ctx, s.sender, s.message("<@1> register steam:110000100000001 Alice - Families"))

	s.Require().Len(s.sender.sent, 1)
	s.Equal("text", s.sender.sent[0].kind)
	s.Contains(s.sender.sent[0].text, "registrado")

	rp, err := s.storage.GetRegisteredPlayer(s.ctx, "steam:110000100000001")
	s.Require().NoError(err)
	s.Equal("Alice", rp.Nickname)
	s.Equal("Families", rp.Notes)
	s.Equal("Families", rp.Group)
}

func (s *HandlerSuite) TestRegisterAgainUpdates() {
	s.handler.HandleMessage(s.ctx, s.sender, s.message("<@1> register steam:1 Alice - Families"))
	s.handler.HandleMessage(s.ctx, s.sender, s.message("<@1> register steam:1 Alicia - Ballas crew"))

	s.Require().Len(s.sender.sent, 2)
	s.Contains(s.sender.sent[1].text, "atualizado")

	rp, err := s.storage.GetRegisteredPlayer(s.ctx, "steam:1")
	s.Require().NoError(err)
	s.Equal("Alicia", rp.Nickname)
	s.Equal("Ballas", rp.Group)
}

func (s *HandlerSuite) TestRegisterMalformedWritesNothing() {
	s.handler.HandleMessage(s.ctx, s.sender, s.message("<@1> register steam:1"))

	s.Require().Len(s.sender.sent, 1)
	s.Equal(presenter.RegisterUsage, s.sender.sent[0].text)

	all, _ := s.storage.ListRegisteredPlayers(s.ctx)
	s.Empty(all)
}

// Player lookup

func (s *HandlerSuite) TestPlayerLookupFound() {
	_, _, err := s.registry.Register(s.ctx, registry.Registration{SteamID: "steam:1", Nickname: "Alice", Group: "Families"})
	s.Require().NoError(err)

	s.handler.HandleMessage(s.ctx, s.sender, s.message("<@1> player steam:1"))

	s.Require().Len(s.sender.sent, 1)
	s.Equal("Informações do Jogador: Alice", s.sender.sent[0].embed.Title)
}

func (s *HandlerSuite) TestPlayerLookupNotFoundDoesNotMutate() {
	s.handler.HandleMessage(s.ctx, s.sender, s.message("<@1> player steam:unknown"))

	s.Require().Len(s.sender.sent, 1)
	s.Equal("text", s.sender.sent[0].kind)
	s.Contains(s.sender.sent[0].text, "steam:unknown")

	all, _ := s.storage.ListRegisteredPlayers(s.ctx)
	s.Empty(all)
}

// Roster

func (s *HandlerSuite) TestRosterGroupsRegisteredPlayers() {
	s.handler.HandleMessage(s.ctx, s.sender, s.message("<@1> register steam:110000100000001 Alice - Families"))
	s.sender.sent = nil

	s.onlinePlayers(
		model.RawPlayer{Name: "alice_rp", Identifiers: model.IdentifiersList{"license:x", "steam:110000100000001"}},
		model.RawPlayer{Name: "Bob", Identifiers: model.IdentifiersList{"steam:2"}},
	)

	s.handler.HandleMessage(s.ctx, s.sender, s.message("<@1> players"))

	s.Equal(1, s.sender.typing)
	s.Require().Len(s.sender.sent, 2)
	s.Equal("send", s.sender.sent[0].kind)
	s.Equal("c1", s.sender.sent[0].channelID)
	s.Equal("My RP - FAMILIES", s.sender.sent[0].embed.Title)
	s.Equal("• **Alice** (Families)", s.sender.sent[0].embed.Fields[0].Value)
	s.Equal("My RP - OUTROS", s.sender.sent[1].embed.Title)
	s.Equal("• **Bob** | Steam: `steam:2`", s.sender.sent[1].embed.Fields[0].Value)
	s.Equal("**2/64** players online", s.sender.sent[1].embed.Description)
}

func (s *HandlerSuite) TestRosterEveryPlayerRenderedOnce() {
	var players []model.RawPlayer
	for i := 0; i < 120; i++ {
		players = append(players, model.RawPlayer{
			Name:        fmt.Sprintf("player%03d", i),
			Identifiers: model.IdentifiersList{fmt.Sprintf("steam:%d", i)},
		})
	}
	s.onlinePlayers(players...)

	s.handler.HandleMessage(s.ctx, s.sender, s.message("<@1> players"))

	total := 0
	for _, m := range s.sender.sent {
		s.LessOrEqual(len([]rune(m.embed.Fields[0].Value)), grouping.DefaultChunkLimit)
		total += len(strings.Split(m.embed.Fields[0].Value, "\n"))
	}
	s.Equal(120, total)
	s.Greater(len(s.sender.sent), 1)
}

func (s *HandlerSuite) TestRosterEmpty() {
	s.onlinePlayers()

	s.handler.HandleMessage(s.ctx, s.sender, s.message("<@1> players"))

	s.Require().Len(s.sender.sent, 1)
	s.Equal("reply", s.sender.sent[0].kind)
	s.Equal("**0/64** players online", s.sender.sent[0].embed.Description)
}

func (s *HandlerSuite) TestRosterUnavailable() {
	s.fetcher.result = model.FetchResult{Success: false, Message: "status 403", Hostname: "FiveM Server byzd3d", Players: []model.RawPlayer{}}

	s.handler.HandleMessage(s.ctx, s.sender, s.message("<@1> players"))

	s.Require().Len(s.sender.sent, 1)
	s.Equal("FiveM Server Info", s.sender.sent[0].embed.Title)
}

func (s *HandlerSuite) TestRosterRendersWithoutRegistry() {
	handler := s.newHandler(brokenRegistry{Service: s.registry})
	s.onlinePlayers(model.RawPlayer{Name: "Bob", Identifiers: model.IdentifiersList{"steam:2"}})

	handler.HandleMessage(s.ctx, s.sender, s.message("<@1> players"))

	s.Require().Len(s.sender.sent, 1)
	s.Equal("• **Bob** | Steam: `steam:2`", s.sender.sent[0].embed.Fields[0].Value)
}

func (s *HandlerSuite) storageFailureHandler() (*Handler, *testutil.LogBuffer) {
	logger, logs := testutil.CaptureLogger()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	reg := registry.New(failingStore{Storage: memory.New()}, clk, testutil.NopLogger())
	return s.newHandlerWithLogger(reg, logger), logs
}

func (s *HandlerSuite) TestRegisterStorageFailureIsLogged() {
	handler, logs := s.storageFailureHandler()

	handler.HandleMessage(s.ctx, s.sender, s.message("<@1> register steam:1 Alice - Families"))

	s.Require().Len(s.sender.sent, 1)
	s.Contains(s.sender.sent[0].text, "Erro ao registrar jogador")
	s.Contains(logs.String(), `"level":"ERROR","msg":"registry register failed"`)
	s.Contains(logs.String(), "db down")
}

func (s *HandlerSuite) TestPlayerLookupStorageFailureIsLogged() {
	handler, logs := s.storageFailureHandler()

	handler.HandleMessage(s.ctx, s.sender, s.message("<@1> player steam:1"))

	s.Require().Len(s.sender.sent, 1)
	s.Contains(s.sender.sent[0].text, "Erro ao buscar jogador")
	s.Contains(logs.String(), `"level":"ERROR","msg":"registry lookup failed"`)
}

func (s *HandlerSuite) TestRosterSendFailureBecomesErrorReply() {
	s.sender.sendErr = errors.New("discord down")
	s.onlinePlayers(model.RawPlayer{Name: "Bob"})

	s.handler.HandleMessage(s.ctx, s.sender, s.message("<@1> players"))

	s.Require().Len(s.sender.sent, 1)
	s.Equal("Error", s.sender.sent[0].embed.Title)
	s.Contains(s.sender.sent[0].embed.Description, "discord down")
}

func (s *HandlerSuite) TestPanicBecomesErrorReply() {
	s.fetcher.panics = true

	s.NotPanics(func() {
		s.handler.HandleMessage(s.ctx, s.sender, s.message("<@1> players"))
	})

	s.Require().Len(s.sender.sent, 1)
	s.Equal("Error", s.sender.sent[0].embed.Title)
}
