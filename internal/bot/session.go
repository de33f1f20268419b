package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
)

const presenceText = "FiveM servers | @mention players"

// SessionConfig holds Discord session settings
type SessionConfig struct {
	Token          string
	CommandTimeout time.Duration
}

// Session connects a Handler to the Discord gateway and implements Sender
// over the Discord REST API.
type Session struct {
	dg             *discordgo.Session
	handler        *Handler
	commandTimeout time.Duration
	logger         *slog.Logger

	active  atomic.Bool
	baseCtx context.Context
}

// Ensure Session implements Sender
var _ Sender = (*Session)(nil)

// NewSession creates a session. The gateway connection is opened by Run.
func NewSession(cfg SessionConfig, handler *Handler, logger *slog.Logger) (*Session, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = time.Minute
	}

	s := &Session{
		dg:             dg,
		handler:        handler,
		commandTimeout: cfg.CommandTimeout,
		logger:         logger.With(slog.String("component", "discord")),
		baseCtx:        context.Background(),
	}
	dg.AddHandler(s.onReady)
	dg.AddHandler(s.onMessageCreate)
	return s, nil
}

// Active reports whether the gateway connection is open.
func (s *Session) Active() bool {
	return s.active.Load()
}

// Run opens the gateway connection and blocks until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	s.baseCtx = ctx
	if err := s.dg.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	s.active.Store(true)
	s.logger.Info("discord session opened")

	<-ctx.Done()

	s.active.Store(false)
	if err := s.dg.Close(); err != nil {
		return fmt.Errorf("close discord session: %w", err)
	}
	s.logger.Info("discord session closed")
	return nil
}

func (s *Session) onReady(dg *discordgo.Session, r *discordgo.Ready) {
	s.logger.Info("connected to discord",
		slog.String("user", r.User.Username),
		slog.Int("guilds", len(r.Guilds)))

	if err := dg.UpdateWatchStatus(0, presenceText); err != nil {
		s.logger.Warn("failed to set presence", slog.Any("error", err))
	}
}

func (s *Session) onMessageCreate(dg *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || dg.State == nil || dg.State.User == nil {
		return
	}
	self := dg.State.User
	if m.Author.ID == self.ID || !mentions(m.Mentions, self.ID) {
		return
	}

	guildName := ""
	if m.GuildID != "" {
		if g, err := dg.State.Guild(m.GuildID); err == nil {
			guildName = g.Name
		}
	}

	ctx, cancel := context.WithTimeout(s.baseCtx, s.commandTimeout)
	defer cancel()

	s.handler.HandleMessage(ctx, s, Message{
		MessageRef: MessageRef{GuildID: m.GuildID, ChannelID: m.ChannelID, MessageID: m.ID},
		GuildName:  guildName,
		AuthorID:   m.Author.ID,
		AuthorName: m.Author.Username,
		Content:    m.Content,
		BotName:    self.Username,
	})
}

func mentions(users []*discordgo.User, id string) bool {
	for _, u := range users {
		if u != nil && u.ID == id {
			return true
		}
	}
	return false
}

func (ref MessageRef) reference() *discordgo.MessageReference {
	return &discordgo.MessageReference{
		MessageID: ref.MessageID,
		ChannelID: ref.ChannelID,
		GuildID:   ref.GuildID,
	}
}

func (s *Session) Reply(ctx context.Context, ref MessageRef, embed *discordgo.MessageEmbed) error {
	_, err := s.dg.ChannelMessageSendEmbedReply(ref.ChannelID, embed, ref.reference(), discordgo.WithContext(ctx))
	return err
}

func (s *Session) ReplyText(ctx context.Context, ref MessageRef, text string) error {
	_, err := s.dg.ChannelMessageSendReply(ref.ChannelID, text, ref.reference(), discordgo.WithContext(ctx))
	return err
}

func (s *Session) Send(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	_, err := s.dg.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx))
	return err
}

func (s *Session) Typing(ctx context.Context, channelID string) error {
	return s.dg.ChannelTyping(channelID, discordgo.WithContext(ctx))
}
