// Package bot interprets chat commands and answers them over Discord.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/fivem-rosterbot/internal/model"
	"github.com/mcoot/fivem-rosterbot/internal/presenter"
	"github.com/mcoot/fivem-rosterbot/internal/services/grouping"
	"github.com/mcoot/fivem-rosterbot/internal/services/registry"
)

// Fetcher retrieves the live roster of a server.
type Fetcher interface {
	Fetch(ctx context.Context, serverID string) model.FetchResult
}

// Registry is the registry surface the bot uses.
type Registry interface {
	Register(ctx context.Context, reg registry.Registration) (*model.RegisteredPlayer, bool, error)
	Lookup(ctx context.Context, steamID string) (*model.RegisteredPlayer, error)
	Overlays(ctx context.Context) (map[string]registry.Overlay, error)
}

// Handler answers parsed commands. It keeps no per-message state, so one
// Handler serves concurrent messages.
type Handler struct {
	fetcher    Fetcher
	registry   Registry
	classifier *grouping.Classifier
	presenter  *presenter.Presenter
	serverID   string
	logger     *slog.Logger
}

// NewHandler creates a new Handler
func NewHandler(
	fetcher Fetcher,
	registry Registry,
	classifier *grouping.Classifier,
	presenter *presenter.Presenter,
	serverID string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		fetcher:    fetcher,
		registry:   registry,
		classifier: classifier,
		presenter:  presenter,
		serverID:   serverID,
		logger:     logger.With(slog.String("component", "bot")),
	}
}

// HandleMessage parses msg and replies through out. Errors and panics from
// a command become an error reply; they never propagate.
func (h *Handler) HandleMessage(ctx context.Context, out Sender, msg Message) {
	cmd := ParseCommand(msg.Content)
	if cmd.Kind == CommandNone {
		return
	}

	logger := h.logger.With(
		slog.String("event_id", uuid.NewString()),
		slog.String("command", cmd.Kind.String()),
		slog.String("author", msg.AuthorName),
		slog.String("guild", msg.GuildName))
	logger.Info("command received")

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("panic handling command", slog.Any("panic", rec))
			h.replyError(ctx, out, msg, logger, fmt.Errorf("panic: %v", rec))
		}
	}()

	var err error
	switch cmd.Kind {
	case CommandHelp:
		err = out.Reply(ctx, msg.MessageRef, h.presenter.Help(msg.BotName, msg.GuildName))
	case CommandRegister:
		err = h.handleRegister(ctx, out, msg, cmd, logger)
	case CommandPlayerLookup:
		err = h.handlePlayerLookup(ctx, out, msg, cmd, logger)
	case CommandRoster:
		err = h.handleRoster(ctx, out, msg, logger)
	}
	if err == nil {
		return
	}

	var userErr *UserError
	if errors.As(err, &userErr) {
		logger.Debug("command rejected", slog.String("reason", userErr.Message))
		if sendErr := out.ReplyText(ctx, msg.MessageRef, userErr.Message); sendErr != nil {
			logger.Warn("failed to send reply", slog.Any("error", sendErr))
		}
		return
	}

	logger.Error("command failed", slog.Any("error", err))
	h.replyError(ctx, out, msg, logger, err)
}

func (h *Handler) replyError(ctx context.Context, out Sender, msg Message, logger *slog.Logger, err error) {
	embed := h.presenter.Error("An unexpected error occurred: " + err.Error())
	if sendErr := out.Reply(ctx, msg.MessageRef, embed); sendErr != nil {
		logger.Warn("failed to send error reply", slog.Any("error", sendErr))
	}
}

func (h *Handler) handleRegister(ctx context.Context, out Sender, msg Message, cmd Command, logger *slog.Logger) error {
	if cmd.Malformed {
		return userError(presenter.RegisterUsage)
	}

	rp, created, err := h.registry.Register(ctx, cmd.Registration)
	if errors.Is(err, model.ErrInvalidRegistration) {
		return userError(presenter.RegisterUsage)
	}
	if err != nil {
		logger.Error("registry register failed",
			slog.String("steam_id", cmd.Registration.SteamID),
			slog.Any("error", err))
		return userError(fmt.Sprintf("❌ Erro ao registrar jogador: %v", err))
	}

	return out.ReplyText(ctx, msg.MessageRef, h.presenter.Registered(rp, created))
}

func (h *Handler) handlePlayerLookup(ctx context.Context, out Sender, msg Message, cmd Command, logger *slog.Logger) error {
	if cmd.SteamID == "" {
		return userError(h.presenter.PlayerLookupUsage())
	}

	rp, err := h.registry.Lookup(ctx, cmd.SteamID)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return userError(h.presenter.PlayerNotFound(cmd.SteamID))
	}
	if err != nil {
		logger.Error("registry lookup failed",
			slog.String("steam_id", cmd.SteamID),
			slog.Any("error", err))
		return userError(fmt.Sprintf("❌ Erro ao buscar jogador: %v", err))
	}

	return out.Reply(ctx, msg.MessageRef, h.presenter.PlayerFound(rp))
}

func (h *Handler) handleRoster(ctx context.Context, out Sender, msg Message, logger *slog.Logger) error {
	if err := out.Typing(ctx, msg.ChannelID); err != nil {
		logger.Debug("typing indicator failed", slog.Any("error", err))
	}

	result := h.fetcher.Fetch(ctx, h.serverID)
	if !result.Success {
		return out.Reply(ctx, msg.MessageRef, h.presenter.RosterUnavailable(result, msg.BotName))
	}

	overlays, err := h.registry.Overlays(ctx)
	if err != nil {
		logger.Warn("registry unavailable, rendering roster without overlays", slog.Any("error", err))
		overlays = nil
	}

	lines := presenter.RosterLines(result.Players, overlays)
	if len(lines) == 0 {
		return out.Reply(ctx, msg.MessageRef, h.presenter.EmptyRoster(result))
	}

	groups := h.classifier.Classify(lines)
	logger.Info("roster fetched",
		slog.String("source", string(result.Source)),
		slog.Int("players", result.PlayerCount()),
		slog.Int("lines", groups.Total()))

	for _, embed := range h.presenter.RosterGroups(result, groups) {
		if err := out.Send(ctx, msg.ChannelID, embed); err != nil {
			return fmt.Errorf("send roster embed: %w", err)
		}
	}
	return nil
}
