// Package registry manages the steam id to nickname/group registry.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/mcoot/fivem-rosterbot/internal/dependencies/clock"
	"github.com/mcoot/fivem-rosterbot/internal/model"
	"github.com/mcoot/fivem-rosterbot/internal/storage"
)

// Field widths of the registry schema. Longer values are rejected so every
// backend accepts the same registrations.
const (
	MaxSteamIDLength  = 100
	MaxNicknameLength = 100
	MaxGroupLength    = 100
)

// Registration is the input to Register.
type Registration struct {
	SteamID  string
	Nickname string
	Notes    string
	Group    string
}

// Overlay is the registry data rendered over a live roster entry.
type Overlay struct {
	Nickname string
	Group    string
}

// Service handles registry reads and writes
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new registry Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "registry")),
	}
}

// Register creates the record for reg.SteamID, or updates nickname, notes,
// group and UpdatedAt of an existing one. created reports which happened.
func (s *Service) Register(ctx context.Context, reg Registration) (*model.RegisteredPlayer, bool, error) {
	reg.SteamID = strings.TrimSpace(reg.SteamID)
	reg.Nickname = strings.TrimSpace(reg.Nickname)
	reg.Notes = strings.TrimSpace(reg.Notes)
	reg.Group = strings.TrimSpace(reg.Group)

	if reg.SteamID == "" {
		return nil, false, fmt.Errorf("%w: steam id is required", model.ErrInvalidRegistration)
	}
	if reg.Nickname == "" {
		return nil, false, fmt.Errorf("%w: nickname is required", model.ErrInvalidRegistration)
	}
	if err := checkLength("steam id", reg.SteamID, MaxSteamIDLength); err != nil {
		return nil, false, err
	}
	if err := checkLength("nickname", reg.Nickname, MaxNicknameLength); err != nil {
		return nil, false, err
	}
	if err := checkLength("group", reg.Group, MaxGroupLength); err != nil {
		return nil, false, err
	}

	now := s.clock.Now()
	created := false

	rp, err := s.storage.GetRegisteredPlayer(ctx, reg.SteamID)
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		created = true
		rp = &model.RegisteredPlayer{
			SteamID:   reg.SteamID,
			CreatedAt: now,
		}
	case err != nil:
		return nil, false, fmt.Errorf("look up %s: %w", reg.SteamID, err)
	}

	rp.Nickname = reg.Nickname
	rp.Notes = reg.Notes
	rp.Group = reg.Group
	rp.UpdatedAt = now

	if err := s.storage.SaveRegisteredPlayer(ctx, rp); err != nil {
		return nil, false, fmt.Errorf("save %s: %w", reg.SteamID, err)
	}

	s.logger.Info("player registered",
		slog.String("steam_id", rp.SteamID),
		slog.String("nickname", rp.Nickname),
		slog.Bool("created", created))

	return rp, created, nil
}

// Lookup returns the record for steamID, or model.ErrPlayerNotFound.
func (s *Service) Lookup(ctx context.Context, steamID string) (*model.RegisteredPlayer, error) {
	steamID = strings.TrimSpace(steamID)
	if steamID == "" {
		return nil, model.ErrPlayerNotFound
	}
	return s.storage.GetRegisteredPlayer(ctx, steamID)
}

// All returns every registered player ordered by steam id.
func (s *Service) All(ctx context.Context) ([]*model.RegisteredPlayer, error) {
	return s.storage.ListRegisteredPlayers(ctx)
}

// Overlays loads the whole registry once, keyed by steam id, for rendering
// a roster.
func (s *Service) Overlays(ctx context.Context) (map[string]Overlay, error) {
	players, err := s.storage.ListRegisteredPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}

	overlays := make(map[string]Overlay, len(players))
	for _, rp := range players {
		overlays[rp.SteamID] = Overlay{Nickname: rp.Nickname, Group: rp.Group}
	}
	return overlays, nil
}

func checkLength(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return fmt.Errorf("%w: %s longer than %d characters", model.ErrInvalidRegistration, field, limit)
	}
	return nil
}
