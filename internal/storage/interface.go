package storage

import (
	"context"

	"github.com/mcoot/fivem-rosterbot/internal/model"
)

// Storage defines the interface for registry persistence.
//
// SaveRegisteredPlayer is an upsert keyed on SteamID. When a record already
// exists its CreatedAt is kept and every other field is replaced.
type Storage interface {
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, steamID string) (*model.RegisteredPlayer, error)
	ListRegisteredPlayers(ctx context.Context) ([]*model.RegisteredPlayer, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}
