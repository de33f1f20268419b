package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/fivem-rosterbot/internal/model"
	"github.com/mcoot/fivem-rosterbot/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	registeredPlayers map[string]model.RegisteredPlayer
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		registeredPlayers: make(map[string]model.RegisteredPlayer),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Records are stored and returned by value so callers never share state.

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := *rp
	if existing, ok := s.registeredPlayers[rp.SteamID]; ok {
		record.CreatedAt = existing.CreatedAt
	}
	s.registeredPlayers[rp.SteamID] = record
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, steamID string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.registeredPlayers[steamID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return &record, nil
}

func (s *Storage) ListRegisteredPlayers(ctx context.Context) ([]*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.RegisteredPlayer, 0, len(s.registeredPlayers))
	for _, record := range s.registeredPlayers {
		record := record
		result = append(result, &record)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SteamID < result[j].SteamID
	})
	return result, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

func (s *Storage) Close() error {
	return nil
}
