package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fivem-rosterbot/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestSaveAndGetRegisteredPlayer() {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rp := &model.RegisteredPlayer{
		SteamID:   "steam:110000100000001",
		Nickname:  "Alice",
		Notes:     "Families leader",
		Group:     "Families",
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.storage.SaveRegisteredPlayer(s.ctx, rp)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRegisteredPlayer(s.ctx, "steam:110000100000001")
	s.Require().NoError(err)
	s.Equal(rp.Nickname, retrieved.Nickname)
	s.Equal(rp.Notes, retrieved.Notes)
	s.Equal(rp.Group, retrieved.Group)
	s.True(now.Equal(retrieved.CreatedAt))
}

func (s *StorageSuite) TestRegisteredPlayerHasNoTTL() {
	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, &model.RegisteredPlayer{SteamID: "steam:1", Nickname: "Alice"}))

	s.Equal(time.Duration(0), s.mini.TTL("rosterbot:registered_player:steam:1"))
	s.True(s.mini.Exists("rosterbot:idx:registered_players"))
}

func (s *StorageSuite) TestGetRegisteredPlayerNotFound() {
	_, err := s.storage.GetRegisteredPlayer(s.ctx, "steam:missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestSaveKeepsCreatedAt() {
	first := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, &model.RegisteredPlayer{
		SteamID: "steam:1", Nickname: "Alice", CreatedAt: first, UpdatedAt: first,
	}))
	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, &model.RegisteredPlayer{
		SteamID: "steam:1", Nickname: "Alicia", Group: "Ballas", CreatedAt: later, UpdatedAt: later,
	}))

	retrieved, err := s.storage.GetRegisteredPlayer(s.ctx, "steam:1")
	s.Require().NoError(err)
	s.Equal("Alicia", retrieved.Nickname)
	s.Equal("Ballas", retrieved.Group)
	s.True(first.Equal(retrieved.CreatedAt))
	s.True(later.Equal(retrieved.UpdatedAt))
}

func (s *StorageSuite) TestListRegisteredPlayers() {
	for _, id := range []string{"steam:b", "steam:a"} {
		s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, &model.RegisteredPlayer{SteamID: id, Nickname: id}))
	}
	// Saving twice must not duplicate the index entry.
	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, &model.RegisteredPlayer{SteamID: "steam:a", Nickname: "again"}))

	list, err := s.storage.ListRegisteredPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("steam:a", list[0].SteamID)
	s.Equal("again", list[0].Nickname)
	s.Equal("steam:b", list[1].SteamID)
}

func (s *StorageSuite) TestListSkipsDanglingIndexEntries() {
	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, &model.RegisteredPlayer{SteamID: "steam:a", Nickname: "Alice"}))
	_, err := s.mini.SetAdd("rosterbot:idx:registered_players", "steam:ghost")
	s.Require().NoError(err)

	list, err := s.storage.ListRegisteredPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("steam:a", list[0].SteamID)
}

func (s *StorageSuite) TestListEmpty() {
	list, err := s.storage.ListRegisteredPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *StorageSuite) TestPing() {
	s.NoError(s.storage.Ping(s.ctx))

	s.mini.Close()
	s.Error(s.storage.Ping(s.ctx))
	s.mini = nil
}

func (s *StorageSuite) TestNewRejectsBadURL() {
	_, err := New(Config{URL: "not a url"})
	s.Error(err)
}
