package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fivem-rosterbot/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
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
	s.Equal(*rp, *retrieved)
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
		SteamID: "steam:1", Nickname: "Alicia", CreatedAt: later, UpdatedAt: later,
	}))

	retrieved, err := s.storage.GetRegisteredPlayer(s.ctx, "steam:1")
	s.Require().NoError(err)
	s.Equal("Alicia", retrieved.Nickname)
	s.Equal(first, retrieved.CreatedAt)
	s.Equal(later, retrieved.UpdatedAt)
}

func (s *StorageSuite) TestReturnedRecordsAreCopies() {
	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, &model.RegisteredPlayer{SteamID: "steam:1", Nickname: "Alice"}))

	retrieved, _ := s.storage.GetRegisteredPlayer(s.ctx, "steam:1")
	retrieved.Nickname = "Mallory"

	again, _ := s.storage.GetRegisteredPlayer(s.ctx, "steam:1")
	s.Equal("Alice", again.Nickname)
}

func (s *StorageSuite) TestListRegisteredPlayersSorted() {
	for _, id := range []string{"steam:3", "steam:1", "steam:2"} {
		s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, &model.RegisteredPlayer{SteamID: id, Nickname: id}))
	}

	list, err := s.storage.ListRegisteredPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal("steam:1", list[0].SteamID)
	s.Equal("steam:2", list[1].SteamID)
	s.Equal("steam:3", list[2].SteamID)
}

func (s *StorageSuite) TestListEmpty() {
	list, err := s.storage.ListRegisteredPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *StorageSuite) TestPing() {
	s.NoError(s.storage.Ping(s.ctx))
}
