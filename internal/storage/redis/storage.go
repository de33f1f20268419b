package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/fivem-rosterbot/internal/model"
	"github.com/mcoot/fivem-rosterbot/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Each record is a JSON value; a SET indexes every registered steam id.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	if cfg.SaveRetries <= 0 {
		cfg.SaveRetries = 1
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ping checks the connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// SaveRegisteredPlayer upserts the record inside a WATCH transaction so a
// concurrent first registration cannot replace the stored CreatedAt.
func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	key := s.registeredPlayerKey(rp.SteamID)

	txf := func(tx *redis.Tx) error {
		record := *rp
		existing, err := decodeRegisteredPlayer(tx.Get(ctx, key).Bytes())
		switch {
		case err == nil:
			record.CreatedAt = existing.CreatedAt
		case !errors.Is(err, model.ErrPlayerNotFound):
			return err
		}

		data, err := json.Marshal(record)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0) // No TTL
			pipe.SAdd(ctx, s.registeredPlayersIndexKey(), rp.SteamID)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < s.cfg.SaveRetries; i++ {
		err = s.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("save registered player %s: %w", rp.SteamID, err)
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, steamID string) (*model.RegisteredPlayer, error) {
	return decodeRegisteredPlayer(s.client.Get(ctx, s.registeredPlayerKey(steamID)).Bytes())
}

func (s *Storage) ListRegisteredPlayers(ctx context.Context) ([]*model.RegisteredPlayer, error) {
	steamIDs, err := s.client.SMembers(ctx, s.registeredPlayersIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(steamIDs) == 0 {
		return []*model.RegisteredPlayer{}, nil
	}
	sort.Strings(steamIDs)

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(steamIDs))
	for i, id := range steamIDs {
		cmds[i] = pipe.Get(ctx, s.registeredPlayerKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	players := make([]*model.RegisteredPlayer, 0, len(steamIDs))
	for _, cmd := range cmds {
		rp, err := decodeRegisteredPlayer(cmd.Bytes())
		if errors.Is(err, model.ErrPlayerNotFound) {
			// Index entry without a record, skip.
			continue
		}
		if err != nil {
			return nil, err
		}
		players = append(players, rp)
	}
	return players, nil
}

func decodeRegisteredPlayer(data []byte, err error) (*model.RegisteredPlayer, error) {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var rp model.RegisteredPlayer
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, err
	}
	return &rp, nil
}
