// Package sqlstore is a database/sql registry backend for SQLite and
// PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/mcoot/fivem-rosterbot/internal/model"
	"github.com/mcoot/fivem-rosterbot/internal/storage"
)

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

// Store is a SQL-backed implementation of the storage interface
type Store struct {
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open connects to databaseURL and applies embedded migrations.
func Open(ctx context.Context, databaseURL string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("database url is required")
	}

	d, dsn := parseDSN(databaseURL)
	if d == dialectSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(d.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", d, err)
	}

	if d == dialectSQLite {
		// One writer at a time.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", d, err)
	}

	logger = logger.With(slog.String("component", "sqlstore"), slog.String("dialect", d.String()))
	if err := migrate(ctx, db, d, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dialect: d, logger: logger}, nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") || path == ":memory:" {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return filepath.Clean(path) + sep + sqlitePragmas
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const upsertRegisteredPlayer = `
INSERT INTO registered_players (steam_id, nickname, notes, player_group, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (steam_id) DO UPDATE SET
    nickname = excluded.nickname,
    notes = excluded.notes,
    player_group = excluded.player_group,
    updated_at = excluded.updated_at`

const selectRegisteredPlayer = `
SELECT steam_id, nickname, notes, player_group, created_at, updated_at
FROM registered_players`

func (s *Store) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	_, err := s.db.ExecContext(ctx, s.dialect.rebind(upsertRegisteredPlayer),
		rp.SteamID,
		rp.Nickname,
		nullString(rp.Notes),
		nullString(rp.Group),
		toMillis(rp.CreatedAt),
		toMillis(rp.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert registered player %s: %w", rp.SteamID, err)
	}
	return nil
}

func (s *Store) GetRegisteredPlayer(ctx context.Context, steamID string) (*model.RegisteredPlayer, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.rebind(selectRegisteredPlayer+" WHERE steam_id = ?"), steamID)

	rp, err := scanRegisteredPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get registered player %s: %w", steamID, err)
	}
	return rp, nil
}

func (s *Store) ListRegisteredPlayers(ctx context.Context) ([]*model.RegisteredPlayer, error) {
	rows, err := s.db.QueryContext(ctx, selectRegisteredPlayer+" ORDER BY steam_id")
	if err != nil {
		return nil, fmt.Errorf("list registered players: %w", err)
	}
	defer func() { _ = rows.Close() }()

	players := []*model.RegisteredPlayer{}
	for rows.Next() {
		rp, err := scanRegisteredPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registered player: %w", err)
		}
		players = append(players, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registered players: %w", err)
	}
	return players, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRegisteredPlayer(row scanner) (*model.RegisteredPlayer, error) {
	var (
		rp                   model.RegisteredPlayer
		notes, group         sql.NullString
		createdAt, updatedAt int64
	)
	if err := row.Scan(&rp.SteamID, &rp.Nickname, &notes, &group, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rp.Notes = notes.String
	rp.Group = group.String
	rp.CreatedAt = fromMillis(createdAt)
	rp.UpdatedAt = fromMillis(updatedAt)
	return &rp, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
