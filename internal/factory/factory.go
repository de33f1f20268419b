package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/fivem-rosterbot/internal/config"
	"github.com/mcoot/fivem-rosterbot/internal/dependencies/clock"
	"github.com/mcoot/fivem-rosterbot/internal/presenter"
	"github.com/mcoot/fivem-rosterbot/internal/services/grouping"
	"github.com/mcoot/fivem-rosterbot/internal/services/registry"
	"github.com/mcoot/fivem-rosterbot/internal/services/roster"
	"github.com/mcoot/fivem-rosterbot/internal/storage"
	"github.com/mcoot/fivem-rosterbot/internal/storage/memory"
	redisstorage "github.com/mcoot/fivem-rosterbot/internal/storage/redis"
	"github.com/mcoot/fivem-rosterbot/internal/storage/sqlstore"
)

// App contains all wired application components
type App struct {
	Config config.Config
	Logger *slog.Logger

	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	Registry   *registry.Service
	Retriever  *roster.Retriever
	Classifier *grouping.Classifier
	Presenter  *presenter.Presenter
}

// New creates a new application with all dependencies wired. A nil logger
// discards output.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := openStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(cfg, store, clock.New(), http.DefaultClient, logger), nil
}

func openStorage(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (storage.Storage, error) {
	storageType := cfg.Type
	if storageType == "" {
		storageType = config.StorageTypeSQL
	}

	switch storageType {
	case config.StorageTypeMemory:
		return memory.New(), nil
	case config.StorageTypeRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("REDIS_URL required when STORAGE_TYPE is redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		store, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("open redis storage: %w", err)
		}
		return store, nil
	case config.StorageTypeSQL:
		store, err := sqlstore.Open(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("open sql storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sql'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(cfg config.Config, store storage.Storage, clk clock.Clock, client *http.Client, logger *slog.Logger) *App {
	rosterCfg := roster.DefaultConfig()
	if cfg.Roster.APITimeout > 0 {
		rosterCfg.APITimeout = cfg.Roster.APITimeout
	}
	if cfg.Roster.PageTimeout > 0 {
		rosterCfg.PageTimeout = cfg.Roster.PageTimeout
	}

	categories := cfg.Roster.Categories
	if len(categories) == 0 {
		categories = grouping.DefaultCategories
	}
	other := cfg.Roster.OtherCategory
	if other == "" {
		other = grouping.DefaultOtherCategory
	}

	return &App{
		Config:     cfg,
		Logger:     logger,
		Storage:    store,
		Clock:      clk,
		Registry:   registry.New(store, clk, logger),
		Retriever:  roster.New(rosterCfg, client, logger),
		Classifier: grouping.New(categories, other),
		Presenter: presenter.New(presenter.Config{
			ServerID:   cfg.ServerID,
			FieldLimit: cfg.Bot.FieldLimit,
		}, clk),
	}
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.Storage.Close()
}
