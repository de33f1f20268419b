// Package roster retrieves the live player list of a FiveM server, trying the
// public JSON endpoints first and the server detail page second.
package roster

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/fivem-rosterbot/internal/model"
)

const tracerName = "github.com/mcoot/fivem-rosterbot/internal/services/roster"

// Fetcher is the roster retrieval contract the bot depends on.
type Fetcher interface {
	Fetch(ctx context.Context, serverID string) model.FetchResult
}

// Config holds retriever configuration
type Config struct {
	// Endpoints are URL templates with one %s for the server id, tried in order.
	Endpoints   []string
	PageURL     string // template with one %s for the server id
	APITimeout  time.Duration
	PageTimeout time.Duration
}

// DefaultConfig returns the default retriever configuration
func DefaultConfig() Config {
	return Config{
		Endpoints: []string{
			"https://servers-frontend.fivem.net/api/servers/single/%s",
			"https://servers-live.fivem.net/api/servers/single/%s",
			"https://servers-data.fivem.net/%s",
		},
		PageURL:     "https://servers.fivem.net/servers/detail/%s",
		APITimeout:  10 * time.Second,
		PageTimeout: 15 * time.Second,
	}
}

// Retriever fetches rosters from the primary API with a page-scrape fallback.
// It holds no per-request state and is safe for concurrent use.
type Retriever struct {
	config Config
	client *http.Client
	logger *slog.Logger
	tracer trace.Tracer
}

// New creates a new Retriever. A nil client uses http.DefaultClient.
func New(config Config, client *http.Client, logger *slog.Logger) *Retriever {
	if client == nil {
		client = http.DefaultClient
	}
	return &Retriever{
		config: config,
		client: client,
		logger: logger.With(slog.String("component", "roster")),
		tracer: otel.Tracer(tracerName),
	}
}

// Fetch returns the roster of serverID. Failures are reported in the result,
// never as a panic or error return.
func (r *Retriever) Fetch(ctx context.Context, serverID string) model.FetchResult {
	ctx, span := r.tracer.Start(ctx, "roster.Fetch",
		trace.WithAttributes(attribute.String("fivem.server_id", serverID)))
	defer span.End()

	result, err := r.fetchAPI(ctx, serverID)
	if err == nil {
		span.SetAttributes(attribute.String("roster.source", string(result.Source)),
			attribute.Int("roster.players", result.PlayerCount()))
		return result
	}
	r.logger.Warn("primary roster endpoints failed, falling back to server page",
		slog.String("server_id", serverID),
		slog.Any("error", err))

	result, err = r.fetchPage(ctx, serverID)
	if err == nil {
		span.SetAttributes(attribute.String("roster.source", string(result.Source)),
			attribute.Int("roster.players", result.PlayerCount()))
		return result
	}
	r.logger.Error("roster unavailable from all sources",
		slog.String("server_id", serverID),
		slog.Any("error", err))
	span.RecordError(err)
	span.SetStatus(codes.Error, "roster unavailable")

	return model.FetchResult{
		Success:  false,
		Message:  err.Error(),
		Hostname: defaultHostname(serverID),
		Players:  []model.RawPlayer{},
		Source:   model.SourceNone,
	}
}

func defaultHostname(serverID string) string {
	return fmt.Sprintf("FiveM Server %s", serverID)
}
