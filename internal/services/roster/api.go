package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/fivem-rosterbot/internal/model"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	fivemOrigin      = "https://servers.fivem.net"

	maxResponseBytes = 8 << 20
)

type apiResponse struct {
	Data *apiServerData `json:"Data"`
}

type apiServerData struct {
	Hostname     string          `json:"hostname"`
	Players      json.RawMessage `json:"players"`
	SvMaxclients *int            `json:"svMaxclients"`
	Vars         map[string]any  `json:"vars"`
}

// fetchAPI tries each endpoint in order and returns the first usable roster.
// The returned error joins every attempt's failure.
func (r *Retriever) fetchAPI(ctx context.Context, serverID string) (model.FetchResult, error) {
	var errs []error
	for _, tmpl := range r.config.Endpoints {
		endpoint := fmt.Sprintf(tmpl, serverID)

		result, err := r.attemptAPI(ctx, endpoint, serverID)
		if err == nil {
			return result, nil
		}
		r.logger.Debug("roster endpoint attempt failed",
			slog.String("endpoint", endpoint),
			slog.Any("error", err))
		errs = append(errs, err)

		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return model.FetchResult{}, errors.New("no roster endpoints configured")
	}
	return model.FetchResult{}, errors.Join(errs...)
}

func (r *Retriever) attemptAPI(ctx context.Context, endpoint, serverID string) (model.FetchResult, error) {
	ctx, span := r.tracer.Start(ctx, "roster.attemptAPI",
		trace.WithAttributes(attribute.String("http.url", endpoint)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.config.APITimeout)
	defer cancel()

	fail := func(status int, err error) (model.FetchResult, error) {
		attemptErr := &AttemptError{Endpoint: endpoint, Status: status, Err: err}
		span.RecordError(attemptErr)
		span.SetStatus(codes.Error, "attempt failed")
		return model.FetchResult{}, attemptErr
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Origin", fivemOrigin)
	req.Header.Set("Referer", fivemOrigin+"/")

	resp, err := r.client.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return fail(resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fail(resp.StatusCode, fmt.Errorf("read body: %w", err))
	}

	var payload apiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("decode body: %w", err))
	}
	if payload.Data == nil || payload.Data.Players == nil {
		return fail(resp.StatusCode, model.ErrRosterMissing)
	}

	players, skipped, err := model.DecodeRoster(payload.Data.Players)
	if err != nil {
		return fail(resp.StatusCode, err)
	}
	if skipped > 0 {
		r.logger.Warn("skipped malformed roster entries",
			slog.String("endpoint", endpoint),
			slog.Int("skipped", skipped))
	}

	hostname := payload.Data.Hostname
	if hostname == "" {
		hostname = defaultHostname(serverID)
	}

	return model.FetchResult{
		Success:    true,
		Message:    "ok",
		Hostname:   hostname,
		Players:    players,
		MaxPlayers: payload.Data.maxPlayers(),
		Source:     model.SourceAPI,
	}, nil
}

// maxPlayers reads svMaxclients, falling back to the sv_maxClients server
// variable, which FiveM reports as a string.
func (d *apiServerData) maxPlayers() *int {
	if d.SvMaxclients != nil {
		v := *d.SvMaxclients
		return &v
	}
	switch v := d.Vars["sv_maxClients"].(type) {
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	case float64:
		n := int(v)
		return &n
	}
	return nil
}
