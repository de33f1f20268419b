package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/fivem-rosterbot/internal/model"
)

const (
	nuxtMarker       = "window.nuxt="
	pageTitleDefault = "FiveM Server"
)

// The embedded state runs up to the first semicolon.
var nuxtStatePattern = regexp.MustCompile(`(?s)window\.nuxt=(.+?);`)

type nuxtState struct {
	State struct {
		ServerData struct {
			Players json.RawMessage `json:"players"`
		} `json:"serverData"`
	} `json:"state"`
}

// fetchPage loads the public server detail page and reads the roster from
// its embedded page state. A page without an embedded roster is a success
// with no players.
func (r *Retriever) fetchPage(ctx context.Context, serverID string) (model.FetchResult, error) {
	pageURL := fmt.Sprintf(r.config.PageURL, serverID)

	ctx, span := r.tracer.Start(ctx, "roster.fetchPage",
		trace.WithAttributes(attribute.String("http.url", pageURL)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.config.PageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return model.FetchResult{}, &AttemptError{Endpoint: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Referer", fivemOrigin+"/")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Cache-Control", "max-age=0")

	resp, err := r.client.Do(req)
	if err != nil {
		return model.FetchResult{}, &AttemptError{Endpoint: pageURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return model.FetchResult{}, &AttemptError{Endpoint: pageURL, Status: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return model.FetchResult{}, &AttemptError{Endpoint: pageURL, Status: resp.StatusCode, Err: fmt.Errorf("parse page: %w", err)}
	}

	hostname := strings.TrimSpace(doc.Find("title").First().Text())
	if hostname == "" {
		hostname = pageTitleDefault
	}

	players := []model.RawPlayer{}
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, nuxtMarker) {
			return true
		}
		found, skipped, err := extractEmbeddedRoster(text)
		if err != nil {
			r.logger.Debug("script did not hold a usable roster", slog.Any("error", err))
			return true
		}
		if skipped > 0 {
			r.logger.Warn("skipped malformed roster entries",
				slog.String("endpoint", pageURL),
				slog.Int("skipped", skipped))
		}
		players = found
		return false
	})

	return model.FetchResult{
		Success:  true,
		Message:  "ok",
		Hostname: hostname,
		Players:  players,
		Source:   model.SourceScrape,
	}, nil
}

func extractEmbeddedRoster(script string) ([]model.RawPlayer, int, error) {
	match := nuxtStatePattern.FindStringSubmatch(script)
	if match == nil {
		return nil, 0, model.ErrRosterNotEmbedded
	}

	var state nuxtState
	if err := json.Unmarshal([]byte(match[1]), &state); err != nil {
		return nil, 0, fmt.Errorf("decode page state: %w", err)
	}
	if state.State.ServerData.Players == nil {
		return nil, 0, model.ErrRosterNotEmbedded
	}

	return model.DecodeRoster(state.State.ServerData.Players)
}
