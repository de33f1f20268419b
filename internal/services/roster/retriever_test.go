package roster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fivem-rosterbot/internal/model"
	"github.com/mcoot/fivem-rosterbot/internal/testutil"
)

type RetrieverSuite struct {
	suite.Suite
	mux       *http.ServeMux
	server    *httptest.Server
	retriever *Retriever
	ctx       context.Context
}

func TestRetrieverSuite(t *testing.T) {
	suite.Run(t, new(RetrieverSuite))
}

func (s *RetrieverSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(s.mux)
	s.ctx = context.Background()

	cfg := Config{
		Endpoints: []string{
			s.server.URL + "/frontend/%s",
			s.server.URL + "/live/%s",
			s.server.URL + "/data/%s",
		},
		PageURL:     s.server.URL + "/detail/%s",
		APITimeout:  time.Second,
		PageTimeout: time.Second,
	}
	s.retriever = New(cfg, s.server.Client(), testutil.NopLogger())
}

func (s *RetrieverSuite) TearDownTest() {
	s.server.Close()
}

func (s *RetrieverSuite) respond(path string, status int, body string) *atomic.Int32 {
	var hits atomic.Int32
	s.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
	return &hits
}

func (s *RetrieverSuite) TestFirstEndpointWins() {
	s.respond("/frontend/abc", http.StatusOK,
		`{"Data":{"hostname":"My RP","svMaxclients":64,"players":[{"name":"Alice","identifiers":["steam:1"]}]}}`)
	live := s.respond("/live/abc", http.StatusOK, `{"Data":{"players":[]}}`)

	result := s.retriever.Fetch(s.ctx, "abc")

	s.True(result.Success)
	s.Equal(model.SourceAPI, result.Source)
	s.Equal("My RP", result.Hostname)
	s.Require().NotNil(result.MaxPlayers)
	s.Equal(64, *result.MaxPlayers)
	s.Require().Len(result.Players, 1)
	s.Equal("Alice", result.Players[0].Name)
	s.Zero(live.Load())
}

func (s *RetrieverSuite) TestFallsThroughEndpointsInOrder() {
	s.respond("/frontend/abc", http.StatusNotFound, "")
	s.respond("/live/abc", http.StatusOK, `{"Data":{"hostname":"Live"}}`)
	s.respond("/data/abc", http.StatusOK,
		`{"Data":{"players":[{"name":"Bob"}],"vars":{"sv_maxClients":"48"}}}`)

	result := s.retriever.Fetch(s.ctx, "abc")

	s.True(result.Success)
	s.Equal(model.SourceAPI, result.Source)
	s.Equal("FiveM Server abc", result.Hostname)
	s.Require().NotNil(result.MaxPlayers)
	s.Equal(48, *result.MaxPlayers)
	s.Len(result.Players, 1)
}

func (s *RetrieverSuite) TestInvalidJSONFailsAttempt() {
	s.respond("/frontend/abc", http.StatusOK, "<html>")
	s.respond("/live/abc", http.StatusOK, `{"Data":{"players":[]}}`)

	result := s.retriever.Fetch(s.ctx, "abc")

	s.True(result.Success)
	s.Empty(result.Players)
	s.NotNil(result.Players)
}

func (s *RetrieverSuite) TestFallbackPageWithEmbeddedRoster() {
	s.respond("/frontend/abc", http.StatusNotFound, "")
	s.respond("/live/abc", http.StatusNotFound, "")
	s.respond("/data/abc", http.StatusNotFound, "")
	s.respond("/detail/abc", http.StatusOK, `<html><head><title> Page RP </title></head><body>
<script>var x = 1;</script>
<script>window.nuxt={"state":{"serverData":{"players":[{"name":"Carol","identifiers":{"steam":"steam:2"}},7]}}};</script>
</body></html>`)

	result := s.retriever.Fetch(s.ctx, "abc")

	s.True(result.Success)
	s.Equal(model.SourceScrape, result.Source)
	s.Equal("Page RP", result.Hostname)
	s.Require().Len(result.Players, 1)
	s.Equal("Carol", result.Players[0].Name)
	s.Equal(model.IdentifiersMap{"steam": "steam:2"}, result.Players[0].Identifiers)
}

func (s *RetrieverSuite) TestFallbackPageWithoutMarkerIsEmptySuccess() {
	s.respond("/frontend/abc", http.StatusNotFound, "")
	s.respond("/live/abc", http.StatusNotFound, "")
	s.respond("/data/abc", http.StatusNotFound, "")
	s.respond("/detail/abc", http.StatusOK, `<html><head><title>Server Page</title></head><body><p>hi</p></body></html>`)

	result := s.retriever.Fetch(s.ctx, "abc")

	s.True(result.Success)
	s.Equal("Server Page", result.Hostname)
	s.Empty(result.Players)
	s.Nil(result.MaxPlayers)
}

func (s *RetrieverSuite) TestFallbackPageWithoutTitle() {
	s.respond("/detail/abc", http.StatusOK, `<html><body></body></html>`)

	result := s.retriever.Fetch(s.ctx, "abc")

	s.True(result.Success)
	s.Equal("FiveM Server", result.Hostname)
}

func (s *RetrieverSuite) TestAllSourcesFail() {
	s.respond("/detail/abc", http.StatusForbidden, "")

	result := s.retriever.Fetch(s.ctx, "abc")

	s.False(result.Success)
	s.Equal(model.SourceNone, result.Source)
	s.Equal("FiveM Server abc", result.Hostname)
	s.NotNil(result.Players)
	s.Empty(result.Players)
	s.Contains(result.Message, "403")
}

func (s *RetrieverSuite) TestSlowEndpointTimesOut() {
	s.retriever.config.APITimeout = 50 * time.Millisecond
	s.mux.HandleFunc("/frontend/abc", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	s.respond("/live/abc", http.StatusOK, `{"Data":{"hostname":"Live","players":[]}}`)

	result := s.retriever.Fetch(s.ctx, "abc")

	s.True(result.Success)
	s.Equal("Live", result.Hostname)
}

func (s *RetrieverSuite) TestSendsBrowserHeaders() {
	var got http.Header
	s.mux.HandleFunc("/frontend/abc", func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"Data":{"players":[]}}`))
	})

	s.retriever.Fetch(s.ctx, "abc")

	s.Require().NotNil(got)
	s.Contains(got.Get("User-Agent"), "Mozilla/5.0")
	s.Equal("application/json", got.Get("Accept"))
	s.Equal("https://servers.fivem.net", got.Get("Origin"))
}

func (s *RetrieverSuite) TestAttemptErrorsAreJoined() {
	_, err := s.retriever.fetchAPI(s.ctx, "missing")
	s.Require().Error(err)

	var attemptErr *AttemptError
	s.Require().True(errors.As(err, &attemptErr))
	s.Equal(http.StatusNotFound, attemptErr.Status)
	s.Contains(err.Error(), "/frontend/missing")
	s.Contains(err.Error(), "/data/missing")
}
