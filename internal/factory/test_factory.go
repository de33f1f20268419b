package factory

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/mcoot/fivem-rosterbot/internal/config"
	"github.com/mcoot/fivem-rosterbot/internal/dependencies/mocks"
	"github.com/mcoot/fivem-rosterbot/internal/services/roster"
	"github.com/mcoot/fivem-rosterbot/internal/storage/memory"
	"github.com/mcoot/fivem-rosterbot/internal/testutil"
)

// TestServerID is the server id the fake roster server answers for.
const TestServerID = "test01"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock

	// FiveM serves the roster endpoints the retriever calls.
	FiveM *httptest.Server

	mu     sync.Mutex
	roster string
}

// NewTestApp creates an App backed by memory storage, a mock clock and a
// local fake of the FiveM server list API. Call Close when done.
func NewTestApp() *TestApp {
	t := &TestApp{
		MockClock: mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
		roster:    `{"Data":{"hostname":"Test City","players":[],"svMaxclients":64}}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/servers/single/", func(w http.ResponseWriter, _ *http.Request) {
		t.mu.Lock()
		body := t.roster
		t.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
	t.FiveM = httptest.NewServer(mux)

	cfg := config.Config{ServerID: TestServerID}
	cfg.Bot.FieldLimit = 1000
	cfg.Storage.Type = config.StorageTypeMemory

	t.App = newWithDependencies(cfg, memory.New(), t.MockClock, t.FiveM.Client(), testutil.NopLogger())
	t.Retriever = roster.New(roster.Config{
		Endpoints:   []string{t.FiveM.URL + "/api/servers/single/%s"},
		PageURL:     t.FiveM.URL + "/detail/%s",
		APITimeout:  time.Second,
		PageTimeout: time.Second,
	}, t.FiveM.Client(), testutil.NopLogger())

	return t
}

// SetRoster replaces the JSON body the fake roster endpoint returns.
func (t *TestApp) SetRoster(body string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.roster = body
}

// Close stops the fake server and releases storage.
func (t *TestApp) Close() {
	t.FiveM.Close()
	_ = t.App.Close()
}
