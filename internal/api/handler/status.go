package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/fivem-rosterbot/internal/api/response"
)

// StatusProvider reports process liveness to the HTTP surface.
type StatusProvider interface {
	TokenConfigured() bool
	BotRunning() bool
}

// StatusHandler serves the status page and probes
type StatusHandler struct {
	status   StatusProvider
	serverID string
	logger   *slog.Logger
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(status StatusProvider, serverID string, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{status: status, serverID: serverID, logger: logger}
}

// Index handles GET /
func (h *StatusHandler) Index(w http.ResponseWriter, r *http.Request) {
	view := StatusView{
		ServerID:        h.serverID,
		TokenConfigured: h.status.TokenConfigured(),
		BotRunning:      h.status.BotRunning(),
	}
	if err := response.HTML(w, r, http.StatusOK, StatusPage(view)); err != nil {
		h.logger.Warn("failed to render status page", slog.Any("error", err))
	}
}

// Health handles GET /health
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: response.StatusOnline})
}

// Status handles GET /api/status
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	token := h.status.TokenConfigured()
	running := h.status.BotRunning()

	botStatus := response.BotStatusSetupNeeded
	if token && running {
		botStatus = response.BotStatusActive
	}

	response.JSON(w, http.StatusOK, response.StatusResponse{
		BotStatus:       botStatus,
		WebServer:       response.StatusOnline,
		TokenConfigured: token,
		BotThreadActive: running,
	})
}
