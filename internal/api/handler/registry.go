package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/fivem-rosterbot/internal/api/apierr"
	"github.com/mcoot/fivem-rosterbot/internal/api/response"
	"github.com/mcoot/fivem-rosterbot/internal/model"
)

// RegistryReader is the read side of the registry.
type RegistryReader interface {
	Lookup(ctx context.Context, steamID string) (*model.RegisteredPlayer, error)
	All(ctx context.Context) ([]*model.RegisteredPlayer, error)
}

// RegistryHandler serves read-only registry endpoints
type RegistryHandler struct {
	registry RegistryReader
}

// NewRegistryHandler creates a new RegistryHandler
func NewRegistryHandler(registry RegistryReader) *RegistryHandler {
	return &RegistryHandler{registry: registry}
}

// List handles GET /api/registry
func (h *RegistryHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.registry.All(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	resp := response.RegistryResponse{Players: make([]response.RegisteredPlayer, 0, len(players))}
	for _, rp := range players {
		resp.Players = append(resp.Players, response.RegisteredPlayerFromModel(rp))
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/registry/{steam_id}
func (h *RegistryHandler) Get(w http.ResponseWriter, r *http.Request) {
	rp, err := h.registry.Lookup(r.Context(), mux.Vars(r)["steam_id"])
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RegisteredPlayerFromModel(rp))
}
