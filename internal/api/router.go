package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/mcoot/fivem-rosterbot/internal/api/apierr"
	"github.com/mcoot/fivem-rosterbot/internal/api/handler"
	"github.com/mcoot/fivem-rosterbot/internal/api/middleware"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Status         handler.StatusProvider
	Registry       handler.RegistryReader
	ServerID       string
	AllowedOrigins []string
}

// NewRouter creates the status surface router. It only reads liveness and
// registry data; it never touches the chat session.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	statusHandler := handler.NewStatusHandler(cfg.Status, cfg.ServerID, cfg.Logger)
	registryHandler := handler.NewRegistryHandler(cfg.Registry)

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	r.HandleFunc("/", statusHandler.Index).Methods(http.MethodGet)
	r.HandleFunc("/health", statusHandler.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", statusHandler.Status).Methods(http.MethodGet)
	api.HandleFunc("/registry", registryHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/registry/{steam_id}", registryHandler.Get).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewMethodNotAllowedError())
	})

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})

	return c.Handler(r)
}
