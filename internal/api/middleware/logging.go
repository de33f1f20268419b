package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/fivem-rosterbot/internal/middleware"
)

// Logging creates request logging middleware for the API. Health probes
// are logged at debug level since uptime monitors poll them constantly.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger, func(r *http.Request) slog.Level {
		if r.URL.Path == "/health" {
			return slog.LevelDebug
		}
		return slog.LevelInfo
	})
}
