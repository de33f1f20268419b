package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/fivem-rosterbot/internal/api"
	"github.com/mcoot/fivem-rosterbot/internal/bot"
	"github.com/mcoot/fivem-rosterbot/internal/config"
	"github.com/mcoot/fivem-rosterbot/internal/lifecycle"
	"github.com/mcoot/fivem-rosterbot/internal/telemetry"
)

// ServiceName identifies the process in traces.
const ServiceName = "fivem-rosterbot"

// Run sets up tracing, wires the application and serves until ctx is
// cancelled. It is the shared entry point of the server binary and the
// serve command.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, ServiceName)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("tracing shutdown failed", slog.Any("error", err))
		}
	}()

	app, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("storage close failed", slog.Any("error", err))
		}
	}()

	logger.Info("starting roster bot",
		slog.String("server_id", cfg.ServerID),
		slog.String("storage", cfg.Storage.Type),
		slog.Bool("token_configured", cfg.TokenConfigured()))

	return app.Serve(ctx)
}

// NewBotHandler wires the chat command handler for the configured server.
func (a *App) NewBotHandler() *bot.Handler {
	return bot.NewHandler(a.Retriever, a.Registry, a.Classifier, a.Presenter, a.Config.ServerID, a.Logger)
}

// Serve runs the HTTP status surface and, when a token is configured, the
// chat bot until ctx is cancelled. Only an HTTP failure ends Serve early.
func (a *App) Serve(ctx context.Context) error {
	runner, _, err := a.tasks()
	if err != nil {
		return err
	}
	return runner.Run(ctx)
}

// tasks builds the runner and the status view the HTTP surface reads.
func (a *App) tasks() (*lifecycle.Runner, *lifecycle.Status, error) {
	var server *api.Server

	tasks := []lifecycle.Task{{
		Name:     lifecycle.TaskHTTP,
		Critical: true,
		Run: func(ctx context.Context) error {
			return server.Run(ctx)
		},
	}}

	if a.Config.TokenConfigured() {
		session, err := bot.NewSession(bot.SessionConfig{
			Token:          a.Config.DiscordToken,
			CommandTimeout: a.Config.Bot.CommandTimeout,
		}, a.NewBotHandler(), a.Logger)
		if err != nil {
			return nil, nil, fmt.Errorf("create bot session: %w", err)
		}
		tasks = append(tasks, lifecycle.Task{Name: lifecycle.TaskBot, Run: session.Run})
	} else {
		a.Logger.Warn("DISCORD_TOKEN not set; running status surface only")
	}

	runner := lifecycle.New(a.Logger, tasks...)
	status := lifecycle.NewStatus(runner, a.Config.TokenConfigured())

	serverCfg := api.DefaultServerConfig()
	serverCfg.Host = a.Config.HTTP.Host
	if a.Config.HTTP.Port > 0 {
		serverCfg.Port = a.Config.HTTP.Port
	}
	router := api.NewRouter(api.RouterConfig{
		Logger:         a.Logger,
		Status:         status,
		Registry:       a.Registry,
		ServerID:       a.Config.ServerID,
		AllowedOrigins: a.Config.HTTP.AllowedOrigins,
	})
	server = api.NewServer(router, serverCfg, a.Logger)

	return runner, status, nil
}
