// Package app provides the application bootstrap: it wires configuration,
// the database and the bot together and exposes the run modes.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lueurxax/chat-supervisor-bot/internal/bot"
	"github.com/lueurxax/chat-supervisor-bot/internal/platform/config"
	"github.com/lueurxax/chat-supervisor-bot/internal/platform/observability"
	db "github.com/lueurxax/chat-supervisor-bot/internal/storage"
)

// App holds the application dependencies.
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zerolog.Logger
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}
}

// StartHealthServer starts the health check and metrics server.
func (a *App) StartHealthServer(ctx context.Context) error {
	srv := observability.NewServer(a.database, a.cfg.HealthPort, a.logger)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("health server start: %w", err)
	}

	return nil
}

// RunBot runs the supervisor bot until the context is canceled.
func (a *App) RunBot(ctx context.Context) error {
	a.logger.Info().Msg("Starting supervisor bot")

	b, err := bot.New(a.cfg, a.database, a.logger)
	if err != nil {
		return fmt.Errorf("bot initialization failed: %w", err)
	}

	if err := b.Run(ctx); err != nil {
		return fmt.Errorf("bot run: %w", err)
	}

	return nil
}
