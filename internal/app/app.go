// Package app wires the configured backend, store and services together.
package app

import (
	"fmt"
	"log/slog"

	"github.com/axellelanca/shortlinks/internal/clock"
	"github.com/axellelanca/shortlinks/internal/config"
	"github.com/axellelanca/shortlinks/internal/logger"
	"github.com/axellelanca/shortlinks/internal/repository"
	"github.com/axellelanca/shortlinks/internal/reqlog"
	"github.com/axellelanca/shortlinks/internal/services"
	"github.com/axellelanca/shortlinks/internal/storage"
)

// App bundles the long-lived components shared by the CLI and the server.
type App struct {
	Config   *config.Config
	Log      *slog.Logger
	Clock    clock.Clock
	Backend  storage.Backend
	Links    *repository.KVLinkRepository
	Requests *reqlog.Logger
	Service  *services.LinkService
}

// New opens the configured backend and builds the service graph on top of it.
func New(cfg *config.Config) (*App, error) {
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	backend, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}

	return NewWithBackend(cfg, backend, log), nil
}

// NewWithBackend builds the service graph on an already opened backend.
func NewWithBackend(cfg *config.Config, backend storage.Backend, log *slog.Logger) *App {
	clk := clock.Real{}
	links := repository.NewLinkRepository(backend, cfg.Storage.Key, log)
	requests := reqlog.New(log)
	svc := services.NewLinkService(links, requests, log, services.Options{
		Clock:                  clk,
		DefaultValidityMinutes: cfg.Links.DefaultValidityMinutes,
		ShortcodeLength:        cfg.Links.ShortcodeLength,
		MaxBatchSize:           cfg.Links.MaxBatchSize,
	})

	log.Debug("application initialised",
		"storage", cfg.Storage.Driver,
		"key", cfg.Storage.Key)

	return &App{
		Config:   cfg,
		Log:      log,
		Clock:    clk,
		Backend:  backend,
		Links:    links,
		Requests: requests,
		Service:  svc,
	}
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.Backend.Close()
}
