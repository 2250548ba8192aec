package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zhouzirui/solace/backend/internal/config"
	"github.com/zhouzirui/solace/backend/internal/logging"
	"github.com/zhouzirui/solace/backend/internal/service/ai"
	"github.com/zhouzirui/solace/backend/internal/service/catalog"
	"github.com/zhouzirui/solace/backend/internal/service/chat"
	"github.com/zhouzirui/solace/backend/internal/service/persistence"
	"github.com/zhouzirui/solace/backend/internal/storage"
)

// app holds the long-lived components shared by every subcommand.
type app struct {
	cfg   *config.Config
	store storage.Store
	chat  *chat.Service
}

// loadConfig reads the environment and installs the process logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err = logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return cfg, nil
}

// buildApp wires the orchestrator. listener receives advisories and settled
// turns.
func buildApp(ctx context.Context, cfg *config.Config, listener chat.Listener) (*app, error) {
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	logger.Info("storage ready", zap.String("backend", cfg.Storage.Backend))

	generator, translator, err := ai.NewBackend(ctx, cfg.AI, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize ai backend: %w", err)
	}

	articles := catalog.Build(ctx, cfg.Catalog, logger)

	svc := chat.NewService(ctx, chat.Options{
		Generator:          generator,
		Translator:         translator,
		Adapter:            persistence.NewAdapter(store, cfg.Storage.KeyPrefix, logger),
		Catalog:            articles,
		Listener:           listener,
		Logger:             logger,
		EscalationDelay:    cfg.Session.EscalationDelay,
		GenerationTimeout:  cfg.AI.GenerationTimeout,
		TranslationTimeout: cfg.AI.TranslationTimeout,
		DefaultLanguage:    cfg.Session.DefaultLanguage,
		PersistenceEnabled: cfg.Session.PersistenceEnabled,
	})

	return &app{cfg: cfg, store: store, chat: svc}, nil
}

// Close stops pending advisories and releases the store.
func (a *app) Close() {
	a.chat.Close()
	if err := a.store.Close(); err != nil {
		logger.Warn("failed to close storage", zap.Error(err))
	}
}
