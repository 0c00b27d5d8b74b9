package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	accountservice "keystone/contexts/account-management/account-service"
	eventsadapter "keystone/contexts/account-management/account-service/adapters/events"
	postgresadapter "keystone/contexts/account-management/account-service/adapters/postgres"
	registryadapter "keystone/contexts/account-management/account-service/adapters/registry"
	workerapp "keystone/contexts/account-management/account-service/application/workers"
	accessservice "keystone/contexts/identity-access/access-service"
	"keystone/internal/platform/config"
	"keystone/internal/platform/db"
	"keystone/internal/platform/httpserver"
	"keystone/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	relay        workerapp.NotificationRelay
	delivery     workerapp.NotificationConsumer
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	access := accessservice.NewModule(accessservice.Dependencies{
		JWTSecret: cfg.JWTSecret,
	})

	repo := postgresadapter.NewRepository(pg.DB, logger)
	account := accountservice.NewModule(accountservice.Dependencies{
		Orgs:         repo,
		Memberships:  repo,
		Affiliations: repo,
		Contacts:     repo,
		Settings:     repo,
		Invitations:  repo,
		Registry:     registryadapter.NewClient(cfg.RegistryURL, cfg.RegistryTimeout, logger),
		Access:       access.Policy,
		Notifier:     eventsadapter.NewDispatcher(repo, logger),
		Clock:        postgresadapter.SystemClock{},
		IDGenerator:  postgresadapter.UUIDGenerator{},
		Logger:       logger,
	})

	server := httpserver.New(account, access, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(nil, logger)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		relay: workerapp.NotificationRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     postgresadapter.SystemClock{},
			Topic:     cfg.NotificationTopic,
			BatchSize: cfg.RelayBatchSize,
			Logger:    logger,
		},
		delivery: workerapp.NotificationConsumer{
			Subscriber:    kafka,
			Topic:         cfg.NotificationTopic,
			ConsumerGroup: "account-notification-delivery-cg",
			Logger:        logger,
		},
		pollInterval: cfg.RelayInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.delivery.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.relay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
