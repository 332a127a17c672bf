package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	votingledger "blockvote/contexts/governance/voting-ledger"
	postgresadapter "blockvote/contexts/governance/voting-ledger/adapters/postgres"
	"blockvote/contexts/governance/voting-ledger/domain/entities"
	eventsv1 "blockvote/contracts/events/v1"
	"blockvote/internal/platform/config"
	"blockvote/internal/platform/db"
	"blockvote/internal/platform/httpserver"
	"blockvote/internal/platform/messaging"

	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	workers  *workerLoops
	database *db.Database
	logger   *slog.Logger
}

type WorkerApp struct {
	workers  *workerLoops
	bus      *messaging.Bus
	database *db.Database
	logger   *slog.Logger
}

func BuildAPI(cfg config.Config) (*APIApp, error) {
	logger := NewLogger(cfg, "api")
	module, database, err := buildModule(cfg, logger)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(256, logger)
	server := httpserver.New(module, httpserver.Options{
		Addr:               normalizeAddr(cfg.HTTPPort),
		JWTSecret:          cfg.JWTSecret,
		InsecureHeaderAuth: cfg.InsecureHeaderAuth,
		CORSOrigins:        cfg.CORSOrigins,
		WriteRateLimit:     cfg.WriteRateLimit,
		WriteBurst:         cfg.WriteBurst,
		Events:             bus,
	}, logger)

	app := &APIApp{
		server:   server,
		database: database,
		logger:   logger,
	}
	if cfg.EmbedWorkers {
		app.workers = newWorkerLoops(cfg, module, bus, logger)
	}
	return app, nil
}

// BuildWorker wires the relay and window monitor against a shared database.
// The memory store lives inside one process, so it cannot back a worker.
func BuildWorker(cfg config.Config) (*WorkerApp, error) {
	if cfg.StorageDriver == config.StorageMemory {
		return nil, errors.New("worker process requires sqlite or postgres storage")
	}
	logger := NewLogger(cfg, "worker")
	module, database, err := buildModule(cfg, logger)
	if err != nil {
		return nil, err
	}
	bus := messaging.NewBus(256, logger)
	return &WorkerApp{
		workers:  newWorkerLoops(cfg, module, bus, logger),
		bus:      bus,
		database: database,
		logger:   logger,
	}, nil
}

// Migrate creates or updates the relational schema.
func Migrate(cfg config.Config) error {
	if cfg.StorageDriver == config.StorageMemory {
		return errors.New("memory storage has no schema to migrate")
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	return postgresadapter.AutoMigrate(database.DB)
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"embedded_workers", a.workers != nil,
	)
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.server.Run(ctx)
	})
	if a.workers != nil {
		a.workers.start(ctx, group)
	}
	return group.Wait()
}

func (a *APIApp) Close() error {
	return a.database.Close()
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.bus.Subscribe(ctx, messaging.AllTopics, "audit-log", func(_ context.Context, event eventsv1.Envelope) error {
		w.logger.Info("ledger event relayed",
			"event", "bootstrap_worker_event_relayed",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"event_type", event.EventType,
			"sequence", event.Sequence,
			"partition_key", event.PartitionKey,
		)
		return nil
	}); err != nil {
		return err
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	group, ctx := errgroup.WithContext(ctx)
	w.workers.start(ctx, group)
	return group.Wait()
}

func (w *WorkerApp) Close() error {
	return w.database.Close()
}

// IssueToken signs a bearer token with the configured secret.
func IssueToken(cfg config.Config, subject string, ttl time.Duration) (string, error) {
	return httpserver.NewAuthenticator(cfg.JWTSecret).IssueToken(subject, ttl, time.Now().UTC())
}

func NewLogger(cfg config.Config, process string) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("service", cfg.ServiceName, "process", process)
}

func GenesisFromConfig(cfg config.Config) (entities.Genesis, error) {
	supply, err := entities.ParseAmount(cfg.GenesisSupply)
	if err != nil {
		return entities.Genesis{}, fmt.Errorf("genesis supply: %w", err)
	}
	perVote, err := entities.ParseAmount(cfg.TokensPerVote)
	if err != nil {
		return entities.Genesis{}, fmt.Errorf("tokens per vote: %w", err)
	}
	return entities.Genesis{
		Administrator: cfg.Administrator,
		Custody:       cfg.Custody,
		TokenName:     cfg.TokenName,
		TokenSymbol:   cfg.TokenSymbol,
		TokensPerVote: perVote,
		InitialSupply: supply,
	}, nil
}

// buildModule opens the configured store, migrates it and makes sure the
// genesis ledger exists.
func buildModule(cfg config.Config, logger *slog.Logger) (votingledger.Module, *db.Database, error) {
	genesis, err := GenesisFromConfig(cfg)
	if err != nil {
		return votingledger.Module{}, nil, err
	}
	if cfg.StorageDriver == config.StorageMemory {
		module, err := votingledger.NewInMemoryModule(genesis, logger)
		return module, nil, err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return votingledger.Module{}, nil, err
	}
	if err := postgresadapter.AutoMigrate(database.DB); err != nil {
		_ = database.Close()
		return votingledger.Module{}, nil, err
	}
	store := postgresadapter.NewStore(database.DB, logger)
	module := votingledger.NewModule(votingledger.Dependencies{
		Store:  store,
		Outbox: store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, _, err := module.Initialize(ctx, genesis); err != nil {
		_ = database.Close()
		return votingledger.Module{}, nil, err
	}
	return module, database, nil
}

func openDatabase(cfg config.Config) (*db.Database, error) {
	switch cfg.StorageDriver {
	case config.StorageSQLite:
		return db.OpenSQLite(cfg.SQLitePath)
	case config.StoragePostgres:
		return db.Connect(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
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
