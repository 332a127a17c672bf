package bootstrap

import (
	"context"
	"log/slog"
	"time"

	votingledger "blockvote/contexts/governance/voting-ledger"
	"blockvote/contexts/governance/voting-ledger/application/workers"
	"blockvote/internal/platform/config"
	"blockvote/internal/platform/messaging"

	"golang.org/x/sync/errgroup"
)

// workerLoops drives the outbox relay and the window monitor on tickers.
// A failed cycle is logged and retried on the next tick.
type workerLoops struct {
	relay           workers.OutboxRelay
	monitor         *workers.WindowMonitor
	relayInterval   time.Duration
	monitorInterval time.Duration
	monitorEnabled  bool
	logger          *slog.Logger
}

func newWorkerLoops(cfg config.Config, module votingledger.Module, bus *messaging.Bus, logger *slog.Logger) *workerLoops {
	return &workerLoops{
		relay:           module.OutboxRelay(bus, cfg.OutboxBatchSize),
		monitor:         module.WindowMonitor(),
		relayInterval:   cfg.OutboxPollInterval,
		monitorInterval: cfg.WindowMonitorInterval,
		monitorEnabled:  cfg.EnableWindowMonitor,
		logger:          logger,
	}
}

func (w *workerLoops) start(ctx context.Context, group *errgroup.Group) {
	group.Go(func() error {
		return w.loop(ctx, "outbox_relay", w.relayInterval, w.relay.RunOnce)
	})
	if w.monitorEnabled {
		group.Go(func() error {
			return w.loop(ctx, "window_monitor", w.monitorInterval, func(ctx context.Context) error {
				_, err := w.monitor.RunOnce(ctx)
				return err
			})
		})
	}
}

func (w *workerLoops) loop(ctx context.Context, name string, interval time.Duration, run func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("worker loop started",
		"event", "bootstrap_worker_loop_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"worker", name,
		"interval", interval.String(),
	)
	for {
		if err := run(ctx); err != nil && ctx.Err() == nil {
			w.logger.Warn("worker cycle failed",
				"event", "bootstrap_worker_cycle_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"worker", name,
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
