package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	application "blockvote/contexts/governance/voting-ledger/application"
	"blockvote/contexts/governance/voting-ledger/domain/entities"
	"blockvote/contexts/governance/voting-ledger/ports"
)

// WindowMonitor reports elections whose advisory window has elapsed while
// they are still pending or active. Transitions stay with the administrator.
// Each election is warned about once; later sweeps log it at debug level.
type WindowMonitor struct {
	Store  ports.Store
	Clock  ports.Clock
	Logger *slog.Logger

	mu       sync.Mutex
	reported map[uint64]struct{}
}

func (m *WindowMonitor) RunOnce(ctx context.Context) ([]entities.Election, error) {
	logger := application.ResolveLogger(m.Logger)
	now := time.Now().UTC()
	if m.Clock != nil {
		now = m.Clock.Now().UTC()
	}

	var overdue []entities.Election
	err := m.Store.View(ctx, func(ctx context.Context, tx ports.ReadTx) error {
		elections, err := tx.ListElections(ctx)
		if err != nil {
			return err
		}
		for _, election := range elections {
			if election.WindowElapsed(now) {
				overdue = append(overdue, election)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("election window sweep failed",
			"event", "voting_ledger_window_sweep_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"error", err.Error(),
		)
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current := make(map[uint64]struct{}, len(overdue))
	for _, election := range overdue {
		current[election.ElectionID] = struct{}{}
		level := slog.LevelWarn
		if _, seen := m.reported[election.ElectionID]; seen {
			level = slog.LevelDebug
		}
		logger.Log(ctx, level, "election window elapsed without transition",
			"event", "voting_ledger_election_window_elapsed",
			"module", application.ModuleName,
			"layer", "worker",
			"election_id", election.ElectionID,
			"status", string(election.Status),
			"end_time", election.EndTime,
		)
	}
	m.reported = current
	return overdue, nil
}
