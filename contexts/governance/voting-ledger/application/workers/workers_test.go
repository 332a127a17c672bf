package workers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"blockvote/contexts/governance/voting-ledger/adapters/memory"
	"blockvote/contexts/governance/voting-ledger/application/commands"
	"blockvote/contexts/governance/voting-ledger/domain/entities"
	"blockvote/contexts/governance/voting-ledger/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type recordingPublisher struct {
	failAt    uint64
	published []ports.EventEnvelope
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.failAt != 0 && event.Sequence == p.failAt {
		return errors.New("broker unavailable")
	}
	if topic != event.EventType {
		return errors.New("topic must match event type")
	}
	p.published = append(p.published, event)
	return nil
}

func seededStore(t *testing.T, now time.Time) (*memory.Store, commands.ElectionUseCase) {
	t.Helper()
	store := memory.NewStore()
	clock := fixedClock{now: now}
	ledger := commands.LedgerUseCase{Store: store, Clock: clock, IDGen: store}
	if _, _, err := ledger.Initialize(context.Background(), entities.Genesis{
		Administrator: "admin",
		Custody:       "engine",
		TokensPerVote: entities.NewAmount(1),
		InitialSupply: entities.NewAmount(100),
	}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := ledger.BatchRegisterVoters(context.Background(), commands.BatchRegisterVotersCommand{
		Actor:     "admin",
		Addresses: []string{"alice", "bob"},
		Amount:    entities.NewAmount(5),
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	return store, commands.ElectionUseCase{Store: store, Clock: clock, IDGen: store}
}

func TestOutboxRelayPublishesInSequenceOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, _ := seededStore(t, now)
	publisher := &recordingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: fixedClock{now: now}, BatchSize: 10}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay: %v", err)
	}
	if len(publisher.published) != 3 {
		t.Fatalf("expected 3 events, got %d", len(publisher.published))
	}
	for i, event := range publisher.published {
		if event.Sequence != uint64(i+1) {
			t.Fatalf("expected sequence %d at position %d, got %d", i+1, i, event.Sequence)
		}
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows, got %d", len(pending))
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("idle relay: %v", err)
	}
	if len(publisher.published) != 3 {
		t.Fatalf("expected idle relay to publish nothing")
	}
}

func TestOutboxRelayStopsAtFirstFailure(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, _ := seededStore(t, now)
	publisher := &recordingPublisher{failAt: 2}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, BatchSize: 10}

	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected publish failure")
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected only the first event published, got %d", len(publisher.published))
	}
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 || pending[0].Sequence != 2 {
		t.Fatalf("expected retry to resume at sequence 2, got %+v", pending)
	}

	publisher.failAt = 0
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("retry relay: %v", err)
	}
	if len(publisher.published) != 3 || publisher.published[1].Sequence != 2 {
		t.Fatalf("expected retry to publish remaining events in order")
	}
}

func TestWindowMonitorReportsElapsedElections(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, elections := seededStore(t, now)
	ctx := context.Background()

	expired, err := elections.CreateElection(ctx, commands.CreateElectionCommand{
		Actor:     "admin",
		Title:     "Expired",
		StartTime: now.Add(-2 * time.Hour),
		EndTime:   now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("create expired: %v", err)
	}
	if _, err := elections.CreateElection(ctx, commands.CreateElectionCommand{
		Actor:     "admin",
		Title:     "Running",
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
	}); err != nil {
		t.Fatalf("create running: %v", err)
	}

	monitor := WindowMonitor{Store: store, Clock: fixedClock{now: now}}
	overdue, err := monitor.RunOnce(ctx)
	if err != nil {
		t.Fatalf("monitor: %v", err)
	}
	if len(overdue) != 1 || overdue[0].ElectionID != expired.ElectionID {
		t.Fatalf("expected only the expired election, got %+v", overdue)
	}
	if overdue[0].Status != entities.ElectionStatusPending {
		t.Fatalf("monitor must not transition elections, got %s", overdue[0].Status)
	}
}

func TestWindowMonitorWarnsOncePerElection(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, elections := seededStore(t, now)
	ctx := context.Background()
	if _, err := elections.CreateElection(ctx, commands.CreateElectionCommand{
		Actor:     "admin",
		Title:     "Expired",
		StartTime: now.Add(-2 * time.Hour),
		EndTime:   now.Add(-time.Hour),
	}); err != nil {
		t.Fatalf("create expired: %v", err)
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	monitor := WindowMonitor{Store: store, Clock: fixedClock{now: now}, Logger: logger}
	for i := 0; i < 3; i++ {
		overdue, err := monitor.RunOnce(ctx)
		if err != nil {
			t.Fatalf("monitor sweep %d: %v", i, err)
		}
		if len(overdue) != 1 {
			t.Fatalf("expected the expired election on every sweep, got %d", len(overdue))
		}
	}

	warnings, repeats := 0, 0
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		if !strings.Contains(line, "voting_ledger_election_window_elapsed") {
			continue
		}
		switch {
		case strings.Contains(line, `"level":"WARN"`):
			warnings++
		case strings.Contains(line, `"level":"DEBUG"`):
			repeats++
		}
	}
	if warnings != 1 || repeats != 2 {
		t.Fatalf("expected one warning and two debug repeats, got %d and %d", warnings, repeats)
	}
}
