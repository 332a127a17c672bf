package commands

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"blockvote/contexts/governance/voting-ledger/domain/entities"
	domainerrors "blockvote/contexts/governance/voting-ledger/domain/errors"
	eventsv1 "blockvote/contracts/events/v1"
)

func TestElectionLifecycleTransitions(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	election, err := f.elections.CreateElection(ctx, CreateElectionCommand{
		Actor:     testAdmin,
		Title:     "Treasury",
		StartTime: f.now,
		EndTime:   f.now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}
	if election.ElectionID != 1 || election.Status != entities.ElectionStatusPending {
		t.Fatalf("unexpected election %+v", election)
	}

	end := TransitionElectionCommand{Actor: testAdmin, ElectionID: election.ElectionID}
	if _, err := f.elections.EndElection(ctx, end); !errors.Is(err, domainerrors.ErrElectionNotActive) {
		t.Fatalf("expected ending a pending election to fail with not active, got %v", err)
	}
	if _, err := f.elections.StartElection(ctx, end); !errors.Is(err, domainerrors.ErrInsufficientCandidates) {
		t.Fatalf("expected insufficient candidates, got %v", err)
	}
	for _, name := range []string{"Yes", "No"} {
		if _, err := f.elections.AddCandidate(ctx, AddCandidateCommand{Actor: testAdmin, ElectionID: election.ElectionID, Name: name}); err != nil {
			t.Fatalf("add candidate failed: %v", err)
		}
	}
	if _, err := f.elections.StartElection(ctx, end); err != nil {
		t.Fatalf("start election failed: %v", err)
	}
	if _, err := f.elections.StartElection(ctx, end); !errors.Is(err, domainerrors.ErrElectionNotPending) {
		t.Fatalf("expected starting an active election to fail with not pending, got %v", err)
	}
	if _, err := f.elections.AddCandidate(ctx, AddCandidateCommand{Actor: testAdmin, ElectionID: election.ElectionID, Name: "Late"}); !errors.Is(err, domainerrors.ErrElectionNotPending) {
		t.Fatalf("expected adding to an active election to fail, got %v", err)
	}

	result, err := f.elections.EndElection(ctx, end)
	if err != nil {
		t.Fatalf("end election failed: %v", err)
	}
	if result.Election.Status != entities.ElectionStatusEnded || result.Winner.CandidateID != 1 {
		t.Fatalf("expected ended election won by candidate 1 on tie, got %+v", result)
	}
	if _, err := f.elections.EndElection(ctx, end); !errors.Is(err, domainerrors.ErrElectionNotActive) {
		t.Fatalf("expected ending twice to fail, got %v", err)
	}

	events := f.events(t)
	last := events[len(events)-1]
	if last.EventType != eventsv1.EventElectionEnded {
		t.Fatalf("expected election ended event, got %s", last.EventType)
	}
	var data map[string]any
	if err := json.Unmarshal(last.Data, &data); err != nil {
		t.Fatalf("decode event data failed: %v", err)
	}
	if data["winner_id"] != float64(1) {
		t.Fatalf("expected winner in ended event, got %v", data)
	}
	for i, event := range events {
		if event.Sequence != uint64(i+1) {
			t.Fatalf("expected gapless sequence, event %d has %d", i, event.Sequence)
		}
	}
}

func TestElectionCommandsValidateInput(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	if _, err := f.elections.CreateElection(ctx, CreateElectionCommand{Actor: "0xvoter", Title: "x", StartTime: f.now, EndTime: f.now.Add(time.Hour)}); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := f.elections.CreateElection(ctx, CreateElectionCommand{Actor: testAdmin, Title: "x", StartTime: f.now, EndTime: f.now}); !errors.Is(err, domainerrors.ErrInvalidWindow) {
		t.Fatalf("expected invalid window, got %v", err)
	}
	if _, err := f.elections.AddCandidate(ctx, AddCandidateCommand{Actor: testAdmin, ElectionID: 42, Name: "ghost"}); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected election not found, got %v", err)
	}
	if _, err := f.elections.StartElection(ctx, TransitionElectionCommand{Actor: testAdmin, ElectionID: 42}); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected election not found on start, got %v", err)
	}
	if _, err := f.elections.EndElection(ctx, TransitionElectionCommand{Actor: testAdmin, ElectionID: 42}); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected election not found on end, got %v", err)
	}
	if f.state(t).ElectionCount != 0 {
		t.Fatalf("expected failed creations to leave the counter at 0, got %d", f.state(t).ElectionCount)
	}
}

func TestEndElectionPicksHighestTally(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.register(t, "0xv1", 10)
	f.register(t, "0xv2", 10)
	election := f.activeElection(t)
	f.approveEngine(t, "0xv1", 10)
	f.approveEngine(t, "0xv2", 10)

	if _, err := f.votes.CastVote(ctx, CastVoteCommand{Actor: "0xv1", ElectionID: election.ElectionID, CandidateID: 1, Amount: entities.NewAmount(3)}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := f.votes.CastVote(ctx, CastVoteCommand{Actor: "0xv2", ElectionID: election.ElectionID, CandidateID: 2, Amount: entities.NewAmount(7)}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	result, err := f.elections.EndElection(ctx, TransitionElectionCommand{Actor: testAdmin, ElectionID: election.ElectionID})
	if err != nil {
		t.Fatalf("end election failed: %v", err)
	}
	if result.Winner.Name != "Bob" || result.Winner.VoteCount.String() != "7" {
		t.Fatalf("expected Bob with 7, got %+v", result.Winner)
	}
	if result.Election.TotalVotesCast != 2 || result.Election.TotalTokensUsed.String() != "10" {
		t.Fatalf("unexpected totals %+v", result.Election)
	}
	if _, err := f.votes.CastVote(ctx, CastVoteCommand{Actor: "0xv1", ElectionID: election.ElectionID, CandidateID: 1, Amount: entities.NewAmount(1)}); !errors.Is(err, domainerrors.ErrElectionNotActive) {
		t.Fatalf("expected voting after end to fail, got %v", err)
	}
}
