package commands

import (
	"context"
	"errors"
	"sync"
	"testing"

	"blockvote/contexts/governance/voting-ledger/domain/entities"
	domainerrors "blockvote/contexts/governance/voting-ledger/domain/errors"
	eventsv1 "blockvote/contracts/events/v1"
)

func TestCastVoteCommitsCreditsAndRejectsSecondBallot(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.register(t, "0xvoter1", 10)
	election := f.activeElection(t)
	f.approveEngine(t, "0xvoter1", 10)

	record, err := f.votes.CastVote(ctx, CastVoteCommand{Actor: "0xvoter1", ElectionID: election.ElectionID, CandidateID: 1, Amount: entities.NewAmount(5)})
	if err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if record.Weight.String() != "5" || record.CandidateID != 1 {
		t.Fatalf("unexpected vote record %+v", record)
	}
	if got := f.candidate(t, election.ElectionID, 1).VoteCount.String(); got != "5" {
		t.Fatalf("expected Alice vote count 5, got %s", got)
	}
	if got := f.account(t, "0xvoter1").Balance.String(); got != "5" {
		t.Fatalf("expected voter balance 5, got %s", got)
	}
	if got := f.account(t, testCustody).Balance.String(); got != "5" {
		t.Fatalf("expected custody balance 5, got %s", got)
	}
	remaining, err := allowanceOf(f, "0xvoter1", testCustody)
	if err != nil || remaining.String() != "5" {
		t.Fatalf("expected remaining engine allowance 5, got %s (%v)", remaining, err)
	}

	_, err = f.votes.CastVote(ctx, CastVoteCommand{Actor: "0xvoter1", ElectionID: election.ElectionID, CandidateID: 2, Amount: entities.NewAmount(5)})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected already voted, got %v", err)
	}
	if got := f.candidate(t, election.ElectionID, 2).VoteCount; !got.IsZero() {
		t.Fatalf("expected Bob untouched, got %s", got)
	}
	f.assertSupplyConserved(t, "0xvoter1")
}

func TestCastVoteReportsAlreadyVotedBeforeTokenShortage(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.register(t, "0xvoter3", 5)
	election := f.activeElection(t)
	f.approveEngine(t, "0xvoter3", 5)

	if _, err := f.votes.CastVote(ctx, CastVoteCommand{Actor: "0xvoter3", ElectionID: election.ElectionID, CandidateID: 2, Amount: entities.NewAmount(5)}); err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if got := f.account(t, "0xvoter3").Balance; !got.IsZero() {
		t.Fatalf("expected spent balance, got %s", got)
	}
	_, err := f.votes.CastVote(ctx, CastVoteCommand{Actor: "0xvoter3", ElectionID: election.ElectionID, CandidateID: 2, Amount: entities.NewAmount(5)})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected already voted, got %v", err)
	}
}

func TestCastVotePreconditionOrder(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.register(t, "0xvoter", 10)
	f.register(t, "0xbroke", 0)
	election := f.activeElection(t)
	pending, err := f.elections.CreateElection(ctx, CreateElectionCommand{
		Actor:     testAdmin,
		Title:     "later",
		StartTime: f.now,
		EndTime:   f.now.Add(1),
	})
	if err != nil {
		t.Fatalf("create pending election failed: %v", err)
	}

	cases := []struct {
		name string
		cmd  CastVoteCommand
		want error
	}{
		{"unknown election", CastVoteCommand{Actor: "0xstranger", ElectionID: 99, CandidateID: 99}, domainerrors.ErrElectionNotActive},
		{"pending election", CastVoteCommand{Actor: "0xstranger", ElectionID: pending.ElectionID, CandidateID: 99}, domainerrors.ErrElectionNotActive},
		{"unknown candidate before registration", CastVoteCommand{Actor: "0xstranger", ElectionID: election.ElectionID, CandidateID: 3}, domainerrors.ErrCandidateNotFound},
		{"unregistered caller", CastVoteCommand{Actor: "0xstranger", ElectionID: election.ElectionID, CandidateID: 1, Amount: entities.NewAmount(1)}, domainerrors.ErrNotRegistered},
		{"zero amount", CastVoteCommand{Actor: "0xvoter", ElectionID: election.ElectionID, CandidateID: 1}, domainerrors.ErrInsufficientTokens},
		{"no allowance", CastVoteCommand{Actor: "0xvoter", ElectionID: election.ElectionID, CandidateID: 1, Amount: entities.NewAmount(1)}, domainerrors.ErrInsufficientTokens},
		{"custody caller", CastVoteCommand{Actor: testCustody, ElectionID: election.ElectionID, CandidateID: 1, Amount: entities.NewAmount(1)}, domainerrors.ErrUnauthorized},
	}
	for _, tc := range cases {
		if _, err := f.votes.CastVote(ctx, tc.cmd); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	f.approveEngine(t, "0xbroke", 10)
	if _, err := f.votes.CastVote(ctx, CastVoteCommand{Actor: "0xbroke", ElectionID: election.ElectionID, CandidateID: 1, Amount: entities.NewAmount(1)}); !errors.Is(err, domainerrors.ErrInsufficientTokens) {
		t.Fatalf("expected insufficient tokens for empty balance, got %v", err)
	}
	f.approveEngine(t, "0xvoter", 3)
	if _, err := f.votes.CastVote(ctx, CastVoteCommand{Actor: "0xvoter", ElectionID: election.ElectionID, CandidateID: 1, Amount: entities.NewAmount(4)}); !errors.Is(err, domainerrors.ErrInsufficientTokens) {
		t.Fatalf("expected insufficient tokens above allowance, got %v", err)
	}
	if got := f.account(t, "0xvoter").Balance.String(); got != "10" {
		t.Fatalf("expected failed votes to leave balance intact, got %s", got)
	}
}

func TestCastVoteWeightUsesTokensPerVote(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	f.register(t, "0xvoter", 100)
	election := f.activeElection(t)
	f.approveEngine(t, "0xvoter", 100)

	if _, err := f.votes.CastVote(ctx, CastVoteCommand{Actor: "0xvoter", ElectionID: election.ElectionID, CandidateID: 2, Amount: entities.NewAmount(9)}); !errors.Is(err, domainerrors.ErrInsufficientTokens) {
		t.Fatalf("expected insufficient tokens below tokens per vote, got %v", err)
	}
	record, err := f.votes.CastVote(ctx, CastVoteCommand{Actor: "0xvoter", ElectionID: election.ElectionID, CandidateID: 2, Amount: entities.NewAmount(25)})
	if err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if record.Weight.String() != "2" {
		t.Fatalf("expected weight 2, got %s", record.Weight)
	}
	if got := f.candidate(t, election.ElectionID, 2).VoteCount.String(); got != "2" {
		t.Fatalf("expected Bob vote count 2, got %s", got)
	}
	events := f.events(t)
	last := events[len(events)-1]
	if last.EventType != eventsv1.EventElectionVoteCast || last.PartitionKey != "1" {
		t.Fatalf("expected vote cast event for election 1, got %+v", last)
	}
}

func TestConcurrentVotesAreSerialized(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	voters := []string{"0xv1", "0xv2", "0xv3", "0xv4", "0xv5", "0xv6", "0xv7", "0xv8"}
	for _, voter := range voters {
		f.register(t, voter, 10)
		f.approveEngine(t, voter, 10)
	}
	election := f.activeElection(t)

	var wg sync.WaitGroup
	errs := make(chan error, len(voters)*2)
	for _, voter := range voters {
		for attempt := 0; attempt < 2; attempt++ {
			wg.Add(1)
			go func(voter string) {
				defer wg.Done()
				_, err := f.votes.CastVote(ctx, CastVoteCommand{Actor: voter, ElectionID: election.ElectionID, CandidateID: 1, Amount: entities.NewAmount(3)})
				errs <- err
			}(voter)
		}
	}
	wg.Wait()
	close(errs)

	succeeded, alreadyVoted := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domainerrors.ErrAlreadyVoted):
			alreadyVoted++
		default:
			t.Fatalf("unexpected error %v", err)
		}
	}
	if succeeded != len(voters) || alreadyVoted != len(voters) {
		t.Fatalf("expected %d successes and rejections, got %d and %d", len(voters), succeeded, alreadyVoted)
	}
	if got := f.candidate(t, election.ElectionID, 1).VoteCount.String(); got != "24" {
		t.Fatalf("expected tally 24, got %s", got)
	}
	f.assertSupplyConserved(t, voters...)
}
