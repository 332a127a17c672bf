package services

import (
	"errors"
	"testing"

	"blockvote/contexts/governance/voting-ledger/domain/entities"
	domainerrors "blockvote/contexts/governance/voting-ledger/domain/errors"
)

func TestSelectWinnerPrefersHighestCount(t *testing.T) {
	winner, err := SelectWinner([]entities.Candidate{
		{CandidateID: 1, VoteCount: entities.NewAmount(30)},
		{CandidateID: 2, VoteCount: entities.NewAmount(50)},
		{CandidateID: 3, VoteCount: entities.NewAmount(10)},
	})
	if err != nil {
		t.Fatalf("select winner failed: %v", err)
	}
	if winner.CandidateID != 2 {
		t.Fatalf("expected candidate 2, got %d", winner.CandidateID)
	}
}

func TestSelectWinnerBreaksTiesByLowestID(t *testing.T) {
	winner, err := SelectWinner([]entities.Candidate{
		{CandidateID: 3, VoteCount: entities.NewAmount(7)},
		{CandidateID: 1, VoteCount: entities.NewAmount(7)},
		{CandidateID: 2, VoteCount: entities.NewAmount(7)},
	})
	if err != nil {
		t.Fatalf("select winner failed: %v", err)
	}
	if winner.CandidateID != 1 {
		t.Fatalf("expected candidate 1 on tie, got %d", winner.CandidateID)
	}

	winner, err = SelectWinner([]entities.Candidate{
		{CandidateID: 1},
		{CandidateID: 2},
	})
	if err != nil {
		t.Fatalf("select winner failed: %v", err)
	}
	if winner.CandidateID != 1 {
		t.Fatalf("expected candidate 1 when nobody voted, got %d", winner.CandidateID)
	}
}

func TestSelectWinnerRequiresCandidates(t *testing.T) {
	if _, err := SelectWinner(nil); !errors.Is(err, domainerrors.ErrCandidateNotFound) {
		t.Fatalf("expected candidate not found, got %v", err)
	}
}

func TestVoteWeightUsesIntegerDivision(t *testing.T) {
	if got := VoteWeight(entities.NewAmount(25), entities.NewAmount(10)); got.String() != "2" {
		t.Fatalf("expected weight 2, got %s", got)
	}
	if got := VoteWeight(entities.NewAmount(25), entities.NewAmount(1)); got.String() != "25" {
		t.Fatalf("expected weight 25, got %s", got)
	}
}
