package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "blockvote/contexts/governance/voting-ledger/application"
	"blockvote/contexts/governance/voting-ledger/domain/entities"
	domainerrors "blockvote/contexts/governance/voting-ledger/domain/errors"
	"blockvote/contexts/governance/voting-ledger/domain/services"
	"blockvote/contexts/governance/voting-ledger/ports"
	eventsv1 "blockvote/contracts/events/v1"
)

type CreateElectionCommand struct {
	Actor       string
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
}

type AddCandidateCommand struct {
	Actor       string
	ElectionID  uint64
	Name        string
	Description string
}

type TransitionElectionCommand struct {
	Actor      string
	ElectionID uint64
}

// EndElectionResult carries the closed election and its winner.
type EndElectionResult struct {
	Election entities.Election
	Winner   entities.Candidate
}

// ElectionUseCase drives the administrator-only lifecycle
// Pending -> Active -> Ended. The advisory window never triggers a transition.
type ElectionUseCase struct {
	Store  ports.Store
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc ElectionUseCase) CreateElection(ctx context.Context, cmd CreateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	var election entities.Election
	err := uc.Store.Update(ctx, func(ctx context.Context, tx ports.Tx) error {
		state, err := loadLedger(ctx, tx)
		if err != nil {
			return err
		}
		if _, err := requireAdministrator(state, cmd.Actor); err != nil {
			return err
		}
		title := strings.TrimSpace(cmd.Title)
		if title == "" {
			return domainerrors.ErrInvalidInput
		}
		if !cmd.StartTime.Before(cmd.EndTime) {
			return domainerrors.ErrInvalidWindow
		}
		now := resolveNow(uc.Clock)
		state.ElectionCount++
		election = entities.Election{
			ElectionID:  state.ElectionCount,
			Title:       title,
			Description: strings.TrimSpace(cmd.Description),
			StartTime:   cmd.StartTime.UTC(),
			EndTime:     cmd.EndTime.UTC(),
			Status:      entities.ElectionStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.SaveElection(ctx, election); err != nil {
			return err
		}
		if err := appendEvent(ctx, tx, uc.IDGen, &state, eventsv1.EventElectionCreated, "election_id", electionKey(election.ElectionID), now, map[string]any{
			"election_id": election.ElectionID,
			"title":       election.Title,
			"start_time":  election.StartTime,
			"end_time":    election.EndTime,
		}); err != nil {
			return err
		}
		state.UpdatedAt = now
		return tx.SaveLedgerState(ctx, state)
	})
	if err != nil {
		logRejected(logger, "election creation rejected", "voting_ledger_election_create_rejected", err,
			"actor", strings.TrimSpace(cmd.Actor),
			"title", strings.TrimSpace(cmd.Title),
		)
		return entities.Election{}, err
	}
	logger.Info("election created",
		"event", "voting_ledger_election_created",
		"module", application.ModuleName,
		"layer", "application",
		"election_id", election.ElectionID,
		"title", election.Title,
	)
	return election, nil
}

func (uc ElectionUseCase) AddCandidate(ctx context.Context, cmd AddCandidateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	var candidate entities.Candidate
	err := uc.Store.Update(ctx, func(ctx context.Context, tx ports.Tx) error {
		state, err := loadLedger(ctx, tx)
		if err != nil {
			return err
		}
		if _, err := requireAdministrator(state, cmd.Actor); err != nil {
			return err
		}
		election, err := loadElection(ctx, tx, cmd.ElectionID)
		if err != nil {
			return err
		}
		if election.Status != entities.ElectionStatusPending {
			return domainerrors.ErrElectionNotPending
		}
		name := strings.TrimSpace(cmd.Name)
		if name == "" {
			return domainerrors.ErrInvalidInput
		}
		now := resolveNow(uc.Clock)
		election.CandidateCount++
		election.UpdatedAt = now
		candidate = entities.Candidate{
			ElectionID:  election.ElectionID,
			CandidateID: election.CandidateCount,
			Name:        name,
			Description: strings.TrimSpace(cmd.Description),
			CreatedAt:   now,
		}
		if err := tx.SaveCandidate(ctx, candidate); err != nil {
			return err
		}
		if err := tx.SaveElection(ctx, election); err != nil {
			return err
		}
		if err := appendEvent(ctx, tx, uc.IDGen, &state, eventsv1.EventElectionCandidateAdded, "election_id", electionKey(election.ElectionID), now, map[string]any{
			"election_id":  election.ElectionID,
			"candidate_id": candidate.CandidateID,
			"name":         candidate.Name,
		}); err != nil {
			return err
		}
		state.UpdatedAt = now
		return tx.SaveLedgerState(ctx, state)
	})
	if err != nil {
		logRejected(logger, "candidate registration rejected", "voting_ledger_candidate_add_rejected", err,
			"actor", strings.TrimSpace(cmd.Actor),
			"election_id", cmd.ElectionID,
		)
		return entities.Candidate{}, err
	}
	logger.Info("candidate added",
		"event", "voting_ledger_candidate_added",
		"module", application.ModuleName,
		"layer", "application",
		"election_id", candidate.ElectionID,
		"candidate_id", candidate.CandidateID,
	)
	return candidate, nil
}

func (uc ElectionUseCase) StartElection(ctx context.Context, cmd TransitionElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	var election entities.Election
	err := uc.Store.Update(ctx, func(ctx context.Context, tx ports.Tx) error {
		state, err := loadLedger(ctx, tx)
		if err != nil {
			return err
		}
		if _, err := requireAdministrator(state, cmd.Actor); err != nil {
			return err
		}
		election, err = loadElection(ctx, tx, cmd.ElectionID)
		if err != nil {
			return err
		}
		if election.Status != entities.ElectionStatusPending {
			return domainerrors.ErrElectionNotPending
		}
		if election.CandidateCount < 2 {
			return domainerrors.ErrInsufficientCandidates
		}
		now := resolveNow(uc.Clock)
		startedAt := now
		election.Status = entities.ElectionStatusActive
		election.StartedAt = &startedAt
		election.UpdatedAt = now
		if err := tx.SaveElection(ctx, election); err != nil {
			return err
		}
		if err := appendEvent(ctx, tx, uc.IDGen, &state, eventsv1.EventElectionStarted, "election_id", electionKey(election.ElectionID), now, map[string]any{
			"election_id":     election.ElectionID,
			"candidate_count": election.CandidateCount,
		}); err != nil {
			return err
		}
		state.UpdatedAt = now
		return tx.SaveLedgerState(ctx, state)
	})
	if err != nil {
		logRejected(logger, "election start rejected", "voting_ledger_election_start_rejected", err,
			"actor", strings.TrimSpace(cmd.Actor),
			"election_id", cmd.ElectionID,
		)
		return entities.Election{}, err
	}
	logger.Info("election started",
		"event", "voting_ledger_election_started",
		"module", application.ModuleName,
		"layer", "application",
		"election_id", election.ElectionID,
	)
	return election, nil
}

func (uc ElectionUseCase) EndElection(ctx context.Context, cmd TransitionElectionCommand) (EndElectionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	var result EndElectionResult
	err := uc.Store.Update(ctx, func(ctx context.Context, tx ports.Tx) error {
		state, err := loadLedger(ctx, tx)
		if err != nil {
			return err
		}
		if _, err := requireAdministrator(state, cmd.Actor); err != nil {
			return err
		}
		election, err := loadElection(ctx, tx, cmd.ElectionID)
		if err != nil {
			return err
		}
		if election.Status != entities.ElectionStatusActive {
			return domainerrors.ErrElectionNotActive
		}
		candidates, err := tx.ListCandidates(ctx, election.ElectionID)
		if err != nil {
			return err
		}
		winner, err := services.SelectWinner(candidates)
		if err != nil {
			return err
		}
		now := resolveNow(uc.Clock)
		endedAt := now
		election.Status = entities.ElectionStatusEnded
		election.EndedAt = &endedAt
		election.UpdatedAt = now
		if err := tx.SaveElection(ctx, election); err != nil {
			return err
		}
		if err := appendEvent(ctx, tx, uc.IDGen, &state, eventsv1.EventElectionEnded, "election_id", electionKey(election.ElectionID), now, map[string]any{
			"election_id":       election.ElectionID,
			"winner_id":         winner.CandidateID,
			"winner_name":       winner.Name,
			"winner_votes":      winner.VoteCount.String(),
			"total_votes_cast":  election.TotalVotesCast,
			"total_tokens_used": election.TotalTokensUsed.String(),
		}); err != nil {
			return err
		}
		state.UpdatedAt = now
		if err := tx.SaveLedgerState(ctx, state); err != nil {
			return err
		}
		result = EndElectionResult{Election: election, Winner: winner}
		return nil
	})
	if err != nil {
		logRejected(logger, "election end rejected", "voting_ledger_election_end_rejected", err,
			"actor", strings.TrimSpace(cmd.Actor),
			"election_id", cmd.ElectionID,
		)
		return EndElectionResult{}, err
	}
	logger.Info("election ended",
		"event", "voting_ledger_election_ended",
		"module", application.ModuleName,
		"layer", "application",
		"election_id", result.Election.ElectionID,
		"winner_id", result.Winner.CandidateID,
		"total_votes_cast", result.Election.TotalVotesCast,
	)
	return result, nil
}
