package commands

import (
	"context"
	"log/slog"
	"strings"

	application "blockvote/contexts/governance/voting-ledger/application"
	"blockvote/contexts/governance/voting-ledger/domain/entities"
	domainerrors "blockvote/contexts/governance/voting-ledger/domain/errors"
	"blockvote/contexts/governance/voting-ledger/domain/services"
	"blockvote/contexts/governance/voting-ledger/ports"
	eventsv1 "blockvote/contracts/events/v1"
)

type CastVoteCommand struct {
	Actor       string
	ElectionID  uint64
	CandidateID uint64
	Amount      entities.Amount
}

// VoteUseCase commits voter credits to a candidate. Voters must first approve
// the custody account for at least the committed amount.
type VoteUseCase struct {
	Store  ports.Store
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// CastVote checks, in order: election active, candidate exists, caller
// registered, caller has not voted, then token sufficiency. The credit move,
// tally increment and vote record commit together or not at all.
func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (entities.VoteRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("vote cast processing started",
		"event", "voting_ledger_vote_cast_started",
		"module", application.ModuleName,
		"layer", "application",
		"voter", strings.TrimSpace(cmd.Actor),
		"election_id", cmd.ElectionID,
		"candidate_id", cmd.CandidateID,
	)
	var record entities.VoteRecord
	err := uc.Store.Update(ctx, func(ctx context.Context, tx ports.Tx) error {
		state, err := loadLedger(ctx, tx)
		if err != nil {
			return err
		}
		voter, err := resolveCaller(state, cmd.Actor)
		if err != nil {
			return err
		}

		election, found, err := tx.GetElection(ctx, cmd.ElectionID)
		if err != nil {
			return err
		}
		if !found || election.Status != entities.ElectionStatusActive {
			return domainerrors.ErrElectionNotActive
		}
		candidate, found, err := tx.GetCandidate(ctx, election.ElectionID, cmd.CandidateID)
		if err != nil {
			return err
		}
		if !found {
			return domainerrors.ErrCandidateNotFound
		}
		account, err := loadAccount(ctx, tx, voter)
		if err != nil {
			return err
		}
		if !account.Registered {
			return domainerrors.ErrNotRegistered
		}
		if _, voted, err := tx.GetVoteRecord(ctx, election.ElectionID, voter); err != nil {
			return err
		} else if voted {
			return domainerrors.ErrAlreadyVoted
		}
		allowance, err := tx.GetAllowance(ctx, voter, state.Custody)
		if err != nil {
			return err
		}
		if cmd.Amount.IsZero() ||
			cmd.Amount.LessThan(state.TokensPerVote) ||
			allowance.LessThan(cmd.Amount) ||
			account.Balance.LessThan(cmd.Amount) {
			return domainerrors.ErrInsufficientTokens
		}

		now := resolveNow(uc.Clock)
		weight := services.VoteWeight(cmd.Amount, state.TokensPerVote)
		if err := moveCredits(ctx, tx, voter, state.Custody, cmd.Amount, now); err != nil {
			return err
		}
		remaining, err := allowance.Sub(cmd.Amount)
		if err != nil {
			return err
		}
		if err := tx.SetAllowance(ctx, entities.Allowance{
			Owner:     voter,
			Spender:   state.Custody,
			Amount:    remaining,
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		if candidate.VoteCount, err = candidate.VoteCount.Add(weight); err != nil {
			return err
		}
		if err := tx.SaveCandidate(ctx, candidate); err != nil {
			return err
		}
		if election.TotalTokensUsed, err = election.TotalTokensUsed.Add(cmd.Amount); err != nil {
			return err
		}
		election.TotalVotesCast++
		election.UpdatedAt = now
		if err := tx.SaveElection(ctx, election); err != nil {
			return err
		}
		record = entities.VoteRecord{
			ElectionID:  election.ElectionID,
			Voter:       voter,
			CandidateID: candidate.CandidateID,
			Tokens:      cmd.Amount,
			Weight:      weight,
			CastAt:      now,
		}
		if err := tx.SaveVoteRecord(ctx, record); err != nil {
			return err
		}
		if err := appendEvent(ctx, tx, uc.IDGen, &state, eventsv1.EventElectionVoteCast, "election_id", electionKey(election.ElectionID), now, map[string]any{
			"election_id":  election.ElectionID,
			"candidate_id": candidate.CandidateID,
			"voter":        voter,
			"tokens":       cmd.Amount.String(),
			"weight":       weight.String(),
			"vote_count":   candidate.VoteCount.String(),
		}); err != nil {
			return err
		}
		state.UpdatedAt = now
		return tx.SaveLedgerState(ctx, state)
	})
	if err != nil {
		logRejected(logger, "vote cast rejected", "voting_ledger_vote_cast_rejected", err,
			"voter", strings.TrimSpace(cmd.Actor),
			"election_id", cmd.ElectionID,
			"candidate_id", cmd.CandidateID,
			"amount", cmd.Amount.String(),
		)
		return entities.VoteRecord{}, err
	}
	logger.Info("vote cast",
		"event", "voting_ledger_vote_cast",
		"module", application.ModuleName,
		"layer", "application",
		"voter", record.Voter,
		"election_id", record.ElectionID,
		"candidate_id", record.CandidateID,
		"weight", record.Weight.String(),
	)
	return record, nil
}
