package queries

import (
	"context"

	"blockvote/contexts/governance/voting-ledger/domain/entities"
	domainerrors "blockvote/contexts/governance/voting-ledger/domain/errors"
	"blockvote/contexts/governance/voting-ledger/domain/services"
	"blockvote/contexts/governance/voting-ledger/ports"
)

type ElectionUseCase struct {
	Store ports.Store
}

func (uc ElectionUseCase) ElectionCount(ctx context.Context) (uint64, error) {
	var count uint64
	err := uc.Store.View(ctx, func(ctx context.Context, tx ports.ReadTx) error {
		state, err := loadLedger(ctx, tx)
		count = state.ElectionCount
		return err
	})
	return count, err
}

func (uc ElectionUseCase) GetElection(ctx context.Context, electionID uint64) (entities.ElectionDetail, error) {
	var detail entities.ElectionDetail
	err := uc.Store.View(ctx, func(ctx context.Context, tx ports.ReadTx) error {
		var err error
		detail, err = loadDetail(ctx, tx, electionID)
		return err
	})
	return detail, err
}

// ListElections returns every election with its candidates, oldest first.
func (uc ElectionUseCase) ListElections(ctx context.Context) ([]entities.ElectionDetail, error) {
	var items []entities.ElectionDetail
	err := uc.Store.View(ctx, func(ctx context.Context, tx ports.ReadTx) error {
		elections, err := tx.ListElections(ctx)
		if err != nil {
			return err
		}
		items = make([]entities.ElectionDetail, 0, len(elections))
		for _, election := range elections {
			candidates, err := tx.ListCandidates(ctx, election.ElectionID)
			if err != nil {
				return err
			}
			items = append(items, entities.ElectionDetail{Election: election, Candidates: candidates})
		}
		return nil
	})
	return items, err
}

func (uc ElectionUseCase) GetCandidate(ctx context.Context, electionID uint64, candidateID uint64) (entities.Candidate, error) {
	var candidate entities.Candidate
	err := uc.Store.View(ctx, func(ctx context.Context, tx ports.ReadTx) error {
		if _, found, err := tx.GetElection(ctx, electionID); err != nil {
			return err
		} else if !found {
			return domainerrors.ErrElectionNotFound
		}
		item, found, err := tx.GetCandidate(ctx, electionID, candidateID)
		if err != nil {
			return err
		}
		if !found {
			return domainerrors.ErrCandidateNotFound
		}
		candidate = item
		return nil
	})
	return candidate, err
}

// GetWinner is only defined once the election has ended.
func (uc ElectionUseCase) GetWinner(ctx context.Context, electionID uint64) (entities.Candidate, error) {
	var winner entities.Candidate
	err := uc.Store.View(ctx, func(ctx context.Context, tx ports.ReadTx) error {
		detail, err := loadDetail(ctx, tx, electionID)
		if err != nil {
			return err
		}
		if detail.Election.Status != entities.ElectionStatusEnded {
			return domainerrors.ErrElectionNotEnded
		}
		winner, err = services.SelectWinner(detail.Candidates)
		return err
	})
	return winner, err
}

// VoteRecord reports the ballot of voter in an election, if any.
func (uc ElectionUseCase) VoteRecord(ctx context.Context, electionID uint64, voter string) (entities.VoteRecord, bool, error) {
	normalized, err := entities.NormalizePrincipal(voter)
	if err != nil {
		return entities.VoteRecord{}, false, err
	}
	var (
		record entities.VoteRecord
		voted  bool
	)
	err = uc.Store.View(ctx, func(ctx context.Context, tx ports.ReadTx) error {
		if _, found, err := tx.GetElection(ctx, electionID); err != nil {
			return err
		} else if !found {
			return domainerrors.ErrElectionNotFound
		}
		record, voted, err = tx.GetVoteRecord(ctx, electionID, normalized)
		return err
	})
	return record, voted, err
}

func (uc ElectionUseCase) HasVoted(ctx context.Context, electionID uint64, voter string) (bool, error) {
	_, voted, err := uc.VoteRecord(ctx, electionID, voter)
	return voted, err
}

func loadDetail(ctx context.Context, tx ports.ReadTx, electionID uint64) (entities.ElectionDetail, error) {
	election, found, err := tx.GetElection(ctx, electionID)
	if err != nil {
		return entities.ElectionDetail{}, err
	}
	if !found {
		return entities.ElectionDetail{}, domainerrors.ErrElectionNotFound
	}
	candidates, err := tx.ListCandidates(ctx, electionID)
	if err != nil {
		return entities.ElectionDetail{}, err
	}
	return entities.ElectionDetail{Election: election, Candidates: candidates}, nil
}
