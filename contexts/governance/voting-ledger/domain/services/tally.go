package services

import (
	"blockvote/contexts/governance/voting-ledger/domain/entities"
	domainerrors "blockvote/contexts/governance/voting-ledger/domain/errors"
)

// SelectWinner returns the candidate with the highest vote count. Ties go to
// the lowest candidate id regardless of input order.
func SelectWinner(candidates []entities.Candidate) (entities.Candidate, error) {
	if len(candidates) == 0 {
		return entities.Candidate{}, domainerrors.ErrCandidateNotFound
	}
	winner := candidates[0]
	for _, candidate := range candidates[1:] {
		switch cmp := candidate.VoteCount.Cmp(winner.VoteCount); {
		case cmp > 0:
			winner = candidate
		case cmp == 0 && candidate.CandidateID < winner.CandidateID:
			winner = candidate
		}
	}
	return winner, nil
}

// VoteWeight converts committed tokens into tally weight.
func VoteWeight(tokens entities.Amount, tokensPerVote entities.Amount) entities.Amount {
	return tokens.Div(tokensPerVote)
}
