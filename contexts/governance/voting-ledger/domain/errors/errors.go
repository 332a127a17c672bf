package errors

import "errors"

var (
	ErrUnauthorized           = errors.New("caller lacks the required capability")
	ErrAlreadyRegistered      = errors.New("voter already registered")
	ErrNotRegistered          = errors.New("voter is not registered")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInsufficientAllowance  = errors.New("insufficient allowance")
	ErrInsufficientTokens     = errors.New("insufficient tokens for vote")
	ErrInvalidWindow          = errors.New("election start must be before end")
	ErrElectionNotFound       = errors.New("election not found")
	ErrCandidateNotFound      = errors.New("candidate not found")
	ErrElectionNotPending     = errors.New("election is not pending")
	ErrElectionNotActive      = errors.New("election is not active")
	ErrElectionNotEnded       = errors.New("election has not ended")
	ErrInsufficientCandidates = errors.New("need at least 2 candidates")
	ErrAlreadyVoted           = errors.New("already voted in this election")
	ErrInvalidInput           = errors.New("invalid ledger input")
	ErrInvalidAmount          = errors.New("amount must be a non-negative decimal integer")
	ErrAmountOverflow         = errors.New("amount overflow")
	ErrAmountUnderflow        = errors.New("amount underflow")
	ErrLedgerNotInitialized   = errors.New("ledger is not initialized")
	ErrConflict               = errors.New("ledger write conflict")
)
