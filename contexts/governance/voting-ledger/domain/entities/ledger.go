package entities

import "time"

const (
	DefaultTokenName     = "VoteToken"
	DefaultTokenSymbol   = "VOTE"
	DefaultGenesisSupply = 100000
)

// LedgerState is the singleton aggregate carrying supply and counters.
type LedgerState struct {
	Administrator string
	Custody       string
	TokenName     string
	TokenSymbol   string
	TokensPerVote Amount
	TotalSupply   Amount
	VoterCount    uint64
	ElectionCount uint64
	EventSequence uint64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (s LedgerState) IsAdministrator(principal string) bool {
	return principal != "" && principal == s.Administrator
}

func (s LedgerState) IsCustody(principal string) bool {
	return principal != "" && principal == s.Custody
}

// NextEventSequence reserves the next event sequence number.
func (s *LedgerState) NextEventSequence() uint64 {
	s.EventSequence++
	return s.EventSequence
}

type Account struct {
	Address      string
	Balance      Amount
	Registered   bool
	RegisteredAt *time.Time
	UpdatedAt    time.Time
}

type Allowance struct {
	Owner     string
	Spender   string
	Amount    Amount
	UpdatedAt time.Time
}

// Genesis holds the one-time ledger initialization parameters.
type Genesis struct {
	Administrator string
	Custody       string
	TokenName     string
	TokenSymbol   string
	TokensPerVote Amount
	InitialSupply Amount
}
