package http

import (
	"encoding/json"
	"time"
)

// Amounts travel as decimal strings so 256-bit values keep full precision.

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterVoterRequest struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

type BatchRegisterVotersRequest struct {
	Addresses []string `json:"addresses"`
	Amount    string   `json:"amount"`
}

type ApproveRequest struct {
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type TransferRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type TransferFromRequest struct {
	Owner  string `json:"owner"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type BurnRequest struct {
	Amount string `json:"amount"`
}

type CreateElectionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

type AddCandidateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CastVoteRequest struct {
	CandidateID uint64 `json:"candidate_id"`
	Amount      string `json:"amount"`
}

type LedgerResponse struct {
	TokenName     string `json:"token_name"`
	TokenSymbol   string `json:"token_symbol"`
	Administrator string `json:"administrator"`
	Custody       string `json:"custody"`
	TokensPerVote string `json:"tokens_per_vote"`
	TotalSupply   string `json:"total_supply"`
	VoterCount    uint64 `json:"voter_count"`
	ElectionCount uint64 `json:"election_count"`
}

type AccountResponse struct {
	Address    string `json:"address"`
	Balance    string `json:"balance"`
	Registered bool   `json:"registered"`
}

type RegisterVotersResponse struct {
	Items []AccountResponse `json:"items"`
}

type AllowanceResponse struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type TransferResponse struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type CandidateResponse struct {
	ElectionID  uint64 `json:"election_id"`
	CandidateID uint64 `json:"candidate_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	VoteCount   string `json:"vote_count"`
}

type ElectionResponse struct {
	ElectionID      uint64              `json:"election_id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	StartTime       time.Time           `json:"start_time"`
	EndTime         time.Time           `json:"end_time"`
	Status          string              `json:"status"`
	CandidateCount  uint64              `json:"candidate_count"`
	TotalVotesCast  uint64              `json:"total_votes_cast"`
	TotalTokensUsed string              `json:"total_tokens_used"`
	StartedAt       *time.Time          `json:"started_at,omitempty"`
	EndedAt         *time.Time          `json:"ended_at,omitempty"`
	Candidates      []CandidateResponse `json:"candidates"`
}

type ElectionListResponse struct {
	Count uint64             `json:"count"`
	Items []ElectionResponse `json:"items"`
}

type EndElectionResponse struct {
	Election ElectionResponse  `json:"election"`
	Winner   CandidateResponse `json:"winner"`
}

type VoteRecordResponse struct {
	ElectionID  uint64    `json:"election_id"`
	Voter       string    `json:"voter"`
	CandidateID uint64    `json:"candidate_id"`
	Tokens      string    `json:"tokens"`
	Weight      string    `json:"weight"`
	CastAt      time.Time `json:"cast_at"`
}

type VoterStatusResponse struct {
	ElectionID uint64              `json:"election_id"`
	Voter      string              `json:"voter"`
	HasVoted   bool                `json:"has_voted"`
	Vote       *VoteRecordResponse `json:"vote,omitempty"`
}

type EventResponse struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	Sequence     uint64          `json:"sequence"`
	OccurredAt   time.Time       `json:"occurred_at"`
	PartitionKey string          `json:"partition_key"`
	Data         json.RawMessage `json:"data"`
}

type EventListResponse struct {
	Items        []EventResponse `json:"items"`
	NextSequence uint64          `json:"next_sequence"`
}
