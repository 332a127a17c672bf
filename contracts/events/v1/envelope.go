package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical, versioned event envelope shared by the outbox,
// the message bus and the event stream. Fields must stay backward compatible.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	Sequence         uint64          `json:"sequence"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

const (
	EventLedgerInitialized      = "ledger.initialized"
	EventLedgerVoterRegistered  = "ledger.voter_registered"
	EventLedgerApproval         = "ledger.approval"
	EventLedgerTransfer         = "ledger.transfer"
	EventLedgerBurn             = "ledger.burn"
	EventElectionCreated        = "election.created"
	EventElectionCandidateAdded = "election.candidate_added"
	EventElectionStarted        = "election.started"
	EventElectionEnded          = "election.ended"
	EventElectionVoteCast       = "election.vote_cast"
)

const SchemaVersion = 1
