package ports

import (
	"context"
	"time"

	"blockvote/contexts/governance/voting-ledger/domain/entities"
	eventsv1 "blockvote/contracts/events/v1"
)

type EventEnvelope = eventsv1.Envelope

// ReadTx exposes committed (or, inside Update, staged) ledger state.
// Lookups of missing rows report found=false instead of an error.
type ReadTx interface {
	LedgerState(ctx context.Context) (entities.LedgerState, bool, error)
	GetAccount(ctx context.Context, address string) (entities.Account, bool, error)
	GetAllowance(ctx context.Context, owner string, spender string) (entities.Amount, error)
	GetElection(ctx context.Context, electionID uint64) (entities.Election, bool, error)
	ListElections(ctx context.Context) ([]entities.Election, error)
	GetCandidate(ctx context.Context, electionID uint64, candidateID uint64) (entities.Candidate, bool, error)
	ListCandidates(ctx context.Context, electionID uint64) ([]entities.Candidate, error)
	GetVoteRecord(ctx context.Context, electionID uint64, voter string) (entities.VoteRecord, bool, error)
	ListEvents(ctx context.Context, afterSequence uint64, limit int) ([]EventEnvelope, error)
}

// Tx is the write side of one unit of work. Nothing is visible to other
// callers until the enclosing Update returns nil.
type Tx interface {
	ReadTx
	SaveLedgerState(ctx context.Context, state entities.LedgerState) error
	SaveAccount(ctx context.Context, account entities.Account) error
	SetAllowance(ctx context.Context, allowance entities.Allowance) error
	SaveElection(ctx context.Context, election entities.Election) error
	SaveCandidate(ctx context.Context, candidate entities.Candidate) error
	SaveVoteRecord(ctx context.Context, record entities.VoteRecord) error
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

// Store serializes writers. A non-nil error from fn discards every staged
// mutation.
type Store interface {
	Update(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	View(ctx context.Context, fn func(ctx context.Context, tx ReadTx) error) error
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Sequence     uint64
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
