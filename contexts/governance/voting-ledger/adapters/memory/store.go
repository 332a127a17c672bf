package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"blockvote/contexts/governance/voting-ledger/domain/entities"
	domainerrors "blockvote/contexts/governance/voting-ledger/domain/errors"
	"blockvote/contexts/governance/voting-ledger/ports"

	"github.com/google/uuid"
)

type allowanceKey struct {
	owner   string
	spender string
}

type candidateKey struct {
	electionID  uint64
	candidateID uint64
}

type voteKey struct {
	electionID uint64
	voter      string
}

type outboxRecord struct {
	message   ports.OutboxMessage
	envelope  ports.EventEnvelope
	published bool
}

// tables is one generation of ledger rows. The committed generation lives on
// the Store; a unit of work stages its writes in a second, sparse generation.
type tables struct {
	ledger     *entities.LedgerState
	accounts   map[string]entities.Account
	allowances map[allowanceKey]entities.Allowance
	elections  map[uint64]entities.Election
	candidates map[candidateKey]entities.Candidate
	votes      map[voteKey]entities.VoteRecord
	outbox     []*outboxRecord
}

func newTables() *tables {
	return &tables{
		accounts:   make(map[string]entities.Account),
		allowances: make(map[allowanceKey]entities.Allowance),
		elections:  make(map[uint64]entities.Election),
		candidates: make(map[candidateKey]entities.Candidate),
		votes:      make(map[voteKey]entities.VoteRecord),
	}
}

// Store is a single-writer in-memory unit of work. Writers hold the write
// lock for the whole Update and their staged rows are merged on success only.
type Store struct {
	mu        sync.RWMutex
	committed *tables
	outboxIdx map[string]*outboxRecord
}

func NewStore() *Store {
	return &Store{
		committed: newTables(),
		outboxIdx: make(map[string]*outboxRecord),
	}
}

func (s *Store) Update(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &unit{base: s.committed, staged: newTables()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.commit(tx.staged)
	return nil
}

func (s *Store) View(ctx context.Context, fn func(ctx context.Context, tx ports.ReadTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(ctx, &unit{base: s.committed})
}

func (s *Store) commit(staged *tables) {
	if staged.ledger != nil {
		ledger := *staged.ledger
		s.committed.ledger = &ledger
	}
	for key, value := range staged.accounts {
		s.committed.accounts[key] = value
	}
	for key, value := range staged.allowances {
		s.committed.allowances[key] = value
	}
	for key, value := range staged.elections {
		s.committed.elections[key] = value
	}
	for key, value := range staged.candidates {
		s.committed.candidates[key] = value
	}
	for key, value := range staged.votes {
		s.committed.votes[key] = value
	}
	for _, record := range staged.outbox {
		s.committed.outbox = append(s.committed.outbox, record)
		s.outboxIdx[record.message.OutboxID] = record
	}
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.OutboxMessage, 0, limit)
	for _, record := range s.committed.outbox {
		if record.published {
			continue
		}
		message := record.message
		message.Payload = append([]byte(nil), record.message.Payload...)
		items = append(items, message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outboxIdx[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	record.published = true
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// unit reads staged rows before committed ones. A nil staged generation
// makes it read-only.
type unit struct {
	base   *tables
	staged *tables
}

func (u *unit) LedgerState(_ context.Context) (entities.LedgerState, bool, error) {
	if u.staged != nil && u.staged.ledger != nil {
		return *u.staged.ledger, true, nil
	}
	if u.base.ledger != nil {
		return *u.base.ledger, true, nil
	}
	return entities.LedgerState{}, false, nil
}

func (u *unit) GetAccount(_ context.Context, address string) (entities.Account, bool, error) {
	if u.staged != nil {
		if account, ok := u.staged.accounts[address]; ok {
			return account, true, nil
		}
	}
	account, ok := u.base.accounts[address]
	return account, ok, nil
}

func (u *unit) GetAllowance(_ context.Context, owner string, spender string) (entities.Amount, error) {
	key := allowanceKey{owner: owner, spender: spender}
	if u.staged != nil {
		if allowance, ok := u.staged.allowances[key]; ok {
			return allowance.Amount, nil
		}
	}
	return u.base.allowances[key].Amount, nil
}

func (u *unit) GetElection(_ context.Context, electionID uint64) (entities.Election, bool, error) {
	if u.staged != nil {
		if election, ok := u.staged.elections[electionID]; ok {
			return election, true, nil
		}
	}
	election, ok := u.base.elections[electionID]
	return election, ok, nil
}

func (u *unit) ListElections(_ context.Context) ([]entities.Election, error) {
	merged := make(map[uint64]entities.Election, len(u.base.elections))
	for id, election := range u.base.elections {
		merged[id] = election
	}
	if u.staged != nil {
		for id, election := range u.staged.elections {
			merged[id] = election
		}
	}
	items := make([]entities.Election, 0, len(merged))
	for _, election := range merged {
		items = append(items, election)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ElectionID < items[j].ElectionID
	})
	return items, nil
}

func (u *unit) GetCandidate(_ context.Context, electionID uint64, candidateID uint64) (entities.Candidate, bool, error) {
	key := candidateKey{electionID: electionID, candidateID: candidateID}
	if u.staged != nil {
		if candidate, ok := u.staged.candidates[key]; ok {
			return candidate, true, nil
		}
	}
	candidate, ok := u.base.candidates[key]
	return candidate, ok, nil
}

func (u *unit) ListCandidates(_ context.Context, electionID uint64) ([]entities.Candidate, error) {
	merged := make(map[uint64]entities.Candidate)
	for key, candidate := range u.base.candidates {
		if key.electionID == electionID {
			merged[key.candidateID] = candidate
		}
	}
	if u.staged != nil {
		for key, candidate := range u.staged.candidates {
			if key.electionID == electionID {
				merged[key.candidateID] = candidate
			}
		}
	}
	items := make([]entities.Candidate, 0, len(merged))
	for _, candidate := range merged {
		items = append(items, candidate)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CandidateID < items[j].CandidateID
	})
	return items, nil
}

func (u *unit) GetVoteRecord(_ context.Context, electionID uint64, voter string) (entities.VoteRecord, bool, error) {
	key := voteKey{electionID: electionID, voter: voter}
	if u.staged != nil {
		if record, ok := u.staged.votes[key]; ok {
			return record, true, nil
		}
	}
	record, ok := u.base.votes[key]
	return record, ok, nil
}

func (u *unit) ListEvents(_ context.Context, afterSequence uint64, limit int) ([]ports.EventEnvelope, error) {
	records := u.base.outbox
	if u.staged != nil {
		records = append(append([]*outboxRecord(nil), records...), u.staged.outbox...)
	}
	items := make([]ports.EventEnvelope, 0)
	for _, record := range records {
		if record.envelope.Sequence <= afterSequence {
			continue
		}
		items = append(items, record.envelope)
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return items, nil
}

func (u *unit) SaveLedgerState(_ context.Context, state entities.LedgerState) error {
	u.staged.ledger = &state
	return nil
}

func (u *unit) SaveAccount(_ context.Context, account entities.Account) error {
	u.staged.accounts[account.Address] = account
	return nil
}

func (u *unit) SetAllowance(_ context.Context, allowance entities.Allowance) error {
	u.staged.allowances[allowanceKey{owner: allowance.Owner, spender: allowance.Spender}] = allowance
	return nil
}

func (u *unit) SaveElection(_ context.Context, election entities.Election) error {
	u.staged.elections[election.ElectionID] = election
	return nil
}

func (u *unit) SaveCandidate(_ context.Context, candidate entities.Candidate) error {
	u.staged.candidates[candidateKey{electionID: candidate.ElectionID, candidateID: candidate.CandidateID}] = candidate
	return nil
}

func (u *unit) SaveVoteRecord(_ context.Context, record entities.VoteRecord) error {
	key := voteKey{electionID: record.ElectionID, voter: record.Voter}
	if _, ok := u.base.votes[key]; ok {
		return domainerrors.ErrAlreadyVoted
	}
	u.staged.votes[key] = record
	return nil
}

func (u *unit) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	u.staged.outbox = append(u.staged.outbox, &outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Sequence:     envelope.Sequence,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
		envelope: envelope,
	})
	return nil
}

var _ ports.Store = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
var _ ports.Tx = (*unit)(nil)
