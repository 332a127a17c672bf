package postgresadapter

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "blockvote/contexts/governance/voting-ledger/application"
	"blockvote/contexts/governance/voting-ledger/domain/entities"
	domainerrors "blockvote/contexts/governance/voting-ledger/domain/errors"
	"blockvote/contexts/governance/voting-ledger/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	ledgerStateRowID = 1
)

// Store is the gorm unit of work. It runs against postgres in production and
// sqlite for local runs and tests.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewStore(db *gorm.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		logger: logger,
	}
}

// AutoMigrate creates or updates every table owned by the voting ledger.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ledgerStateModel{},
		&accountModel{},
		&allowanceModel{},
		&electionModel{},
		&candidateModel{},
		&voteRecordModel{},
		&outboxModel{},
	)
}

// Update serializes writers. On postgres the singleton ledger_state row is
// locked FOR UPDATE first; sqlite connections are capped at one so the
// transaction itself is exclusive.
func (s *Store) Update(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if isPostgres(db) {
			var locked ledgerStateModel
			err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", ledgerStateRowID).
				Take(&locked).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return s.logError("voting_ledger_store_lock_failed", err)
			}
		}
		return fn(ctx, &repositoryTx{db: db, store: s})
	})
}

func (s *Store) View(ctx context.Context, fn func(ctx context.Context, tx ports.ReadTx) error) error {
	db := s.db.WithContext(ctx)
	if !isPostgres(db) {
		return fn(ctx, &repositoryTx{db: db, store: s})
	}
	return db.Transaction(func(db *gorm.DB) error {
		return fn(ctx, &repositoryTx{db: db, store: s})
	}, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
}

func (s *Store) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := s.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("sequence ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, s.logError("voting_ledger_store_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Sequence:     row.Sequence,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return s.logError("voting_ledger_store_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", application.ModuleName,
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	s.logger.Error("voting ledger store operation failed", fields...)
	return fmt.Errorf("%s: %w", event, err)
}

// repositoryTx binds ledger reads and writes to one gorm transaction.
type repositoryTx struct {
	db    *gorm.DB
	store *Store
}

func (r *repositoryTx) LedgerState(_ context.Context) (entities.LedgerState, bool, error) {
	var row ledgerStateModel
	err := r.db.Where("id = ?", ledgerStateRowID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.LedgerState{}, false, nil
		}
		return entities.LedgerState{}, false, r.store.logError("voting_ledger_store_get_state_failed", err)
	}
	return row.toEntity(), true, nil
}

func (r *repositoryTx) GetAccount(_ context.Context, address string) (entities.Account, bool, error) {
	var row accountModel
	err := r.db.Where("address = ?", address).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, false, nil
		}
		return entities.Account{}, false, r.store.logError("voting_ledger_store_get_account_failed", err, "address", address)
	}
	return row.toEntity(), true, nil
}

func (r *repositoryTx) GetAllowance(_ context.Context, owner string, spender string) (entities.Amount, error) {
	var row allowanceModel
	err := r.db.Where("owner = ? AND spender = ?", owner, spender).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Amount{}, nil
		}
		return entities.Amount{}, r.store.logError("voting_ledger_store_get_allowance_failed", err,
			"owner", owner,
			"spender", spender,
		)
	}
	return entities.Amount(row.Amount), nil
}

func (r *repositoryTx) GetElection(_ context.Context, electionID uint64) (entities.Election, bool, error) {
	var row electionModel
	err := r.db.Where("id = ?", electionID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, false, nil
		}
		return entities.Election{}, false, r.store.logError("voting_ledger_store_get_election_failed", err, "election_id", electionID)
	}
	return row.toEntity(), true, nil
}

func (r *repositoryTx) ListElections(_ context.Context) ([]entities.Election, error) {
	var rows []electionModel
	if err := r.db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, r.store.logError("voting_ledger_store_list_elections_failed", err)
	}
	items := make([]entities.Election, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *repositoryTx) GetCandidate(_ context.Context, electionID uint64, candidateID uint64) (entities.Candidate, bool, error) {
	var row candidateModel
	err := r.db.Where("election_id = ? AND candidate_id = ?", electionID, candidateID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Candidate{}, false, nil
		}
		return entities.Candidate{}, false, r.store.logError("voting_ledger_store_get_candidate_failed", err,
			"election_id", electionID,
			"candidate_id", candidateID,
		)
	}
	return row.toEntity(), true, nil
}

func (r *repositoryTx) ListCandidates(_ context.Context, electionID uint64) ([]entities.Candidate, error) {
	var rows []candidateModel
	if err := r.db.Where("election_id = ?", electionID).Order("candidate_id ASC").Find(&rows).Error; err != nil {
		return nil, r.store.logError("voting_ledger_store_list_candidates_failed", err, "election_id", electionID)
	}
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *repositoryTx) GetVoteRecord(_ context.Context, electionID uint64, voter string) (entities.VoteRecord, bool, error) {
	var row voteRecordModel
	err := r.db.Where("election_id = ? AND voter = ?", electionID, voter).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VoteRecord{}, false, nil
		}
		return entities.VoteRecord{}, false, r.store.logError("voting_ledger_store_get_vote_record_failed", err,
			"election_id", electionID,
			"voter", voter,
		)
	}
	return row.toEntity(), true, nil
}

func (r *repositoryTx) ListEvents(_ context.Context, afterSequence uint64, limit int) ([]ports.EventEnvelope, error) {
	query := r.db.Where("sequence > ?", afterSequence).Order("sequence ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []outboxModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, r.store.logError("voting_ledger_store_list_events_failed", err, "after_sequence", afterSequence)
	}
	items := make([]ports.EventEnvelope, 0, len(rows))
	for _, row := range rows {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &envelope); err != nil {
			return nil, r.store.logError("voting_ledger_store_decode_event_failed", err, "outbox_id", row.OutboxID)
		}
		items = append(items, envelope)
	}
	return items, nil
}

func (r *repositoryTx) SaveLedgerState(_ context.Context, state entities.LedgerState) error {
	row := ledgerStateModelFromEntity(state)
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"tokens_per_vote",
			"total_supply",
			"voter_count",
			"election_count",
			"event_sequence",
			"updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return r.store.logError("voting_ledger_store_save_state_failed", err)
	}
	return nil
}

func (r *repositoryTx) SaveAccount(_ context.Context, account entities.Account) error {
	row := accountModelFromEntity(account)
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance", "registered", "registered_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return r.store.logError("voting_ledger_store_save_account_failed", err, "address", account.Address)
	}
	return nil
}

func (r *repositoryTx) SetAllowance(_ context.Context, allowance entities.Allowance) error {
	row := allowanceModel{
		Owner:     allowance.Owner,
		Spender:   allowance.Spender,
		Amount:    amountColumn(allowance.Amount),
		UpdatedAt: allowance.UpdatedAt.UTC(),
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "spender"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return r.store.logError("voting_ledger_store_set_allowance_failed", err,
			"owner", allowance.Owner,
			"spender", allowance.Spender,
		)
	}
	return nil
}

func (r *repositoryTx) SaveElection(_ context.Context, election entities.Election) error {
	row := electionModelFromEntity(election)
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status",
			"candidate_count",
			"total_votes_cast",
			"total_tokens_used",
			"updated_at",
			"started_at",
			"ended_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return r.store.logError("voting_ledger_store_save_election_failed", err, "election_id", election.ElectionID)
	}
	return nil
}

func (r *repositoryTx) SaveCandidate(_ context.Context, candidate entities.Candidate) error {
	row := candidateModelFromEntity(candidate)
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "election_id"}, {Name: "candidate_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"vote_count"}),
	}).Create(&row).Error
	if err != nil {
		return r.store.logError("voting_ledger_store_save_candidate_failed", err,
			"election_id", candidate.ElectionID,
			"candidate_id", candidate.CandidateID,
		)
	}
	return nil
}

// SaveVoteRecord inserts without upsert; the composite key enforces one
// ballot per voter and election.
func (r *repositoryTx) SaveVoteRecord(_ context.Context, record entities.VoteRecord) error {
	row := voteRecordModelFromEntity(record)
	if err := r.db.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyVoted
		}
		return r.store.logError("voting_ledger_store_save_vote_record_failed", err,
			"election_id", record.ElectionID,
			"voter", record.Voter,
		)
	}
	return nil
}

func (r *repositoryTx) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.store.logError("voting_ledger_store_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		Sequence:     envelope.Sequence,
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := r.db.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.store.logError("voting_ledger_store_append_outbox_insert_failed", err,
			"outbox_id", row.OutboxID,
			"sequence", row.Sequence,
		)
	}
	return nil
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialector != nil && db.Dialector.Name() == "postgres"
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Store = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
var _ ports.Tx = (*repositoryTx)(nil)
