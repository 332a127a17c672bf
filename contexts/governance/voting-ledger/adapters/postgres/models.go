package postgresadapter

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"

	"blockvote/contexts/governance/voting-ledger/domain/entities"
)

// amountColumn stores an Amount as a decimal string so 256-bit values
// survive both postgres and sqlite without float coercion.
type amountColumn entities.Amount

func (a amountColumn) Value() (driver.Value, error) {
	return entities.Amount(a).String(), nil
}

func (a *amountColumn) Scan(src any) error {
	var raw string
	switch value := src.(type) {
	case nil:
		*a = amountColumn{}
		return nil
	case string:
		raw = value
	case []byte:
		raw = string(value)
	case int64:
		raw = strconv.FormatInt(value, 10)
	default:
		return fmt.Errorf("unsupported amount column type %T", src)
	}
	parsed, err := entities.ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = amountColumn(parsed)
	return nil
}

type ledgerStateModel struct {
	ID            uint         `gorm:"column:id;primaryKey;autoIncrement:false"`
	Administrator string       `gorm:"column:administrator"`
	Custody       string       `gorm:"column:custody"`
	TokenName     string       `gorm:"column:token_name"`
	TokenSymbol   string       `gorm:"column:token_symbol"`
	TokensPerVote amountColumn `gorm:"column:tokens_per_vote;type:varchar(78)"`
	TotalSupply   amountColumn `gorm:"column:total_supply;type:varchar(78)"`
	VoterCount    uint64       `gorm:"column:voter_count"`
	ElectionCount uint64       `gorm:"column:election_count"`
	EventSequence uint64       `gorm:"column:event_sequence"`
	CreatedAt     time.Time    `gorm:"column:created_at"`
	UpdatedAt     time.Time    `gorm:"column:updated_at"`
}

func (ledgerStateModel) TableName() string {
	return "ledger_state"
}

func ledgerStateModelFromEntity(state entities.LedgerState) ledgerStateModel {
	return ledgerStateModel{
		ID:            ledgerStateRowID,
		Administrator: state.Administrator,
		Custody:       state.Custody,
		TokenName:     state.TokenName,
		TokenSymbol:   state.TokenSymbol,
		TokensPerVote: amountColumn(state.TokensPerVote),
		TotalSupply:   amountColumn(state.TotalSupply),
		VoterCount:    state.VoterCount,
		ElectionCount: state.ElectionCount,
		EventSequence: state.EventSequence,
		CreatedAt:     state.CreatedAt.UTC(),
		UpdatedAt:     state.UpdatedAt.UTC(),
	}
}

func (m ledgerStateModel) toEntity() entities.LedgerState {
	return entities.LedgerState{
		Administrator: m.Administrator,
		Custody:       m.Custody,
		TokenName:     m.TokenName,
		TokenSymbol:   m.TokenSymbol,
		TokensPerVote: entities.Amount(m.TokensPerVote),
		TotalSupply:   entities.Amount(m.TotalSupply),
		VoterCount:    m.VoterCount,
		ElectionCount: m.ElectionCount,
		EventSequence: m.EventSequence,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type accountModel struct {
	Address      string       `gorm:"column:address;primaryKey"`
	Balance      amountColumn `gorm:"column:balance;type:varchar(78)"`
	Registered   bool         `gorm:"column:registered"`
	RegisteredAt *time.Time   `gorm:"column:registered_at"`
	UpdatedAt    time.Time    `gorm:"column:updated_at"`
}

func (accountModel) TableName() string {
	return "ledger_accounts"
}

func accountModelFromEntity(account entities.Account) accountModel {
	return accountModel{
		Address:      account.Address,
		Balance:      amountColumn(account.Balance),
		Registered:   account.Registered,
		RegisteredAt: normalizeOptionalTime(account.RegisteredAt),
		UpdatedAt:    account.UpdatedAt.UTC(),
	}
}

func (m accountModel) toEntity() entities.Account {
	return entities.Account{
		Address:      m.Address,
		Balance:      entities.Amount(m.Balance),
		Registered:   m.Registered,
		RegisteredAt: normalizeOptionalTime(m.RegisteredAt),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

type allowanceModel struct {
	Owner     string       `gorm:"column:owner;primaryKey"`
	Spender   string       `gorm:"column:spender;primaryKey"`
	Amount    amountColumn `gorm:"column:amount;type:varchar(78)"`
	UpdatedAt time.Time    `gorm:"column:updated_at"`
}

func (allowanceModel) TableName() string {
	return "ledger_allowances"
}

type electionModel struct {
	ID              uint64       `gorm:"column:id;primaryKey;autoIncrement:false"`
	Title           string       `gorm:"column:title"`
	Description     string       `gorm:"column:description"`
	StartTime       time.Time    `gorm:"column:start_time"`
	EndTime         time.Time    `gorm:"column:end_time"`
	Status          string       `gorm:"column:status;index"`
	CandidateCount  uint64       `gorm:"column:candidate_count"`
	TotalVotesCast  uint64       `gorm:"column:total_votes_cast"`
	TotalTokensUsed amountColumn `gorm:"column:total_tokens_used;type:varchar(78)"`
	CreatedAt       time.Time    `gorm:"column:created_at"`
	UpdatedAt       time.Time    `gorm:"column:updated_at"`
	StartedAt       *time.Time   `gorm:"column:started_at"`
	EndedAt         *time.Time   `gorm:"column:ended_at"`
}

func (electionModel) TableName() string {
	return "elections"
}

func electionModelFromEntity(election entities.Election) electionModel {
	return electionModel{
		ID:              election.ElectionID,
		Title:           election.Title,
		Description:     election.Description,
		StartTime:       election.StartTime.UTC(),
		EndTime:         election.EndTime.UTC(),
		Status:          string(election.Status),
		CandidateCount:  election.CandidateCount,
		TotalVotesCast:  election.TotalVotesCast,
		TotalTokensUsed: amountColumn(election.TotalTokensUsed),
		CreatedAt:       election.CreatedAt.UTC(),
		UpdatedAt:       election.UpdatedAt.UTC(),
		StartedAt:       normalizeOptionalTime(election.StartedAt),
		EndedAt:         normalizeOptionalTime(election.EndedAt),
	}
}

func (m electionModel) toEntity() entities.Election {
	return entities.Election{
		ElectionID:      m.ID,
		Title:           m.Title,
		Description:     m.Description,
		StartTime:       m.StartTime.UTC(),
		EndTime:         m.EndTime.UTC(),
		Status:          entities.ElectionStatus(m.Status),
		CandidateCount:  m.CandidateCount,
		TotalVotesCast:  m.TotalVotesCast,
		TotalTokensUsed: entities.Amount(m.TotalTokensUsed),
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
		StartedAt:       normalizeOptionalTime(m.StartedAt),
		EndedAt:         normalizeOptionalTime(m.EndedAt),
	}
}

type candidateModel struct {
	ElectionID  uint64       `gorm:"column:election_id;primaryKey;autoIncrement:false"`
	CandidateID uint64       `gorm:"column:candidate_id;primaryKey;autoIncrement:false"`
	Name        string       `gorm:"column:name"`
	Description string       `gorm:"column:description"`
	VoteCount   amountColumn `gorm:"column:vote_count;type:varchar(78)"`
	CreatedAt   time.Time    `gorm:"column:created_at"`
}

func (candidateModel) TableName() string {
	return "election_candidates"
}

func candidateModelFromEntity(candidate entities.Candidate) candidateModel {
	return candidateModel{
		ElectionID:  candidate.ElectionID,
		CandidateID: candidate.CandidateID,
		Name:        candidate.Name,
		Description: candidate.Description,
		VoteCount:   amountColumn(candidate.VoteCount),
		CreatedAt:   candidate.CreatedAt.UTC(),
	}
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		ElectionID:  m.ElectionID,
		CandidateID: m.CandidateID,
		Name:        m.Name,
		Description: m.Description,
		VoteCount:   entities.Amount(m.VoteCount),
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type voteRecordModel struct {
	ElectionID  uint64       `gorm:"column:election_id;primaryKey;autoIncrement:false"`
	Voter       string       `gorm:"column:voter;primaryKey"`
	CandidateID uint64       `gorm:"column:candidate_id"`
	Tokens      amountColumn `gorm:"column:tokens;type:varchar(78)"`
	Weight      amountColumn `gorm:"column:weight;type:varchar(78)"`
	CastAt      time.Time    `gorm:"column:cast_at"`
}

func (voteRecordModel) TableName() string {
	return "election_vote_records"
}

func voteRecordModelFromEntity(record entities.VoteRecord) voteRecordModel {
	return voteRecordModel{
		ElectionID:  record.ElectionID,
		Voter:       record.Voter,
		CandidateID: record.CandidateID,
		Tokens:      amountColumn(record.Tokens),
		Weight:      amountColumn(record.Weight),
		CastAt:      record.CastAt.UTC(),
	}
}

func (m voteRecordModel) toEntity() entities.VoteRecord {
	return entities.VoteRecord{
		ElectionID:  m.ElectionID,
		Voter:       m.Voter,
		CandidateID: m.CandidateID,
		Tokens:      entities.Amount(m.Tokens),
		Weight:      entities.Amount(m.Weight),
		CastAt:      m.CastAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	Sequence     uint64     `gorm:"column:sequence;uniqueIndex"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "voting_ledger_outbox"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	normalized := value.UTC()
	return &normalized
}
