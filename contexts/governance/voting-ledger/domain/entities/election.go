package entities

import "time"

type ElectionStatus string

const (
	ElectionStatusPending ElectionStatus = "pending"
	ElectionStatusActive  ElectionStatus = "active"
	ElectionStatusEnded   ElectionStatus = "ended"
)

type Election struct {
	ElectionID      uint64
	Title           string
	Description     string
	StartTime       time.Time
	EndTime         time.Time
	Status          ElectionStatus
	CandidateCount  uint64
	TotalVotesCast  uint64
	TotalTokensUsed Amount
	CreatedAt       time.Time
	UpdatedAt       time.Time
	StartedAt       *time.Time
	EndedAt         *time.Time
}

// WindowElapsed reports whether the advisory window has passed while the
// election is still open for transitions.
func (e Election) WindowElapsed(now time.Time) bool {
	return e.Status != ElectionStatusEnded && !now.Before(e.EndTime)
}

type Candidate struct {
	ElectionID  uint64
	CandidateID uint64
	Name        string
	Description string
	VoteCount   Amount
	CreatedAt   time.Time
}

// VoteRecord is written once per (election, voter) and never cleared.
type VoteRecord struct {
	ElectionID  uint64
	Voter       string
	CandidateID uint64
	Tokens      Amount
	Weight      Amount
	CastAt      time.Time
}

// ElectionDetail pairs an election with its candidates in id order.
type ElectionDetail struct {
	Election   Election
	Candidates []Candidate
}
