package commands

import (
	"context"
	"testing"
	"time"

	"blockvote/contexts/governance/voting-ledger/adapters/memory"
	"blockvote/contexts/governance/voting-ledger/domain/entities"
	"blockvote/contexts/governance/voting-ledger/ports"
)

const (
	testAdmin   = "0xadmin"
	testCustody = "0xengine"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type fixture struct {
	store     *memory.Store
	ledger    LedgerUseCase
	elections ElectionUseCase
	votes     VoteUseCase
	now       time.Time
}

func newFixture(t *testing.T, tokensPerVote uint64) fixture {
	t.Helper()
	store := memory.NewStore()
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	clock := fixedClock{now: now}
	f := fixture{
		store:     store,
		ledger:    LedgerUseCase{Store: store, Clock: clock, IDGen: store},
		elections: ElectionUseCase{Store: store, Clock: clock, IDGen: store},
		votes:     VoteUseCase{Store: store, Clock: clock, IDGen: store},
		now:       now,
	}
	if _, created, err := f.ledger.Initialize(context.Background(), entities.Genesis{
		Administrator: testAdmin,
		Custody:       testCustody,
		TokensPerVote: entities.NewAmount(tokensPerVote),
		InitialSupply: entities.NewAmount(entities.DefaultGenesisSupply),
	}); err != nil || !created {
		t.Fatalf("initialize ledger failed: created=%v err=%v", created, err)
	}
	return f
}

func (f fixture) register(t *testing.T, address string, amount uint64) {
	t.Helper()
	if _, err := f.ledger.RegisterVoter(context.Background(), RegisterVoterCommand{
		Actor:   testAdmin,
		Address: address,
		Amount:  entities.NewAmount(amount),
	}); err != nil {
		t.Fatalf("register %s failed: %v", address, err)
	}
}

func (f fixture) approveEngine(t *testing.T, voter string, amount uint64) {
	t.Helper()
	if _, err := f.ledger.Approve(context.Background(), ApproveCommand{
		Actor:   voter,
		Spender: testCustody,
		Amount:  entities.NewAmount(amount),
	}); err != nil {
		t.Fatalf("approve for %s failed: %v", voter, err)
	}
}

// activeElection creates an election with candidates Alice and Bob and starts it.
func (f fixture) activeElection(t *testing.T) entities.Election {
	t.Helper()
	ctx := context.Background()
	election, err := f.elections.CreateElection(ctx, CreateElectionCommand{
		Actor:     testAdmin,
		Title:     "Board seat",
		StartTime: f.now.Add(10 * time.Second),
		EndTime:   f.now.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}
	for _, name := range []string{"Alice", "Bob"} {
		if _, err := f.elections.AddCandidate(ctx, AddCandidateCommand{
			Actor:      testAdmin,
			ElectionID: election.ElectionID,
			Name:       name,
		}); err != nil {
			t.Fatalf("add candidate %s failed: %v", name, err)
		}
	}
	started, err := f.elections.StartElection(ctx, TransitionElectionCommand{Actor: testAdmin, ElectionID: election.ElectionID})
	if err != nil {
		t.Fatalf("start election failed: %v", err)
	}
	return started
}

func (f fixture) account(t *testing.T, address string) entities.Account {
	t.Helper()
	var account entities.Account
	err := f.store.View(context.Background(), func(ctx context.Context, tx ports.ReadTx) error {
		var err error
		account, _, err = tx.GetAccount(ctx, address)
		return err
	})
	if err != nil {
		t.Fatalf("load account %s failed: %v", address, err)
	}
	return account
}

func (f fixture) candidate(t *testing.T, electionID uint64, candidateID uint64) entities.Candidate {
	t.Helper()
	var candidate entities.Candidate
	err := f.store.View(context.Background(), func(ctx context.Context, tx ports.ReadTx) error {
		var err error
		candidate, _, err = tx.GetCandidate(ctx, electionID, candidateID)
		return err
	})
	if err != nil {
		t.Fatalf("load candidate failed: %v", err)
	}
	return candidate
}

func (f fixture) state(t *testing.T) entities.LedgerState {
	t.Helper()
	var state entities.LedgerState
	err := f.store.View(context.Background(), func(ctx context.Context, tx ports.ReadTx) error {
		var err error
		state, err = loadLedger(ctx, tx)
		return err
	})
	if err != nil {
		t.Fatalf("load ledger failed: %v", err)
	}
	return state
}

func (f fixture) events(t *testing.T) []ports.EventEnvelope {
	t.Helper()
	var events []ports.EventEnvelope
	err := f.store.View(context.Background(), func(ctx context.Context, tx ports.ReadTx) error {
		var err error
		events, err = tx.ListEvents(ctx, 0, 0)
		return err
	})
	if err != nil {
		t.Fatalf("list events failed: %v", err)
	}
	return events
}

// assertSupplyConserved checks that balances of the given addresses sum to
// total supply.
func (f fixture) assertSupplyConserved(t *testing.T, addresses ...string) {
	t.Helper()
	sum := entities.Amount{}
	for _, address := range append(addresses, testAdmin, testCustody) {
		next, err := sum.Add(f.account(t, address).Balance)
		if err != nil {
			t.Fatalf("sum overflow: %v", err)
		}
		sum = next
	}
	if supply := f.state(t).TotalSupply; sum.Cmp(supply) != 0 {
		t.Fatalf("balances sum to %s, total supply is %s", sum, supply)
	}
}

func allowanceOf(f fixture, owner string, spender string) (entities.Amount, error) {
	var amount entities.Amount
	err := f.store.View(context.Background(), func(ctx context.Context, tx ports.ReadTx) error {
		var err error
		amount, err = tx.GetAllowance(ctx, owner, spender)
		return err
	})
	return amount, err
}
