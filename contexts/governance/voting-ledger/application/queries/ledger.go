package queries

import (
	"context"

	"blockvote/contexts/governance/voting-ledger/domain/entities"
	domainerrors "blockvote/contexts/governance/voting-ledger/domain/errors"
	"blockvote/contexts/governance/voting-ledger/ports"
)

// LedgerSummary is the token information and global counters.
type LedgerSummary struct {
	TokenName     string
	TokenSymbol   string
	Administrator string
	Custody       string
	TokensPerVote entities.Amount
	TotalSupply   entities.Amount
	VoterCount    uint64
	ElectionCount uint64
}

// AccountView is the public view of one address. Unknown addresses read as
// an unregistered zero balance.
type AccountView struct {
	Address    string
	Balance    entities.Amount
	Registered bool
}

type LedgerUseCase struct {
	Store ports.Store
}

func (uc LedgerUseCase) Summary(ctx context.Context) (LedgerSummary, error) {
	var summary LedgerSummary
	err := uc.Store.View(ctx, func(ctx context.Context, tx ports.ReadTx) error {
		state, err := loadLedger(ctx, tx)
		if err != nil {
			return err
		}
		summary = LedgerSummary{
			TokenName:     state.TokenName,
			TokenSymbol:   state.TokenSymbol,
			Administrator: state.Administrator,
			Custody:       state.Custody,
			TokensPerVote: state.TokensPerVote,
			TotalSupply:   state.TotalSupply,
			VoterCount:    state.VoterCount,
			ElectionCount: state.ElectionCount,
		}
		return nil
	})
	return summary, err
}

func (uc LedgerUseCase) TotalSupply(ctx context.Context) (entities.Amount, error) {
	summary, err := uc.Summary(ctx)
	return summary.TotalSupply, err
}

func (uc LedgerUseCase) TokensPerVote(ctx context.Context) (entities.Amount, error) {
	summary, err := uc.Summary(ctx)
	return summary.TokensPerVote, err
}

func (uc LedgerUseCase) VoterCount(ctx context.Context) (uint64, error) {
	summary, err := uc.Summary(ctx)
	return summary.VoterCount, err
}

func (uc LedgerUseCase) Account(ctx context.Context, address string) (AccountView, error) {
	normalized, err := entities.NormalizePrincipal(address)
	if err != nil {
		return AccountView{}, err
	}
	view := AccountView{Address: normalized}
	err = uc.Store.View(ctx, func(ctx context.Context, tx ports.ReadTx) error {
		account, found, err := tx.GetAccount(ctx, normalized)
		if err != nil || !found {
			return err
		}
		view.Balance = account.Balance
		view.Registered = account.Registered
		return nil
	})
	return view, err
}

func (uc LedgerUseCase) BalanceOf(ctx context.Context, address string) (entities.Amount, error) {
	view, err := uc.Account(ctx, address)
	return view.Balance, err
}

func (uc LedgerUseCase) IsRegisteredVoter(ctx context.Context, address string) (bool, error) {
	view, err := uc.Account(ctx, address)
	return view.Registered, err
}

func (uc LedgerUseCase) Allowance(ctx context.Context, owner string, spender string) (entities.Amount, error) {
	normalizedOwner, err := entities.NormalizePrincipal(owner)
	if err != nil {
		return entities.Amount{}, err
	}
	normalizedSpender, err := entities.NormalizePrincipal(spender)
	if err != nil {
		return entities.Amount{}, err
	}
	var amount entities.Amount
	err = uc.Store.View(ctx, func(ctx context.Context, tx ports.ReadTx) error {
		value, err := tx.GetAllowance(ctx, normalizedOwner, normalizedSpender)
		amount = value
		return err
	})
	return amount, err
}

func loadLedger(ctx context.Context, tx ports.ReadTx) (entities.LedgerState, error) {
	state, found, err := tx.LedgerState(ctx)
	if err != nil {
		return entities.LedgerState{}, err
	}
	if !found {
		return entities.LedgerState{}, domainerrors.ErrLedgerNotInitialized
	}
	return state, nil
}
