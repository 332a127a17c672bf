package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "blockvote/contexts/governance/voting-ledger/application"
	"blockvote/contexts/governance/voting-ledger/domain/entities"
	domainerrors "blockvote/contexts/governance/voting-ledger/domain/errors"
	"blockvote/contexts/governance/voting-ledger/ports"
	eventsv1 "blockvote/contracts/events/v1"
)

type RegisterVoterCommand struct {
	Actor   string
	Address string
	Amount  entities.Amount
}

type BatchRegisterVotersCommand struct {
	Actor     string
	Addresses []string
	Amount    entities.Amount
}

type ApproveCommand struct {
	Actor   string
	Spender string
	Amount  entities.Amount
}

type TransferCommand struct {
	Actor  string
	To     string
	Amount entities.Amount
}

// TransferFromCommand moves Owner credits on behalf of Actor, the spender.
type TransferFromCommand struct {
	Actor  string
	Owner  string
	To     string
	Amount entities.Amount
}

type BurnCommand struct {
	Actor  string
	Amount entities.Amount
}

// LedgerUseCase owns the credit ledger: genesis, voter registration and the
// allowance-based transfer primitives. Every method runs in one unit of work.
type LedgerUseCase struct {
	Store  ports.Store
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// Initialize creates the ledger singleton and mints the genesis supply to the
// administrator. It reports created=false and leaves state untouched when the
// ledger already exists.
func (uc LedgerUseCase) Initialize(ctx context.Context, genesis entities.Genesis) (entities.LedgerState, bool, error) {
	logger := application.ResolveLogger(uc.Logger)
	admin, err := entities.NormalizePrincipal(genesis.Administrator)
	if err != nil {
		return entities.LedgerState{}, false, err
	}
	custody, err := entities.NormalizePrincipal(genesis.Custody)
	if err != nil {
		return entities.LedgerState{}, false, err
	}
	if admin == custody || genesis.TokensPerVote.IsZero() {
		return entities.LedgerState{}, false, domainerrors.ErrInvalidInput
	}
	name := strings.TrimSpace(genesis.TokenName)
	if name == "" {
		name = entities.DefaultTokenName
	}
	symbol := strings.TrimSpace(genesis.TokenSymbol)
	if symbol == "" {
		symbol = entities.DefaultTokenSymbol
	}

	var (
		result  entities.LedgerState
		created bool
	)
	err = uc.Store.Update(ctx, func(ctx context.Context, tx ports.Tx) error {
		existing, found, err := tx.LedgerState(ctx)
		if err != nil {
			return err
		}
		if found {
			result = existing
			return nil
		}
		now := resolveNow(uc.Clock)
		state := entities.LedgerState{
			Administrator: admin,
			Custody:       custody,
			TokenName:     name,
			TokenSymbol:   symbol,
			TokensPerVote: genesis.TokensPerVote,
			TotalSupply:   genesis.InitialSupply,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.SaveAccount(ctx, entities.Account{
			Address:   admin,
			Balance:   genesis.InitialSupply,
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		if err := appendEvent(ctx, tx, uc.IDGen, &state, eventsv1.EventLedgerInitialized, "administrator", admin, now, map[string]any{
			"administrator":   admin,
			"custody":         custody,
			"token_name":      name,
			"token_symbol":    symbol,
			"tokens_per_vote": state.TokensPerVote.String(),
			"total_supply":    state.TotalSupply.String(),
		}); err != nil {
			return err
		}
		if err := tx.SaveLedgerState(ctx, state); err != nil {
			return err
		}
		result = state
		created = true
		return nil
	})
	if err != nil {
		logger.Error("ledger initialization failed",
			"event", "voting_ledger_initialize_failed",
			"module", application.ModuleName,
			"layer", "application",
			"error", err.Error(),
		)
		return entities.LedgerState{}, false, err
	}
	logger.Info("ledger initialization checked",
		"event", "voting_ledger_initialized",
		"module", application.ModuleName,
		"layer", "application",
		"created", created,
		"administrator", result.Administrator,
		"total_supply", result.TotalSupply.String(),
	)
	return result, created, nil
}

func (uc LedgerUseCase) RegisterVoter(ctx context.Context, cmd RegisterVoterCommand) (entities.Account, error) {
	accounts, err := uc.register(ctx, cmd.Actor, []string{cmd.Address}, cmd.Amount)
	if err != nil {
		return entities.Account{}, err
	}
	return accounts[0], nil
}

// BatchRegisterVoters registers every address or none of them. A duplicate
// inside the batch fails with ErrAlreadyRegistered like any other repeat.
func (uc LedgerUseCase) BatchRegisterVoters(ctx context.Context, cmd BatchRegisterVotersCommand) ([]entities.Account, error) {
	if len(cmd.Addresses) == 0 {
		return nil, domainerrors.ErrInvalidInput
	}
	return uc.register(ctx, cmd.Actor, cmd.Addresses, cmd.Amount)
}

func (uc LedgerUseCase) register(ctx context.Context, actor string, addresses []string, amount entities.Amount) ([]entities.Account, error) {
	logger := application.ResolveLogger(uc.Logger)
	accounts := make([]entities.Account, 0, len(addresses))
	err := uc.Store.Update(ctx, func(ctx context.Context, tx ports.Tx) error {
		state, err := loadLedger(ctx, tx)
		if err != nil {
			return err
		}
		if _, err := requireAdministrator(state, actor); err != nil {
			return err
		}
		now := resolveNow(uc.Clock)
		for _, raw := range addresses {
			address, err := entities.NormalizePrincipal(raw)
			if err != nil {
				return err
			}
			if state.IsCustody(address) {
				return domainerrors.ErrInvalidInput
			}
			account, err := loadAccount(ctx, tx, address)
			if err != nil {
				return err
			}
			if account.Registered {
				return domainerrors.ErrAlreadyRegistered
			}
			if account.Balance, err = account.Balance.Add(amount); err != nil {
				return err
			}
			if state.TotalSupply, err = state.TotalSupply.Add(amount); err != nil {
				return err
			}
			registeredAt := now
			account.Registered = true
			account.RegisteredAt = &registeredAt
			account.UpdatedAt = now
			state.VoterCount++
			if err := tx.SaveAccount(ctx, account); err != nil {
				return err
			}
			if err := appendEvent(ctx, tx, uc.IDGen, &state, eventsv1.EventLedgerVoterRegistered, "address", address, now, map[string]any{
				"address":      address,
				"amount":       amount.String(),
				"balance":      account.Balance.String(),
				"total_supply": state.TotalSupply.String(),
				"voter_count":  state.VoterCount,
			}); err != nil {
				return err
			}
			accounts = append(accounts, account)
		}
		state.UpdatedAt = now
		return tx.SaveLedgerState(ctx, state)
	})
	if err != nil {
		logRejected(logger, "voter registration rejected", "voting_ledger_register_rejected", err,
			"actor", strings.TrimSpace(actor),
			"address_count", len(addresses),
		)
		return nil, err
	}
	logger.Info("voters registered",
		"event", "voting_ledger_voters_registered",
		"module", application.ModuleName,
		"layer", "application",
		"actor", strings.TrimSpace(actor),
		"address_count", len(accounts),
		"amount", amount.String(),
	)
	return accounts, nil
}

// Approve overwrites the allowance granted by the caller to spender.
func (uc LedgerUseCase) Approve(ctx context.Context, cmd ApproveCommand) (entities.Allowance, error) {
	logger := application.ResolveLogger(uc.Logger)
	var allowance entities.Allowance
	err := uc.Store.Update(ctx, func(ctx context.Context, tx ports.Tx) error {
		state, err := loadLedger(ctx, tx)
		if err != nil {
			return err
		}
		owner, err := resolveCaller(state, cmd.Actor)
		if err != nil {
			return err
		}
		spender, err := entities.NormalizePrincipal(cmd.Spender)
		if err != nil {
			return err
		}
		now := resolveNow(uc.Clock)
		allowance = entities.Allowance{
			Owner:     owner,
			Spender:   spender,
			Amount:    cmd.Amount,
			UpdatedAt: now,
		}
		if err := tx.SetAllowance(ctx, allowance); err != nil {
			return err
		}
		if err := appendEvent(ctx, tx, uc.IDGen, &state, eventsv1.EventLedgerApproval, "owner", owner, now, map[string]any{
			"owner":   owner,
			"spender": spender,
			"amount":  cmd.Amount.String(),
		}); err != nil {
			return err
		}
		state.UpdatedAt = now
		return tx.SaveLedgerState(ctx, state)
	})
	if err != nil {
		logRejected(logger, "approval rejected", "voting_ledger_approve_rejected", err,
			"actor", strings.TrimSpace(cmd.Actor),
			"spender", strings.TrimSpace(cmd.Spender),
		)
		return entities.Allowance{}, err
	}
	logger.Info("allowance approved",
		"event", "voting_ledger_approved",
		"module", application.ModuleName,
		"layer", "application",
		"owner", allowance.Owner,
		"spender", allowance.Spender,
		"amount", allowance.Amount.String(),
	)
	return allowance, nil
}

func (uc LedgerUseCase) Transfer(ctx context.Context, cmd TransferCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	err := uc.Store.Update(ctx, func(ctx context.Context, tx ports.Tx) error {
		state, err := loadLedger(ctx, tx)
		if err != nil {
			return err
		}
		from, err := resolveCaller(state, cmd.Actor)
		if err != nil {
			return err
		}
		to, err := entities.NormalizePrincipal(cmd.To)
		if err != nil {
			return err
		}
		if cmd.Amount.IsZero() {
			return domainerrors.ErrInvalidInput
		}
		now := resolveNow(uc.Clock)
		if err := moveCredits(ctx, tx, from, to, cmd.Amount, now); err != nil {
			return err
		}
		if err := appendEvent(ctx, tx, uc.IDGen, &state, eventsv1.EventLedgerTransfer, "from", from, now, map[string]any{
			"from":   from,
			"to":     to,
			"amount": cmd.Amount.String(),
		}); err != nil {
			return err
		}
		state.UpdatedAt = now
		return tx.SaveLedgerState(ctx, state)
	})
	if err != nil {
		logRejected(logger, "transfer rejected", "voting_ledger_transfer_rejected", err,
			"actor", strings.TrimSpace(cmd.Actor),
			"to", strings.TrimSpace(cmd.To),
			"amount", cmd.Amount.String(),
		)
		return err
	}
	logger.Info("credits transferred",
		"event", "voting_ledger_transferred",
		"module", application.ModuleName,
		"layer", "application",
		"from", strings.TrimSpace(cmd.Actor),
		"to", strings.TrimSpace(cmd.To),
		"amount", cmd.Amount.String(),
	)
	return nil
}

// TransferFrom checks the allowance before the owner balance.
func (uc LedgerUseCase) TransferFrom(ctx context.Context, cmd TransferFromCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	err := uc.Store.Update(ctx, func(ctx context.Context, tx ports.Tx) error {
		state, err := loadLedger(ctx, tx)
		if err != nil {
			return err
		}
		spender, err := resolveCaller(state, cmd.Actor)
		if err != nil {
			return err
		}
		owner, err := entities.NormalizePrincipal(cmd.Owner)
		if err != nil {
			return err
		}
		to, err := entities.NormalizePrincipal(cmd.To)
		if err != nil {
			return err
		}
		if cmd.Amount.IsZero() {
			return domainerrors.ErrInvalidInput
		}
		allowance, err := tx.GetAllowance(ctx, owner, spender)
		if err != nil {
			return err
		}
		if allowance.LessThan(cmd.Amount) {
			return domainerrors.ErrInsufficientAllowance
		}
		now := resolveNow(uc.Clock)
		if err := moveCredits(ctx, tx, owner, to, cmd.Amount, now); err != nil {
			return err
		}
		remaining, err := allowance.Sub(cmd.Amount)
		if err != nil {
			return err
		}
		if err := tx.SetAllowance(ctx, entities.Allowance{
			Owner:     owner,
			Spender:   spender,
			Amount:    remaining,
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		if err := appendEvent(ctx, tx, uc.IDGen, &state, eventsv1.EventLedgerTransfer, "from", owner, now, map[string]any{
			"from":      owner,
			"to":        to,
			"spender":   spender,
			"amount":    cmd.Amount.String(),
			"allowance": remaining.String(),
		}); err != nil {
			return err
		}
		state.UpdatedAt = now
		return tx.SaveLedgerState(ctx, state)
	})
	if err != nil {
		logRejected(logger, "delegated transfer rejected", "voting_ledger_transfer_from_rejected", err,
			"actor", strings.TrimSpace(cmd.Actor),
			"owner", strings.TrimSpace(cmd.Owner),
			"to", strings.TrimSpace(cmd.To),
			"amount", cmd.Amount.String(),
		)
		return err
	}
	logger.Info("delegated credits transferred",
		"event", "voting_ledger_transferred_from",
		"module", application.ModuleName,
		"layer", "application",
		"spender", strings.TrimSpace(cmd.Actor),
		"owner", strings.TrimSpace(cmd.Owner),
		"to", strings.TrimSpace(cmd.To),
		"amount", cmd.Amount.String(),
	)
	return nil
}

func (uc LedgerUseCase) Burn(ctx context.Context, cmd BurnCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	err := uc.Store.Update(ctx, func(ctx context.Context, tx ports.Tx) error {
		state, err := loadLedger(ctx, tx)
		if err != nil {
			return err
		}
		caller, err := resolveCaller(state, cmd.Actor)
		if err != nil {
			return err
		}
		if cmd.Amount.IsZero() {
			return domainerrors.ErrInvalidInput
		}
		account, err := loadAccount(ctx, tx, caller)
		if err != nil {
			return err
		}
		if account.Balance.LessThan(cmd.Amount) {
			return domainerrors.ErrInsufficientBalance
		}
		now := resolveNow(uc.Clock)
		if account.Balance, err = account.Balance.Sub(cmd.Amount); err != nil {
			return err
		}
		if state.TotalSupply, err = state.TotalSupply.Sub(cmd.Amount); err != nil {
			return err
		}
		account.UpdatedAt = now
		if err := tx.SaveAccount(ctx, account); err != nil {
			return err
		}
		if err := appendEvent(ctx, tx, uc.IDGen, &state, eventsv1.EventLedgerBurn, "address", caller, now, map[string]any{
			"address":      caller,
			"amount":       cmd.Amount.String(),
			"balance":      account.Balance.String(),
			"total_supply": state.TotalSupply.String(),
		}); err != nil {
			return err
		}
		state.UpdatedAt = now
		return tx.SaveLedgerState(ctx, state)
	})
	if err != nil {
		logRejected(logger, "burn rejected", "voting_ledger_burn_rejected", err,
			"actor", strings.TrimSpace(cmd.Actor),
			"amount", cmd.Amount.String(),
		)
		return err
	}
	logger.Info("credits burned",
		"event", "voting_ledger_burned",
		"module", application.ModuleName,
		"layer", "application",
		"address", strings.TrimSpace(cmd.Actor),
		"amount", cmd.Amount.String(),
	)
	return nil
}

// moveCredits debits from and credits to inside tx. The recipient is loaded
// after the debit is staged so a self-transfer nets to zero.
func moveCredits(ctx context.Context, tx ports.Tx, from string, to string, amount entities.Amount, now time.Time) error {
	sender, err := loadAccount(ctx, tx, from)
	if err != nil {
		return err
	}
	if sender.Balance.LessThan(amount) {
		return domainerrors.ErrInsufficientBalance
	}
	if sender.Balance, err = sender.Balance.Sub(amount); err != nil {
		return err
	}
	sender.UpdatedAt = now
	if err := tx.SaveAccount(ctx, sender); err != nil {
		return err
	}
	recipient, err := loadAccount(ctx, tx, to)
	if err != nil {
		return err
	}
	if recipient.Balance, err = recipient.Balance.Add(amount); err != nil {
		return err
	}
	recipient.UpdatedAt = now
	return tx.SaveAccount(ctx, recipient)
}
