package commands

import (
	"context"
	"log/slog"
	"time"

	application "blockvote/contexts/governance/voting-ledger/application"
	"blockvote/contexts/governance/voting-ledger/domain/entities"
	domainerrors "blockvote/contexts/governance/voting-ledger/domain/errors"
	"blockvote/contexts/governance/voting-ledger/ports"
)

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

// resolveCaller normalizes the authenticated actor. The custody account never
// acts, which keeps committed credits unspendable.
func resolveCaller(state entities.LedgerState, actor string) (string, error) {
	caller, err := entities.NormalizePrincipal(actor)
	if err != nil {
		return "", domainerrors.ErrUnauthorized
	}
	if state.IsCustody(caller) {
		return "", domainerrors.ErrUnauthorized
	}
	return caller, nil
}

func requireAdministrator(state entities.LedgerState, actor string) (string, error) {
	caller, err := resolveCaller(state, actor)
	if err != nil {
		return "", err
	}
	if !state.IsAdministrator(caller) {
		return "", domainerrors.ErrUnauthorized
	}
	return caller, nil
}

func loadAccount(ctx context.Context, tx ports.ReadTx, address string) (entities.Account, error) {
	account, found, err := tx.GetAccount(ctx, address)
	if err != nil {
		return entities.Account{}, err
	}
	if !found {
		return entities.Account{Address: address}, nil
	}
	return account, nil
}

func loadElection(ctx context.Context, tx ports.ReadTx, electionID uint64) (entities.Election, error) {
	election, found, err := tx.GetElection(ctx, electionID)
	if err != nil {
		return entities.Election{}, err
	}
	if !found {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return election, nil
}

func resolveNow(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}

func logRejected(logger *slog.Logger, message string, event string, err error, attrs ...any) {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", application.ModuleName,
		"layer", "application",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	logger.Warn(message, fields...)
}
