package queries

import (
	"context"

	"blockvote/contexts/governance/voting-ledger/ports"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

type EventUseCase struct {
	Store ports.Store
}

// ListEvents returns events with a sequence greater than afterSequence in
// sequence order.
func (uc EventUseCase) ListEvents(ctx context.Context, afterSequence uint64, limit int) ([]ports.EventEnvelope, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}
	var items []ports.EventEnvelope
	err := uc.Store.View(ctx, func(ctx context.Context, tx ports.ReadTx) error {
		var err error
		items, err = tx.ListEvents(ctx, afterSequence, limit)
		return err
	})
	return items, err
}
