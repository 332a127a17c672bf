package commands

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"blockvote/contexts/governance/voting-ledger/domain/entities"
	"blockvote/contexts/governance/voting-ledger/ports"
	eventsv1 "blockvote/contracts/events/v1"
)

const sourceService = "voting-ledger"

// appendEvent reserves the next sequence on state and writes the envelope to
// the outbox of the current unit of work. Callers persist state afterwards.
func appendEvent(
	ctx context.Context,
	tx ports.Tx,
	idGen ports.IDGenerator,
	state *entities.LedgerState,
	eventType string,
	partitionKeyPath string,
	partitionKey string,
	occurredAt time.Time,
	data map[string]any,
) error {
	sequence := state.NextEventSequence()
	eventID := "evt-" + strconv.FormatUint(sequence, 10)
	if idGen != nil {
		generated, err := idGen.NewID(ctx)
		if err != nil {
			return err
		}
		eventID = generated
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return tx.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		Sequence:         sequence,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    sourceService,
		TraceID:          eventID,
		SchemaVersion:    eventsv1.SchemaVersion,
		PartitionKeyPath: partitionKeyPath,
		PartitionKey:     partitionKey,
		Data:             payload,
	})
}

func electionKey(electionID uint64) string {
	return strconv.FormatUint(electionID, 10)
}
