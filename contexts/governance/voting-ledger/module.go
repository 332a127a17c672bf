package votingledger

import (
	"context"
	"log/slog"
	"time"

	httpadapter "blockvote/contexts/governance/voting-ledger/adapters/http"
	"blockvote/contexts/governance/voting-ledger/adapters/memory"
	"blockvote/contexts/governance/voting-ledger/application/commands"
	"blockvote/contexts/governance/voting-ledger/application/queries"
	"blockvote/contexts/governance/voting-ledger/application/workers"
	"blockvote/contexts/governance/voting-ledger/domain/entities"
	"blockvote/contexts/governance/voting-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Ledger  commands.LedgerUseCase
	Outbox  ports.OutboxRepository
	Store   ports.Store
	Clock   ports.Clock
	Logger  *slog.Logger
}

type Dependencies struct {
	Store  ports.Store
	Outbox ports.OutboxRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	ledger := commands.LedgerUseCase{
		Store:  deps.Store,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	elections := commands.ElectionUseCase{
		Store:  deps.Store,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	votes := commands.VoteUseCase{
		Store:  deps.Store,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Ledger:          ledger,
			Elections:       elections,
			Votes:           votes,
			LedgerQueries:   queries.LedgerUseCase{Store: deps.Store},
			ElectionQueries: queries.ElectionUseCase{Store: deps.Store},
			EventQueries:    queries.EventUseCase{Store: deps.Store},
			Logger:          deps.Logger,
		},
		Ledger: ledger,
		Outbox: deps.Outbox,
		Store:  deps.Store,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
}

// Initialize writes the genesis ledger once. Later calls keep the stored
// state and report created=false.
func (m Module) Initialize(ctx context.Context, genesis entities.Genesis) (entities.LedgerState, bool, error) {
	return m.Ledger.Initialize(ctx, genesis)
}

func (m Module) OutboxRelay(publisher ports.EventPublisher, batchSize int) workers.OutboxRelay {
	return workers.OutboxRelay{
		Outbox:    m.Outbox,
		Publisher: publisher,
		Clock:     m.Clock,
		BatchSize: batchSize,
		Logger:    m.Logger,
	}
}

func (m Module) WindowMonitor() *workers.WindowMonitor {
	return &workers.WindowMonitor{
		Store:  m.Store,
		Clock:  m.Clock,
		Logger: m.Logger,
	}
}

func NewInMemoryModule(genesis entities.Genesis, logger *slog.Logger) (Module, error) {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Store:  store,
		Outbox: store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, _, err := module.Initialize(ctx, genesis); err != nil {
		return Module{}, err
	}
	return module, nil
}
