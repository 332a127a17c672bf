package main

import "testing"

const ctx = "blockvote/contexts/governance/voting-ledger"

func refs(paths ...string) []importRef {
	out := make([]importRef, 0, len(paths))
	for i, p := range paths {
		out = append(out, importRef{path: p, line: i + 1})
	}
	return out
}

func TestContextLayerRules(t *testing.T) {
	cases := []struct {
		name    string
		file    string
		imports []importRef
		want    int
	}{
		{"domain uses uint256", "contexts/governance/voting-ledger/domain/entities/amount.go",
			refs("strings", "github.com/holiman/uint256", ctx+"/domain/errors"), 0},
		{"domain imports ports", "contexts/governance/voting-ledger/domain/entities/amount.go",
			refs(ctx + "/ports"), 1},
		{"ports imports application", "contexts/governance/voting-ledger/ports/ports.go",
			refs(ctx+"/domain/entities", "blockvote/contracts/events/v1", ctx+"/application"), 1},
		{"commands imports queries", "contexts/governance/voting-ledger/application/commands/vote.go",
			refs(ctx+"/application", ctx+"/application/queries"), 1},
		{"application imports adapter", "contexts/governance/voting-ledger/application/workers/outbox_relay.go",
			refs(ctx + "/adapters/memory"), 1},
		{"memory adapter imports gorm", "contexts/governance/voting-ledger/adapters/memory/store.go",
			refs("github.com/google/uuid", "gorm.io/gorm"), 1},
		{"postgres adapter drivers", "contexts/governance/voting-ledger/adapters/postgres/store.go",
			refs("gorm.io/gorm/clause", "github.com/jackc/pgx/v5/pgconn", ctx+"/application"), 0},
		{"transport imports domain", "contexts/governance/voting-ledger/transport/http/http_dto.go",
			refs("encoding/json", ctx+"/domain/entities"), 1},
		{"adapter imports platform", "contexts/governance/voting-ledger/adapters/http/handler.go",
			refs(ctx+"/transport/http", "blockvote/internal/platform/config"), 1},
		{"module root wires everything", "contexts/governance/voting-ledger/module.go",
			refs(ctx+"/adapters/memory", ctx+"/application/workers"), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := checkContextFile(tc.file, tc.imports); len(got) != tc.want {
				t.Fatalf("expected %d violations, got %+v", tc.want, got)
			}
		})
	}
}

func TestPlatformMustNotReachIntoContextInternals(t *testing.T) {
	ok := checkPlatformFile("internal/platform/httpserver/server.go",
		refs(ctx, ctx+"/adapters/http", ctx+"/transport/http", ctx+"/domain/errors"))
	if len(ok) != 0 {
		t.Fatalf("expected http surface imports to pass, got %+v", ok)
	}
	bad := checkPlatformFile("internal/platform/httpserver/server.go",
		refs(ctx+"/application/commands", ctx+"/adapters/postgres", "blockvote/internal/app/bootstrap"))
	if len(bad) != 3 {
		t.Fatalf("expected three violations, got %+v", bad)
	}
}

func TestContractsStayStdlibOnly(t *testing.T) {
	if got := checkContractsFile("contracts/events/v1/envelope.go", refs("encoding/json", "github.com/google/uuid")); len(got) != 1 {
		t.Fatalf("expected one violation, got %+v", got)
	}
}
