package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "local-secret")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.StorageDriver != StorageSQLite || cfg.SQLitePath != "data/blockvote.db" {
		t.Fatalf("expected durable sqlite storage by default, got %s %s", cfg.StorageDriver, cfg.SQLitePath)
	}
	if cfg.InsecureHeaderAuth {
		t.Fatalf("expected header identity disabled by default")
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.GenesisSupply != "100000" || cfg.TokensPerVote != "1" {
		t.Fatalf("unexpected ledger defaults: %+v", cfg)
	}
	if !cfg.EnableWindowMonitor {
		t.Fatalf("expected window monitor enabled by default")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blockvote.yaml")
	content := []byte(`
service:
  http-port: "9090"
storage:
  driver: sqlite
  sqlite-path: /tmp/ledger.db
ledger:
  administrator: gov-admin
  custody: gov-engine
  tokens-per-vote: "10"
http:
  jwt-secret: file-secret
  cors-origins: ["https://vote.example"]
workers:
  outbox-poll-interval: 250ms
  enable-window-monitor: false
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("LEDGER_GENESIS_SUPPLY", "5000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "7070" {
		t.Fatalf("expected env to override file port, got %s", cfg.HTTPPort)
	}
	if cfg.StorageDriver != StorageSQLite || cfg.SQLitePath != "/tmp/ledger.db" {
		t.Fatalf("unexpected storage config: %+v", cfg)
	}
	if cfg.Administrator != "gov-admin" || cfg.Custody != "gov-engine" {
		t.Fatalf("unexpected principals: %s %s", cfg.Administrator, cfg.Custody)
	}
	if cfg.TokensPerVote != "10" || cfg.GenesisSupply != "5000" {
		t.Fatalf("unexpected ledger config: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://vote.example" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
	if cfg.OutboxPollInterval != 250*time.Millisecond {
		t.Fatalf("expected 250ms poll interval, got %s", cfg.OutboxPollInterval)
	}
	if cfg.EnableWindowMonitor {
		t.Fatalf("expected window monitor disabled by file")
	}
	if cfg.JWTSecret != "file-secret" {
		t.Fatalf("expected jwt secret from file, got %q", cfg.JWTSecret)
	}
}

func TestLoadRequiresSecretUnlessHeaderAuthAllowed(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected missing jwt secret to fail")
	}

	t.Setenv("INSECURE_HEADER_AUTH", "true")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load with header auth: %v", err)
	}
	if !cfg.InsecureHeaderAuth || cfg.JWTSecret != "" {
		t.Fatalf("expected explicit header auth without secret, got %+v", cfg)
	}

	path := filepath.Join(t.TempDir(), "blockvote.yaml")
	if err := os.WriteFile(path, []byte("http:\n  insecure-header-auth: false\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("INSECURE_HEADER_AUTH", "")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected file opt-out without secret to fail")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "local-secret")
	t.Setenv("STORAGE_DRIVER", "postgres")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected postgres without dsn to fail")
	}

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LEDGER_CUSTODY", "admin")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected shared administrator and custody to fail")
	}

	t.Setenv("LEDGER_CUSTODY", "engine")
	t.Setenv("OUTBOX_POLL_INTERVAL", "soon")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected malformed duration to fail")
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("FLAG_ON", "yes")
	t.Setenv("FLAG_OFF", "0")
	t.Setenv("FLAG_BAD", "maybe")
	if !envBool("FLAG_ON", false) {
		t.Fatalf("expected yes to parse as true")
	}
	if envBool("FLAG_OFF", true) {
		t.Fatalf("expected 0 to parse as false")
	}
	if !envBool("FLAG_BAD", true) {
		t.Fatalf("expected fallback for unknown value")
	}
}
