package db

import (
	"path/filepath"
	"testing"
)

func TestOpenSQLiteCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	database, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	defer database.Close()

	sqlDB, err := database.DB.DB()
	if err != nil {
		t.Fatalf("resolve handle failed: %v", err)
	}
	if stats := sqlDB.Stats(); stats.MaxOpenConnections != 1 {
		t.Fatalf("expected single connection pool, got %d", stats.MaxOpenConnections)
	}
	if err := sqlDB.Ping(); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestOpenRequiresLocation(t *testing.T) {
	if _, err := OpenSQLite("  "); err == nil {
		t.Fatal("expected error for empty sqlite path")
	}
	if _, err := Connect(""); err == nil {
		t.Fatal("expected error for empty postgres dsn")
	}
}
