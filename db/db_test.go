// ABOUTME: Tests for database initialization
// ABOUTME: Validates schema creation, WAL mode, and invalid paths
package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	defer db.Close()

	// Verify database file exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	// Verify schema was initialized
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}
	if count < 4 {
		t.Errorf("Expected at least 4 tables, got %d", count)
	}

	// Verify WAL mode
	var mode string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	if err != nil {
		t.Fatalf("Failed to query journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("Expected WAL mode, got %s", mode)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db := setupTestDB(t)

	var enabled int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		t.Fatalf("Failed to query foreign_keys pragma: %v", err)
	}
	if enabled != 1 {
		t.Fatal("foreign key enforcement is off")
	}

	// A sale must not reference a client the registry never saw.
	_, err := db.Exec(`
		INSERT INTO vendas (id, cliente_id, nome_cliente, telefone, endereco, numero_contrato, vendedor_id, vendedor_nome, data_fechamento, status_venda, criado_em, synced)
		VALUES ('v-orphan', 'cliente-missing', 'X', 'Y', '', '12345', 'vendedor-456', 'Z', CURRENT_TIMESTAMP, 'Ativo', CURRENT_TIMESTAMP, 0)
	`)
	if err == nil {
		t.Error("orphan sale insert should be rejected")
	}
}

func TestOpenDatabaseInvalidPath(t *testing.T) {
	dbPath := "/proc/nonexistent/path/that/cannot/be/created/test.db"

	_, err := OpenDatabase(dbPath)
	if err == nil {
		t.Errorf("Expected error for invalid path, but OpenDatabase succeeded")
	}
}
