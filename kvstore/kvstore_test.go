// ABOUTME: Tests for the local session state store
// ABOUTME: Validates JSON round-trips, absence, and corrupt value recovery

package kvstore

import (
	"testing"

	"github.com/dgraph-io/badger/v3"

	"github.com/grupoethernos/campo/models"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Logf("Warning: failed to close store: %v", err)
		}
	})
	return s
}

func TestSetAndGet(t *testing.T) {
	s := setupStore(t)

	u := models.User{ID: "vendedor-456", Nome: "Consultor de Campo", Role: models.RoleVendedor}
	if err := s.Set(KeyCurrentUser, u); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got models.User
	ok, err := s.Get(KeyCurrentUser, &got)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected stored value")
	}
	if got.ID != u.ID || got.Role != u.Role {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestGetAbsentKey(t *testing.T) {
	s := setupStore(t)

	var got models.User
	ok, err := s.Get(KeyCurrentUser, &got)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("absent key must read as not found")
	}
}

func TestDelete(t *testing.T) {
	s := setupStore(t)

	if err := s.Set(KeyActiveSurvey, "SURV-1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(KeyActiveSurvey); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var id string
	ok, err := s.Get(KeyActiveSurvey, &id)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("deleted key must read as absent")
	}

	// Deleting again is fine.
	if err := s.Delete(KeyActiveSurvey); err != nil {
		t.Errorf("second delete failed: %v", err)
	}
}

func TestCorruptValueReadsAsAbsent(t *testing.T) {
	s := setupStore(t)

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(KeyActiveSession), []byte("{not json"))
	})
	if err != nil {
		t.Fatal(err)
	}

	var sess models.ActivitySession
	ok, err := s.Get(KeyActiveSession, &sess)
	if err != nil {
		t.Fatalf("Get on corrupt value failed: %v", err)
	}
	if ok {
		t.Error("corrupt value must read as absent")
	}

	// The corrupt entry is gone afterwards.
	readErr := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(KeyActiveSession))
		return err
	})
	if readErr != badger.ErrKeyNotFound {
		t.Errorf("corrupt entry should have been dropped, got %v", readErr)
	}
}
