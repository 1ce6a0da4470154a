// ABOUTME: Tests for client registry upsert logic
// ABOUTME: Validates dedup by phone, idempotent survey-id union, merge rules
package registry

import (
	"testing"
	"time"

	"github.com/grupoethernos/campo/models"
)

type fakeStore struct {
	byTelefone map[string]*models.Cliente
	creates    int
	updates    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{byTelefone: make(map[string]*models.Cliente)}
}

func (s *fakeStore) FindByTelefone(telefone string) (*models.Cliente, error) {
	c, ok := s.byTelefone[telefone]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.PesquisaIDs = append([]string(nil), c.PesquisaIDs...)
	return &cp, nil
}

func (s *fakeStore) Create(c *models.Cliente) error {
	s.creates++
	s.byTelefone[c.Telefone] = c
	return nil
}

func (s *fakeStore) Update(c *models.Cliente) error {
	s.updates++
	s.byTelefone[c.Telefone] = c
	return nil
}

func answers(nome, telefone string) models.FormData {
	return models.FormData{
		Nome:     nome,
		Telefone: telefone,
		Bairro:   "Centro",
		Cidade:   "Campinas",
	}
}

func TestUpsertCreatesNewClient(t *testing.T) {
	store := newFakeStore()
	reg := New(store)

	now := time.Now()
	c, err := reg.Upsert("vendedor-456", "Consultor de Campo", answers("João", "(19) 99876-5432"), "SURV-1", now, false)
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if c.ID == "" {
		t.Error("expected a fresh id")
	}
	if c.Status != models.StatusAtivo {
		t.Errorf("expected status Ativo, got %s", c.Status)
	}
	if c.Endereco != "Centro, Campinas" {
		t.Errorf("expected derived address, got %q", c.Endereco)
	}
	if !c.DataPrimeiroContato.Equal(now) {
		t.Error("first-contact timestamp should be the upsert time")
	}
	if len(c.PesquisaIDs) != 1 || c.PesquisaIDs[0] != "SURV-1" {
		t.Errorf("expected survey set {SURV-1}, got %v", c.PesquisaIDs)
	}
	if c.Synced {
		t.Error("synced flag must follow the caller")
	}
}

func TestUpsertDedupsByPhone(t *testing.T) {
	store := newFakeStore()
	reg := New(store)
	phone := "(19) 99876-5432"
	firstContact := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first, err := reg.Upsert("vendedor-456", "Consultor de Campo", answers("João", phone), "SURV-1", firstContact, false)
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	// N completed surveys with the same phone: one client, N survey ids.
	for i, id := range []string{"SURV-2", "SURV-3", "SURV-4"} {
		later := firstContact.AddDate(0, 0, i+1)
		f := answers("João Roberto", phone)
		f.Bairro = "Taquaral"
		if _, err := reg.Upsert("vendedor-456", "Consultor de Campo", f, id, later, true); err != nil {
			t.Fatalf("upsert %s failed: %v", id, err)
		}
	}

	if store.creates != 1 {
		t.Fatalf("expected exactly one create, got %d", store.creates)
	}

	merged, _ := store.FindByTelefone(phone)
	if len(merged.PesquisaIDs) != 4 {
		t.Errorf("expected 4 survey ids, got %v", merged.PesquisaIDs)
	}
	if merged.Nome != "João Roberto" {
		t.Error("newer name should win on merge")
	}
	if merged.Endereco != "Taquaral, Campinas" {
		t.Errorf("address should be re-derived, got %q", merged.Endereco)
	}
	if !merged.DataPrimeiroContato.Equal(firstContact) {
		t.Error("first-contact timestamp must be immutable on merge")
	}
	if merged.ID != first.ID {
		t.Error("merge must keep the original entity id")
	}
	if !merged.Synced {
		t.Error("synced flag should follow the latest caller value")
	}
}

func TestUpsertIsIdempotentPerSurvey(t *testing.T) {
	store := newFakeStore()
	reg := New(store)
	phone := "(19) 99876-5432"
	now := time.Now()

	for i := 0; i < 3; i++ {
		if _, err := reg.Upsert("vendedor-456", "Consultor", answers("João", phone), "SURV-1", now, false); err != nil {
			t.Fatalf("upsert %d failed: %v", i, err)
		}
	}

	c, _ := store.FindByTelefone(phone)
	if len(c.PesquisaIDs) != 1 {
		t.Errorf("re-adding the same survey id must be a no-op, got %v", c.PesquisaIDs)
	}
}

func TestUpsertDistinctPhonesStaySeparate(t *testing.T) {
	store := newFakeStore()
	reg := New(store)
	now := time.Now()

	if _, err := reg.Upsert("u", "n", answers("A", "(19) 99876-0001"), "SURV-1", now, false); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Upsert("u", "n", answers("B", "(19) 99876-0002"), "SURV-2", now, false); err != nil {
		t.Fatal(err)
	}

	if store.creates != 2 {
		t.Errorf("different phones must create different clients, got %d creates", store.creates)
	}
}
