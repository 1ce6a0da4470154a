// ABOUTME: Tests for the MCP tool handlers
// ABOUTME: Validates tool input/output and error handling
package handlers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/grupoethernos/campo/db"
	"github.com/grupoethernos/campo/models"
	syncpkg "github.com/grupoethernos/campo/sync"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func seedCliente(t *testing.T, database *sql.DB) *models.Cliente {
	t.Helper()
	c := &models.Cliente{
		ID:                  "cliente-1",
		Nome:                "Maria Souza",
		Telefone:            "(19) 99876-5432",
		Bairro:              "Centro",
		Cidade:              "Campinas",
		Endereco:            "Centro, Campinas",
		UserID:              "vendedor-456",
		UserName:            "Consultor de Campo",
		DataPrimeiroContato: time.Now(),
		Status:              models.StatusAtivo,
		PesquisaIDs:         []string{"SURV-1"},
	}
	if err := db.CreateCliente(database, c); err != nil {
		t.Fatalf("Failed to seed client: %v", err)
	}
	return c
}

func seedPesquisa(t *testing.T, database *sql.DB, id string, complete bool) *models.Pesquisa {
	t.Helper()
	p := &models.Pesquisa{
		ID:             id,
		UserID:         "vendedor-456",
		UserName:       "Consultor de Campo",
		TimestampStart: time.Now(),
		Data:           models.FormData{Nome: "Maria Souza", Telefone: "(19) 99876-5432"},
		Status:         models.SurveyEmAndamento,
		LastStep:       1,
	}
	if err := db.CreatePesquisa(database, p); err != nil {
		t.Fatalf("Failed to seed survey: %v", err)
	}
	if complete {
		end := time.Now()
		p.TimestampEnd = &end
		p.LastStep = 9
		p.Data.PossoExplicar = models.Sim
		if err := db.CompletePesquisa(database, p); err != nil {
			t.Fatalf("Failed to complete survey: %v", err)
		}
		p.Status = models.SurveyConcluida
	}
	return p
}

func TestFindClientsHandler(t *testing.T) {
	database := setupTestDB(t)
	seedCliente(t, database)
	handler := NewClientHandlers(database)

	_, out, err := handler.FindClients(context.Background(), nil, FindClientsInput{Query: "maria"})
	if err != nil {
		t.Fatalf("FindClients failed: %v", err)
	}
	if len(out.Clientes) != 1 {
		t.Fatalf("clients = %d, want 1", len(out.Clientes))
	}
	if out.Clientes[0].Nome != "Maria Souza" {
		t.Errorf("unexpected client: %+v", out.Clientes[0])
	}

	_, out, err = handler.FindClients(context.Background(), nil, FindClientsInput{Query: "ninguém"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Clientes) != 0 {
		t.Errorf("expected no matches, got %d", len(out.Clientes))
	}
}

func TestGetClientHandler(t *testing.T) {
	database := setupTestDB(t)
	c := seedCliente(t, database)
	handler := NewClientHandlers(database)

	_, out, err := handler.GetClient(context.Background(), nil, GetClientInput{ID: c.ID})
	if err != nil {
		t.Fatalf("GetClient failed: %v", err)
	}
	if out.Telefone != c.Telefone || len(out.PesquisaIDs) != 1 {
		t.Errorf("unexpected output: %+v", out)
	}

	if _, _, err := handler.GetClient(context.Background(), nil, GetClientInput{}); err == nil {
		t.Error("missing id must fail")
	}
	if _, _, err := handler.GetClient(context.Background(), nil, GetClientInput{ID: "nope"}); err == nil {
		t.Error("unknown id must fail")
	}
}

func TestListSurveysHandler(t *testing.T) {
	database := setupTestDB(t)
	seedPesquisa(t, database, "SURV-1", true)
	seedPesquisa(t, database, "SURV-2", false)
	handler := NewSurveyHandlers(database)

	_, out, err := handler.ListSurveys(context.Background(), nil, ListSurveysInput{})
	if err != nil {
		t.Fatalf("ListSurveys failed: %v", err)
	}
	if len(out.Pesquisas) != 2 {
		t.Fatalf("surveys = %d, want 2", len(out.Pesquisas))
	}

	for _, p := range out.Pesquisas {
		switch p.Status {
		case models.SurveyConcluida:
			if p.Perfil == "" || p.MaxScore != 10 {
				t.Errorf("completed survey missing classification: %+v", p)
			}
		case models.SurveyEmAndamento:
			if p.Perfil != "" {
				t.Errorf("running survey must not be classified: %+v", p)
			}
		}
	}
}

func TestGetSurveyHandler(t *testing.T) {
	database := setupTestDB(t)
	p := seedPesquisa(t, database, "SURV-1", true)
	handler := NewSurveyHandlers(database)

	_, out, err := handler.GetSurvey(context.Background(), nil, GetSurveyInput{ID: p.ID})
	if err != nil {
		t.Fatalf("GetSurvey failed: %v", err)
	}
	if out.Data.Nome != "Maria Souza" {
		t.Errorf("answers missing: %+v", out.Data)
	}
	if out.Perfil != string(models.ProfileReativo) {
		t.Errorf("perfil = %q", out.Perfil)
	}

	if _, _, err := handler.GetSurvey(context.Background(), nil, GetSurveyInput{ID: "SURV-none"}); err == nil {
		t.Error("unknown survey must fail")
	}
}

func TestRegisterSaleHandler(t *testing.T) {
	database := setupTestDB(t)
	c := seedCliente(t, database)
	handler := NewSaleHandlers(database, syncpkg.NewCoordinator(db.NewStore(database)))

	input := RegisterSaleInput{
		ClienteID:      c.ID,
		NumeroContrato: "12345",
		VendedorID:     "vendedor-456",
		VendedorNome:   "Consultor de Campo",
	}
	_, out, err := handler.RegisterSale(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("RegisterSale failed: %v", err)
	}
	if out.NumeroContrato != "12345" || out.OrigemPesquisaID != "SURV-1" {
		t.Errorf("unexpected sale: %+v", out)
	}

	bad := input
	bad.NumeroContrato = "12"
	if _, _, err := handler.RegisterSale(context.Background(), nil, bad); err == nil {
		t.Error("short contract number must fail")
	}

	bad = input
	bad.ClienteID = "nope"
	if _, _, err := handler.RegisterSale(context.Background(), nil, bad); err == nil {
		t.Error("unknown client must fail")
	}

	_, sales, err := handler.ListSales(context.Background(), nil, ListSalesInput{VendedorID: "vendedor-456"})
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(sales.Vendas) != 1 {
		t.Errorf("sales = %d, want 1", len(sales.Vendas))
	}
}

func TestRegisterSaleSyncedFollowsConnectivity(t *testing.T) {
	database := setupTestDB(t)
	c := seedCliente(t, database)
	coord := syncpkg.NewCoordinator(db.NewStore(database))
	handler := NewSaleHandlers(database, coord)

	input := RegisterSaleInput{
		ClienteID:      c.ID,
		NumeroContrato: "11111",
		VendedorID:     "vendedor-456",
	}
	_, out, err := handler.RegisterSale(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("RegisterSale failed: %v", err)
	}
	if out.Synced {
		t.Error("sale created offline must start unsynced")
	}

	coord.SetOnline(true)
	input.NumeroContrato = "22222"
	_, out, err = handler.RegisterSale(context.Background(), nil, input)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Synced {
		t.Error("sale created online must start synced")
	}
}

func TestSyncHandlers(t *testing.T) {
	database := setupTestDB(t)
	seedCliente(t, database)
	seedPesquisa(t, database, "SURV-1", true)
	coord := syncpkg.NewCoordinator(db.NewStore(database))
	handler := NewSyncHandlers(database, coord)

	_, status, err := handler.SyncStatus(context.Background(), nil, SyncStatusInput{})
	if err != nil {
		t.Fatalf("SyncStatus failed: %v", err)
	}
	if status.Online {
		t.Error("coordinator starts offline")
	}
	if status.Pending != 2 {
		t.Errorf("pending = %d, want 2", status.Pending)
	}

	// Offline sync is a no-op.
	_, synced, err := handler.SyncAll(context.Background(), nil, SyncAllInput{})
	if err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}
	if synced.Synced != 0 {
		t.Errorf("offline sync flipped %d records", synced.Synced)
	}

	coord.SetOnline(true)
	_, synced, err = handler.SyncAll(context.Background(), nil, SyncAllInput{})
	if err != nil {
		t.Fatal(err)
	}
	if synced.Synced != 2 {
		t.Errorf("synced = %d, want 2", synced.Synced)
	}

	_, status, err = handler.SyncStatus(context.Background(), nil, SyncStatusInput{})
	if err != nil {
		t.Fatal(err)
	}
	if status.Pending != 0 {
		t.Errorf("pending after sync = %d, want 0", status.Pending)
	}
}
