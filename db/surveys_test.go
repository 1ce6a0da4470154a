// ABOUTME: Tests for survey record database operations
// ABOUTME: Validates progress writes, completion, deletion, and corrupt data recovery
package db

import (
	"testing"
	"time"

	"github.com/grupoethernos/campo/models"
)

func testPesquisa(id, userID string) *models.Pesquisa {
	return &models.Pesquisa{
		ID:             id,
		UserID:         userID,
		UserName:       "Consultor de Campo",
		TimestampStart: time.Now().UTC().Truncate(time.Second),
		LocationStart:  models.LatLng{Lat: -22.9, Lng: -47.06},
		Data:           models.FormData{},
		Status:         models.SurveyEmAndamento,
		LastStep:       1,
	}
}

func TestCreateAndGetPesquisa(t *testing.T) {
	db := setupTestDB(t)

	p := testPesquisa("SURV-1", "vendedor-456")
	if err := CreatePesquisa(db, p); err != nil {
		t.Fatalf("CreatePesquisa failed: %v", err)
	}

	got, err := GetPesquisa(db, "SURV-1")
	if err != nil {
		t.Fatalf("GetPesquisa failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a record")
	}
	if got.Status != models.SurveyEmAndamento || got.LastStep != 1 {
		t.Errorf("unexpected record state: %+v", got)
	}
	if got.LocationStart.Lat != -22.9 {
		t.Errorf("start location lost: %+v", got.LocationStart)
	}
	if got.TimestampEnd != nil || got.LocationEnd != nil {
		t.Error("in-progress record must have no end timestamp or location")
	}

	missing, err := GetPesquisa(db, "SURV-none")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestUpdatePesquisaProgress(t *testing.T) {
	db := setupTestDB(t)

	p := testPesquisa("SURV-1", "vendedor-456")
	if err := CreatePesquisa(db, p); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	f := models.FormData{Nome: "João", Telefone: "(19) 99876-5432"}
	if err := UpdatePesquisaProgress(db, "SURV-1", 3, f); err != nil {
		t.Fatalf("progress update failed: %v", err)
	}

	got, _ := GetPesquisa(db, "SURV-1")
	if got.LastStep != 3 {
		t.Errorf("expected last step 3, got %d", got.LastStep)
	}
	if got.Data.Nome != "João" {
		t.Errorf("draft answers were not persisted: %+v", got.Data)
	}
}

func TestCompletePesquisa(t *testing.T) {
	db := setupTestDB(t)

	p := testPesquisa("SURV-1", "vendedor-456")
	if err := CreatePesquisa(db, p); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	end := time.Now().UTC().Truncate(time.Second)
	p.Data.Nome = "João"
	p.TimestampEnd = &end
	p.LocationEnd = &models.LatLng{Lat: -22.91, Lng: -47.07}
	p.LastStep = 9
	p.Synced = true
	if err := CompletePesquisa(db, p); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	got, _ := GetPesquisa(db, "SURV-1")
	if got.Status != models.SurveyConcluida {
		t.Errorf("expected status concluida, got %s", got.Status)
	}
	if got.TimestampEnd == nil || !got.TimestampEnd.Equal(end) {
		t.Error("end timestamp not persisted")
	}
	if got.LocationEnd == nil || got.LocationEnd.Lat != -22.91 {
		t.Error("end location not persisted")
	}
	if !got.Synced {
		t.Error("synced flag not persisted")
	}

	// Completing twice must fail: a completed record is immutable.
	if err := CompletePesquisa(db, p); err == nil {
		t.Error("expected error when completing an already completed record")
	}

	// Progress writes must not touch completed records either.
	if err := UpdatePesquisaProgress(db, "SURV-1", 2, models.FormData{}); err != nil {
		t.Fatalf("progress update errored: %v", err)
	}
	got, _ = GetPesquisa(db, "SURV-1")
	if got.LastStep != 9 {
		t.Error("progress write mutated a completed record")
	}
}

func TestDeletePesquisaLeavesNoOrphan(t *testing.T) {
	db := setupTestDB(t)

	if err := CreatePesquisa(db, testPesquisa("SURV-1", "vendedor-456")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := DeletePesquisa(db, "SURV-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if got, _ := GetPesquisa(db, "SURV-1"); got != nil {
		t.Error("record survived deletion")
	}
	if got, _ := FindPesquisaEmAndamento(db, "vendedor-456"); got != nil {
		t.Error("in-progress scan found a deleted record")
	}
}

func TestFindPesquisaEmAndamento(t *testing.T) {
	db := setupTestDB(t)

	done := testPesquisa("SURV-1", "vendedor-456")
	if err := CreatePesquisa(db, done); err != nil {
		t.Fatal(err)
	}
	end := time.Now()
	done.TimestampEnd = &end
	done.LastStep = 9
	if err := CompletePesquisa(db, done); err != nil {
		t.Fatal(err)
	}

	active := testPesquisa("SURV-2", "vendedor-456")
	if err := CreatePesquisa(db, active); err != nil {
		t.Fatal(err)
	}

	got, err := FindPesquisaEmAndamento(db, "vendedor-456")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if got == nil || got.ID != "SURV-2" {
		t.Errorf("expected SURV-2, got %+v", got)
	}

	if other, _ := FindPesquisaEmAndamento(db, "vendedor-999"); other != nil {
		t.Error("scan matched another consultant's record")
	}
}

func TestCorruptAnswersDegradeToEmpty(t *testing.T) {
	db := setupTestDB(t)

	if err := CreatePesquisa(db, testPesquisa("SURV-1", "vendedor-456")); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`UPDATE pesquisas SET data = 'not json' WHERE id = 'SURV-1'`); err != nil {
		t.Fatal(err)
	}

	got, err := GetPesquisa(db, "SURV-1")
	if err != nil {
		t.Fatalf("corrupt answers must not fail the load: %v", err)
	}
	if got.Data.Nome != "" || len(got.Data.Dependentes) != 0 {
		t.Errorf("expected empty answers, got %+v", got.Data)
	}
}
