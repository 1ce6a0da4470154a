// ABOUTME: Tests for the session service workflow
// ABOUTME: Covers login, shifts, survey lifecycle, resume repair, and sales

package session

import (
	"path/filepath"
	"testing"

	"github.com/grupoethernos/campo/db"
	"github.com/grupoethernos/campo/kvstore"
	"github.com/grupoethernos/campo/models"
	"github.com/grupoethernos/campo/registry"
	"github.com/grupoethernos/campo/survey"
	syncpkg "github.com/grupoethernos/campo/sync"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()

	database, err := db.OpenDatabase(filepath.Join(dir, "campo.db"))
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	kv, err := kvstore.Open(filepath.Join(dir, "state"))
	if err != nil {
		t.Fatalf("kvstore.Open failed: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })

	store := db.NewStore(database)
	coord := syncpkg.NewCoordinator(store)
	return NewService(database, kv, registry.New(store), coord, NullGeolocator{})
}

// fillIdentity answers step 2 so the survey can advance.
func fillIdentity(t *testing.T, s *Service) {
	t.Helper()
	for field, value := range map[survey.Field]string{
		survey.FieldNome:     "Maria Souza",
		survey.FieldTelefone: "(19) 99876-5432",
		survey.FieldBairro:   "Centro",
		survey.FieldCidade:   "Campinas",
	} {
		if err := s.UpdateAnswer(field, value); err != nil {
			t.Fatalf("UpdateAnswer(%s) failed: %v", field, err)
		}
	}
}

// runToSummary answers every gated step and advances to step 9.
func runToSummary(t *testing.T, s *Service) {
	t.Helper()
	if err := s.Advance(); err != nil { // intro -> identity
		t.Fatal(err)
	}
	fillIdentity(t, s)

	// Parent answers must land before their sub-answers: updating a
	// parent clears the branch.
	answers := []struct {
		field survey.Field
		value string
	}{
		{survey.FieldPerfilPreferencia, models.PrefPrevenirAntes},
		{survey.FieldCasaTipo, models.CasaPropria},
		{survey.FieldSeguroResidencial, models.Sim},
		{survey.FieldTemVeiculo, models.Nao},
		{survey.FieldOportunidadeVeicular, models.Talvez},
		{survey.FieldPlanoSaude, models.Sim},
		{survey.FieldSeguroVida, models.Sim},
		{survey.FieldPlanoFunerario, models.Sim},
		{survey.FieldPreparacaoFamilia, models.PrepPreparada},
		{survey.FieldCustoImprevisto, "Mais de R$ 10.000"},
		{survey.FieldMelhorFormaResolver, "Pagamento à vista"},
		{survey.FieldImportanciaFamilia, models.Sim},
		{survey.FieldInteresseConhecer, models.Sim},
		{survey.FieldPossoExplicar, models.Sim},
	}
	for _, a := range answers {
		if err := s.UpdateAnswer(a.field, a.value); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.ToggleDependent("Filhos"); err != nil {
		t.Fatal(err)
	}

	_, m, err := s.ActiveSurvey()
	if err != nil {
		t.Fatal(err)
	}
	for m.Step() < survey.StepSummary {
		if err := s.Advance(); err != nil {
			t.Fatalf("Advance from step %d failed: %v", m.Step(), err)
		}
	}
}

func startSurvey(t *testing.T, s *Service) *models.Pesquisa {
	t.Helper()
	if _, err := s.Login(models.RoleVendedor); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := s.StartActivity(); err != nil {
		t.Fatalf("StartActivity failed: %v", err)
	}
	p, err := s.StartSurvey()
	if err != nil {
		t.Fatalf("StartSurvey failed: %v", err)
	}
	return p
}

func TestLoginAndLogout(t *testing.T) {
	s := setupService(t)

	u, err := s.Login(models.RoleVendedor)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if u.ID != "vendedor-456" || u.Nome != "Consultor de Campo" {
		t.Errorf("unexpected identity: %+v", u)
	}

	admin, err := s.Login(models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if admin.ID != "admin-123" || admin.Nome != "Gestor Administrativo" {
		t.Errorf("unexpected admin identity: %+v", admin)
	}

	if _, err := s.Login(models.RoleSupervisor); err == nil {
		t.Error("expected error for role without mock identity")
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	cur, err := s.CurrentUser()
	if err != nil {
		t.Fatal(err)
	}
	if cur != nil {
		t.Error("user still present after logout")
	}
}

func TestActivityRequiresLogin(t *testing.T) {
	s := setupService(t)
	if _, err := s.StartActivity(); err != ErrNotLoggedIn {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestSurveyRequiresActiveSession(t *testing.T) {
	s := setupService(t)
	if _, err := s.Login(models.RoleVendedor); err != nil {
		t.Fatal(err)
	}
	if _, err := s.StartSurvey(); err != ErrNoActiveSession {
		t.Errorf("expected ErrNoActiveSession, got %v", err)
	}

	if _, err := s.StartActivity(); err != nil {
		t.Fatal(err)
	}
	if err := s.StopActivity(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.StartSurvey(); err != ErrNoActiveSession {
		t.Errorf("expected ErrNoActiveSession after stop, got %v", err)
	}
}

func TestSingleSurveyInProgress(t *testing.T) {
	s := setupService(t)
	p := startSurvey(t, s)
	if p.Status != models.SurveyEmAndamento || p.LastStep != survey.StepIntro {
		t.Errorf("unexpected new survey: %+v", p)
	}

	if _, err := s.StartSurvey(); err != ErrSurveyInProgress {
		t.Errorf("expected ErrSurveyInProgress, got %v", err)
	}
}

func TestCancelAtIntro(t *testing.T) {
	s := setupService(t)
	p := startSurvey(t, s)

	if err := s.CancelAtIntro(); err != nil {
		t.Fatalf("CancelAtIntro failed: %v", err)
	}

	rec, err := db.GetPesquisa(s.db, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Error("declined survey record should be deleted")
	}
	resumed, err := s.ResumeIfInProgress()
	if err != nil {
		t.Fatal(err)
	}
	if resumed != nil {
		t.Error("nothing should be resumable after decline")
	}

	// Past the intro, cancel is refused.
	p2 := startSurvey(t, s)
	if err := s.Advance(); err != nil {
		t.Fatal(err)
	}
	if err := s.CancelAtIntro(); err != ErrNotAtIntro {
		t.Errorf("expected ErrNotAtIntro, got %v", err)
	}
	if rec, _ := db.GetPesquisa(s.db, p2.ID); rec == nil {
		t.Error("record must survive a refused cancel")
	}
}

func TestProgressPersistsAcrossResume(t *testing.T) {
	s := setupService(t)
	p := startSurvey(t, s)
	if err := s.Advance(); err != nil {
		t.Fatal(err)
	}
	fillIdentity(t, s)

	// Simulate an app restart: drop in-memory state, resume from disk.
	s.machine = nil
	s.surveyID = ""
	resumed, err := s.ResumeIfInProgress()
	if err != nil {
		t.Fatalf("ResumeIfInProgress failed: %v", err)
	}
	if resumed == nil || resumed.ID != p.ID {
		t.Fatalf("expected survey %s, got %+v", p.ID, resumed)
	}
	if resumed.LastStep != survey.StepIdentity {
		t.Errorf("lastStep = %d, want %d", resumed.LastStep, survey.StepIdentity)
	}
	if resumed.Data.Nome != "Maria Souza" {
		t.Errorf("draft lost: %+v", resumed.Data)
	}
}

func TestResumeRepairsStalePointer(t *testing.T) {
	s := setupService(t)
	p := startSurvey(t, s)

	// Corrupt the pointer; the fallback scan must find the record and
	// repair it.
	if err := s.kv.Set(kvstore.KeyActiveSurvey, "SURV-GONE"); err != nil {
		t.Fatal(err)
	}
	resumed, err := s.ResumeIfInProgress()
	if err != nil {
		t.Fatal(err)
	}
	if resumed == nil || resumed.ID != p.ID {
		t.Fatalf("scan fallback failed: %+v", resumed)
	}

	var ptr string
	ok, err := s.kv.Get(kvstore.KeyActiveSurvey, &ptr)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || ptr != p.ID {
		t.Errorf("pointer not repaired: %q", ptr)
	}
}

func TestFinalize(t *testing.T) {
	s := setupService(t)
	p := startSurvey(t, s)
	runToSummary(t, s)

	done, c, err := s.Finalize()
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if done.ID != p.ID || done.Status != models.SurveyConcluida {
		t.Errorf("unexpected completed survey: %+v", done)
	}
	if done.TimestampEnd == nil {
		t.Error("completed survey must carry an end timestamp")
	}
	if done.Synced {
		t.Error("offline completion must not be marked synced")
	}
	if c.Telefone != "(19) 99876-5432" || !c.HasPesquisa(p.ID) {
		t.Errorf("unexpected client: %+v", c)
	}

	// The pointer is gone and nothing is resumable.
	resumed, err := s.ResumeIfInProgress()
	if err != nil {
		t.Fatal(err)
	}
	if resumed != nil {
		t.Error("completed survey must not resume")
	}

	if _, _, err := s.Finalize(); err != ErrNoActiveSurvey {
		t.Errorf("expected ErrNoActiveSurvey, got %v", err)
	}
}

func TestFinalizeRefusedBeforeSummary(t *testing.T) {
	s := setupService(t)
	startSurvey(t, s)
	if err := s.Advance(); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Finalize(); err == nil {
		t.Error("finalize before the summary step must fail")
	}
}

func TestRegisterSale(t *testing.T) {
	s := setupService(t)
	p := startSurvey(t, s)
	runToSummary(t, s)
	_, c, err := s.Finalize()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.RegisterSale(c.ID, "123"); err != ErrInvalidContrato {
		t.Errorf("expected ErrInvalidContrato for short number, got %v", err)
	}
	if _, err := s.RegisterSale(c.ID, "12a45"); err != ErrInvalidContrato {
		t.Errorf("expected ErrInvalidContrato for letters, got %v", err)
	}
	if _, err := s.RegisterSale("missing-id", "12345"); err != ErrClienteNotFound {
		t.Errorf("expected ErrClienteNotFound, got %v", err)
	}

	v, err := s.RegisterSale(c.ID, " 12345 ")
	if err != nil {
		t.Fatalf("RegisterSale failed: %v", err)
	}
	if v.NumeroContrato != "12345" {
		t.Errorf("contract = %q, want 12345", v.NumeroContrato)
	}
	if v.ClienteID != c.ID || v.NomeCliente != c.Nome || v.Telefone != c.Telefone {
		t.Errorf("sale must snapshot client identity: %+v", v)
	}
	if v.OrigemPesquisaID != p.ID {
		t.Errorf("origem = %q, want %q", v.OrigemPesquisaID, p.ID)
	}
	if v.VendedorID != "vendedor-456" {
		t.Errorf("vendedor = %q", v.VendedorID)
	}

	sales, err := db.FindVendas(s.db, "vendedor-456", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != 1 {
		t.Errorf("persisted sales = %d, want 1", len(sales))
	}
}

func TestStaticGeolocator(t *testing.T) {
	t.Setenv("CAMPO_LAT", "-22.9056")
	t.Setenv("CAMPO_LNG", "-47.0608")

	loc, err := StaticGeolocator{}.Locate()
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if loc.Lat != -22.9056 || loc.Lng != -47.0608 {
		t.Errorf("unexpected position: %+v", loc)
	}

	t.Setenv("CAMPO_LAT", "")
	if _, err := (StaticGeolocator{}).Locate(); err == nil {
		t.Error("unset position must fail")
	}
}
