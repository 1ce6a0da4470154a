// ABOUTME: Session service owning login, activity shifts, and the active survey
// ABOUTME: Coordinates the survey machine, sqlite records, and kv session state

package session

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/grupoethernos/campo/db"
	"github.com/grupoethernos/campo/kvstore"
	"github.com/grupoethernos/campo/models"
	"github.com/grupoethernos/campo/registry"
	"github.com/grupoethernos/campo/survey"
	syncpkg "github.com/grupoethernos/campo/sync"
)

var (
	ErrNotLoggedIn      = errors.New("no user is logged in")
	ErrNoActiveSession  = errors.New("no activity session is active")
	ErrSurveyInProgress = errors.New("a survey is already in progress")
	ErrNoActiveSurvey   = errors.New("no survey is in progress")
	ErrClienteNotFound  = errors.New("client not found")
	ErrInvalidContrato  = errors.New("contract number must be exactly 5 digits")
	ErrNotAtIntro       = errors.New("survey has moved past the introduction")
)

// Mock identities. There is no real authentication in the field build;
// the role picked at login maps to a fixed user.
var mockUsers = map[models.UserRole]models.User{
	models.RoleVendedor: {ID: "vendedor-456", Nome: "Consultor de Campo", Role: models.RoleVendedor, Status: models.StatusAtivo},
	models.RoleAdmin:    {ID: "admin-123", Nome: "Gestor Administrativo", Role: models.RoleAdmin, Status: models.StatusAtivo},
}

// Service owns the device-local workflow: who is logged in, whether a
// field shift is open, and the single survey that may be in progress.
type Service struct {
	db       *sql.DB
	kv       *kvstore.Store
	registry *registry.Registry
	coord    *syncpkg.Coordinator
	geo      Geolocator

	machine  *survey.Machine
	surveyID string
	entropy  *ulid.MonotonicEntropy
}

func NewService(database *sql.DB, kv *kvstore.Store, reg *registry.Registry, coord *syncpkg.Coordinator, geo Geolocator) *Service {
	return &Service{
		db:       database,
		kv:       kv,
		registry: reg,
		coord:    coord,
		geo:      geo,
		entropy:  ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Login records the mock identity for role. Unknown roles fail.
func (s *Service) Login(role models.UserRole) (*models.User, error) {
	u, ok := mockUsers[role]
	if !ok {
		return nil, fmt.Errorf("no identity configured for role %q", role)
	}
	if err := s.kv.Set(kvstore.KeyCurrentUser, u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CurrentUser returns the logged-in user, or nil when nobody is.
func (s *Service) CurrentUser() (*models.User, error) {
	var u models.User
	ok, err := s.kv.Get(kvstore.KeyCurrentUser, &u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// Logout clears every piece of session state. An in-progress survey
// stays in the database and can be resumed after the next login.
func (s *Service) Logout() error {
	for _, key := range []string{kvstore.KeyCurrentUser, kvstore.KeyActiveSession, kvstore.KeyActiveSurvey} {
		if err := s.kv.Delete(key); err != nil {
			return err
		}
	}
	s.machine = nil
	s.surveyID = ""
	return nil
}

// StartActivity opens a field shift. Geolocation failure is not an
// error; the shift starts with the zero position.
func (s *Service) StartActivity() (*models.ActivitySession, error) {
	u, err := s.CurrentUser()
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotLoggedIn
	}

	sess := models.ActivitySession{StartTime: time.Now()}
	if loc, err := s.geo.Locate(); err != nil {
		log.Printf("Warning: starting activity without location: %v", err)
	} else {
		sess.StartLocation = loc
	}

	if err := s.kv.Set(kvstore.KeyActiveSession, sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// ActiveSession returns the open shift, or nil.
func (s *Service) ActiveSession() (*models.ActivitySession, error) {
	var sess models.ActivitySession
	ok, err := s.kv.Get(kvstore.KeyActiveSession, &sess)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

// StopActivity closes the open shift.
func (s *Service) StopActivity() error {
	sess, err := s.ActiveSession()
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrNoActiveSession
	}
	return s.kv.Delete(kvstore.KeyActiveSession)
}

// newSurveyID mints ids like SURV-01J8ZK8F9Q3T5W7X9Y1Z2A3B4C.
func (s *Service) newSurveyID() string {
	return "SURV-" + ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// StartSurvey creates an in-progress survey record and makes it the
// active one. Requires a logged-in user with an open shift, and at
// most one survey may be in progress per consultant.
func (s *Service) StartSurvey() (*models.Pesquisa, error) {
	u, err := s.CurrentUser()
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotLoggedIn
	}
	sess, err := s.ActiveSession()
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}

	if existing, err := s.ResumeIfInProgress(); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrSurveyInProgress
	}

	p := &models.Pesquisa{
		ID:             s.newSurveyID(),
		UserID:         u.ID,
		UserName:       u.Nome,
		TimestampStart: time.Now(),
		Status:         models.SurveyEmAndamento,
		LastStep:       survey.StepIntro,
	}
	if loc, err := s.geo.Locate(); err != nil {
		log.Printf("Warning: starting survey without location: %v", err)
	} else {
		p.LocationStart = loc
	}

	if err := db.CreatePesquisa(s.db, p); err != nil {
		return nil, err
	}
	if err := s.kv.Set(kvstore.KeyActiveSurvey, p.ID); err != nil {
		return nil, err
	}

	s.machine = survey.NewMachine()
	s.surveyID = p.ID
	return p, nil
}

// ResumeIfInProgress restores the active survey, preferring the kv
// pointer and falling back to a status scan when the pointer is stale.
// Returns nil when there is nothing to resume.
func (s *Service) ResumeIfInProgress() (*models.Pesquisa, error) {
	u, err := s.CurrentUser()
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotLoggedIn
	}

	var p *models.Pesquisa
	var id string
	ok, err := s.kv.Get(kvstore.KeyActiveSurvey, &id)
	if err != nil {
		return nil, err
	}
	if ok {
		p, err = db.GetPesquisa(s.db, id)
		if err != nil {
			return nil, err
		}
		if p != nil && p.Status != models.SurveyEmAndamento {
			p = nil
		}
	}

	if p == nil {
		// Stale or missing pointer. Scan once and repair it.
		p, err = db.FindPesquisaEmAndamento(s.db, u.ID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			if ok {
				if err := s.kv.Delete(kvstore.KeyActiveSurvey); err != nil {
					return nil, err
				}
			}
			s.machine = nil
			s.surveyID = ""
			return nil, nil
		}
		if err := s.kv.Set(kvstore.KeyActiveSurvey, p.ID); err != nil {
			return nil, err
		}
	}

	s.machine = survey.Resume(p.LastStep, p.Data)
	s.surveyID = p.ID
	return p, nil
}

// ActiveSurvey returns the in-memory machine state, or an error when
// no survey is loaded.
func (s *Service) ActiveSurvey() (string, *survey.Machine, error) {
	if s.machine == nil {
		return "", nil, ErrNoActiveSurvey
	}
	return s.surveyID, s.machine, nil
}

// persistProgress writes the draft and step after every mutation so a
// crash or battery death loses at most the keystroke in flight.
func (s *Service) persistProgress() error {
	return db.UpdatePesquisaProgress(s.db, s.surveyID, s.machine.Step(), s.machine.Draft())
}

// UpdateAnswer records an answer on the active survey.
func (s *Service) UpdateAnswer(field survey.Field, value string) error {
	if s.machine == nil {
		return ErrNoActiveSurvey
	}
	s.machine.Update(field, value)
	return s.persistProgress()
}

// ToggleDependent toggles a dependents category on the active survey.
func (s *Service) ToggleDependent(cat string) error {
	if s.machine == nil {
		return ErrNoActiveSurvey
	}
	s.machine.ToggleDependent(cat)
	return s.persistProgress()
}

// Advance moves the active survey to the next step when the current
// one validates.
func (s *Service) Advance() error {
	if s.machine == nil {
		return ErrNoActiveSurvey
	}
	if err := s.machine.Advance(); err != nil {
		return err
	}
	return s.persistProgress()
}

// Retreat moves the active survey one step back.
func (s *Service) Retreat() error {
	if s.machine == nil {
		return ErrNoActiveSurvey
	}
	if !s.machine.Retreat() {
		return nil
	}
	return s.persistProgress()
}

// CancelAtIntro deletes the active survey when the resident declines
// before any answers are taken. Leaves no orphan record or pointer.
func (s *Service) CancelAtIntro() error {
	if s.machine == nil {
		return ErrNoActiveSurvey
	}
	if s.machine.Step() != survey.StepIntro {
		return ErrNotAtIntro
	}
	if err := db.DeletePesquisa(s.db, s.surveyID); err != nil {
		return err
	}
	if err := s.kv.Delete(kvstore.KeyActiveSurvey); err != nil {
		return err
	}
	s.machine = nil
	s.surveyID = ""
	return nil
}

// Finalize completes the active survey: classifies the answers,
// records completion, and upserts the client registry entry. The
// record and the client carry the connectivity-derived synced flag.
func (s *Service) Finalize() (*models.Pesquisa, *models.Cliente, error) {
	if s.machine == nil {
		return nil, nil, ErrNoActiveSurvey
	}
	u, err := s.CurrentUser()
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		return nil, nil, ErrNotLoggedIn
	}

	snapshot, profile, err := s.machine.Finalize()
	if err != nil {
		return nil, nil, err
	}

	p, err := db.GetPesquisa(s.db, s.surveyID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, fmt.Errorf("survey %s disappeared", s.surveyID)
	}

	now := time.Now()
	p.Data = snapshot
	p.TimestampEnd = &now
	p.LastStep = survey.StepSummary
	p.Synced = s.coord.CreatedSynced()
	if loc, err := s.geo.Locate(); err != nil {
		log.Printf("Warning: completing survey without location: %v", err)
	} else {
		p.LocationEnd = &loc
	}

	if err := db.CompletePesquisa(s.db, p); err != nil {
		return nil, nil, err
	}
	p.Status = models.SurveyConcluida

	c, err := s.registry.Upsert(u.ID, u.Nome, snapshot, p.ID, now, s.coord.CreatedSynced())
	if err != nil {
		return nil, nil, fmt.Errorf("survey %s completed but client upsert failed: %w", p.ID, err)
	}

	if err := s.kv.Delete(kvstore.KeyActiveSurvey); err != nil {
		return nil, nil, err
	}
	s.machine = nil
	s.surveyID = ""

	log.Printf("Survey %s completed: profile %s", p.ID, profile)
	return p, c, nil
}

// RegisterSale records a closed contract for an existing client. The
// contract number must be exactly five digits. The sale snapshots the
// client's identity and points back at their first survey.
func (s *Service) RegisterSale(clienteID, numeroContrato string) (*models.Venda, error) {
	u, err := s.CurrentUser()
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotLoggedIn
	}

	contrato := strings.TrimSpace(numeroContrato)
	if !models.ValidNumeroContrato(contrato) {
		return nil, ErrInvalidContrato
	}

	c, err := db.GetCliente(s.db, clienteID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrClienteNotFound
	}

	v := &models.Venda{
		ID:             uuid.New().String(),
		ClienteID:      c.ID,
		NomeCliente:    c.Nome,
		Telefone:       c.Telefone,
		Endereco:       c.Endereco,
		NumeroContrato: contrato,
		VendedorID:     u.ID,
		VendedorNome:   u.Nome,
		DataFechamento: time.Now(),
		StatusVenda:    models.StatusAtivo,
		CriadoEm:       time.Now(),
		Synced:         s.coord.CreatedSynced(),
	}
	if len(c.PesquisaIDs) > 0 {
		v.OrigemPesquisaID = c.PesquisaIDs[0]
	}

	if err := db.CreateVenda(s.db, v); err != nil {
		return nil, err
	}
	return v, nil
}
