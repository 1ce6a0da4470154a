// ABOUTME: Survey state machine owning the in-progress answers draft
// ABOUTME: Handles step transitions, sub-answer clearing, and finalization
package survey

import (
	"errors"

	"github.com/grupoethernos/campo/models"
)

// ErrNotAtSummary is returned by Finalize when the interview has not
// reached the summary step yet.
var ErrNotAtSummary = errors.New("survey: finalize requires the summary step")

// Field identifies an updatable answer. Values match the FormData JSON keys.
type Field string

const (
	FieldNome     Field = "nome"
	FieldTelefone Field = "telefone"
	FieldBairro   Field = "bairro"
	FieldCidade   Field = "cidade"

	FieldPerfilPreferencia Field = "perfilPreferencia"

	FieldCasaTipo                Field = "casaTipo"
	FieldSeguroResidencial       Field = "seguroResidencial"
	FieldOportunidadeResidencial Field = "oportunidadeResidencial"

	FieldTemVeiculo           Field = "temVeiculo"
	FieldSeguroVeicular       Field = "seguroVeicular"
	FieldOportunidadeVeicular Field = "oportunidadeVeicular"

	FieldPlanoSaude        Field = "planoSaude"
	FieldOportunidadeSaude Field = "oportunidadeSaude"

	FieldSeguroVida       Field = "seguroVida"
	FieldOportunidadeVida Field = "oportunidadeVida"

	FieldPlanoFunerario        Field = "planoFunerario"
	FieldOportunidadeFunerario Field = "oportunidadeFunerario"

	FieldPreparacaoFamilia   Field = "preparacaoFamilia"
	FieldCustoImprevisto     Field = "custoImprevisto"
	FieldMelhorFormaResolver Field = "melhorFormaResolver"
	FieldImportanciaFamilia  Field = "importanciaFamilia"
	FieldInteresseConhecer   Field = "interesseConhecer"
	FieldPossoExplicar       Field = "possoExplicar"
	FieldObservacoes         Field = "observacoes"
)

// Machine drives one interview: it exclusively owns the draft answers
// until Finalize hands a snapshot to the caller.
type Machine struct {
	step  int
	draft models.FormData
}

// NewMachine starts a fresh interview at the approach step.
func NewMachine() *Machine {
	return &Machine{step: StepIntro}
}

// Resume rebuilds a machine from a persisted in-progress record. The step
// is clamped into the valid range so a damaged record still resumes.
func Resume(step int, draft models.FormData) *Machine {
	if step < StepIntro {
		step = StepIntro
	}
	if step > StepSummary {
		step = StepSummary
	}
	return &Machine{step: step, draft: draft.Clone()}
}

// Step returns the current step number, 1..9.
func (m *Machine) Step() int {
	return m.step
}

// Draft returns a copy of the current answers.
func (m *Machine) Draft() models.FormData {
	return m.draft.Clone()
}

// Advance moves to the next step if the current one validates. At the
// summary step it is a guarded no-op. The returned *ValidationError is
// retryable, never fatal.
func (m *Machine) Advance() error {
	if m.step >= StepSummary {
		return nil
	}
	if err := ValidateStep(m.step, m.draft); err != nil {
		return err
	}
	m.step++
	return nil
}

// Retreat steps back one screen without touching the answers. It reports
// whether a move happened.
func (m *Machine) Retreat() bool {
	if m.step <= StepIntro {
		return false
	}
	m.step--
	return true
}

// Update merges one answer into the draft. Changing a parent answer
// (housing, vehicle, the three protection flags) clears its conditional
// sub-answers in the same operation so no stale branch survives.
func (m *Machine) Update(field Field, value string) {
	switch field {
	case FieldNome:
		m.draft.Nome = value
	case FieldTelefone:
		m.draft.Telefone = value
	case FieldBairro:
		m.draft.Bairro = value
	case FieldCidade:
		m.draft.Cidade = value
	case FieldPerfilPreferencia:
		m.draft.PerfilPreferencia = value

	case FieldCasaTipo:
		if m.draft.CasaTipo != value {
			m.draft.SeguroResidencial = ""
			m.draft.OportunidadeResidencial = ""
		}
		m.draft.CasaTipo = value
	case FieldSeguroResidencial:
		m.draft.SeguroResidencial = value
	case FieldOportunidadeResidencial:
		m.draft.OportunidadeResidencial = value

	case FieldTemVeiculo:
		if m.draft.TemVeiculo != value {
			m.draft.SeguroVeicular = ""
			m.draft.OportunidadeVeicular = ""
		}
		m.draft.TemVeiculo = value
	case FieldSeguroVeicular:
		m.draft.SeguroVeicular = value
	case FieldOportunidadeVeicular:
		m.draft.OportunidadeVeicular = value

	case FieldPlanoSaude:
		if m.draft.PlanoSaude != value {
			m.draft.OportunidadeSaude = ""
		}
		m.draft.PlanoSaude = value
	case FieldOportunidadeSaude:
		m.draft.OportunidadeSaude = value

	case FieldSeguroVida:
		if m.draft.SeguroVida != value {
			m.draft.OportunidadeVida = ""
		}
		m.draft.SeguroVida = value
	case FieldOportunidadeVida:
		m.draft.OportunidadeVida = value

	case FieldPlanoFunerario:
		if m.draft.PlanoFunerario != value {
			m.draft.OportunidadeFunerario = ""
		}
		m.draft.PlanoFunerario = value
	case FieldOportunidadeFunerario:
		m.draft.OportunidadeFunerario = value

	case FieldPreparacaoFamilia:
		m.draft.PreparacaoFamilia = value
	case FieldCustoImprevisto:
		m.draft.CustoImprevisto = value
	case FieldMelhorFormaResolver:
		m.draft.MelhorFormaResolver = value
	case FieldImportanciaFamilia:
		m.draft.ImportanciaFamilia = value
	case FieldInteresseConhecer:
		m.draft.InteresseConhecer = value
	case FieldPossoExplicar:
		m.draft.PossoExplicar = value
	case FieldObservacoes:
		m.draft.Observacoes = value
	}
}

// ToggleDependent flips one dependents category. The "Não" sentinel
// replaces the whole set; selecting any category removes the sentinel.
func (m *Machine) ToggleDependent(cat string) {
	if cat == models.Nao {
		m.draft.Dependentes = []string{models.Nao}
		return
	}

	var deps []string
	removed := false
	for _, d := range m.draft.Dependentes {
		if d == cat {
			removed = true
			continue
		}
		if d == models.Nao {
			continue
		}
		deps = append(deps, d)
	}
	if !removed {
		deps = append(deps, cat)
	}
	m.draft.Dependentes = deps
}

// Finalize produces the immutable answers snapshot and its classification.
// Only callable from the summary step; it does not persist anything.
func (m *Machine) Finalize() (models.FormData, models.ProfileType, error) {
	if m.step != StepSummary {
		return models.FormData{}, "", ErrNotAtSummary
	}
	snapshot := m.draft.Clone()
	return snapshot, CalculateProfile(snapshot), nil
}
