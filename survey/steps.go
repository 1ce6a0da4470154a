// ABOUTME: Per-step validation rules for the survey script
// ABOUTME: Pure functions gating forward transitions of the state machine
package survey

import (
	"fmt"
	"strings"

	"github.com/grupoethernos/campo/models"
)

// Survey step numbers. Step 1 is the approach script, step 9 the summary.
const (
	StepIntro      = 1
	StepIdentity   = 2
	StepPreference = 3
	StepAssets     = 4
	StepProtection = 5
	StepDependents = 6
	StepClosing    = 7
	StepConsent    = 8
	StepSummary    = 9
)

// MinPhoneDigits is the minimum digit count for a usable WhatsApp/phone
// number: DDD plus an eight-digit landline.
const MinPhoneDigits = 10

// ValidationError marks a step whose required answers are missing.
// It blocks advancement only; callers retry after the answer is filled.
type ValidationError struct {
	Step   int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("etapa %d incompleta: %s", e.Step, e.Reason)
}

// StepComplete reports whether the given step has all required answers.
func StepComplete(step int, f models.FormData) bool {
	return ValidateStep(step, f) == nil
}

// ValidateStep checks one step's answers. It is deterministic and has no
// side effects; a nil return means the step may be advanced past.
func ValidateStep(step int, f models.FormData) error {
	fail := func(reason string) error {
		return &ValidationError{Step: step, Reason: reason}
	}

	switch step {
	case StepIdentity:
		if strings.TrimSpace(f.Nome) == "" {
			return fail("nome do entrevistado")
		}
		if strings.TrimSpace(f.Telefone) == "" {
			return fail("telefone")
		}
		if len(digitsOf(f.Telefone)) < MinPhoneDigits {
			return fail("telefone com DDD incompleto")
		}
		if strings.TrimSpace(f.Bairro) == "" {
			return fail("bairro")
		}
		if strings.TrimSpace(f.Cidade) == "" {
			return fail("cidade")
		}

	case StepPreference:
		if f.PerfilPreferencia == "" {
			return fail("preferência de atuação")
		}

	case StepAssets:
		switch f.CasaTipo {
		case models.CasaPropria:
			if f.SeguroResidencial == "" {
				return fail("seguro residencial")
			}
		case models.CasaAlugada:
			if f.OportunidadeResidencial == "" {
				return fail("oportunidade de seguro residencial")
			}
		default:
			return fail("tipo de moradia")
		}
		switch f.TemVeiculo {
		case models.Sim:
			if f.SeguroVeicular == "" {
				return fail("seguro veicular")
			}
		case models.Nao:
			if f.OportunidadeVeicular == "" {
				return fail("oportunidade de seguro veicular")
			}
		default:
			return fail("veículo próprio")
		}

	case StepProtection:
		if err := resolveBranch(step, f.PlanoSaude, f.OportunidadeSaude, "plano de saúde"); err != nil {
			return err
		}
		if err := resolveBranch(step, f.SeguroVida, f.OportunidadeVida, "seguro de vida"); err != nil {
			return err
		}
		if err := resolveBranch(step, f.PlanoFunerario, f.OportunidadeFunerario, "plano funerário"); err != nil {
			return err
		}

	case StepDependents:
		if len(f.Dependentes) == 0 {
			return fail("dependentes")
		}
		if f.PreparacaoFamilia == "" {
			return fail("preparação da família")
		}

	case StepClosing:
		if f.CustoImprevisto == "" {
			return fail("percepção de custo")
		}
		if f.MelhorFormaResolver == "" {
			return fail("melhor forma de resolver")
		}
		if f.ImportanciaFamilia == "" {
			return fail("importância para a família")
		}
		if f.InteresseConhecer == "" {
			return fail("interesse em conhecer")
		}

	case StepConsent:
		if f.PossoExplicar == "" {
			return fail("posso explicar")
		}
	}

	return nil
}

// resolveBranch checks a Sim/Não protection answer: affirmative resolves on
// its own, negative requires the "would acquire" sub-answer.
func resolveBranch(step int, primary, oportunidade, label string) error {
	switch primary {
	case models.Sim:
		return nil
	case models.Nao:
		if oportunidade == "" {
			return &ValidationError{Step: step, Reason: "oportunidade de " + label}
		}
		return nil
	default:
		return &ValidationError{Step: step, Reason: label}
	}
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
