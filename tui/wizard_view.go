// ABOUTME: Survey wizard view walking the nine steps of the field questionnaire
// ABOUTME: Choice lists with conditional sub-questions, identity form, summary + finalize
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/grupoethernos/campo/models"
	"github.com/grupoethernos/campo/survey"
)

// choice is one selectable line of the current wizard step. Dependent
// category lines toggle instead of selecting.
type choice struct {
	prompt string
	field  survey.Field
	value  string
	depCat string
}

var stepTitles = map[int]string{
	survey.StepIntro:      "Apresentação",
	survey.StepIdentity:   "Identificação",
	survey.StepPreference: "Preferência de Perfil",
	survey.StepAssets:     "Patrimônio",
	survey.StepProtection: "Proteções",
	survey.StepDependents: "Dependentes",
	survey.StepClosing:    "Fechamento",
	survey.StepConsent:    "Consentimento",
	survey.StepSummary:    "Resumo",
}

var dependentCategories = []string{
	models.Nao, "Cônjuge", "Filhos", "Pais", "Sogros", "Outros",
}

func (m *Model) enterWizard() {
	m.viewMode = ViewWizard
	m.cursor = 0
	m.focusIndex = 0
	m.errMsg = ""
	m.setupIdentityInputs()
}

func (m *Model) setupIdentityInputs() {
	_, machine, err := m.svc.ActiveSurvey()
	if err != nil {
		return
	}
	draft := machine.Draft()

	m.formInputs = make([]textinput.Model, 4)
	labels := []string{"Nome completo", "Telefone", "Bairro", "Cidade"}
	values := []string{draft.Nome, draft.Telefone, draft.Bairro, draft.Cidade}
	for i := range m.formInputs {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.SetValue(values[i])
		ti.CharLimit = 100
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.formInputs[i] = ti
	}
}

// choicesForStep flattens the current step's questions into one cursor list.
// Sub-questions appear only when the parent answer selects their branch.
func choicesForStep(step int, f models.FormData) []choice {
	var cs []choice
	add := func(prompt string, field survey.Field, opts ...string) {
		for _, o := range opts {
			cs = append(cs, choice{prompt: prompt, field: field, value: o})
		}
	}

	switch step {
	case survey.StepPreference:
		add("O que você prefere?", survey.FieldPerfilPreferencia,
			models.PrefPrevenirAntes, models.PrefUltimaHora, models.PrefNuncaPensou)

	case survey.StepAssets:
		add("Sua casa é:", survey.FieldCasaTipo, models.CasaPropria, models.CasaAlugada)
		if f.CasaTipo == models.CasaPropria {
			add("Possui seguro residencial?", survey.FieldSeguroResidencial, models.Sim, models.Nao)
		}
		if f.CasaTipo == models.CasaAlugada {
			add("Teria um seguro se tivesse a oportunidade?", survey.FieldOportunidadeResidencial, models.Sim, models.Nao)
		}
		add("Possui veículo?", survey.FieldTemVeiculo, models.Sim, models.Nao)
		if f.TemVeiculo == models.Sim {
			add("Possui seguro veicular?", survey.FieldSeguroVeicular, models.Sim, models.Nao)
		}
		if f.TemVeiculo == models.Nao {
			add("Teria um se tivesse a oportunidade?", survey.FieldOportunidadeVeicular, models.Sim, models.Nao)
		}

	case survey.StepProtection:
		add("Possui plano de saúde?", survey.FieldPlanoSaude, models.Sim, models.Nao)
		if f.PlanoSaude == models.Nao {
			add("Teria um se tivesse a oportunidade?", survey.FieldOportunidadeSaude, models.Sim, models.Nao)
		}
		add("Possui seguro de vida?", survey.FieldSeguroVida, models.Sim, models.Nao)
		if f.SeguroVida == models.Nao {
			add("Teria um se tivesse a oportunidade?", survey.FieldOportunidadeVida, models.Sim, models.Nao)
		}
		add("Possui plano funerário?", survey.FieldPlanoFunerario, models.Sim, models.Nao)
		if f.PlanoFunerario == models.Nao {
			add("Teria um se tivesse a oportunidade?", survey.FieldOportunidadeFunerario, models.Sim, models.Nao)
		}

	case survey.StepDependents:
		for _, cat := range dependentCategories {
			cs = append(cs, choice{prompt: "Quem depende de você?", depCat: cat})
		}
		add("Como sua família estaria preparada numa perda?", survey.FieldPreparacaoFamilia,
			models.PrepPreparada, models.PrepParcial, models.PrepNada)

	case survey.StepClosing:
		add("Sabe quanto custa um imprevisto grave?", survey.FieldCustoImprevisto,
			"Já sei", "Tenho uma ideia", "Nunca pensou nisso")
		add("Qual a melhor forma de resolver?", survey.FieldMelhorFormaResolver,
			"Pagar tudo de uma vez", "Ter tudo organizado antes", "Contar com ajuda de terceiros")
		add("O que seria mais importante para sua família?", survey.FieldImportanciaFamilia,
			"Tranquilidade", "Organização", "Apoio", "Todas as opções")
		add("Teria interesse em conhecer uma solução?", survey.FieldInteresseConhecer,
			models.Sim, models.Talvez, models.Nao)

	case survey.StepConsent:
		add("Posso explicar como funciona?", survey.FieldPossoExplicar,
			models.Sim, models.Nao)
	}

	return cs
}

func choiceSelected(c choice, f models.FormData) bool {
	if c.depCat != "" {
		for _, d := range f.Dependentes {
			if d == c.depCat {
				return true
			}
		}
		return false
	}
	return fieldValue(c.field, f) == c.value
}

func fieldValue(field survey.Field, f models.FormData) string {
	switch field {
	case survey.FieldPerfilPreferencia:
		return f.PerfilPreferencia
	case survey.FieldCasaTipo:
		return f.CasaTipo
	case survey.FieldSeguroResidencial:
		return f.SeguroResidencial
	case survey.FieldOportunidadeResidencial:
		return f.OportunidadeResidencial
	case survey.FieldTemVeiculo:
		return f.TemVeiculo
	case survey.FieldSeguroVeicular:
		return f.SeguroVeicular
	case survey.FieldOportunidadeVeicular:
		return f.OportunidadeVeicular
	case survey.FieldPlanoSaude:
		return f.PlanoSaude
	case survey.FieldOportunidadeSaude:
		return f.OportunidadeSaude
	case survey.FieldSeguroVida:
		return f.SeguroVida
	case survey.FieldOportunidadeVida:
		return f.OportunidadeVida
	case survey.FieldPlanoFunerario:
		return f.PlanoFunerario
	case survey.FieldOportunidadeFunerario:
		return f.OportunidadeFunerario
	case survey.FieldPreparacaoFamilia:
		return f.PreparacaoFamilia
	case survey.FieldCustoImprevisto:
		return f.CustoImprevisto
	case survey.FieldMelhorFormaResolver:
		return f.MelhorFormaResolver
	case survey.FieldImportanciaFamilia:
		return f.ImportanciaFamilia
	case survey.FieldInteresseConhecer:
		return f.InteresseConhecer
	case survey.FieldPossoExplicar:
		return f.PossoExplicar
	}
	return ""
}

func (m Model) handleWizardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, machine, err := m.svc.ActiveSurvey()
	if err != nil {
		m.viewMode = ViewDashboard
		return m, nil
	}
	step := machine.Step()

	switch step {
	case survey.StepIntro:
		return m.handleIntroKeys(msg)
	case survey.StepIdentity:
		return m.handleIdentityKeys(msg)
	case survey.StepSummary:
		return m.handleSummaryKeys(msg)
	default:
		return m.handleChoiceKeys(msg, machine.Draft(), step)
	}
}

func (m Model) handleIntroKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if err := m.svc.Advance(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.setupIdentityInputs()
	case "esc", "n":
		// Declined the approach: the survey is discarded.
		if err := m.svc.CancelAtIntro(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.viewMode = ViewDashboard
		m.statusMsg = "Abordagem recusada"
	}
	return m, nil
}

func (m Model) handleIdentityKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := []survey.Field{survey.FieldNome, survey.FieldTelefone, survey.FieldBairro, survey.FieldCidade}

	switch msg.String() {
	case "tab", "down":
		m.saveIdentityField(fields)
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.refocusInputs()
		return m, nil
	case "shift+tab", "up":
		m.saveIdentityField(fields)
		m.focusIndex--
		if m.focusIndex < 0 {
			m.focusIndex = len(m.formInputs) - 1
		}
		m.refocusInputs()
		return m, nil
	case "enter":
		m.saveIdentityField(fields)
		if err := m.svc.Advance(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.cursor = 0
		return m, nil
	case "left":
		if m.formInputs[m.focusIndex].Position() == 0 {
			m.saveIdentityField(fields)
			if err := m.svc.Retreat(); err == nil {
				m.errMsg = ""
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	m.saveIdentityField(fields)
	return m, cmd
}

func (m *Model) saveIdentityField(fields []survey.Field) {
	if m.focusIndex < len(fields) {
		_ = m.svc.UpdateAnswer(fields[m.focusIndex], m.formInputs[m.focusIndex].Value())
	}
}

func (m *Model) refocusInputs() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m Model) handleChoiceKeys(msg tea.KeyMsg, draft models.FormData, step int) (tea.Model, tea.Cmd) {
	cs := choicesForStep(step, draft)

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(cs)-1 {
			m.cursor++
		}
	case " ", "space":
		if m.cursor < len(cs) {
			c := cs[m.cursor]
			if c.depCat != "" {
				_ = m.svc.ToggleDependent(c.depCat)
			} else {
				_ = m.svc.UpdateAnswer(c.field, c.value)
			}
			m.errMsg = ""
			// Selecting a parent can shrink the list.
			if _, machine, err := m.svc.ActiveSurvey(); err == nil {
				if fresh := choicesForStep(step, machine.Draft()); m.cursor >= len(fresh) {
					m.cursor = len(fresh) - 1
				}
			}
		}
	case "enter":
		if err := m.svc.Advance(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.cursor = 0
	case "left", "esc":
		if err := m.svc.Retreat(); err == nil {
			m.errMsg = ""
			m.cursor = 0
			if _, machine, aerr := m.svc.ActiveSurvey(); aerr == nil && machine.Step() == survey.StepIdentity {
				m.setupIdentityInputs()
				m.focusIndex = 0
			}
		}
	}
	return m, nil
}

func (m Model) handleSummaryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		p, c, err := m.svc.Finalize()
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.viewMode = ViewDashboard
		m.statusMsg = fmt.Sprintf("Pesquisa concluída: %s (%s)", c.Nome, survey.CalculateProfile(p.Data))
	case "left", "esc":
		if err := m.svc.Retreat(); err == nil {
			m.errMsg = ""
			m.cursor = 0
		}
	}
	return m, nil
}

func (m Model) renderWizardView() string {
	_, machine, err := m.svc.ActiveSurvey()
	if err != nil {
		return errorStyle.Render("Nenhuma pesquisa ativa")
	}
	step := machine.Step()
	draft := machine.Draft()

	var s strings.Builder
	s.WriteString(titleStyle.Render("📋 Nova Pesquisa") + "\n")
	s.WriteString(stepStyle.Render(fmt.Sprintf(" Etapa %d/%d — %s ", step, survey.StepSummary, stepTitles[step])) + "\n\n")

	switch step {
	case survey.StepIntro:
		s.WriteString("Bom dia! Somos do Grupo Ethernos e estamos fazendo um\n")
		s.WriteString("levantamento rápido sobre prevenção no seu bairro.\n")
		s.WriteString("Podemos conversar por dois minutos?\n")
		s.WriteString(helpStyle.Render("enter: aceitar • esc: recusar (descarta a pesquisa)"))
	case survey.StepIdentity:
		for i, ti := range m.formInputs {
			cursor := "  "
			if i == m.focusIndex {
				cursor = selectedStyle.Render("> ")
			}
			s.WriteString(fmt.Sprintf("%s%s: %s\n", cursor, ti.Placeholder, ti.View()))
		}
		s.WriteString(helpStyle.Render("tab: próximo campo • enter: avançar • ctrl+c: sair"))
	case survey.StepSummary:
		s.WriteString(renderSummary(draft))
		s.WriteString(helpStyle.Render("enter: concluir pesquisa • esc: voltar"))
	default:
		cs := choicesForStep(step, draft)
		lastPrompt := ""
		for i, c := range cs {
			if c.prompt != lastPrompt {
				if lastPrompt != "" {
					s.WriteString("\n")
				}
				s.WriteString(selectedStyle.Render(c.prompt) + "\n")
				lastPrompt = c.prompt
			}
			cursor := "  "
			if i == m.cursor {
				cursor = "> "
			}
			mark := "○"
			if choiceSelected(c, draft) {
				mark = "●"
			}
			label := c.value
			if c.depCat != "" {
				label = c.depCat
				mark = "☐"
				if choiceSelected(c, draft) {
					mark = "☑"
				}
			}
			s.WriteString(fmt.Sprintf("%s%s %s\n", cursor, mark, label))
		}
		s.WriteString(helpStyle.Render("↑/↓: navegar • espaço: marcar • enter: avançar • esc: voltar"))
	}

	if m.errMsg != "" {
		s.WriteString("\n" + errorStyle.Render("⚠ "+m.errMsg))
	}
	return s.String()
}

func renderSummary(f models.FormData) string {
	score, total := survey.Score(f)
	profile := survey.CalculateProfile(f)

	var s strings.Builder
	s.WriteString(fmt.Sprintf("Nome:        %s\n", f.Nome))
	s.WriteString(fmt.Sprintf("Telefone:    %s\n", f.Telefone))
	s.WriteString(fmt.Sprintf("Bairro:      %s, %s\n", f.Bairro, f.Cidade))
	s.WriteString(fmt.Sprintf("Preferência: %s\n", f.PerfilPreferencia))
	if len(f.Dependentes) > 0 {
		s.WriteString(fmt.Sprintf("Dependentes: %s\n", strings.Join(f.Dependentes, ", ")))
	}
	s.WriteString(fmt.Sprintf("Interesse:   %s\n", f.InteresseConhecer))
	s.WriteString("\n")
	s.WriteString(selectedStyle.Render(fmt.Sprintf("Perfil: %s (%.1f/%.1f)", profile, score, total)) + "\n")
	if f.PossoExplicar == models.Sim {
		s.WriteString(badgeStyle.Render("⭐ Interessado em apresentação") + "\n")
	}
	s.WriteString("\n")
	return s.String()
}
