// ABOUTME: Login and dashboard views for the field consultant TUI
// ABOUTME: Mock identity selection, activity toggle, survey entry points, sync status
package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grupoethernos/campo/db"
	"github.com/grupoethernos/campo/models"
	"github.com/grupoethernos/campo/session"
)

var loginRoles = []struct {
	role  models.UserRole
	label string
}{
	{models.RoleVendedor, "Consultor de Campo"},
	{models.RoleAdmin, "Gestor Administrativo"},
}

func (m Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.loginIndex > 0 {
			m.loginIndex--
		}
	case "down", "j":
		if m.loginIndex < len(loginRoles)-1 {
			m.loginIndex++
		}
	case "enter":
		u, err := m.svc.Login(loginRoles[m.loginIndex].role)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.user = u
		m.errMsg = ""
		m.viewMode = ViewDashboard
		m.statusMsg = "Bem-vindo, " + u.Nome
	}
	return m, nil
}

func (m Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "i":
		// Resume an unfinished survey before starting a fresh one.
		if p, err := m.svc.ResumeIfInProgress(); err == nil && p != nil {
			m.enterWizard()
			m.statusMsg = "Pesquisa retomada"
			return m, nil
		}
		if _, err := m.svc.StartSurvey(); err != nil {
			if errors.Is(err, session.ErrNoActiveSession) {
				m.errMsg = "Inicie uma atividade de campo antes (tecla a)"
			} else {
				m.errMsg = err.Error()
			}
			return m, nil
		}
		m.errMsg = ""
		m.enterWizard()
	case "a":
		if sess, err := m.svc.ActiveSession(); err == nil && sess != nil {
			if err := m.svc.StopActivity(); err != nil {
				m.errMsg = err.Error()
			} else {
				m.statusMsg = "Atividade encerrada"
			}
			return m, nil
		}
		if _, err := m.svc.StartActivity(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.statusMsg = "Atividade iniciada"
	case "s":
		n, err := m.coord.SyncAll()
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		if m.coord.Online() {
			m.statusMsg = fmt.Sprintf("✓ %d registro(s) sincronizado(s)", n)
		} else {
			m.statusMsg = "Offline: nada sincronizado"
		}
	case "o":
		m.coord.SetOnline(!m.coord.Online())
	case "c":
		m.viewMode = ViewClients
		m.selectedRow = 0
	case "p":
		m.viewMode = ViewSurveys
		m.selectedRow = 0
	case "v":
		m.viewMode = ViewSales
		m.selectedRow = 0
	case "l":
		if err := m.svc.Logout(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.user = nil
		m.viewMode = ViewLogin
		m.statusMsg = ""
	}
	return m, nil
}

func (m Model) renderLoginView() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("🏢 CAMPO — GRUPO ETHERNOS") + "\n")
	s.WriteString("Selecione seu perfil de acesso:\n\n")
	for i, r := range loginRoles {
		cursor := "  "
		if i == m.loginIndex {
			cursor = selectedStyle.Render("> ")
		}
		s.WriteString(fmt.Sprintf("%s%s (%s)\n", cursor, r.label, r.role))
	}
	if m.errMsg != "" {
		s.WriteString("\n" + errorStyle.Render("⚠ "+m.errMsg))
	}
	s.WriteString(helpStyle.Render("↑/↓: navegar • enter: entrar • q: sair"))
	return s.String()
}

func (m Model) renderDashboardView() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("🏢 CAMPO — GRUPO ETHERNOS") + "\n")

	if m.user != nil {
		s.WriteString(fmt.Sprintf("Usuário: %s (%s)\n", m.user.Nome, m.user.Role))
	}

	if sess, err := m.svc.ActiveSession(); err == nil && sess != nil {
		s.WriteString(selectedStyle.Render("● Atividade em campo ativa") + "\n")
	} else {
		s.WriteString("○ Sem atividade de campo\n")
	}

	conn := "🔴 Offline"
	if m.coord.Online() {
		conn = "🟢 Online"
	}
	s.WriteString(conn + "\n\n")

	if stats, err := db.GetStats(m.db); err == nil {
		s.WriteString(fmt.Sprintf("📋 Pesquisas: %d   👥 Clientes: %d   💰 Vendas: %d   ⭐ Interessados: %d\n",
			stats.Pesquisas, stats.Clientes, stats.Vendas, stats.Interessados))
		if stats.Pending > 0 {
			s.WriteString(badgeStyle.Render(fmt.Sprintf("⏳ %d registro(s) aguardando sincronização", stats.Pending)) + "\n")
		}
	}

	if p, err := m.svc.ResumeIfInProgress(); err == nil && p != nil {
		s.WriteString(badgeStyle.Render(fmt.Sprintf("▶ Pesquisa em andamento (etapa %d)", p.LastStep)) + "\n")
	}

	if m.statusMsg != "" {
		s.WriteString("\n" + m.statusMsg + "\n")
	}
	if m.errMsg != "" {
		s.WriteString("\n" + errorStyle.Render("⚠ "+m.errMsg) + "\n")
	}

	s.WriteString(helpStyle.Render("i: pesquisa • a: atividade • s: sincronizar • o: alternar conexão\nc: clientes • p: pesquisas • v: vendas • l: sair da conta • q: encerrar"))
	return s.String()
}
