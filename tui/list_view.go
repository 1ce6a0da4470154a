// ABOUTME: Tabular list views for clients, surveys and sales
// ABOUTME: Uses bubbles/table with tab switching between the three registries
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/grupoethernos/campo/db"
	"github.com/grupoethernos/campo/models"
	"github.com/grupoethernos/campo/survey"
)

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("CAMPO — GRUPO ETHERNOS"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	s.WriteString(m.renderTable())
	s.WriteString("\n\n")

	s.WriteString(helpStyle.Render("↑/↓: navegar • tab: alternar aba • esc: painel • q: sair"))

	return s.String()
}

func (m Model) renderTabs() string {
	tabs := []struct {
		mode  ViewMode
		label string
	}{
		{ViewClients, "Clientes"},
		{ViewSurveys, "Pesquisas"},
		{ViewSales, "Vendas"},
	}

	var rendered []string
	for _, tab := range tabs {
		if tab.mode == m.viewMode {
			rendered = append(rendered, tabActiveStyle.Render(tab.label))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab.label))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	switch m.viewMode {
	case ViewClients:
		return m.renderClientsTable()
	case ViewSurveys:
		return m.renderSurveysTable()
	case ViewSales:
		return m.renderSalesTable()
	}
	return ""
}

func (m Model) renderClientsTable() string {
	clientes, err := db.FindClientes(m.db, "", "", 100)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	columns := []table.Column{
		{Title: "Nome", Width: 28},
		{Title: "Telefone", Width: 16},
		{Title: "Bairro", Width: 18},
		{Title: "Pesquisas", Width: 9},
		{Title: "Sync", Width: 5},
	}

	var rows []table.Row
	for _, c := range clientes {
		rows = append(rows, table.Row{
			c.Nome,
			c.Telefone,
			c.Bairro,
			fmt.Sprintf("%d", len(c.PesquisaIDs)),
			syncMark(c.Synced),
		})
	}

	return m.buildTable(columns, rows)
}

func (m Model) renderSurveysTable() string {
	pesquisas, err := db.FindPesquisas(m.db, "", "", 100)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	columns := []table.Column{
		{Title: "Nome", Width: 28},
		{Title: "Status", Width: 14},
		{Title: "Etapa", Width: 6},
		{Title: "Perfil", Width: 12},
		{Title: "Sync", Width: 5},
	}

	var rows []table.Row
	for _, p := range pesquisas {
		perfil := "-"
		if p.Status == models.SurveyConcluida {
			perfil = string(survey.CalculateProfile(p.Data))
		}
		rows = append(rows, table.Row{
			p.Data.Nome,
			p.Status,
			fmt.Sprintf("%d", p.LastStep),
			perfil,
			syncMark(p.Synced),
		})
	}

	return m.buildTable(columns, rows)
}

func (m Model) renderSalesTable() string {
	vendas, err := db.FindVendas(m.db, "", 100)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	columns := []table.Column{
		{Title: "Cliente", Width: 28},
		{Title: "Contrato", Width: 10},
		{Title: "Consultor", Width: 20},
		{Title: "Status", Width: 10},
		{Title: "Sync", Width: 5},
	}

	var rows []table.Row
	for _, v := range vendas {
		rows = append(rows, table.Row{
			v.NomeCliente,
			v.NumeroContrato,
			v.VendedorNome,
			v.StatusVenda,
			syncMark(v.Synced),
		})
	}

	return m.buildTable(columns, rows)
}

func (m Model) buildTable(columns []table.Column, rows []table.Row) string {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.height-10),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func syncMark(synced bool) string {
	if synced {
		return "✓"
	}
	return "✗"
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		m.selectedRow++
	case "tab":
		switch m.viewMode {
		case ViewClients:
			m.viewMode = ViewSurveys
		case ViewSurveys:
			m.viewMode = ViewSales
		case ViewSales:
			m.viewMode = ViewClients
		}
		m.selectedRow = 0
	case "esc":
		m.viewMode = ViewDashboard
	}

	return m, nil
}
