// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides ASCII overview of surveys, clients, and sales

package viz

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/grupoethernos/campo/db"
	"github.com/grupoethernos/campo/models"
	"github.com/grupoethernos/campo/survey"
)

type DashboardStats struct {
	// Classification of completed surveys
	ProfileCounts map[models.ProfileType]int

	TotalPesquisas int
	TotalClientes  int
	TotalVendas    int
	Interessados   int

	// Needs attention
	EmAndamento int
	Pending     int
}

func GenerateDashboardStats(database *sql.DB) (*DashboardStats, error) {
	stats := &DashboardStats{
		ProfileCounts: make(map[models.ProfileType]int),
	}

	pesquisas, err := db.FindPesquisas(database, "", "", 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch surveys: %w", err)
	}
	stats.TotalPesquisas = len(pesquisas)
	for _, p := range pesquisas {
		switch p.Status {
		case models.SurveyConcluida:
			stats.ProfileCounts[survey.CalculateProfile(p.Data)]++
		case models.SurveyEmAndamento:
			stats.EmAndamento++
		}
	}

	base, err := db.GetStats(database)
	if err != nil {
		return nil, err
	}
	stats.TotalClientes = base.Clientes
	stats.TotalVendas = base.Vendas
	stats.Interessados = base.Interessados
	stats.Pending = base.Pending

	return stats, nil
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  CAMPO — GRUPO ETHERNOS\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("PERFIS\n")
	renderProfiles(&out, stats.ProfileCounts)
	out.WriteString("\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📋 %d pesquisas  📇 %d clientes  💼 %d vendas  ⭐ %d interessados\n\n",
		stats.TotalPesquisas, stats.TotalClientes, stats.TotalVendas, stats.Interessados))

	if stats.EmAndamento > 0 || stats.Pending > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		if stats.EmAndamento > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d pesquisa(s) em andamento\n", stats.EmAndamento))
		}
		if stats.Pending > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d registro(s) aguardando sincronização\n", stats.Pending))
		}
	}

	return out.String()
}

func renderProfiles(out *strings.Builder, counts map[models.ProfileType]int) {
	profiles := []models.ProfileType{
		models.ProfilePreventivo,
		models.ProfileParcial,
		models.ProfileReativo,
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, profile := range profiles {
		count, exists := counts[profile]
		if !exists {
			continue
		}

		barLength := (count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		out.WriteString(fmt.Sprintf("  %-23s %s  %2d\n", profile, bar, count))
	}
}
