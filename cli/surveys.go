// ABOUTME: Survey CLI commands
// ABOUTME: Listing and inspection of field survey records
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/grupoethernos/campo/db"
	"github.com/grupoethernos/campo/models"
	"github.com/grupoethernos/campo/survey"
)

// ListSurveysCommand lists survey records.
func ListSurveysCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-surveys", flag.ExitOnError)
	query := fs.String("query", "", "Search by respondent name or phone")
	user := fs.String("user", "", "Filter by consultant ID")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	pesquisas, err := db.FindPesquisas(database, *query, *user, *limit)
	if err != nil {
		return fmt.Errorf("failed to find surveys: %w", err)
	}

	if len(pesquisas) == 0 {
		fmt.Println("No surveys found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNOME\tDATA\tSTATUS\tETAPA\tPERFIL")
	_, _ = fmt.Fprintln(w, "--\t----\t----\t------\t-----\t------")

	for _, p := range pesquisas {
		nome := p.Data.Nome
		if nome == "" {
			nome = "-"
		}
		perfil := "-"
		if p.Status == models.SurveyConcluida {
			perfil = string(survey.CalculateProfile(p.Data))
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			p.ID, nome, p.TimestampStart.Format("02/01/2006"), p.Status, p.LastStep, perfil)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d survey(s)\n", len(pesquisas))
	return nil
}

// ShowSurveyCommand prints one survey with its answers and score.
func ShowSurveyCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("show-survey", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("survey ID is required")
	}

	p, err := db.GetPesquisa(database, fs.Args()[0])
	if err != nil {
		return fmt.Errorf("failed to get survey: %w", err)
	}
	if p == nil {
		return fmt.Errorf("survey not found: %s", fs.Args()[0])
	}

	fmt.Printf("%s (%s)\n", p.ID, p.Status)
	fmt.Printf("  Consultor: %s\n", p.UserName)
	fmt.Printf("  Início:    %s\n", p.TimestampStart.Format("02/01/2006 15:04"))
	if p.TimestampEnd != nil {
		fmt.Printf("  Fim:       %s\n", p.TimestampEnd.Format("02/01/2006 15:04"))
	}
	fmt.Printf("  Etapa:     %d\n", p.LastStep)
	if p.Data.Nome != "" {
		fmt.Printf("  Morador:   %s — %s (%s)\n", p.Data.Nome, p.Data.Telefone, p.Data.Endereco())
	}

	if p.Status == models.SurveyConcluida {
		score, total := survey.Score(p.Data)
		fmt.Printf("  Perfil:    %s (%.0f/%.0f pontos)\n", survey.CalculateProfile(p.Data), score, total)
		if p.Data.PossoExplicar == models.Sim {
			fmt.Println("  ⭐ Interessado em conhecer o produto")
		}
	}
	return nil
}
