// ABOUTME: Client CLI commands
// ABOUTME: Human-friendly commands for browsing and exporting the CRM base
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/grupoethernos/campo/db"
	"github.com/grupoethernos/campo/export"
)

// ListClientsCommand lists registered clients.
func ListClientsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-clients", flag.ExitOnError)
	query := fs.String("query", "", "Search by name or phone")
	user := fs.String("user", "", "Filter by consultant ID")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	clientes, err := db.FindClientes(database, *query, *user, *limit)
	if err != nil {
		return fmt.Errorf("failed to find clients: %w", err)
	}

	if len(clientes) == 0 {
		fmt.Println("No clients found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NOME\tTELEFONE\tBAIRRO\tCIDADE\tPESQUISAS\tSYNC\tID")
	_, _ = fmt.Fprintln(w, "----\t--------\t------\t------\t---------\t----\t--")

	for _, c := range clientes {
		sync := "✗"
		if c.Synced {
			sync = "✓"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			c.Nome, c.Telefone, c.Bairro, c.Cidade, len(c.PesquisaIDs), sync, c.ID[:8])
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d client(s)\n", len(clientes))
	return nil
}

// ShowClientCommand prints one client in full. Accepts either a full
// ID or the truncated prefix the listings print.
func ShowClientCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("show-client", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("client ID is required")
	}

	id, err := db.ResolveClienteID(database, fs.Args()[0])
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("client not found: %s", fs.Args()[0])
	}

	c, err := db.GetCliente(database, id)
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}
	if c == nil {
		return fmt.Errorf("client not found: %s", fs.Args()[0])
	}

	fmt.Printf("%s\n", c.Nome)
	fmt.Printf("  Telefone:         %s\n", c.Telefone)
	fmt.Printf("  Endereço:         %s\n", c.Endereco)
	fmt.Printf("  Consultor:        %s\n", c.UserName)
	fmt.Printf("  Primeiro contato: %s\n", c.DataPrimeiroContato.Format("02/01/2006"))
	fmt.Printf("  Status:           %s\n", c.Status)
	fmt.Printf("  Pesquisas:        %s\n", strings.Join(c.PesquisaIDs, ", "))
	fmt.Printf("  Sincronizado:     %v\n", c.Synced)
	return nil
}

// ExportClientsCommand writes the CRM base as CSV.
func ExportClientsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("export-clients", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	clientes, err := db.FindClientes(database, "", "", 100000)
	if err != nil {
		return fmt.Errorf("failed to fetch clients: %w", err)
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *output, err)
		}
		defer f.Close()
		out = f
	}

	if err := export.Clientes(out, clientes); err != nil {
		return err
	}
	if *output != "" {
		fmt.Printf("✓ Exported %d client(s) to %s\n", len(clientes), *output)
	}
	return nil
}
