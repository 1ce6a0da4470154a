// ABOUTME: Sale CLI commands
// ABOUTME: Contract registration, listing, and CSV export
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/grupoethernos/campo/db"
	"github.com/grupoethernos/campo/export"
	"github.com/grupoethernos/campo/session"
)

// RegisterSaleCommand records a closed contract for an existing client.
// The --cliente value may be a full ID or the prefix the listings print.
func RegisterSaleCommand(database *sql.DB, svc *session.Service, args []string) error {
	fs := flag.NewFlagSet("register-sale", flag.ExitOnError)
	cliente := fs.String("cliente", "", "Client ID (required)")
	contrato := fs.String("contrato", "", "Contract number, 5 digits (required)")
	_ = fs.Parse(args)

	if *cliente == "" || *contrato == "" {
		return fmt.Errorf("--cliente and --contrato are required")
	}

	clienteID, err := db.ResolveClienteID(database, *cliente)
	if err != nil {
		return err
	}
	if clienteID == "" {
		return fmt.Errorf("client not found: %s", *cliente)
	}

	v, err := svc.RegisterSale(clienteID, *contrato)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Sale registered: contrato %s para %s (ID: %s)\n", v.NumeroContrato, v.NomeCliente, v.ID[:8])
	return nil
}

// ListSalesCommand lists registered sales.
func ListSalesCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-sales", flag.ExitOnError)
	vendedor := fs.String("vendedor", "", "Filter by consultant ID")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	vendas, err := db.FindVendas(database, *vendedor, *limit)
	if err != nil {
		return fmt.Errorf("failed to find sales: %w", err)
	}

	if len(vendas) == 0 {
		fmt.Println("No sales found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CONTRATO\tCLIENTE\tTELEFONE\tVENDEDOR\tDATA\tSTATUS")
	_, _ = fmt.Fprintln(w, "--------\t-------\t--------\t--------\t----\t------")

	for _, v := range vendas {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.NumeroContrato, v.NomeCliente, v.Telefone, v.VendedorNome,
			v.DataFechamento.Format("02/01/2006"), v.StatusVenda)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d sale(s)\n", len(vendas))
	return nil
}

// ExportSalesCommand writes the sales ledger as CSV.
func ExportSalesCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("export-sales", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	vendas, err := db.FindVendas(database, "", 100000)
	if err != nil {
		return fmt.Errorf("failed to fetch sales: %w", err)
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

	if err := export.Vendas(out, vendas); err != nil {
		return err
	}
	if *output != "" {
		fmt.Printf("✓ Exported %d sale(s) to %s\n", len(vendas), *output)
	}
	return nil
}
