// ABOUTME: CSV exporters for the client base and the sales ledger
// ABOUTME: Semicolon-delimited with a UTF-8 BOM so Excel pt-BR opens them

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/grupoethernos/campo/models"
)

// Excel on the field laptops is configured for pt-BR, which expects
// semicolon separators and needs the BOM to pick UTF-8.
const bom = "\uFEFF"

var clientHeaders = []string{"ID", "Nome", "Telefone", "Bairro", "Cidade", "Consultor", "Data Cadastro", "Status"}

var saleHeaders = []string{"ID Venda", "Nome Cliente", "Telefone", "Nº Contrato", "Consultor", "Data Fechamento", "Status Venda"}

func dataBR(t time.Time) string {
	return t.Format("02/01/2006")
}

func write(w io.Writer, headers []string, rows [][]string) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Clientes writes the CRM base as CSV.
func Clientes(w io.Writer, clientes []models.Cliente) error {
	rows := make([][]string, 0, len(clientes))
	for _, c := range clientes {
		rows = append(rows, []string{
			c.ID, c.Nome, c.Telefone, c.Bairro, c.Cidade,
			c.UserName, dataBR(c.DataPrimeiroContato), c.Status,
		})
	}
	return write(w, clientHeaders, rows)
}

// Vendas writes the sales ledger as CSV.
func Vendas(w io.Writer, vendas []models.Venda) error {
	rows := make([][]string, 0, len(vendas))
	for _, v := range vendas {
		rows = append(rows, []string{
			v.ID, v.NomeCliente, v.Telefone, v.NumeroContrato,
			v.VendedorNome, dataBR(v.DataFechamento), v.StatusVenda,
		})
	}
	return write(w, saleHeaders, rows)
}
