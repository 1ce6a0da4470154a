// ABOUTME: Sale record database operations
// ABOUTME: Handles contract creation and per-consultant listings
package db

import (
	"database/sql"
	"strings"

	"github.com/grupoethernos/campo/models"
)

func CreateVenda(db *sql.DB, v *models.Venda) error {
	var origem any
	if v.OrigemPesquisaID != "" {
		origem = v.OrigemPesquisaID
	}

	_, err := db.Exec(`
		INSERT INTO vendas (id, cliente_id, nome_cliente, telefone, endereco, numero_contrato, vendedor_id, vendedor_nome, data_fechamento, status_venda, origem_pesquisa_id, criado_em, synced)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, v.ID, v.ClienteID, v.NomeCliente, v.Telefone, v.Endereco, v.NumeroContrato, v.VendedorID, v.VendedorNome, v.DataFechamento, v.StatusVenda, origem, v.CriadoEm, v.Synced)

	return err
}

// FindVendas lists sales, newest first. vendedorID narrows to one consultant.
func FindVendas(db *sql.DB, vendedorID string, limit int) ([]models.Venda, error) {
	if limit <= 0 {
		limit = 50
	}

	where := []string{"1=1"}
	args := []any{}
	if vendedorID != "" {
		where = append(where, "vendedor_id = ?")
		args = append(args, vendedorID)
	}
	args = append(args, limit)

	rows, err := db.Query(`
		SELECT id, cliente_id, nome_cliente, telefone, endereco, numero_contrato, vendedor_id, vendedor_nome, data_fechamento, status_venda, origem_pesquisa_id, criado_em, synced
		FROM vendas
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY data_fechamento DESC
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendas []models.Venda
	for rows.Next() {
		var v models.Venda
		var endereco, origem sql.NullString

		err := rows.Scan(
			&v.ID,
			&v.ClienteID,
			&v.NomeCliente,
			&v.Telefone,
			&endereco,
			&v.NumeroContrato,
			&v.VendedorID,
			&v.VendedorNome,
			&v.DataFechamento,
			&v.StatusVenda,
			&origem,
			&v.CriadoEm,
			&v.Synced,
		)
		if err != nil {
			return nil, err
		}

		if endereco.Valid {
			v.Endereco = endereco.String
		}
		if origem.Valid {
			v.OrigemPesquisaID = origem.String
		}

		vendas = append(vendas, v)
	}

	return vendas, rows.Err()
}
