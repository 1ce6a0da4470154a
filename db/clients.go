// ABOUTME: Client database operations
// ABOUTME: Handles lookups by phone, upsert writes, and survey-id associations
package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/grupoethernos/campo/models"
)

func CreateCliente(db *sql.DB, c *models.Cliente) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	_, err = tx.Exec(`
		INSERT INTO clientes (id, nome, telefone, bairro, cidade, endereco, user_id, user_name, data_primeiro_contato, status, synced)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Nome, c.Telefone, c.Bairro, c.Cidade, c.Endereco, c.UserID, c.UserName, c.DataPrimeiroContato, c.Status, c.Synced)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}

	for _, pid := range c.PesquisaIDs {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO cliente_pesquisas (cliente_id, pesquisa_id) VALUES (?, ?)`, c.ID, pid); err != nil {
			return fmt.Errorf("failed to associate survey: %w", err)
		}
	}

	return tx.Commit()
}

func GetCliente(db *sql.DB, id string) (*models.Cliente, error) {
	c, err := scanCliente(db.QueryRow(`
		SELECT id, nome, telefone, bairro, cidade, endereco, user_id, user_name, data_primeiro_contato, status, synced
		FROM clientes WHERE id = ?
	`, id))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}

	c.PesquisaIDs, err = getPesquisaIDs(db, c.ID)
	return c, err
}

func FindClienteByTelefone(db *sql.DB, telefone string) (*models.Cliente, error) {
	c, err := scanCliente(db.QueryRow(`
		SELECT id, nome, telefone, bairro, cidade, endereco, user_id, user_name, data_primeiro_contato, status, synced
		FROM clientes WHERE telefone = ?
	`, telefone))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}

	c.PesquisaIDs, err = getPesquisaIDs(db, c.ID)
	return c, err
}

// UpdateCliente rewrites the mutable fields and re-unions the survey-id
// set. data_primeiro_contato and status are deliberately not in the SET
// list: first contact is immutable and status changes go elsewhere.
func UpdateCliente(db *sql.DB, c *models.Cliente) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.Exec(`
		UPDATE clientes
		SET nome = ?, bairro = ?, cidade = ?, endereco = ?, synced = ?
		WHERE id = ?
	`, c.Nome, c.Bairro, c.Cidade, c.Endereco, c.Synced, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	for _, pid := range c.PesquisaIDs {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO cliente_pesquisas (cliente_id, pesquisa_id) VALUES (?, ?)`, c.ID, pid); err != nil {
			return fmt.Errorf("failed to associate survey: %w", err)
		}
	}

	return tx.Commit()
}

// FindClientes lists clients, newest first. query matches name substrings
// (case-insensitive) or phone substrings; userID narrows to one consultant.
func FindClientes(db *sql.DB, query, userID string, limit int) ([]models.Cliente, error) {
	if limit <= 0 {
		limit = 50
	}

	where := []string{"1=1"}
	args := []any{}
	if userID != "" {
		where = append(where, "user_id = ?")
		args = append(args, userID)
	}
	if query != "" {
		where = append(where, "(LOWER(nome) LIKE ? OR telefone LIKE ?)")
		pattern := "%" + strings.ToLower(query) + "%"
		args = append(args, pattern, "%"+query+"%")
	}
	args = append(args, limit)

	rows, err := db.Query(`
		SELECT id, nome, telefone, bairro, cidade, endereco, user_id, user_name, data_primeiro_contato, status, synced
		FROM clientes
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY data_primeiro_contato DESC
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clientes []models.Cliente
	for rows.Next() {
		c, err := scanClienteRow(rows)
		if err != nil {
			return nil, err
		}
		clientes = append(clientes, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range clientes {
		ids, err := getPesquisaIDs(db, clientes[i].ID)
		if err != nil {
			return nil, err
		}
		clientes[i].PesquisaIDs = ids
	}

	return clientes, nil
}

// ResolveClienteID expands a client ID prefix, as printed by the
// listings, into the full record ID. An exact match always wins;
// otherwise the prefix must match exactly one client. Returns "" when
// nothing matches and an error when the prefix is ambiguous.
func ResolveClienteID(db *sql.DB, idOrPrefix string) (string, error) {
	var id string
	err := db.QueryRow(`SELECT id FROM clientes WHERE id = ?`, idOrPrefix).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	rows, err := db.Query(`SELECT id FROM clientes WHERE id LIKE ? || '%' LIMIT 2`, idOrPrefix)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return "", err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(matches) {
	case 0:
		return "", nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("client ID prefix %q is ambiguous", idOrPrefix)
	}
}

func getPesquisaIDs(db *sql.DB, clienteID string) ([]string, error) {
	rows, err := db.Query(`SELECT pesquisa_id FROM cliente_pesquisas WHERE cliente_id = ?`, clienteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCliente(row *sql.Row) (*models.Cliente, error) {
	c, err := scanClienteRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func scanClienteRow(row rowScanner) (*models.Cliente, error) {
	var c models.Cliente
	var endereco sql.NullString

	err := row.Scan(
		&c.ID,
		&c.Nome,
		&c.Telefone,
		&c.Bairro,
		&c.Cidade,
		&endereco,
		&c.UserID,
		&c.UserName,
		&c.DataPrimeiroContato,
		&c.Status,
		&c.Synced,
	)
	if err != nil {
		return nil, err
	}

	if endereco.Valid {
		c.Endereco = endereco.String
	}

	return &c, nil
}
