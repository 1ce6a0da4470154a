// ABOUTME: Sync flag queries across surveys, clients, and sales
// ABOUTME: Pending counts and batch flag flips for the sync coordinator
package db

import (
	"database/sql"
	"fmt"

	"github.com/grupoethernos/campo/models"
)

// PendingSyncCount counts entities still only known locally. In-progress
// surveys are excluded: only completed records are pushed.
func PendingSyncCount(db *sql.DB) (int, error) {
	var total int
	err := db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM pesquisas WHERE synced = 0 AND status = ?) +
			(SELECT COUNT(*) FROM clientes WHERE synced = 0) +
			(SELECT COUNT(*) FROM vendas WHERE synced = 0)
	`, models.SurveyConcluida).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending entities: %w", err)
	}
	return total, nil
}

// MarkAllSynced flips every unsynced entity to synced in one transaction
// and returns how many rows changed. Safe to repeat.
func MarkAllSynced(db *sql.DB) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var total int64
	for _, stmt := range []struct {
		query string
		args  []any
	}{
		{`UPDATE pesquisas SET synced = 1 WHERE synced = 0 AND status = ?`, []any{models.SurveyConcluida}},
		{`UPDATE clientes SET synced = 1 WHERE synced = 0`, nil},
		{`UPDATE vendas SET synced = 1 WHERE synced = 0`, nil},
	} {
		res, err := tx.Exec(stmt.query, stmt.args...)
		if err != nil {
			return 0, fmt.Errorf("failed to mark entities synced: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(total), nil
}

// Stats are the dashboard counters.
type Stats struct {
	Pesquisas    int
	Clientes     int
	Vendas       int
	Interessados int
	Pending      int
}

func GetStats(db *sql.DB) (*Stats, error) {
	var s Stats
	err := db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM pesquisas),
			(SELECT COUNT(*) FROM clientes),
			(SELECT COUNT(*) FROM vendas)
	`).Scan(&s.Pesquisas, &s.Clientes, &s.Vendas)
	if err != nil {
		return nil, fmt.Errorf("failed to count entities: %w", err)
	}

	if s.Interessados, err = CountInteressados(db); err != nil {
		return nil, err
	}
	if s.Pending, err = PendingSyncCount(db); err != nil {
		return nil, err
	}
	return &s, nil
}

// Store adapts the package functions to the ports consumed by the
// registry and the sync coordinator.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) FindByTelefone(telefone string) (*models.Cliente, error) {
	return FindClienteByTelefone(s.DB, telefone)
}

func (s *Store) Create(c *models.Cliente) error {
	return CreateCliente(s.DB, c)
}

func (s *Store) Update(c *models.Cliente) error {
	return UpdateCliente(s.DB, c)
}

func (s *Store) PendingSyncCount() (int, error) {
	return PendingSyncCount(s.DB)
}

func (s *Store) MarkAllSynced() (int, error) {
	return MarkAllSynced(s.DB)
}
