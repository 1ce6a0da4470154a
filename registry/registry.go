// ABOUTME: Client deduplication and merge logic for finalized surveys
// ABOUTME: Upserts into the client registry keyed by exact phone number
package registry

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grupoethernos/campo/models"
)

// ClientStore is the persistence port the registry writes through.
// The sqlite implementation lives in the db package; tests use an
// in-memory fake.
type ClientStore interface {
	// FindByTelefone returns the client with an exactly matching phone
	// number, or nil when none exists.
	FindByTelefone(telefone string) (*models.Cliente, error)
	Create(c *models.Cliente) error
	Update(c *models.Cliente) error
}

// Registry turns finalized surveys into deduplicated client entries.
type Registry struct {
	store ClientStore
}

func New(store ClientStore) *Registry {
	return &Registry{store: store}
}

// Upsert merges one completed survey into the client registry. The phone
// number is the dedup key: an existing client gets its identity fields
// refreshed (newer data wins) and the survey id added with set semantics,
// so calling this twice for the same survey never duplicates anything.
// First-contact timestamp and status are never touched on merge.
func (r *Registry) Upsert(userID, userName string, f models.FormData, pesquisaID string, now time.Time, synced bool) (*models.Cliente, error) {
	existing, err := r.store.FindByTelefone(f.Telefone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up client by phone: %w", err)
	}

	if existing != nil {
		existing.Nome = f.Nome
		existing.Bairro = f.Bairro
		existing.Cidade = f.Cidade
		existing.Endereco = f.Endereco()
		if !existing.HasPesquisa(pesquisaID) {
			existing.PesquisaIDs = append(existing.PesquisaIDs, pesquisaID)
		}
		existing.Synced = synced

		if err := r.store.Update(existing); err != nil {
			return nil, fmt.Errorf("failed to update client: %w", err)
		}
		return existing, nil
	}

	cliente := &models.Cliente{
		ID:                  uuid.New().String(),
		Nome:                f.Nome,
		Telefone:            f.Telefone,
		Bairro:              f.Bairro,
		Cidade:              f.Cidade,
		Endereco:            f.Endereco(),
		UserID:              userID,
		UserName:            userName,
		DataPrimeiroContato: now,
		Status:              models.StatusAtivo,
		PesquisaIDs:         []string{pesquisaID},
		Synced:              synced,
	}

	if err := r.store.Create(cliente); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return cliente, nil
}
