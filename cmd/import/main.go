// ABOUTME: Import utility for ingesting the mobile pilot's exported JSON state.
// ABOUTME: Provides dry-run and backup capabilities for safe one-shot imports.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/grupoethernos/campo/db"
	"github.com/grupoethernos/campo/models"
)

// exportFile mirrors the JSON the pilot app writes when a tablet's local
// storage is dumped for hand-off.
type exportFile struct {
	Pesquisas []models.Pesquisa `json:"pesquisas"`
	Clientes  []models.Cliente  `json:"clientes"`
	Vendas    []models.Venda    `json:"vendas"`
}

func main() {
	dbPath := flag.String("db", "", "Path to database file (required)")
	input := flag.String("input", "", "Path to exported JSON file (required)")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Create backup before importing")
	flag.Parse()

	if *dbPath == "" || *input == "" {
		log.Fatal("Error: -db and -input flags are required")
	}

	if err := run(*dbPath, *input, *dryRun, *backup); err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Println("Import completed successfully")
}

func run(dbPath, input string, dryRun, createBackup bool) error {
	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read export file: %w", err)
	}

	var export exportFile
	if err := json.Unmarshal(raw, &export); err != nil {
		return fmt.Errorf("failed to parse export file: %w", err)
	}

	log.Printf("Export contains %d pesquisa(s), %d cliente(s), %d venda(s)",
		len(export.Pesquisas), len(export.Clientes), len(export.Vendas))

	if dryRun {
		log.Printf("[DRY RUN] Would import the records above into %s", dbPath)
		return nil
	}

	if createBackup {
		if _, err := os.Stat(dbPath); err == nil {
			backupPath := fmt.Sprintf("%s.backup.%s", dbPath, time.Now().Format("20060102-150405"))
			log.Printf("Creating backup: %s", backupPath)

			data, err := os.ReadFile(dbPath)
			if err != nil {
				return fmt.Errorf("failed to read database: %w", err)
			}
			if err := os.WriteFile(backupPath, data, 0644); err != nil {
				return fmt.Errorf("failed to create backup: %w", err)
			}
		}
	}

	database, err := db.OpenDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	imported, skipped := 0, 0

	// Sales in the export reference the tablet's client ids. When a phone
	// is already registered locally the local record wins, so remember the
	// rewrite for the vendas pass below.
	clienteIDs := make(map[string]string)

	for i := range export.Clientes {
		c := export.Clientes[i]
		existing, err := db.FindClienteByTelefone(database, c.Telefone)
		if err != nil {
			return fmt.Errorf("cliente %s: %w", c.ID, err)
		}
		if existing != nil {
			log.Printf("Skipping cliente %s: telefone %s already registered", c.ID, c.Telefone)
			clienteIDs[c.ID] = existing.ID
			skipped++
			continue
		}
		clienteIDs[c.ID] = c.ID
		if err := db.CreateCliente(database, &c); err != nil {
			return fmt.Errorf("cliente %s: %w", c.ID, err)
		}
		imported++
	}

	for i := range export.Pesquisas {
		p := export.Pesquisas[i]
		if existing, err := db.GetPesquisa(database, p.ID); err != nil {
			return fmt.Errorf("pesquisa %s: %w", p.ID, err)
		} else if existing != nil {
			log.Printf("Skipping pesquisa %s: already present", p.ID)
			skipped++
			continue
		}
		// Completed records go through the same two-phase write the app
		// performs: insert in progress, then finish atomically.
		finished := p.Status == models.SurveyConcluida
		if finished {
			p.Status = models.SurveyEmAndamento
		}
		if err := db.CreatePesquisa(database, &p); err != nil {
			return fmt.Errorf("pesquisa %s: %w", p.ID, err)
		}
		if finished {
			if err := db.CompletePesquisa(database, &p); err != nil {
				return fmt.Errorf("pesquisa %s: %w", p.ID, err)
			}
		}
		imported++
	}

	for i := range export.Vendas {
		v := export.Vendas[i]
		if mapped, ok := clienteIDs[v.ClienteID]; ok {
			v.ClienteID = mapped
		}
		if err := db.CreateVenda(database, &v); err != nil {
			return fmt.Errorf("venda %s: %w", v.ID, err)
		}
		imported++
	}

	log.Printf("Imported %d record(s), skipped %d", imported, skipped)
	return nil
}
