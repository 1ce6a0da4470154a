// ABOUTME: Sync CLI commands
// ABOUTME: Pending counts and the manual sync trigger
package cli

import (
	"database/sql"
	"flag"
	"fmt"

	"github.com/grupoethernos/campo/db"
	syncpkg "github.com/grupoethernos/campo/sync"
)

// SyncCommand flips unsynced records once connectivity is confirmed.
func SyncCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	offline := fs.Bool("offline", false, "Treat the device as offline (dry run)")
	_ = fs.Parse(args)

	coord := syncpkg.NewCoordinator(db.NewStore(database))
	coord.SetOnline(!*offline)

	pending, err := coord.Pending()
	if err != nil {
		return fmt.Errorf("failed to count pending records: %w", err)
	}
	fmt.Printf("Pending: %d record(s)\n", pending)

	flipped, err := coord.SyncAll()
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if !coord.Online() {
		fmt.Println("Offline: nothing synced")
		return nil
	}
	fmt.Printf("✓ Synced %d record(s)\n", flipped)
	return nil
}

// StatsCommand prints the dashboard counters.
func StatsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	_ = fs.Parse(args)

	stats, err := db.GetStats(database)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	fmt.Printf("Pesquisas:    %d\n", stats.Pesquisas)
	fmt.Printf("Clientes:     %d\n", stats.Clientes)
	fmt.Printf("Vendas:       %d\n", stats.Vendas)
	fmt.Printf("Interessados: %d\n", stats.Interessados)
	fmt.Printf("Pendentes:    %d\n", stats.Pending)
	return nil
}
