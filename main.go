// ABOUTME: Entry point for the field survey toolkit
// ABOUTME: Routes to the TUI, MCP server or CLI commands based on arguments
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/grupoethernos/campo/cli"
	"github.com/grupoethernos/campo/db"
	"github.com/grupoethernos/campo/kvstore"
	"github.com/grupoethernos/campo/registry"
	"github.com/grupoethernos/campo/session"
	syncpkg "github.com/grupoethernos/campo/sync"
	"github.com/grupoethernos/campo/tui"
)

const version = "0.1.0"

func main() {
	// CAMPO_LAT / CAMPO_LNG and other settings may come from a .env file.
	_ = godotenv.Load()

	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/campo/campo.db)")
	statePath := flag.String("state-path", "", "Local state path (default: ~/.local/share/campo/state)")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("campo version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "tui":
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			log.Fatal("tui requires an interactive terminal")
		}

		database := openDatabase(*dbPath)
		defer database.Close()

		kv, err := kvstore.Open(getStatePath(*statePath))
		if err != nil {
			log.Fatalf("Failed to open state store: %v", err)
		}
		defer kv.Close()

		store := db.NewStore(database)
		coord := syncpkg.NewCoordinator(store)
		svc := session.NewService(database, kv, registry.New(store), coord, session.StaticGeolocator{})

		if err := tui.Run(database, svc, coord); err != nil {
			log.Fatalf("TUI failed: %v", err)
		}

	case "mcp":
		database := openDatabase(*dbPath)
		defer database.Close()

		if err := cli.MCPCommand(database, commandArgs); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "crm":
		database := openDatabase(*dbPath)
		defer database.Close()

		if len(commandArgs) == 0 {
			fmt.Println("Error: crm requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		sub := commandArgs[0]
		subArgs := commandArgs[1:]

		switch sub {
		case "list-clients":
			if err := cli.ListClientsCommand(database, subArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "show-client":
			if err := cli.ShowClientCommand(database, subArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "export-clients":
			if err := cli.ExportClientsCommand(database, subArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		case "list-surveys":
			if err := cli.ListSurveysCommand(database, subArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "show-survey":
			if err := cli.ShowSurveyCommand(database, subArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		case "register-sale":
			kv, err := kvstore.Open(getStatePath(*statePath))
			if err != nil {
				log.Fatalf("Failed to open state store: %v", err)
			}
			defer kv.Close()

			store := db.NewStore(database)
			coord := syncpkg.NewCoordinator(store)
			svc := session.NewService(database, kv, registry.New(store), coord, session.NullGeolocator{})

			if err := cli.RegisterSaleCommand(database, svc, subArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "list-sales":
			if err := cli.ListSalesCommand(database, subArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "export-sales":
			if err := cli.ExportSalesCommand(database, subArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		case "sync":
			if err := cli.SyncCommand(database, subArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "stats":
			if err := cli.StatsCommand(database, subArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		default:
			fmt.Printf("Unknown crm command: %s\n\n", sub)
			printUsage()
			os.Exit(1)
		}

	case "viz":
		database := openDatabase(*dbPath)
		defer database.Close()

		if len(commandArgs) == 0 {
			fmt.Println("Error: viz requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		switch commandArgs[0] {
		case "graph":
			if err := cli.VizGraphCommand(database, commandArgs[1:]); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "dashboard":
			if err := cli.VizDashboardCommand(database, commandArgs[1:]); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown viz command: %s\n\n", commandArgs[0])
			printUsage()
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func openDatabase(dbPath string) *sql.DB {
	finalPath := getDatabasePath(dbPath)
	database, err := db.OpenDatabase(finalPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	return database
}

func getDatabasePath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	return filepath.Join(xdg.DataHome, "campo", "campo.db")
}

func getStatePath(statePath string) string {
	if statePath != "" {
		return statePath
	}
	return filepath.Join(xdg.DataHome, "campo", "state")
}

func printUsage() {
	fmt.Printf(`campo v%s - Field survey toolkit

USAGE:
  campo [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/campo/campo.db)
  --state-path <path>    Local state path (default: ~/.local/share/campo/state)

COMMANDS:
  tui                    Interactive terminal app for field consultants
  mcp                    Start MCP server (for assistant integration)
    --offline              Treat the device as offline (sync_all becomes a no-op)
  crm                    Registry and sync commands
  viz                    Visualization commands

CRM COMMANDS:
  campo crm list-clients    List registered clients
    --query <text>              Search by name or phone
    --user <id>                 Filter by consultant
    --limit <n>                 Max results (default: 50)

  campo crm show-client <id>    Show a full client record
  campo crm export-clients      Export clients as CSV
    --output <file>               Output file (default: stdout)

  campo crm list-surveys    List surveys
    --query <text>              Search by respondent name
    --user <id>                 Filter by consultant
    --limit <n>                 Max results (default: 50)

  campo crm show-survey <id>    Show a full survey record

  campo crm register-sale   Register a closed sale
    --cliente <id>              Client ID (required)
    --contrato <nnnnn>          Five digit contract number (required)

  campo crm list-sales      List sales
  campo crm export-sales    Export sales as CSV
    --output <file>             Output file (default: stdout)

  campo crm sync            Push pending records
    --offline                   Simulate being offline

  campo crm stats           Show registry totals

VIZ COMMANDS:
  campo viz graph             Generate the client network graph
    --output <file>             Output file (default: stdout)

  campo viz dashboard         Render the profile dashboard

EXAMPLES:
  # Run the field consultant app
  campo tui

  # Register a sale for a surveyed client
  campo crm register-sale --cliente 7f3a21b0 --contrato 12345

  # Push everything pending
  campo crm sync

`, version)
}
