// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for agent integration
package cli

import (
	"context"
	"database/sql"
	"flag"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/grupoethernos/campo/db"
	"github.com/grupoethernos/campo/handlers"
	syncpkg "github.com/grupoethernos/campo/sync"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	offline := fs.Bool("offline", false, "Treat the device as offline")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log.Println("Starting Campo MCP Server...")

	// The server trusts the operator's connectivity flag for its whole
	// lifetime, the same signal the sync command takes.
	coord := syncpkg.NewCoordinator(db.NewStore(database))
	coord.SetOnline(!*offline)
	if *offline {
		log.Println("Running offline: sync_all will be a no-op")
	}

	clientHandlers := handlers.NewClientHandlers(database)
	surveyHandlers := handlers.NewSurveyHandlers(database)
	saleHandlers := handlers.NewSaleHandlers(database, coord)
	syncHandlers := handlers.NewSyncHandlers(database, coord)
	vizHandlers := handlers.NewVizHandlers(database)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "campo",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_clients",
		Description: "Search registered clients by name or phone",
	}, clientHandlers.FindClients)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_client",
		Description: "Get one client with their survey associations",
	}, clientHandlers.GetClient)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_surveys",
		Description: "List field surveys, optionally filtered by respondent or consultant",
	}, surveyHandlers.ListSurveys)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_survey",
		Description: "Get one survey with its full answers and classification",
	}, surveyHandlers.GetSurvey)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "register_sale",
		Description: "Register a closed contract for an existing client",
	}, saleHandlers.RegisterSale)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_sales",
		Description: "List registered sales, optionally filtered by consultant",
	}, saleHandlers.ListSales)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sync_status",
		Description: "Report connectivity, pending sync counts, and entity totals",
	}, syncHandlers.SyncStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sync_all",
		Description: "Mark every pending record as synced (no-op while offline)",
	}, syncHandlers.SyncAll)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Generate the client network graph as graphviz DOT",
	}, vizHandlers.GenerateGraph)

	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
