// ABOUTME: Sync MCP tool handlers
// ABOUTME: Implements sync_status and sync_all tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/grupoethernos/campo/db"
	syncpkg "github.com/grupoethernos/campo/sync"
)

type SyncHandlers struct {
	db    *sql.DB
	coord *syncpkg.Coordinator
}

func NewSyncHandlers(database *sql.DB, coord *syncpkg.Coordinator) *SyncHandlers {
	return &SyncHandlers{db: database, coord: coord}
}

type SyncStatusInput struct{}

type SyncStatusOutput struct {
	Online       bool `json:"online"`
	Pending      int  `json:"pending"`
	Pesquisas    int  `json:"pesquisas"`
	Clientes     int  `json:"clientes"`
	Vendas       int  `json:"vendas"`
	Interessados int  `json:"interessados"`
}

func (h *SyncHandlers) SyncStatus(_ context.Context, request *mcp.CallToolRequest, input SyncStatusInput) (*mcp.CallToolResult, SyncStatusOutput, error) {
	stats, err := db.GetStats(h.db)
	if err != nil {
		return nil, SyncStatusOutput{}, fmt.Errorf("failed to get stats: %w", err)
	}

	return nil, SyncStatusOutput{
		Online:       h.coord.Online(),
		Pending:      stats.Pending,
		Pesquisas:    stats.Pesquisas,
		Clientes:     stats.Clientes,
		Vendas:       stats.Vendas,
		Interessados: stats.Interessados,
	}, nil
}

type SyncAllInput struct{}

type SyncAllOutput struct {
	Synced  int    `json:"synced"`
	Message string `json:"message"`
}

func (h *SyncHandlers) SyncAll(_ context.Context, request *mcp.CallToolRequest, input SyncAllInput) (*mcp.CallToolResult, SyncAllOutput, error) {
	flipped, err := h.coord.SyncAll()
	if err != nil {
		return nil, SyncAllOutput{}, fmt.Errorf("sync failed: %w", err)
	}

	msg := fmt.Sprintf("Synced %d record(s)", flipped)
	if !h.coord.Online() {
		msg = "Offline: nothing synced"
	}

	return nil, SyncAllOutput{Synced: flipped, Message: msg}, nil
}
