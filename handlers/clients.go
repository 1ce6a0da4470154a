// ABOUTME: Client MCP tool handlers
// ABOUTME: Implements find_clients and get_client tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/grupoethernos/campo/db"
	"github.com/grupoethernos/campo/models"
)

type ClientHandlers struct {
	db *sql.DB
}

func NewClientHandlers(database *sql.DB) *ClientHandlers {
	return &ClientHandlers{db: database}
}

type ClienteOutput struct {
	ID                  string   `json:"id"`
	Nome                string   `json:"nome"`
	Telefone            string   `json:"telefone"`
	Bairro              string   `json:"bairro"`
	Cidade              string   `json:"cidade"`
	Endereco            string   `json:"endereco,omitempty"`
	Consultor           string   `json:"consultor"`
	DataPrimeiroContato string   `json:"data_primeiro_contato"`
	Status              string   `json:"status"`
	PesquisaIDs         []string `json:"pesquisa_ids"`
	Synced              bool     `json:"synced"`
}

type FindClientsInput struct {
	Query  string `json:"query,omitempty" jsonschema:"Search query (matches name and phone)"`
	UserID string `json:"user_id,omitempty" jsonschema:"Filter by the consultant who registered the client"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindClientsOutput struct {
	Clientes []ClienteOutput `json:"clientes"`
}

func (h *ClientHandlers) FindClients(_ context.Context, request *mcp.CallToolRequest, input FindClientsInput) (*mcp.CallToolResult, FindClientsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	clientes, err := db.FindClientes(h.db, input.Query, input.UserID, limit)
	if err != nil {
		return nil, FindClientsOutput{}, fmt.Errorf("failed to find clients: %w", err)
	}

	result := make([]ClienteOutput, len(clientes))
	for i, c := range clientes {
		result[i] = clienteToOutput(&c)
	}

	return nil, FindClientsOutput{Clientes: result}, nil
}

type GetClientInput struct {
	ID string `json:"id" jsonschema:"Client ID (required)"`
}

func (h *ClientHandlers) GetClient(_ context.Context, request *mcp.CallToolRequest, input GetClientInput) (*mcp.CallToolResult, ClienteOutput, error) {
	if input.ID == "" {
		return nil, ClienteOutput{}, fmt.Errorf("id is required")
	}

	c, err := db.GetCliente(h.db, input.ID)
	if err != nil {
		return nil, ClienteOutput{}, fmt.Errorf("failed to get client: %w", err)
	}
	if c == nil {
		return nil, ClienteOutput{}, fmt.Errorf("client not found")
	}

	return nil, clienteToOutput(c), nil
}

func clienteToOutput(c *models.Cliente) ClienteOutput {
	return ClienteOutput{
		ID:                  c.ID,
		Nome:                c.Nome,
		Telefone:            c.Telefone,
		Bairro:              c.Bairro,
		Cidade:              c.Cidade,
		Endereco:            c.Endereco,
		Consultor:           c.UserName,
		DataPrimeiroContato: c.DataPrimeiroContato.Format("2006-01-02T15:04:05Z07:00"),
		Status:              c.Status,
		PesquisaIDs:         c.PesquisaIDs,
		Synced:              c.Synced,
	}
}
