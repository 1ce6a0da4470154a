// ABOUTME: Sale MCP tool handlers
// ABOUTME: Implements register_sale and list_sales tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/grupoethernos/campo/db"
	"github.com/grupoethernos/campo/models"
	syncpkg "github.com/grupoethernos/campo/sync"
)

type SaleHandlers struct {
	db    *sql.DB
	coord *syncpkg.Coordinator
}

func NewSaleHandlers(database *sql.DB, coord *syncpkg.Coordinator) *SaleHandlers {
	return &SaleHandlers{db: database, coord: coord}
}

type VendaOutput struct {
	ID               string `json:"id"`
	ClienteID        string `json:"cliente_id"`
	NomeCliente      string `json:"nome_cliente"`
	Telefone         string `json:"telefone"`
	NumeroContrato   string `json:"numero_contrato"`
	Vendedor         string `json:"vendedor"`
	DataFechamento   string `json:"data_fechamento"`
	StatusVenda      string `json:"status_venda"`
	OrigemPesquisaID string `json:"origem_pesquisa_id,omitempty"`
	Synced           bool   `json:"synced"`
}

type RegisterSaleInput struct {
	ClienteID      string `json:"cliente_id" jsonschema:"Client ID (required, client must exist)"`
	NumeroContrato string `json:"numero_contrato" jsonschema:"Contract number, exactly 5 digits (required)"`
	VendedorID     string `json:"vendedor_id" jsonschema:"Consultant ID closing the sale (required)"`
	VendedorNome   string `json:"vendedor_nome,omitempty" jsonschema:"Consultant display name"`
}

func (h *SaleHandlers) RegisterSale(_ context.Context, request *mcp.CallToolRequest, input RegisterSaleInput) (*mcp.CallToolResult, VendaOutput, error) {
	if input.ClienteID == "" {
		return nil, VendaOutput{}, fmt.Errorf("cliente_id is required")
	}
	if input.VendedorID == "" {
		return nil, VendaOutput{}, fmt.Errorf("vendedor_id is required")
	}
	if !models.ValidNumeroContrato(input.NumeroContrato) {
		return nil, VendaOutput{}, fmt.Errorf("numero_contrato must be exactly 5 digits")
	}

	c, err := db.GetCliente(h.db, input.ClienteID)
	if err != nil {
		return nil, VendaOutput{}, fmt.Errorf("failed to get client: %w", err)
	}
	if c == nil {
		return nil, VendaOutput{}, fmt.Errorf("client not found")
	}

	v := &models.Venda{
		ID:             uuid.New().String(),
		ClienteID:      c.ID,
		NomeCliente:    c.Nome,
		Telefone:       c.Telefone,
		Endereco:       c.Endereco,
		NumeroContrato: input.NumeroContrato,
		VendedorID:     input.VendedorID,
		VendedorNome:   input.VendedorNome,
		DataFechamento: time.Now(),
		StatusVenda:    models.StatusAtivo,
		CriadoEm:       time.Now(),
		Synced:         h.coord.CreatedSynced(),
	}
	if len(c.PesquisaIDs) > 0 {
		v.OrigemPesquisaID = c.PesquisaIDs[0]
	}

	if err := db.CreateVenda(h.db, v); err != nil {
		return nil, VendaOutput{}, fmt.Errorf("failed to register sale: %w", err)
	}

	return nil, vendaToOutput(v), nil
}

type ListSalesInput struct {
	VendedorID string `json:"vendedor_id,omitempty" jsonschema:"Filter by consultant ID"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type ListSalesOutput struct {
	Vendas []VendaOutput `json:"vendas"`
}

func (h *SaleHandlers) ListSales(_ context.Context, request *mcp.CallToolRequest, input ListSalesInput) (*mcp.CallToolResult, ListSalesOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	vendas, err := db.FindVendas(h.db, input.VendedorID, limit)
	if err != nil {
		return nil, ListSalesOutput{}, fmt.Errorf("failed to list sales: %w", err)
	}

	result := make([]VendaOutput, len(vendas))
	for i, v := range vendas {
		result[i] = vendaToOutput(&v)
	}

	return nil, ListSalesOutput{Vendas: result}, nil
}

func vendaToOutput(v *models.Venda) VendaOutput {
	return VendaOutput{
		ID:               v.ID,
		ClienteID:        v.ClienteID,
		NomeCliente:      v.NomeCliente,
		Telefone:         v.Telefone,
		NumeroContrato:   v.NumeroContrato,
		Vendedor:         v.VendedorNome,
		DataFechamento:   v.DataFechamento.Format("2006-01-02T15:04:05Z07:00"),
		StatusVenda:      v.StatusVenda,
		OrigemPesquisaID: v.OrigemPesquisaID,
		Synced:           v.Synced,
	}
}
