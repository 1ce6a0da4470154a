// ABOUTME: Survey MCP tool handlers
// ABOUTME: Implements list_surveys and get_survey tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/grupoethernos/campo/db"
	"github.com/grupoethernos/campo/models"
	"github.com/grupoethernos/campo/survey"
)

type SurveyHandlers struct {
	db *sql.DB
}

func NewSurveyHandlers(database *sql.DB) *SurveyHandlers {
	return &SurveyHandlers{db: database}
}

type PesquisaOutput struct {
	ID             string  `json:"id"`
	Consultor      string  `json:"consultor"`
	TimestampStart string  `json:"timestamp_start"`
	TimestampEnd   *string `json:"timestamp_end,omitempty"`
	Status         string  `json:"status"`
	LastStep       int     `json:"last_step"`
	Nome           string  `json:"nome,omitempty"`
	Telefone       string  `json:"telefone,omitempty"`
	Bairro         string  `json:"bairro,omitempty"`
	Cidade         string  `json:"cidade,omitempty"`
	Perfil         string  `json:"perfil,omitempty"`
	Score          float64 `json:"score"`
	MaxScore       float64 `json:"max_score"`
	Synced         bool    `json:"synced"`
}

type ListSurveysInput struct {
	Query  string `json:"query,omitempty" jsonschema:"Search query (matches respondent name and phone)"`
	UserID string `json:"user_id,omitempty" jsonschema:"Filter by consultant ID"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type ListSurveysOutput struct {
	Pesquisas []PesquisaOutput `json:"pesquisas"`
}

func (h *SurveyHandlers) ListSurveys(_ context.Context, request *mcp.CallToolRequest, input ListSurveysInput) (*mcp.CallToolResult, ListSurveysOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	pesquisas, err := db.FindPesquisas(h.db, input.Query, input.UserID, limit)
	if err != nil {
		return nil, ListSurveysOutput{}, fmt.Errorf("failed to list surveys: %w", err)
	}

	result := make([]PesquisaOutput, len(pesquisas))
	for i, p := range pesquisas {
		result[i] = pesquisaToOutput(&p)
	}

	return nil, ListSurveysOutput{Pesquisas: result}, nil
}

type GetSurveyInput struct {
	ID string `json:"id" jsonschema:"Survey ID (required)"`
}

type GetSurveyOutput struct {
	PesquisaOutput
	Data models.FormData `json:"data"`
}

func (h *SurveyHandlers) GetSurvey(_ context.Context, request *mcp.CallToolRequest, input GetSurveyInput) (*mcp.CallToolResult, GetSurveyOutput, error) {
	if input.ID == "" {
		return nil, GetSurveyOutput{}, fmt.Errorf("id is required")
	}

	p, err := db.GetPesquisa(h.db, input.ID)
	if err != nil {
		return nil, GetSurveyOutput{}, fmt.Errorf("failed to get survey: %w", err)
	}
	if p == nil {
		return nil, GetSurveyOutput{}, fmt.Errorf("survey not found")
	}

	return nil, GetSurveyOutput{
		PesquisaOutput: pesquisaToOutput(p),
		Data:           p.Data,
	}, nil
}

func pesquisaToOutput(p *models.Pesquisa) PesquisaOutput {
	out := PesquisaOutput{
		ID:             p.ID,
		Consultor:      p.UserName,
		TimestampStart: p.TimestampStart.Format("2006-01-02T15:04:05Z07:00"),
		Status:         p.Status,
		LastStep:       p.LastStep,
		Nome:           p.Data.Nome,
		Telefone:       p.Data.Telefone,
		Bairro:         p.Data.Bairro,
		Cidade:         p.Data.Cidade,
		Synced:         p.Synced,
	}

	if p.TimestampEnd != nil {
		end := p.TimestampEnd.Format("2006-01-02T15:04:05Z07:00")
		out.TimestampEnd = &end
	}

	// Classification only makes sense for completed interviews.
	if p.Status == models.SurveyConcluida {
		out.Perfil = string(survey.CalculateProfile(p.Data))
		out.Score, out.MaxScore = survey.Score(p.Data)
	}

	return out
}
