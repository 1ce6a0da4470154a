// ABOUTME: Data models for survey and CRM entities
// ABOUTME: Defines FormData, Pesquisa, Cliente, Venda, and session structs
package models

import (
	"strings"
	"time"
)

// LatLng is a geographic coordinate pair. The zero value means
// "location unavailable" and is a valid, persistable state.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l LatLng) IsZero() bool {
	return l.Lat == 0 && l.Lng == 0
}

type UserRole string

const (
	RoleVendedor   UserRole = "Vendedor"
	RoleSupervisor UserRole = "Supervisor"
	RoleAdmin      UserRole = "Admin"
)

type User struct {
	ID     string   `json:"id"`
	Nome   string   `json:"nome"`
	Role   UserRole `json:"role"`
	Status string   `json:"status"`
}

// ActivitySession is a consultant's field shift. Surveys can only be
// started while a session is active.
type ActivitySession struct {
	StartTime     time.Time  `json:"startTime"`
	EndTime       *time.Time `json:"endTime,omitempty"`
	StartLocation LatLng     `json:"startLocation"`
	EndLocation   *LatLng    `json:"endLocation,omitempty"`
}

type ProfileType string

const (
	ProfilePreventivo ProfileType = "Preventivo"
	ProfileParcial    ProfileType = "Parcialmente preventivo"
	ProfileReativo    ProfileType = "Reativo"
)

// Survey lifecycle status values.
const (
	SurveyEmAndamento = "em_andamento"
	SurveyConcluida   = "concluida"
	SurveyCancelada   = "cancelada"
)

// Entity status values.
const (
	StatusAtivo     = "Ativo"
	StatusInativo   = "Inativo"
	StatusCancelado = "Cancelado"
)

// Answer option values. Free-form enums in the field script, fixed here.
const (
	Sim    = "Sim"
	Nao    = "Não"
	Talvez = "Talvez"
)

// CasaTipo options.
const (
	CasaPropria = "Própria"
	CasaAlugada = "Alugada"
)

// PerfilPreferencia options.
const (
	PrefPrevenirAntes = "Se prevenir antes"
	PrefUltimaHora    = "Resolver de última hora"
	PrefNuncaPensou   = "Nunca pensou muito sobre isso"
)

// PreparacaoFamilia options.
const (
	PrepPreparada = "Preparada"
	PrepParcial   = "Parcialmente preparada"
	PrepNada      = "Nada preparada"
)

// DependentOptions is the fixed vocabulary for the dependents question.
// Nao is a sentinel: it excludes every other category.
var DependentOptions = []string{Nao, "Cônjuge", "Filhos", "Pais", "Sogros", "Outros"}

// FormData holds the answers of one survey. Fields keep the product's
// persisted JSON keys so exported records stay readable by the back office.
type FormData struct {
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
	Bairro   string `json:"bairro"`
	Cidade   string `json:"cidade"`

	PerfilPreferencia string `json:"perfilPreferencia"`

	CasaTipo                string `json:"casaTipo"`
	SeguroResidencial       string `json:"seguroResidencial"`
	OportunidadeResidencial string `json:"oportunidadeResidencial"`

	TemVeiculo           string `json:"temVeiculo"`
	SeguroVeicular       string `json:"seguroVeicular"`
	OportunidadeVeicular string `json:"oportunidadeVeicular"`

	PlanoSaude        string `json:"planoSaude"`
	OportunidadeSaude string `json:"oportunidadeSaude"`

	SeguroVida       string `json:"seguroVida"`
	OportunidadeVida string `json:"oportunidadeVida"`

	PlanoFunerario        string `json:"planoFunerario"`
	OportunidadeFunerario string `json:"oportunidadeFunerario"`

	Dependentes       []string `json:"dependentes"`
	PreparacaoFamilia string   `json:"preparacaoFamilia"`

	CustoImprevisto     string `json:"custoImprevisto"`
	MelhorFormaResolver string `json:"melhorFormaResolver"`
	ImportanciaFamilia  string `json:"importanciaFamilia"`
	InteresseConhecer   string `json:"interesseConhecer"`
	PossoExplicar       string `json:"possoExplicar"`
	Observacoes         string `json:"observacoes"`
}

// Clone returns an independent copy of the answers, including the
// dependents slice. Drafts are handed around by value only.
func (f FormData) Clone() FormData {
	c := f
	if f.Dependentes != nil {
		c.Dependentes = append([]string(nil), f.Dependentes...)
	}
	return c
}

// HasDependent reports whether a category is currently selected.
func (f FormData) HasDependent(cat string) bool {
	for _, d := range f.Dependentes {
		if d == cat {
			return true
		}
	}
	return false
}

// Endereco derives the display address used across clients and sales.
func (f FormData) Endereco() string {
	if strings.TrimSpace(f.Bairro) == "" && strings.TrimSpace(f.Cidade) == "" {
		return ""
	}
	return f.Bairro + ", " + f.Cidade
}

// Pesquisa is one survey record, in progress or finished.
type Pesquisa struct {
	ID             string     `json:"id_pesquisa"`
	UserID         string     `json:"userId"`
	UserName       string     `json:"userName"`
	TimestampStart time.Time  `json:"timestampStart"`
	TimestampEnd   *time.Time `json:"timestampEnd,omitempty"`
	LocationStart  LatLng     `json:"locationStart"`
	LocationEnd    *LatLng    `json:"locationEnd,omitempty"`
	Data           FormData   `json:"data"`
	Status         string     `json:"status"`
	LastStep       int        `json:"lastStep"`
	Synced         bool       `json:"isSynced"`
}

// Cliente is a deduplicated registry entry. Telefone is the dedup key:
// at most one Cliente per phone number.
type Cliente struct {
	ID                  string    `json:"id"`
	Nome                string    `json:"nome"`
	Telefone            string    `json:"telefone"`
	Bairro              string    `json:"bairro"`
	Cidade              string    `json:"cidade"`
	Endereco            string    `json:"endereco,omitempty"`
	UserID              string    `json:"userId"`
	UserName            string    `json:"userName"`
	DataPrimeiroContato time.Time `json:"data_primeiro_contato"`
	Status              string    `json:"status"`
	PesquisaIDs         []string  `json:"pesquisaIds"`
	Synced              bool      `json:"isSynced"`
}

// HasPesquisa reports whether a survey id is already associated.
func (c Cliente) HasPesquisa(id string) bool {
	for _, p := range c.PesquisaIDs {
		if p == id {
			return true
		}
	}
	return false
}

// ValidNumeroContrato reports whether s is a well-formed contract
// number: exactly five digits.
func ValidNumeroContrato(s string) bool {
	if len(s) != 5 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Venda is a registered contract referencing an existing Cliente.
type Venda struct {
	ID               string    `json:"id"`
	ClienteID        string    `json:"clienteId"`
	NomeCliente      string    `json:"nome_cliente"`
	Telefone         string    `json:"telefone"`
	Endereco         string    `json:"endereco"`
	NumeroContrato   string    `json:"numero_contrato"`
	VendedorID       string    `json:"vendedorId"`
	VendedorNome     string    `json:"vendedorNome"`
	DataFechamento   time.Time `json:"data_fechamento"`
	StatusVenda      string    `json:"status_venda"`
	OrigemPesquisaID string    `json:"origem_pesquisaId,omitempty"`
	CriadoEm         time.Time `json:"criado_em"`
	Synced           bool      `json:"isSynced"`
}
