// ABOUTME: Client network graph generation over the CRM database
// ABOUTME: Renders clientes, their surveys, and sales as graphviz DOT

package viz

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/grupoethernos/campo/db"
)

type GraphGenerator struct {
	db *sql.DB
}

func NewGraphGenerator(database *sql.DB) *GraphGenerator {
	return &GraphGenerator{db: database}
}

// GenerateNetworkGraph creates a graph of every cliente with edges to
// the surveys that produced them and the sales closed from them.
func (g *GraphGenerator) GenerateNetworkGraph() (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() {
		if err := gv.Close(); err != nil {
			fmt.Printf("Error closing graphviz: %v\n", err)
		}
	}()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() {
		if err := graph.Close(); err != nil {
			fmt.Printf("Error closing graph: %v\n", err)
		}
	}()

	graph.SetLabel("Rede de Clientes")
	graph.SetRankDir(cgraph.LRRank)

	clientes, err := db.FindClientes(g.db, "", "", 10000)
	if err != nil {
		return "", fmt.Errorf("failed to fetch clients: %w", err)
	}

	clienteNodes := make(map[string]*cgraph.Node)
	for _, c := range clientes {
		node, err := graph.CreateNodeByName(fmt.Sprintf("cliente_%s", c.ID[:8]))
		if err != nil {
			return "", fmt.Errorf("failed to create client node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%s", c.Nome, c.Telefone))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor("lightblue")
		clienteNodes[c.ID] = node

		for _, pid := range c.PesquisaIDs {
			p, err := db.GetPesquisa(g.db, pid)
			if err != nil {
				return "", fmt.Errorf("failed to fetch survey: %w", err)
			}
			if p == nil {
				continue
			}
			snode, err := graph.CreateNodeByName(fmt.Sprintf("pesquisa_%s", shortID(pid)))
			if err != nil {
				return "", fmt.Errorf("failed to create survey node: %w", err)
			}
			snode.SetLabel(fmt.Sprintf("%s\n%s", pid, p.TimestampStart.Format("02/01/2006")))
			snode.SetShape("ellipse")
			snode.SetStyle("filled")
			snode.SetFillColor("lightgreen")

			edge, err := graph.CreateEdgeByName("pesquisado", snode, node)
			if err != nil {
				return "", fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel("pesquisa")
			edge.SetStyle("dashed")
		}
	}

	vendas, err := db.FindVendas(g.db, "", 10000)
	if err != nil {
		return "", fmt.Errorf("failed to fetch sales: %w", err)
	}
	for _, v := range vendas {
		node, err := graph.CreateNodeByName(fmt.Sprintf("venda_%s", v.ID[:8]))
		if err != nil {
			return "", fmt.Errorf("failed to create sale node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("Contrato %s\n(%s)", v.NumeroContrato, v.StatusVenda))
		node.SetShape("diamond")
		node.SetStyle("filled")
		node.SetFillColor("lightyellow")

		if cnode, ok := clienteNodes[v.ClienteID]; ok {
			edge, err := graph.CreateEdgeByName("fechou", cnode, node)
			if err != nil {
				return "", fmt.Errorf("failed to create sale edge: %w", err)
			}
			edge.SetLabel("venda")
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}

// shortID trims survey ids like SURV-01J8... to a node-safe suffix.
func shortID(id string) string {
	if len(id) > 13 {
		return id[len(id)-8:]
	}
	return id
}
