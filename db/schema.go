// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS clientes (
	id TEXT PRIMARY KEY,
	nome TEXT NOT NULL,
	telefone TEXT NOT NULL,
	bairro TEXT,
	cidade TEXT,
	endereco TEXT,
	user_id TEXT NOT NULL,
	user_name TEXT NOT NULL,
	data_primeiro_contato DATETIME NOT NULL,
	status TEXT NOT NULL,
	synced INTEGER NOT NULL DEFAULT 0
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_clientes_telefone ON clientes(telefone);
CREATE INDEX IF NOT EXISTS idx_clientes_user_id ON clientes(user_id);

CREATE TABLE IF NOT EXISTS cliente_pesquisas (
	cliente_id TEXT NOT NULL,
	pesquisa_id TEXT NOT NULL,
	PRIMARY KEY (cliente_id, pesquisa_id),
	FOREIGN KEY (cliente_id) REFERENCES clientes(id)
);

CREATE TABLE IF NOT EXISTS pesquisas (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	user_name TEXT NOT NULL,
	timestamp_start DATETIME NOT NULL,
	timestamp_end DATETIME,
	lat_start REAL NOT NULL DEFAULT 0,
	lng_start REAL NOT NULL DEFAULT 0,
	lat_end REAL,
	lng_end REAL,
	data TEXT NOT NULL,
	status TEXT NOT NULL,
	last_step INTEGER NOT NULL DEFAULT 1,
	synced INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_pesquisas_user_id ON pesquisas(user_id);
CREATE INDEX IF NOT EXISTS idx_pesquisas_status ON pesquisas(status);

CREATE TABLE IF NOT EXISTS vendas (
	id TEXT PRIMARY KEY,
	cliente_id TEXT NOT NULL,
	nome_cliente TEXT NOT NULL,
	telefone TEXT NOT NULL,
	endereco TEXT,
	numero_contrato TEXT NOT NULL,
	vendedor_id TEXT NOT NULL,
	vendedor_nome TEXT NOT NULL,
	data_fechamento DATETIME NOT NULL,
	status_venda TEXT NOT NULL,
	origem_pesquisa_id TEXT,
	criado_em DATETIME NOT NULL,
	synced INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (cliente_id) REFERENCES clientes(id)
);

CREATE INDEX IF NOT EXISTS idx_vendas_vendedor_id ON vendas(vendedor_id);
CREATE INDEX IF NOT EXISTS idx_vendas_cliente_id ON vendas(cliente_id);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
