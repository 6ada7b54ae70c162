package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	interfaces "github.com/sheikh-saqib/telegram-ledger-recorder/internal/interfaces"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/ledger"
)

const schema = `
CREATE TABLE IF NOT EXISTS ledger_entries (
	id             BIGSERIAL PRIMARY KEY,
	entry_date     DATE NOT NULL,
	direction      TEXT NOT NULL,
	category       TEXT NOT NULL,
	source_account TEXT NOT NULL,
	dest_account   TEXT NOT NULL,
	amount         NUMERIC NOT NULL,
	note           TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS business_sales (
	id                BIGSERIAL PRIMARY KEY,
	sale_date         DATE NOT NULL,
	product           TEXT NOT NULL,
	quantity          NUMERIC NOT NULL,
	unit_sale_price   NUMERIC NOT NULL,
	unit_cost         NUMERIC NOT NULL,
	profit            NUMERIC NOT NULL,
	receiving_account TEXT NOT NULL,
	paying_account    TEXT NOT NULL,
	note              TEXT NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const (
	insertLedgerEntry = `INSERT INTO ledger_entries
	(entry_date, direction, category, source_account, dest_account, amount, note)
	VALUES ($1,$2,$3,$4,$5,$6,$7)`

	insertBusinessSale = `INSERT INTO business_sales
	(sale_date, product, quantity, unit_sale_price, unit_cost, profit, receiving_account, paying_account, note)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
)

type insert struct {
	query  string
	values int
}

// PostgresTableStore maps the ledger and sales tables onto two SQL tables.
type PostgresTableStore struct {
	db      *sql.DB
	inserts map[string]insert
}

// Open connects with the lib/pq driver and checks the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func NewPostgresTableStore(db *sql.DB, tables ledger.Tables) *PostgresTableStore {
	return &PostgresTableStore{
		db: db,
		inserts: map[string]insert{
			tables.Ledger: {query: insertLedgerEntry, values: 7},
			tables.Sales:  {query: insertBusinessSale, values: 9},
		},
	}
}

// Migrate creates the tables when they do not exist yet.
func (p *PostgresTableStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, schema)
	return err
}

func (p *PostgresTableStore) AppendRow(ctx context.Context, table string, values []any) error {
	ins, ok := p.inserts[table]
	if !ok {
		return fmt.Errorf("unknown table %q", table)
	}
	if len(values) != ins.values {
		return fmt.Errorf("table %q expects %d values, got %d", table, ins.values, len(values))
	}

	_, err := p.db.ExecContext(ctx, ins.query, values...)
	return err
}

var _ interfaces.TableStore = (*PostgresTableStore)(nil)
