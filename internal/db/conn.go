// Package db opens backend connections and adapts database/sql to the
// executor capability the recorder and apply driver run on.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/kent8192/reinhardt-web-sub034/internal/config"
	"github.com/kent8192/reinhardt-web-sub034/internal/dialect"
	"github.com/kent8192/reinhardt-web-sub034/internal/schema"
)

// Conn is a live connection to the database being migrated, together with its
// dialect and introspection. It satisfies recorder.Executor.
type Conn struct {
	provider     string
	db           *sql.DB
	d            dialect.Dialect
	searchSchema string
	ledgerTable  string
}

// Open builds a connection for the given configuration.
func Open(cfg config.DatabaseConfig) (*Conn, error) {
	provider := strings.ToLower(cfg.Provider)
	d, err := dialect.ForProvider(provider)
	if err != nil {
		return nil, err
	}

	var handle *sql.DB
	switch provider {
	case "postgres":
		handle, err = sql.Open("pgx", cfg.DSN)
	case "mysql":
		// Validate DSN early to provide actionable errors.
		if _, err := mysql.ParseDSN(cfg.DSN); err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		handle, err = sql.Open("mysql", cfg.DSN)
	case "sqlite":
		handle, err = sql.Open("sqlite", cfg.DSN)
	}
	if err != nil {
		return nil, err
	}
	handle.SetConnMaxIdleTime(5 * time.Minute)
	handle.SetMaxOpenConns(5)

	ledger := cfg.LedgerTable
	if ledger == "" {
		ledger = schema.LedgerTable
	}
	return &Conn{
		provider:     provider,
		db:           handle,
		d:            d,
		searchSchema: cfg.Schema,
		ledgerTable:  ledger,
	}, nil
}

func (c *Conn) Provider() string { return c.provider }

func (c *Conn) Dialect() dialect.Dialect { return c.d }

func (c *Conn) LedgerTable() string { return c.ledgerTable }

func (c *Conn) Close() error { return c.db.Close() }

// Ping checks liveness, for health endpoints.
func (c *Conn) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }

// Execute runs a single statement.
func (c *Conn) Execute(ctx context.Context, stmt string, args ...any) error {
	_, err := c.db.ExecContext(ctx, stmt, args...)
	return err
}

// FetchAll runs a query and materializes every row as a generic value slice.
func (c *Conn) FetchAll(ctx context.Context, stmt string, args ...any) ([][]any, error) {
	rows, err := c.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, values)
	}
	return out, rows.Err()
}
