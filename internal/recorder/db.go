package recorder

import (
	"context"
	"fmt"
	"time"

	"github.com/kent8192/reinhardt-web-sub034/internal/dialect"
	"github.com/kent8192/reinhardt-web-sub034/internal/schema"
)

// DBRecorder backs the ledger with a bookkeeping table inside the database
// being migrated. All SQL goes through the injected dialect and executor; the
// recorder itself knows no backend specifics.
type DBRecorder struct {
	exec  Executor
	d     dialect.Dialect
	table string
}

// NewDBRecorder builds a ledger over exec. An empty table name falls back to
// the default bookkeeping table.
func NewDBRecorder(exec Executor, d dialect.Dialect, table string) *DBRecorder {
	if table == "" {
		table = schema.LedgerTable
	}
	return &DBRecorder{exec: exec, d: d, table: table}
}

// Table returns the bookkeeping table name.
func (r *DBRecorder) Table() string { return r.table }

// EnsureLedgerExists issues CREATE TABLE IF NOT EXISTS, so repeated or
// concurrent bootstrap attempts never race a check-then-create.
func (r *DBRecorder) EnsureLedgerExists(ctx context.Context) error {
	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s %s NOT NULL, %s %s NOT NULL, %s %s NOT NULL DEFAULT %s)",
		r.d.QuoteIdent(r.table),
		r.d.QuoteIdent("app"), r.d.TypeSQL(schema.VarChar(255), false),
		r.d.QuoteIdent("name"), r.d.TypeSQL(schema.VarChar(255), false),
		r.d.QuoteIdent("applied"), r.d.TypeSQL(schema.DateTime(), false), r.d.CurrentTimestampSQL(),
	)
	if err := r.exec.Execute(ctx, stmt); err != nil {
		return fmt.Errorf("ensure ledger table: %w", err)
	}
	return nil
}

func (r *DBRecorder) IsApplied(ctx context.Context, appLabel, name string) (bool, error) {
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = %s AND %s = %s",
		r.d.QuoteIdent(r.table),
		r.d.QuoteIdent("app"), r.d.Placeholder(1),
		r.d.QuoteIdent("name"), r.d.Placeholder(2),
	)
	rows, err := r.exec.FetchAll(ctx, stmt, appLabel, name)
	if err != nil {
		return false, fmt.Errorf("query ledger: %w", err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return false, nil
	}
	return existsValue(rows[0][0])
}

func (r *DBRecorder) RecordApplied(ctx context.Context, appLabel, name string) error {
	applied, err := r.IsApplied(ctx, appLabel, name)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (%s, %s)",
		r.d.QuoteIdent(r.table),
		r.d.QuoteIdent("app"), r.d.QuoteIdent("name"),
		r.d.Placeholder(1), r.d.Placeholder(2),
	)
	if err := r.exec.Execute(ctx, stmt, appLabel, name); err != nil {
		return fmt.Errorf("record applied: %w", err)
	}
	return nil
}

func (r *DBRecorder) Unapply(ctx context.Context, appLabel, name string) error {
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = %s AND %s = %s",
		r.d.QuoteIdent(r.table),
		r.d.QuoteIdent("app"), r.d.Placeholder(1),
		r.d.QuoteIdent("name"), r.d.Placeholder(2),
	)
	if err := r.exec.Execute(ctx, stmt, appLabel, name); err != nil {
		return fmt.Errorf("unapply: %w", err)
	}
	return nil
}

func (r *DBRecorder) AppliedMigrations(ctx context.Context) ([]Record, error) {
	stmt := fmt.Sprintf("SELECT %s, %s, %s FROM %s ORDER BY %s ASC",
		r.d.QuoteIdent("app"), r.d.QuoteIdent("name"), r.d.QuoteIdent("applied"),
		r.d.QuoteIdent(r.table),
		r.d.QuoteIdent("applied"),
	)
	rows, err := r.exec.FetchAll(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("ledger row has %d columns, want 3", len(row))
		}
		applied, err := timeValue(row[2])
		if err != nil {
			return nil, err
		}
		out = append(out, Record{
			AppLabel: stringValue(row[0]),
			Name:     stringValue(row[1]),
			Applied:  applied,
		})
	}
	return out, nil
}

// existsValue interprets an existence query result. Drivers disagree on the
// column type: a count comes back as an integer, some return a boolean.
func existsValue(v any) (bool, error) {
	switch n := v.(type) {
	case bool:
		return n, nil
	case int64:
		return n > 0, nil
	case int:
		return n > 0, nil
	case uint64:
		return n > 0, nil
	case float64:
		return n > 0, nil
	case []byte:
		return string(n) != "0" && string(n) != "", nil
	case string:
		return n != "0" && n != "", nil
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected existence result type %T", v)
	}
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func timeValue(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return parseTimestamp(t)
	case []byte:
		return parseTimestamp(string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected timestamp type %T", v)
	}
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
