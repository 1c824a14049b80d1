package dialect

import (
	"fmt"
	"strings"

	"github.com/kent8192/reinhardt-web-sub034/internal/schema"
)

// Postgres renders DDL for PostgreSQL.
type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (Postgres) TypeSQL(t schema.ColumnType, autoIncrement bool) string {
	switch t.Kind {
	case schema.KindInteger:
		if autoIncrement {
			return "SERIAL"
		}
		return "INTEGER"
	case schema.KindBigInteger:
		if autoIncrement {
			return "BIGSERIAL"
		}
		return "BIGINT"
	case schema.KindVarChar:
		return fmt.Sprintf("VARCHAR(%d)", t.Size)
	case schema.KindText:
		return "TEXT"
	case schema.KindDecimal:
		return fmt.Sprintf("NUMERIC(%d, %d)", t.Precision, t.Scale)
	case schema.KindFloat:
		return "DOUBLE PRECISION"
	case schema.KindBoolean:
		return "BOOLEAN"
	case schema.KindDate:
		return "DATE"
	case schema.KindDateTime:
		return "TIMESTAMPTZ"
	default:
		return strings.ToUpper(string(t.Kind))
	}
}

func (Postgres) AutoIncrementSQL() string { return "" }

func (Postgres) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (Postgres) CurrentTimestampSQL() string { return "now()" }

func (Postgres) AlterColumnSyntax() AlterSyntax { return AlterSyntaxStandard }

func (d Postgres) DropIndexSQL(table, index string) string {
	return fmt.Sprintf("DROP INDEX %s", d.QuoteIdent(index))
}
