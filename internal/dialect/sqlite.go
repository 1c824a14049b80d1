package dialect

import (
	"fmt"
	"strings"

	"github.com/kent8192/reinhardt-web-sub034/internal/schema"
)

// SQLite renders DDL for SQLite. Auto-increment only takes effect on an
// INTEGER PRIMARY KEY column, which is also how SQLite itself defines it.
type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (SQLite) TypeSQL(t schema.ColumnType, autoIncrement bool) string {
	switch t.Kind {
	case schema.KindInteger, schema.KindBigInteger:
		return "INTEGER"
	case schema.KindVarChar:
		return fmt.Sprintf("VARCHAR(%d)", t.Size)
	case schema.KindText:
		return "TEXT"
	case schema.KindDecimal:
		return fmt.Sprintf("DECIMAL(%d, %d)", t.Precision, t.Scale)
	case schema.KindFloat:
		return "REAL"
	case schema.KindBoolean:
		return "BOOLEAN"
	case schema.KindDate:
		return "DATE"
	case schema.KindDateTime:
		return "DATETIME"
	default:
		return strings.ToUpper(string(t.Kind))
	}
}

func (SQLite) AutoIncrementSQL() string { return "AUTOINCREMENT" }

func (SQLite) Placeholder(int) string { return "?" }

func (SQLite) CurrentTimestampSQL() string { return "CURRENT_TIMESTAMP" }

func (SQLite) AlterColumnSyntax() AlterSyntax { return AlterSyntaxStandard }

func (d SQLite) DropIndexSQL(table, index string) string {
	return fmt.Sprintf("DROP INDEX %s", d.QuoteIdent(index))
}
