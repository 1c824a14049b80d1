package dialect

import (
	"fmt"
	"strings"

	"github.com/kent8192/reinhardt-web-sub034/internal/schema"
)

// MySQL renders DDL for MySQL and MariaDB.
type MySQL struct{}

func (MySQL) Name() string { return "mysql" }

func (MySQL) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (MySQL) TypeSQL(t schema.ColumnType, autoIncrement bool) string {
	switch t.Kind {
	case schema.KindInteger:
		return "INT"
	case schema.KindBigInteger:
		return "BIGINT"
	case schema.KindVarChar:
		return fmt.Sprintf("VARCHAR(%d)", t.Size)
	case schema.KindText:
		return "TEXT"
	case schema.KindDecimal:
		return fmt.Sprintf("DECIMAL(%d, %d)", t.Precision, t.Scale)
	case schema.KindFloat:
		return "DOUBLE"
	case schema.KindBoolean:
		return "TINYINT(1)"
	case schema.KindDate:
		return "DATE"
	case schema.KindDateTime:
		return "DATETIME(6)"
	default:
		return strings.ToUpper(string(t.Kind))
	}
}

func (MySQL) AutoIncrementSQL() string { return "AUTO_INCREMENT" }

func (MySQL) Placeholder(int) string { return "?" }

func (MySQL) CurrentTimestampSQL() string { return "CURRENT_TIMESTAMP(6)" }

func (MySQL) AlterColumnSyntax() AlterSyntax { return AlterSyntaxModify }

func (d MySQL) DropIndexSQL(table, index string) string {
	return fmt.Sprintf("DROP INDEX %s ON %s", d.QuoteIdent(index), d.QuoteIdent(table))
}
