package operation

import (
	"fmt"
	"strings"

	"github.com/kent8192/reinhardt-web-sub034/internal/dialect"
	"github.com/kent8192/reinhardt-web-sub034/internal/schema"
)

// Forward renders the DDL statements that apply op, in execution order.
func Forward(op Operation, d dialect.Dialect) []string {
	switch o := op.(type) {
	case CreateTable:
		return []string{createTableSQL(o.Table, d)}
	case DropTable:
		return []string{fmt.Sprintf("DROP TABLE %s", d.QuoteIdent(o.Table.Name))}
	case AddColumn:
		return []string{fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s",
			d.QuoteIdent(o.TableName), columnClause(o.Column, d, false))}
	case DropColumn:
		return []string{fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s",
			d.QuoteIdent(o.TableName), d.QuoteIdent(o.Column.Name))}
	case AlterColumn:
		return alterColumnSQL(o.TableName, o.From, o.To, d)
	case AddIndex:
		return []string{createIndexSQL(o.TableName, o.Index, d)}
	case DropIndex:
		return []string{d.DropIndexSQL(o.TableName, o.Index.Name)}
	case AddConstraint:
		return []string{fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s %s",
			d.QuoteIdent(o.TableName), d.QuoteIdent(o.Constraint.Name), constraintClause(o.Constraint, d))}
	case DropConstraint:
		return []string{fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s",
			d.QuoteIdent(o.TableName), d.QuoteIdent(o.Constraint.Name))}
	default:
		panic(fmt.Sprintf("operation: unknown variant %T", op))
	}
}

// Backward renders the DDL statements that undo op.
func Backward(op Operation, d dialect.Dialect) []string {
	return Forward(Reverse(op), d)
}

func createTableSQL(t schema.Table, d dialect.Dialect) string {
	defs := make([]string, 0, len(t.Columns)+1+len(t.Constraints))
	for _, col := range t.Columns {
		defs = append(defs, columnClause(col, d, !t.HasCompositeKey()))
	}
	if t.HasCompositeKey() {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", quoteJoin(t.PrimaryKey, d)))
	}
	for _, c := range t.Constraints {
		defs = append(defs, fmt.Sprintf("CONSTRAINT %s %s", d.QuoteIdent(c.Name), constraintClause(c, d)))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.QuoteIdent(t.Name), strings.Join(defs, ", "))
}

// columnClause renders "<name> <type> [NOT NULL] [DEFAULT lit] [UNIQUE]
// [PRIMARY KEY]". The inline PRIMARY KEY is only emitted when allowInlinePK is
// true, i.e. when the owning table does not carry a composite key clause.
func columnClause(col schema.Column, d dialect.Dialect, allowInlinePK bool) string {
	parts := []string{d.QuoteIdent(col.Name), d.TypeSQL(col.Type, col.AutoIncrement)}
	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}
	if col.Default != "" {
		parts = append(parts, "DEFAULT "+col.Default)
	}
	if col.Unique {
		parts = append(parts, "UNIQUE")
	}
	if allowInlinePK && col.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
		if col.AutoIncrement {
			if kw := d.AutoIncrementSQL(); kw != "" {
				parts = append(parts, kw)
			}
		}
	}
	return strings.Join(parts, " ")
}

func alterColumnSQL(table string, from, to schema.Column, d dialect.Dialect) []string {
	if from.Equal(to) {
		return nil
	}
	qt := d.QuoteIdent(table)
	qc := d.QuoteIdent(to.Name)

	if d.AlterColumnSyntax() == dialect.AlterSyntaxModify {
		return []string{fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s", qt, columnClause(to, d, false))}
	}

	var stmts []string
	if from.Type != to.Type {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s",
			qt, qc, d.TypeSQL(to.Type, false)))
	}
	if from.Nullable != to.Nullable {
		action := "SET NOT NULL"
		if to.Nullable {
			action = "DROP NOT NULL"
		}
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s", qt, qc, action))
	}
	if from.Default != to.Default {
		if to.Default == "" {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT", qt, qc))
		} else {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s", qt, qc, to.Default))
		}
	}
	return stmts
}

func createIndexSQL(table string, idx schema.Index, d dialect.Dialect) string {
	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
		unique, d.QuoteIdent(idx.Name), d.QuoteIdent(table), quoteJoin(idx.Columns, d))
}

func constraintClause(c schema.Constraint, d dialect.Dialect) string {
	switch c.Type {
	case schema.ConstraintUnique:
		return fmt.Sprintf("UNIQUE (%s)", quoteJoin(c.Columns, d))
	case schema.ConstraintCheck:
		return fmt.Sprintf("CHECK (%s)", c.CheckExpr)
	case schema.ConstraintForeignKey:
		return fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
			quoteJoin(c.Columns, d), d.QuoteIdent(c.RefTable), quoteJoin(c.RefColumns, d))
	default:
		return string(c.Type)
	}
}

func quoteJoin(names []string, d dialect.Dialect) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = d.QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}
