package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kent8192/reinhardt-web-sub034/internal/schema"
)

// FetchSchema introspects the live database into a Schema snapshot. The
// bookkeeping table is dropped here, at the construction boundary, so every
// snapshot handed to the differ is already clean.
func (c *Conn) FetchSchema(ctx context.Context) (schema.Schema, error) {
	var (
		tables []schema.Table
		err    error
	)
	switch c.provider {
	case "postgres":
		tables, err = c.fetchInformationSchema(ctx, "$1", defaultString(c.searchSchema, "public"))
	case "mysql":
		schemaName := c.searchSchema
		if schemaName == "" {
			if err := c.db.QueryRowContext(ctx, `SELECT DATABASE()`).Scan(&schemaName); err != nil {
				return schema.Schema{}, err
			}
		}
		tables, err = c.fetchInformationSchema(ctx, "?", schemaName)
	case "sqlite":
		tables, err = c.fetchSQLite(ctx)
	default:
		return schema.Schema{}, fmt.Errorf("unsupported provider %s", c.provider)
	}
	if err != nil {
		return schema.Schema{}, err
	}

	kept := tables[:0]
	for _, t := range tables {
		if t.Name == c.ledgerTable {
			continue
		}
		kept = append(kept, t)
	}
	return schema.New(kept...), nil
}

// fetchInformationSchema covers postgres and mysql; only the bind placeholder
// differs between them here.
func (c *Conn) fetchInformationSchema(ctx context.Context, placeholder, schemaName string) ([]schema.Table, error) {
	names, err := c.fetchTableNames(ctx, placeholder, schemaName)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*tableBuilder, len(names))
	ordered := make([]*tableBuilder, 0, len(names))
	for _, n := range names {
		b := &tableBuilder{name: n}
		byName[n] = b
		ordered = append(ordered, b)
	}

	colsRows, err := c.db.QueryContext(ctx, fmt.Sprintf(`
SELECT table_name, column_name, data_type, is_nullable, column_default,
       character_maximum_length, numeric_precision, numeric_scale
FROM information_schema.columns
WHERE table_schema = %s
ORDER BY table_name, ordinal_position`, placeholder), schemaName)
	if err != nil {
		return nil, err
	}
	defer colsRows.Close()

	for colsRows.Next() {
		var (
			tbl, col, dataType, nullable string
			def                          sql.NullString
			charLen, numPrec, numScale   sql.NullInt64
		)
		if err := colsRows.Scan(&tbl, &col, &dataType, &nullable, &def, &charLen, &numPrec, &numScale); err != nil {
			return nil, err
		}
		b, ok := byName[tbl]
		if !ok {
			continue
		}
		column := schema.Column{
			Name:     col,
			Type:     mapIntrospectedType(dataType, charLen, numPrec, numScale),
			Nullable: strings.EqualFold(nullable, "YES"),
		}
		if def.Valid {
			if strings.Contains(def.String, "nextval(") {
				column.AutoIncrement = true
			} else {
				column.Default = def.String
			}
		}
		b.columns = append(b.columns, column)
	}
	if err := colsRows.Err(); err != nil {
		return nil, err
	}

	pkRows, err := c.db.QueryContext(ctx, fmt.Sprintf(`
SELECT tc.table_name, kcu.column_name, kcu.ordinal_position
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name
 AND tc.table_schema = kcu.table_schema
 AND tc.table_name = kcu.table_name
WHERE tc.table_schema = %s AND tc.constraint_type = 'PRIMARY KEY'
ORDER BY tc.table_name, kcu.ordinal_position`, placeholder), schemaName)
	if err != nil {
		return nil, err
	}
	defer pkRows.Close()

	for pkRows.Next() {
		var (
			tbl, col string
			pos      int
		)
		if err := pkRows.Scan(&tbl, &col, &pos); err != nil {
			return nil, err
		}
		if b, ok := byName[tbl]; ok {
			b.primaryKey = append(b.primaryKey, col)
		}
	}
	if err := pkRows.Err(); err != nil {
		return nil, err
	}

	return buildTables(ordered)
}

func (c *Conn) fetchTableNames(ctx context.Context, placeholder, schemaName string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf(`
SELECT table_name
FROM information_schema.tables
WHERE table_schema = %s AND table_type = 'BASE TABLE'
ORDER BY table_name`, placeholder), schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (c *Conn) fetchSQLite(ctx context.Context) ([]schema.Table, error) {
	rows, err := c.db.QueryContext(ctx, `
SELECT name FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	builders := make([]*tableBuilder, 0, len(names))
	for _, name := range names {
		b := &tableBuilder{name: name}
		if err := c.fetchSQLiteColumns(ctx, b); err != nil {
			return nil, err
		}
		builders = append(builders, b)
	}
	return buildTables(builders)
}

func (c *Conn) fetchSQLiteColumns(ctx context.Context, b *tableBuilder) error {
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", c.d.QuoteIdent(b.name)))
	if err != nil {
		return err
	}
	defer rows.Close()

	type pkCol struct {
		name string
		rank int
	}
	var pkCols []pkCol
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, declared   string
			def              sql.NullString
		)
		if err := rows.Scan(&cid, &name, &declared, &notNull, &def, &pk); err != nil {
			return err
		}
		column := schema.Column{
			Name:     name,
			Type:     mapIntrospectedType(declared, sql.NullInt64{}, sql.NullInt64{}, sql.NullInt64{}),
			Nullable: notNull == 0,
		}
		if def.Valid {
			column.Default = def.String
		}
		b.columns = append(b.columns, column)
		if pk > 0 {
			pkCols = append(pkCols, pkCol{name: name, rank: pk})
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for rank := 1; rank <= len(pkCols); rank++ {
		for _, p := range pkCols {
			if p.rank == rank {
				b.primaryKey = append(b.primaryKey, p.name)
			}
		}
	}
	return nil
}

type tableBuilder struct {
	name       string
	columns    []schema.Column
	primaryKey []string
}

func buildTables(builders []*tableBuilder) ([]schema.Table, error) {
	tables := make([]schema.Table, 0, len(builders))
	for _, b := range builders {
		t, err := schema.NewTableWithPrimaryKey(b.name, b.columns, b.primaryKey)
		if err != nil {
			return nil, fmt.Errorf("introspect table %s: %w", b.name, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// mapIntrospectedType folds backend type spellings onto the logical types.
// Unknown spellings degrade to text rather than failing introspection.
func mapIntrospectedType(raw string, charLen, numPrec, numScale sql.NullInt64) schema.ColumnType {
	base := strings.ToLower(strings.TrimSpace(raw))
	var args []string
	if open := strings.Index(base, "("); open >= 0 && strings.HasSuffix(base, ")") {
		for _, a := range strings.Split(base[open+1:len(base)-1], ",") {
			args = append(args, strings.TrimSpace(a))
		}
		base = strings.TrimSpace(base[:open])
	}
	base = strings.TrimSuffix(base, " unsigned")

	switch base {
	case "int", "integer", "int4", "mediumint", "smallint", "int2":
		return schema.Integer()
	case "bigint", "int8":
		return schema.BigInteger()
	case "character varying", "varchar", "character", "char", "nvarchar":
		if charLen.Valid && charLen.Int64 > 0 {
			return schema.VarChar(int(charLen.Int64))
		}
		if len(args) == 1 {
			if size := atoiOrZero(args[0]); size > 0 {
				return schema.VarChar(size)
			}
		}
		return schema.VarChar(255)
	case "text", "mediumtext", "longtext", "clob":
		return schema.Text()
	case "numeric", "decimal":
		if numPrec.Valid {
			return schema.Decimal(int(numPrec.Int64), int(numScale.Int64))
		}
		if len(args) == 2 {
			return schema.Decimal(atoiOrZero(args[0]), atoiOrZero(args[1]))
		}
		return schema.Decimal(10, 0)
	case "double precision", "double", "float", "float8", "real":
		return schema.Float()
	case "boolean", "bool":
		return schema.Boolean()
	case "tinyint":
		// mysql spells boolean as tinyint(1)
		if len(args) == 1 && args[0] == "1" {
			return schema.Boolean()
		}
		return schema.Integer()
	case "date":
		return schema.Date()
	case "timestamp with time zone", "timestamp without time zone", "timestamptz",
		"timestamp", "datetime":
		return schema.DateTime()
	default:
		return schema.Text()
	}
}

func atoiOrZero(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
