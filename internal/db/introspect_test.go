package db

import (
	"database/sql"
	"testing"

	"github.com/kent8192/reinhardt-web-sub034/internal/schema"
)

func nullInt(n int64) sql.NullInt64 { return sql.NullInt64{Int64: n, Valid: true} }

func TestMapIntrospectedType(t *testing.T) {
	none := sql.NullInt64{}
	tests := []struct {
		name               string
		raw                string
		charLen, prec, scl sql.NullInt64
		want               schema.ColumnType
	}{
		{"postgres int4", "int4", none, none, none, schema.Integer()},
		{"postgres int8", "int8", none, none, none, schema.BigInteger()},
		{"mysql int unsigned", "int unsigned", none, none, none, schema.Integer()},
		{"varchar with char len", "character varying", nullInt(120), none, none, schema.VarChar(120)},
		{"varchar declared args", "varchar(64)", none, none, none, schema.VarChar(64)},
		{"varchar no size", "varchar", none, none, none, schema.VarChar(255)},
		{"longtext", "longtext", none, none, none, schema.Text()},
		{"numeric with precision", "numeric", none, nullInt(12), nullInt(3), schema.Decimal(12, 3)},
		{"decimal declared args", "decimal(8,2)", none, none, none, schema.Decimal(8, 2)},
		{"double precision", "double precision", none, none, none, schema.Float()},
		{"boolean", "boolean", none, none, none, schema.Boolean()},
		{"mysql tinyint(1)", "tinyint(1)", none, none, none, schema.Boolean()},
		{"mysql tinyint(4)", "tinyint(4)", none, none, none, schema.Integer()},
		{"timestamptz", "timestamp with time zone", none, none, none, schema.DateTime()},
		{"mysql datetime", "datetime", none, none, none, schema.DateTime()},
		{"date", "date", none, none, none, schema.Date()},
		{"unknown degrades to text", "geography", none, none, none, schema.Text()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mapIntrospectedType(tc.raw, tc.charLen, tc.prec, tc.scl)
			if got != tc.want {
				t.Errorf("mapIntrospectedType(%q) = %+v, want %+v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestBuildTables(t *testing.T) {
	builders := []*tableBuilder{
		{
			name: "memberships",
			columns: []schema.Column{
				{Name: "user_id", Type: schema.Integer(), Nullable: true},
				{Name: "group_id", Type: schema.Integer(), Nullable: true},
			},
			primaryKey: []string{"user_id", "group_id"},
		},
	}
	tables, err := buildTables(builders)
	if err != nil {
		t.Fatalf("buildTables: %v", err)
	}
	if !tables[0].HasCompositeKey() {
		t.Error("composite key lost during introspection")
	}
	for _, name := range []string{"user_id", "group_id"} {
		col, _ := tables[0].Column(name)
		if col.Nullable {
			t.Errorf("key column %s stayed nullable", name)
		}
	}
}

func TestBuildTablesRejectsBadKey(t *testing.T) {
	builders := []*tableBuilder{
		{
			name:       "broken",
			columns:    []schema.Column{{Name: "id", Type: schema.Integer()}},
			primaryKey: []string{"id", "ghost"},
		},
	}
	if _, err := buildTables(builders); err == nil {
		t.Error("unknown key column accepted")
	}
}
