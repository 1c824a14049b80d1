package diff

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kent8192/reinhardt-web-sub034/internal/operation"
	"github.com/kent8192/reinhardt-web-sub034/internal/schema"
)

func mustTable(t *testing.T, name string, columns ...schema.Column) schema.Table {
	t.Helper()
	tbl, err := schema.NewTable(name, columns...)
	if err != nil {
		t.Fatalf("NewTable(%s): %v", name, err)
	}
	return tbl
}

func idColumn() schema.Column {
	return schema.Column{Name: "id", Type: schema.Integer(), PrimaryKey: true, AutoIncrement: true}
}

func TestDetectIdenticalSchemas(t *testing.T) {
	s := schema.New(
		mustTable(t, "users", idColumn(), schema.Column{Name: "email", Type: schema.VarChar(255)}),
		mustTable(t, "orders", idColumn()),
	)
	res := Detect(s, s)
	if !res.Empty() {
		t.Errorf("identical snapshots produced a diff: %+v", res)
	}
	if ops := Operations(res, s, s); len(ops) != 0 {
		t.Errorf("identical snapshots produced operations: %v", ops)
	}
}

func TestDetectTableAndColumnChanges(t *testing.T) {
	current := schema.New(
		mustTable(t, "users", idColumn(), schema.Column{Name: "legacy_flag", Type: schema.Boolean()}),
		mustTable(t, "sessions", idColumn()),
	)
	target := schema.New(
		mustTable(t, "users", idColumn(), schema.Column{Name: "email", Type: schema.VarChar(255)}),
		mustTable(t, "orders", idColumn()),
	)

	res := Detect(current, target)

	if !reflect.DeepEqual(res.AddedTables, []string{"orders"}) {
		t.Errorf("AddedTables = %v, want [orders]", res.AddedTables)
	}
	if !reflect.DeepEqual(res.RemovedTables, []string{"sessions"}) {
		t.Errorf("RemovedTables = %v, want [sessions]", res.RemovedTables)
	}
	if !reflect.DeepEqual(res.AddedColumns, []TableColumn{{Table: "users", Column: "email"}}) {
		t.Errorf("AddedColumns = %v", res.AddedColumns)
	}
	if !reflect.DeepEqual(res.RemovedColumns, []TableColumn{{Table: "users", Column: "legacy_flag"}}) {
		t.Errorf("RemovedColumns = %v", res.RemovedColumns)
	}
}

func TestDetectIgnoresColumnsOfAddedAndRemovedTables(t *testing.T) {
	current := schema.New(mustTable(t, "old", idColumn(), schema.Column{Name: "a", Type: schema.Text()}))
	target := schema.New(mustTable(t, "new", idColumn(), schema.Column{Name: "b", Type: schema.Text()}))

	res := Detect(current, target)
	if len(res.AddedColumns) != 0 || len(res.RemovedColumns) != 0 {
		t.Errorf("columns of added/removed tables leaked into the column sets: %+v", res)
	}
}

func TestOperationsOrdering(t *testing.T) {
	current := schema.New(
		mustTable(t, "users", idColumn(), schema.Column{Name: "legacy_flag", Type: schema.Boolean()}),
		mustTable(t, "sessions", idColumn()),
	)
	target := schema.New(
		mustTable(t, "users", idColumn(), schema.Column{Name: "email", Type: schema.VarChar(255)}),
		mustTable(t, "orders", idColumn()),
	)

	ops := Operations(Detect(current, target), current, target)
	if len(ops) != 4 {
		t.Fatalf("got %d operations, want 4: %v", len(ops), ops)
	}
	if _, ok := ops[0].(operation.CreateTable); !ok {
		t.Errorf("first operation = %T, want CreateTable", ops[0])
	}
	if _, ok := ops[1].(operation.AddColumn); !ok {
		t.Errorf("second operation = %T, want AddColumn", ops[1])
	}
	if _, ok := ops[2].(operation.DropColumn); !ok {
		t.Errorf("third operation = %T, want DropColumn", ops[2])
	}
	if _, ok := ops[3].(operation.DropTable); !ok {
		t.Errorf("last operation = %T, want DropTable", ops[3])
	}
}

func TestOperationsCarryFullDefinitions(t *testing.T) {
	email := schema.Column{Name: "email", Type: schema.VarChar(255), Unique: true}
	current := schema.New(mustTable(t, "users", idColumn()))
	target := schema.New(mustTable(t, "users", idColumn(), email))

	ops := Operations(Detect(current, target), current, target)
	add, ok := ops[0].(operation.AddColumn)
	if !ok {
		t.Fatalf("operation = %T, want AddColumn", ops[0])
	}
	if !add.Column.Equal(email) {
		t.Errorf("AddColumn lost the target definition: %+v", add.Column)
	}
}

func TestDetectIsPure(t *testing.T) {
	current := schema.New(mustTable(t, "users", idColumn()))
	target := schema.New(mustTable(t, "users", idColumn(), schema.Column{Name: "email", Type: schema.VarChar(255)}))

	first := Detect(current, target)
	second := Detect(current, target)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated detection diverged:\n%+v\n%+v", first, second)
	}
}

func TestDescribe(t *testing.T) {
	empty := Result{}
	if got := Describe(empty); got != "schemas match" {
		t.Errorf("Describe(empty) = %q", got)
	}

	res := Result{
		AddedTables:  []string{"orders"},
		AddedColumns: []TableColumn{{Table: "users", Column: "email"}},
	}
	got := Describe(res)
	for _, want := range []string{"orders", "users", "email"} {
		if !strings.Contains(got, want) {
			t.Errorf("Describe missing %q:\n%s", want, got)
		}
	}
}
