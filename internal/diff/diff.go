// Package diff compares two schema snapshots and turns the delta into an
// ordered operation sequence. Detection is by table and column name presence
// only; type changes and renames are out of its scope and stay explicit
// operations.
package diff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kent8192/reinhardt-web-sub034/internal/operation"
	"github.com/kent8192/reinhardt-web-sub034/internal/schema"
)

// TableColumn names a column within a table.
type TableColumn struct {
	Table  string
	Column string
}

// Result is the structural delta between a current and a target snapshot.
// All four sets are sorted, making detection deterministic.
type Result struct {
	AddedTables    []string
	RemovedTables  []string
	AddedColumns   []TableColumn
	RemovedColumns []TableColumn
}

// Empty reports whether the two snapshots were structurally identical.
func (r Result) Empty() bool {
	return len(r.AddedTables) == 0 && len(r.RemovedTables) == 0 &&
		len(r.AddedColumns) == 0 && len(r.RemovedColumns) == 0
}

// Detect compares current against target. It is pure and total: it never
// fails, allocates fresh values only, and is safe for concurrent callers.
// Bookkeeping tables are expected to have been filtered out when the schemas
// were constructed.
func Detect(current, target schema.Schema) Result {
	var res Result

	currentTables := current.TableNames()
	targetTables := target.TableNames()

	res.AddedTables = difference(targetTables, currentTables)
	res.RemovedTables = difference(currentTables, targetTables)

	for _, name := range currentTables {
		currentTable := current.Tables[name]
		targetTable, ok := target.Tables[name]
		if !ok {
			continue
		}
		currentCols := currentTable.ColumnNames()
		targetCols := targetTable.ColumnNames()
		for _, col := range difference(targetCols, currentCols) {
			res.AddedColumns = append(res.AddedColumns, TableColumn{Table: name, Column: col})
		}
		for _, col := range difference(currentCols, targetCols) {
			res.RemovedColumns = append(res.RemovedColumns, TableColumn{Table: name, Column: col})
		}
	}
	return res
}

// Operations turns a diff into the ordered operation sequence that migrates
// current into target. Ordering rule: CreateTable for every added table comes
// first, then AddColumn, then DropColumn on surviving tables, and DropTable
// last, so consumers referencing a doomed table are cleaned up before it
// disappears. An identical pair of snapshots yields an empty sequence.
func Operations(r Result, current, target schema.Schema) []operation.Operation {
	var ops []operation.Operation

	for _, name := range r.AddedTables {
		ops = append(ops, operation.CreateTable{Table: target.Tables[name]})
	}
	for _, tc := range r.AddedColumns {
		col, _ := target.Tables[tc.Table].Column(tc.Column)
		ops = append(ops, operation.AddColumn{TableName: tc.Table, Column: col})
	}
	for _, tc := range r.RemovedColumns {
		col, _ := current.Tables[tc.Table].Column(tc.Column)
		ops = append(ops, operation.DropColumn{TableName: tc.Table, Column: col})
	}
	for _, name := range r.RemovedTables {
		ops = append(ops, operation.DropTable{Table: current.Tables[name]})
	}
	return ops
}

// Describe returns a human-readable summary of a diff.
func Describe(r Result) string {
	if r.Empty() {
		return "schemas match"
	}
	var lines []string
	if len(r.AddedTables) > 0 {
		lines = append(lines, fmt.Sprintf("Tables to add: %s", strings.Join(r.AddedTables, ", ")))
	}
	if len(r.RemovedTables) > 0 {
		lines = append(lines, fmt.Sprintf("Tables to remove: %s", strings.Join(r.RemovedTables, ", ")))
	}
	for _, tc := range r.AddedColumns {
		lines = append(lines, fmt.Sprintf("Table %s: column to add: %s", tc.Table, tc.Column))
	}
	for _, tc := range r.RemovedColumns {
		lines = append(lines, fmt.Sprintf("Table %s: column to remove: %s", tc.Table, tc.Column))
	}
	return strings.Join(lines, "\n")
}

func difference(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	var out []string
	for _, v := range a {
		if _, ok := set[v]; !ok {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
