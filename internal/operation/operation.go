// Package operation models atomic, reversible schema changes. The set of
// variants is closed: rendering dispatches exhaustively over the types below,
// and each variant carries enough data to render both directions without
// re-querying a schema.
package operation

import (
	"fmt"

	"github.com/kent8192/reinhardt-web-sub034/internal/schema"
)

// Operation is one atomic schema change. Implementations are immutable once
// constructed; all failure modes are caught at construction time, so rendering
// never fails.
type Operation interface {
	// Describe returns a short human-readable summary for logs and plans.
	Describe() string

	isOperation()
}

// CreateTable creates a table. It owns the full table definition, which is
// also what makes DropTable its exact reversal.
type CreateTable struct {
	Table schema.Table `json:"table"`
}

// DropTable drops a table. It keeps the full definition so the table can be
// recreated on reverse.
type DropTable struct {
	Table schema.Table `json:"table"`
}

// AddColumn adds a column to an existing table.
type AddColumn struct {
	TableName string        `json:"table_name"`
	Column    schema.Column `json:"column"`
}

// DropColumn removes a column, keeping its full definition for the reverse.
type DropColumn struct {
	TableName string        `json:"table_name"`
	Column    schema.Column `json:"column"`
}

// AlterColumn changes a column's type, nullability or default. It is never
// auto-detected by the differ; callers construct it explicitly.
type AlterColumn struct {
	TableName string        `json:"table_name"`
	From      schema.Column `json:"from"`
	To        schema.Column `json:"to"`
}

// AddIndex creates a secondary index.
type AddIndex struct {
	TableName string       `json:"table_name"`
	Index     schema.Index `json:"index"`
}

// DropIndex removes an index, keeping its definition for the reverse.
type DropIndex struct {
	TableName string       `json:"table_name"`
	Index     schema.Index `json:"index"`
}

// AddConstraint attaches a named table-level constraint.
type AddConstraint struct {
	TableName  string            `json:"table_name"`
	Constraint schema.Constraint `json:"constraint"`
}

// DropConstraint removes a named constraint, keeping its definition.
type DropConstraint struct {
	TableName  string            `json:"table_name"`
	Constraint schema.Constraint `json:"constraint"`
}

func (CreateTable) isOperation()    {}
func (DropTable) isOperation()      {}
func (AddColumn) isOperation()      {}
func (DropColumn) isOperation()     {}
func (AlterColumn) isOperation()    {}
func (AddIndex) isOperation()       {}
func (DropIndex) isOperation()      {}
func (AddConstraint) isOperation()  {}
func (DropConstraint) isOperation() {}

func (o CreateTable) Describe() string { return fmt.Sprintf("create table %s", o.Table.Name) }
func (o DropTable) Describe() string   { return fmt.Sprintf("drop table %s", o.Table.Name) }
func (o AddColumn) Describe() string {
	return fmt.Sprintf("add column %s.%s", o.TableName, o.Column.Name)
}
func (o DropColumn) Describe() string {
	return fmt.Sprintf("drop column %s.%s", o.TableName, o.Column.Name)
}
func (o AlterColumn) Describe() string {
	return fmt.Sprintf("alter column %s.%s", o.TableName, o.To.Name)
}
func (o AddIndex) Describe() string {
	return fmt.Sprintf("add index %s on %s", o.Index.Name, o.TableName)
}
func (o DropIndex) Describe() string {
	return fmt.Sprintf("drop index %s on %s", o.Index.Name, o.TableName)
}
func (o AddConstraint) Describe() string {
	return fmt.Sprintf("add constraint %s on %s", o.Constraint.Name, o.TableName)
}
func (o DropConstraint) Describe() string {
	return fmt.Sprintf("drop constraint %s on %s", o.Constraint.Name, o.TableName)
}

// Reverse returns the operation that undoes op. CreateTable reverses to a
// DropTable carrying the same table definition, and vice versa.
func Reverse(op Operation) Operation {
	switch o := op.(type) {
	case CreateTable:
		return DropTable{Table: o.Table}
	case DropTable:
		return CreateTable{Table: o.Table}
	case AddColumn:
		return DropColumn{TableName: o.TableName, Column: o.Column}
	case DropColumn:
		return AddColumn{TableName: o.TableName, Column: o.Column}
	case AlterColumn:
		return AlterColumn{TableName: o.TableName, From: o.To, To: o.From}
	case AddIndex:
		return DropIndex{TableName: o.TableName, Index: o.Index}
	case DropIndex:
		return AddIndex{TableName: o.TableName, Index: o.Index}
	case AddConstraint:
		return DropConstraint{TableName: o.TableName, Constraint: o.Constraint}
	case DropConstraint:
		return AddConstraint{TableName: o.TableName, Constraint: o.Constraint}
	default:
		panic(fmt.Sprintf("operation: unknown variant %T", op))
	}
}
