package schema

import (
	"fmt"
	"sort"
)

// Column describes a table column. A Column is owned by exactly one Table and
// is not mutated once the table is part of a published Schema.
type Column struct {
	Name          string     `json:"name" yaml:"name"`
	Type          ColumnType `json:"type" yaml:"type"`
	Nullable      bool       `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Default       string     `json:"default,omitempty" yaml:"default,omitempty"`
	PrimaryKey    bool       `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	AutoIncrement bool       `json:"auto_increment,omitempty" yaml:"auto_increment,omitempty"`
	Unique        bool       `json:"unique,omitempty" yaml:"unique,omitempty"`
}

// Equal compares the structural attributes of two columns.
func (c Column) Equal(o Column) bool {
	return c.Name == o.Name &&
		c.Type == o.Type &&
		c.Nullable == o.Nullable &&
		c.Default == o.Default &&
		c.PrimaryKey == o.PrimaryKey &&
		c.AutoIncrement == o.AutoIncrement &&
		c.Unique == o.Unique
}

// Index describes a secondary index on a table.
type Index struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []string `json:"columns" yaml:"columns"`
	Unique  bool     `json:"unique,omitempty" yaml:"unique,omitempty"`
}

// ConstraintType enumerates the table-level constraints the engine renders.
type ConstraintType string

const (
	ConstraintUnique     ConstraintType = "UNIQUE"
	ConstraintCheck      ConstraintType = "CHECK"
	ConstraintForeignKey ConstraintType = "FOREIGN KEY"
)

// Constraint is a named table-level constraint.
type Constraint struct {
	Name       string         `json:"name" yaml:"name"`
	Type       ConstraintType `json:"type" yaml:"type"`
	Columns    []string       `json:"columns,omitempty" yaml:"columns,omitempty"`
	RefTable   string         `json:"ref_table,omitempty" yaml:"ref_table,omitempty"`
	RefColumns []string       `json:"ref_columns,omitempty" yaml:"ref_columns,omitempty"`
	CheckExpr  string         `json:"check_expr,omitempty" yaml:"check_expr,omitempty"`
}

// Table describes a table: its columns in DDL order, its primary key (one or
// more columns), secondary indexes and table-level constraints.
type Table struct {
	Name        string       `json:"name" yaml:"name"`
	Columns     []Column     `json:"columns" yaml:"columns"`
	PrimaryKey  []string     `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	Indexes     []Index      `json:"indexes,omitempty" yaml:"indexes,omitempty"`
	Constraints []Constraint `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// ValidationError reports a malformed table or key declaration. Field carries
// the offending column name so callers can point at the model declaration.
type ValidationError struct {
	Table  string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("table %s: %s", e.Table, e.Reason)
	}
	return fmt.Sprintf("table %s, field %s: %s", e.Table, e.Field, e.Reason)
}

// NewTable builds a table whose primary key, if any, is taken from the
// per-column PrimaryKey flags. More than one flagged column is rejected; use
// NewTableWithPrimaryKey to declare a composite key.
func NewTable(name string, columns ...Column) (Table, error) {
	t := Table{Name: name, Columns: columns}
	if err := t.validateColumns(); err != nil {
		return Table{}, err
	}
	for _, c := range columns {
		if c.PrimaryKey {
			t.PrimaryKey = append(t.PrimaryKey, c.Name)
		}
	}
	if len(t.PrimaryKey) > 1 {
		return Table{}, &ValidationError{
			Table:  name,
			Reason: "multiple inline primary-key flags; declare a composite key explicitly",
		}
	}
	return t, nil
}

// NewTableWithPrimaryKey builds a table with an explicit primary key spanning
// the given columns. A key naming two or more columns is a composite key: the
// designated columns are forced NOT NULL and their inline primary-key flags
// are cleared, so the table carries exactly one table-level PRIMARY KEY clause.
func NewTableWithPrimaryKey(name string, columns []Column, primaryKey []string) (Table, error) {
	t := Table{Name: name, Columns: columns}
	if err := t.validateColumns(); err != nil {
		return Table{}, err
	}
	if len(primaryKey) == 0 {
		return NewTable(name, columns...)
	}

	seen := make(map[string]struct{}, len(primaryKey))
	for _, field := range primaryKey {
		if _, dup := seen[field]; dup {
			return Table{}, &ValidationError{Table: name, Field: field, Reason: "duplicated in primary key"}
		}
		seen[field] = struct{}{}
		if _, ok := t.Column(field); !ok {
			return Table{}, &ValidationError{Table: name, Field: field, Reason: "unknown field in primary key"}
		}
	}
	t.PrimaryKey = append([]string{}, primaryKey...)

	if len(primaryKey) == 1 {
		for i := range t.Columns {
			t.Columns[i].PrimaryKey = t.Columns[i].Name == primaryKey[0]
		}
		return t, nil
	}

	for i := range t.Columns {
		t.Columns[i].PrimaryKey = false
		if _, member := seen[t.Columns[i].Name]; member {
			t.Columns[i].Nullable = false
		}
	}
	return t, nil
}

// NewCompositeKeyTable is NewTableWithPrimaryKey restricted to composite keys:
// fewer than two distinct fields is a validation error.
func NewCompositeKeyTable(name string, columns []Column, primaryKey []string) (Table, error) {
	if len(primaryKey) < 2 {
		return Table{}, &ValidationError{Table: name, Reason: "composite primary key requires at least 2 fields"}
	}
	return NewTableWithPrimaryKey(name, columns, primaryKey)
}

func (t Table) validateColumns() error {
	if t.Name == "" {
		return &ValidationError{Table: t.Name, Reason: "table name required"}
	}
	if len(t.Columns) == 0 {
		return &ValidationError{Table: t.Name, Reason: "at least one column required"}
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return &ValidationError{Table: t.Name, Reason: "column name required"}
		}
		if _, dup := seen[c.Name]; dup {
			return &ValidationError{Table: t.Name, Field: c.Name, Reason: "duplicate column"}
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

// WithIndexes returns a copy of the table with the indexes attached, checking
// every referenced column exists.
func (t Table) WithIndexes(indexes ...Index) (Table, error) {
	for _, idx := range indexes {
		if idx.Name == "" {
			return Table{}, &ValidationError{Table: t.Name, Reason: "index name required"}
		}
		for _, col := range idx.Columns {
			if _, ok := t.Column(col); !ok {
				return Table{}, &ValidationError{Table: t.Name, Field: col, Reason: fmt.Sprintf("unknown field in index %s", idx.Name)}
			}
		}
	}
	t.Indexes = append(append([]Index{}, t.Indexes...), indexes...)
	return t, nil
}

// WithConstraints returns a copy of the table with the constraints attached.
func (t Table) WithConstraints(constraints ...Constraint) (Table, error) {
	for _, c := range constraints {
		if c.Name == "" {
			return Table{}, &ValidationError{Table: t.Name, Reason: "constraint name required"}
		}
		for _, col := range c.Columns {
			if _, ok := t.Column(col); !ok {
				return Table{}, &ValidationError{Table: t.Name, Field: col, Reason: fmt.Sprintf("unknown field in constraint %s", c.Name)}
			}
		}
	}
	t.Constraints = append(append([]Constraint{}, t.Constraints...), constraints...)
	return t, nil
}

// Column looks a column up by name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names sorted, for set comparisons.
func (t Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// HasCompositeKey reports whether the primary key spans two or more columns.
func (t Table) HasCompositeKey() bool {
	return len(t.PrimaryKey) >= 2
}
