// Package schema holds immutable value types describing a database's
// structure: tables, columns, indexes and constraints. Snapshots built here
// are compared purely by structure, never by data contents.
package schema

import "sort"

// LedgerTable is the bookkeeping table the recorder writes applied-migration
// rows into. Schemas are filtered here, at the construction boundary, so the
// differ never sees it and can never emit a DROP TABLE for it.
const LedgerTable = "reinhardt_migrations"

// Schema is a snapshot of a database's structure: table name -> Table.
type Schema struct {
	Tables map[string]Table
}

// New builds a snapshot from the given tables, excluding internal bookkeeping
// tables.
func New(tables ...Table) Schema {
	s := Schema{Tables: make(map[string]Table, len(tables))}
	for _, t := range tables {
		if IsInternal(t.Name) {
			continue
		}
		s.Tables[t.Name] = t
	}
	return s
}

// IsInternal reports whether a table name belongs to the engine's own
// bookkeeping state.
func IsInternal(name string) bool {
	return name == LedgerTable
}

// Table looks a table up by name.
func (s Schema) Table(name string) (Table, bool) {
	t, ok := s.Tables[name]
	return t, ok
}

// TableNames returns the table names sorted.
func (s Schema) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
