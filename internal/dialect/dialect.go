// Package dialect isolates backend-specific SQL spelling: identifier quoting,
// logical type names, placeholders. Operations never embed a backend's quoting
// style directly; they always go through a Dialect.
package dialect

import (
	"fmt"
	"strings"

	"github.com/kent8192/reinhardt-web-sub034/internal/schema"
)

// AlterSyntax selects how a column alteration is spelled.
type AlterSyntax int

const (
	// AlterSyntaxStandard uses ALTER COLUMN ... TYPE / SET NOT NULL / SET DEFAULT.
	AlterSyntaxStandard AlterSyntax = iota
	// AlterSyntaxModify uses a single MODIFY COLUMN clause (MySQL).
	AlterSyntaxModify
)

// Dialect is the capability object passed into every operation render call.
type Dialect interface {
	Name() string
	QuoteIdent(name string) string
	// TypeSQL spells a logical column type. autoIncrement lets backends that
	// fold auto-increment into the type (postgres serial) substitute it.
	TypeSQL(t schema.ColumnType, autoIncrement bool) string
	// AutoIncrementSQL is the keyword appended after PRIMARY KEY for backends
	// that spell auto-increment as a column suffix; empty otherwise.
	AutoIncrementSQL() string
	// Placeholder returns the 1-based bind parameter marker.
	Placeholder(n int) string
	CurrentTimestampSQL() string
	AlterColumnSyntax() AlterSyntax
	DropIndexSQL(table, index string) string
}

// ForProvider maps a configured provider name to its Dialect.
func ForProvider(provider string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "postgres":
		return Postgres{}, nil
	case "mysql":
		return MySQL{}, nil
	case "sqlite":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("unsupported provider %s", provider)
	}
}
