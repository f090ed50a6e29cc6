package repositories

import (
	"context"
	"database/sql"
	"strings"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx. Every
// repository binds to it, so transactional orchestrations can rebind the
// same repository onto an open transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// columnsWithPrefix rewrites a comma separated column list with a table
// alias, for joined queries reusing a repository's column constant.
func columnsWithPrefix(columns, prefix string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = prefix + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
