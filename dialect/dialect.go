package dialect

import "context"

// Dialect name constants. These are the canonical, lower-cased driver
// names used throughout conn, query/sqlbuilder, and tenant to select
// per-backend behaviour.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
	MSSQL    = "mssql"
)

// ExecQuerier is implemented by both Driver and Tx. It is the minimal
// surface the query engine needs to run a statement: args is always a
// []any parameter vector produced by query/sqlbuilder, and v is an
// out-parameter selected by the caller (*sql.Result for Exec, *Rows for
// Query) so that dialect/sql can avoid allocating wrapper types for the
// common case.
type ExecQuerier interface {
	Exec(ctx context.Context, query string, args, v any) error
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the top-level handle returned by dialect/sql.Open. It owns the
// underlying connection pool (via database/sql, or this module's own
// pool package for backends that need bespoke acquisition).
type Driver interface {
	ExecQuerier
	// Tx starts a new transaction with the driver's default options.
	Tx(ctx context.Context) (Tx, error)
	// Close releases the driver's resources.
	Close() error
	// Dialect returns one of the constants above.
	Dialect() string
}

// Tx extends Driver with the statement-scope completion methods. A Tx
// must not be shared across concurrent callers (§4.6: one borrower at a
// time).
type Tx interface {
	Driver
	Commit() error
	Rollback() error
}
