// Package sql executes statements against database systems (PostgreSQL,
// MySQL, SQLite) through database/sql. It does not build SQL text; that
// is query/sqlbuilder's job.
//
// # Contents
//
//   - Driver, Conn and Tx: Open, OpenDB and NewDriver wrap a *sql.DB as a
//     dialect.Driver whose Exec and Query run a statement with its args.
//   - WithVar, WithIntVar and VarFromContext: session variables carried
//     on a context and set before each statement.
//   - StatsDriver and DebugDriver: wrappers that count queries, report
//     slow ones, and log every statement (see stats.go).
//   - ColumnScanner and NullScanner: row-scanning helpers.
//
// # Dialect Support
//
// Dialect names come from the dialect package:
//
//	import "github.com/praxdb/prax/dialect"
//
//	drv, err := sql.Open(dialect.Postgres, dsn)
package sql
