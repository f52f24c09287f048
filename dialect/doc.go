// Package dialect provides the database dialect abstraction that the rest
// of the core is built against: a driver-neutral Driver/Tx/ExecQuerier
// contract, and the dialect name constants the SQL builder, connection
// config, and tenant rewriter key their per-backend behaviour on.
//
// # Supported dialects
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//	dialect.MSSQL    = "mssql"
//
// MSSQL has builder support (placeholder numbering, identifier quoting) but
// no registered database/sql driver in this module: nothing in the pack this
// repo was grounded on ships one, so dialect.MSSQL is reachable only through
// query/sqlbuilder, not conn.Open.
//
// # Sub-packages
//
//   - dialect/sql: the database/sql-backed Driver implementation, query
//     statistics, and slow-query detection.
//   - dialect/sql/sqlgraph: driver-error classification (unique/foreign-key/
//     check constraint violations) used by txn's Commit.
package dialect
