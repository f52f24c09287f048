package conn

import (
	"fmt"
	"sort"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/praxdb/prax"
	"github.com/praxdb/prax/dialect"
	dialectsql "github.com/praxdb/prax/dialect/sql"
)

// driverName maps prax's dialect constant to the database/sql driver
// name registered by each import above.
var driverName = map[string]string{
	dialect.Postgres: "postgres",
	dialect.MySQL:    "mysql",
	dialect.SQLite:   "sqlite",
}

// Open parses raw and opens a *dialect/sql.Driver against it. MSSQL is
// parsed (for ConnectionString consumers that only need the structured
// form) but has no driver registered in this module; Open returns a
// KindConfig error for it.
func Open(raw string) (*dialectsql.Driver, error) {
	cs, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	drv, ok := driverName[cs.Driver]
	if !ok {
		return nil, prax.New(prax.KindConfig, "no registered database/sql driver for %q", cs.Driver)
	}
	dsn := cs.dsn()
	db, err := dialectsql.Open(drv, dsn)
	if err != nil {
		return nil, prax.Wrap(prax.KindConnection, err, "open %s connection", cs.Driver)
	}
	return db, nil
}

// dsn renders the driver-specific data source name database/sql.Open
// expects for this connection string's dialect.
func (c *ConnectionString) dsn() string {
	switch c.Driver {
	case dialect.SQLite:
		if c.Database == ":memory:" {
			return "file::memory:?cache=shared"
		}
		return c.Database
	case dialect.MySQL:
		return c.mysqlDSN()
	default: // Postgres
		return c.postgresDSN()
	}
}

func (c *ConnectionString) mysqlDSN() string {
	var b strings.Builder
	if c.User != "" {
		b.WriteString(c.User)
		if c.Password != "" {
			b.WriteByte(':')
			b.WriteString(c.Password)
		}
		b.WriteByte('@')
	}
	if c.Host != "" {
		b.WriteString("tcp(")
		b.WriteString(c.Host)
		if c.Port != 0 {
			fmt.Fprintf(&b, ":%d", c.Port)
		}
		b.WriteByte(')')
	}
	b.WriteByte('/')
	b.WriteString(c.Database)
	if len(c.Params) > 0 {
		b.WriteByte('?')
		writeSortedParams(&b, c.Params)
	}
	return b.String()
}

func (c *ConnectionString) postgresDSN() string {
	var parts []string
	if c.Host != "" {
		parts = append(parts, "host="+c.Host)
	}
	if c.Port != 0 {
		parts = append(parts, fmt.Sprintf("port=%d", c.Port))
	}
	if c.User != "" {
		parts = append(parts, "user="+c.User)
	}
	if c.Password != "" {
		parts = append(parts, "password="+c.Password)
	}
	if c.Database != "" {
		parts = append(parts, "dbname="+c.Database)
	}
	keys := make([]string, 0, len(c.Params))
	for k := range c.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, c.Params[k]))
	}
	return strings.Join(parts, " ")
}

func writeSortedParams(b *strings.Builder, params map[string]string) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
}
