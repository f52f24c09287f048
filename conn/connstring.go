// Package conn parses connection configuration strings of the form
// <driver>://[user[:pass]@][host[:port]][/db][?k=v&...] and dispatches
// to the registered database/sql driver for the named scheme.
package conn

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/praxdb/prax"
	"github.com/praxdb/prax/dialect"
)

// ConnectionString is the parsed form of a connection URL. Params holds
// every query-string key, already percent-decoded by net/url.
type ConnectionString struct {
	Driver   string
	User     string
	Password string
	Host     string
	Port     int
	Database string
	Params   map[string]string

	// Raw is the original string, retained for diagnostics.
	Raw string
}

// schemeDriver maps a connection-string scheme to the dialect constant
// it selects. sqlite is registered under both "sqlite" and "sqlite3" to
// match the two spellings in common use across the ecosystem.
var schemeDriver = map[string]string{
	"postgres":   dialect.Postgres,
	"postgresql": dialect.Postgres,
	"mysql":      dialect.MySQL,
	"sqlite":     dialect.SQLite,
	"sqlite3":    dialect.SQLite,
	"mssql":      dialect.MSSQL,
	"sqlserver":  dialect.MSSQL,
}

// Parse parses a connection string. It recognizes two SQLite shorthands
// that are not valid URLs in their own right: "sqlite::memory:" and the
// bare ":memory:", both of which parse to an in-memory SQLite database
// with Database set to ":memory:".
func Parse(raw string) (*ConnectionString, error) {
	if raw == ":memory:" {
		return &ConnectionString{Driver: dialect.SQLite, Database: ":memory:", Raw: raw}, nil
	}
	if rest, ok := strings.CutPrefix(raw, "sqlite::memory:"); ok && (rest == "" || strings.HasPrefix(rest, "?")) {
		cs := &ConnectionString{Driver: dialect.SQLite, Database: ":memory:", Raw: raw}
		if strings.HasPrefix(rest, "?") {
			q, err := url.ParseQuery(rest[1:])
			if err != nil {
				return nil, prax.Wrap(prax.KindConfig, err, "parse query string")
			}
			cs.Params = flattenValues(q)
		}
		return cs, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, prax.Wrap(prax.KindConfig, err, "parse connection string")
	}
	if u.Scheme == "" {
		return nil, prax.New(prax.KindConfig, "connection string %q has no scheme", raw)
	}
	driverName, ok := schemeDriver[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, prax.New(prax.KindConfig, "unknown driver scheme %q", u.Scheme).
			WithHint("expected one of postgres, mysql, sqlite, mssql")
	}

	cs := &ConnectionString{
		Driver: driverName,
		Host:   u.Hostname(),
		Raw:    raw,
	}
	if u.User != nil {
		cs.User = u.User.Username()
		cs.Password, _ = u.User.Password()
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, prax.Wrap(prax.KindConfig, err, "parse port %q", p)
		}
		cs.Port = port
	}
	cs.Database = strings.TrimPrefix(u.Path, "/")
	cs.Params = flattenValues(u.Query())
	return cs, nil
}

func flattenValues(q url.Values) map[string]string {
	if len(q) == 0 {
		return nil
	}
	m := make(map[string]string, len(q))
	for k, vs := range q {
		if len(vs) > 0 {
			m[k] = vs[0]
		}
	}
	return m
}

// DataSourceName returns the connection string exactly as it was given
// to Parse (c.Raw). It does not render a driver-specific DSN (Postgres
// keyword=value vs MySQL's user:pass@tcp(host:port)/db); conn.Open (in
// open.go) builds the DSN per driver.
func (c *ConnectionString) DataSourceName() string {
	return c.Raw
}
