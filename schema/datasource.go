package schema

import "github.com/praxdb/prax"

// Datasource is the single `datasource name { ... }` block declaring
// which backend dialect a schema targets and where its connection
// string is sourced from. Schema.Datasource holds at most one: if a
// source declares several, the parser keeps the last, and
// schema/validate does not check how many appear. It is nil when the
// source declares none.
type Datasource struct {
	Name string
	// Provider names the backend dialect in source spelling
	// ("postgresql", "mysql", "sqlite", "sqlserver"), stored as written;
	// schema/validate does not normalize it to the dialect package's
	// constants.
	Provider string
	// URLEnv is the environment variable name when the url is declared
	// as env("DATABASE_URL"); URL is the literal string form. At most
	// one is populated (neither when the block has no url).
	URL    string
	URLEnv string
	Span   prax.Span
}

// Generator is a `generator name { ... }` block describing one code
// generation target. A schema may declare multiple generators (e.g. one
// per client language); this module's own gen package is one possible
// consumer of these declarations, not the only one.
type Generator struct {
	Name       string
	Provider   string
	Output     string
	Properties map[string]ArgValue
	Span       prax.Span
}

// ServerGroup is a `serverGroup name { ... }` declaration describing a
// named group of physical servers a model's rows may be sharded or
// replicated across. The tenant package's isolation strategies do not
// read it.
type ServerGroup struct {
	Name    string
	Servers []ServerRef
	Span    prax.Span
}

// ServerRef names one member of a ServerGroup, optionally tagged with a
// role (e.g. "primary", "replica") carried as a bareword argument.
type ServerRef struct {
	Name string
	Role string
	Span prax.Span
}
