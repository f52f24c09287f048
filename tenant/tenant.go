// Package tenant implements multi-tenant query rewriting: given a
// resolved tenant id, a Strategy augments a Filter (row-level) or
// injects a session variable ahead of the statement (schema-based,
// database-based) so every query an engine runs is scoped to one
// tenant's data without the caller repeating that predicate by hand.
package tenant

import (
	"context"

	dialectsql "github.com/praxdb/prax/dialect/sql"
	"github.com/praxdb/prax/query/filter"
)

// ctxKey is the context key under which the resolved tenant id is
// stored.
type ctxKey struct{}

// WithTenant returns a context carrying id as the active tenant.
func WithTenant(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the active tenant id, if any.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}

// Strategy rewrites a query's Filter and/or context to scope it to one
// tenant.
type Strategy interface {
	// RewriteFilter augments f with whatever row-level predicate the
	// strategy needs. Strategies that scope at the connection/schema
	// level instead (SchemaBased, DatabaseBased) return f unchanged.
	RewriteFilter(ctx context.Context, f filter.Filter) filter.Filter
	// RewriteContext attaches whatever session state (search_path,
	// database selector) the strategy needs before the statement runs.
	// Strategies that scope via a row predicate instead (RowLevel)
	// return ctx unchanged.
	RewriteContext(ctx context.Context) context.Context
}

// RowLevel scopes every query by ANDing an equality predicate on
// TenantField against the context's active tenant id.
type RowLevel struct {
	TenantField string
}

func (s RowLevel) RewriteFilter(ctx context.Context, f filter.Filter) filter.Filter {
	id, ok := FromContext(ctx)
	if !ok {
		return f
	}
	return filter.And(f, filter.EqualsOp(s.TenantField, filter.StringValue(id)))
}

func (s RowLevel) RewriteContext(ctx context.Context) context.Context { return ctx }

// SchemaBased scopes a tenant to its own schema by setting the
// database's search_path (Postgres) or an equivalent session variable
// before every statement, via dialect/sql's WithVar context propagation.
type SchemaBased struct {
	// Var names the session variable to set, e.g. "search_path".
	Var string
	// SchemaName derives the schema name for a tenant id, e.g.
	// func(id string) string { return "tenant_" + id }.
	SchemaName func(tenantID string) string
}

func (s SchemaBased) RewriteFilter(ctx context.Context, f filter.Filter) filter.Filter { return f }

func (s SchemaBased) RewriteContext(ctx context.Context) context.Context {
	id, ok := FromContext(ctx)
	if !ok {
		return ctx
	}
	return dialectsql.WithVar(ctx, s.Var, s.SchemaName(id))
}

// DatabaseBased names a per-tenant database: RewriteContext attaches
// DatabaseName(tenantID) to the context as the session variable Var,
// which dialect/sql sets before each statement. It does not resolve a
// connection string, and neither the engine nor the pool selects a
// different connection or pool from it.
type DatabaseBased struct {
	Var         string // e.g. "prax.database"
	DatabaseName func(tenantID string) string
}

func (s DatabaseBased) RewriteFilter(ctx context.Context, f filter.Filter) filter.Filter { return f }

func (s DatabaseBased) RewriteContext(ctx context.Context) context.Context {
	id, ok := FromContext(ctx)
	if !ok {
		return ctx
	}
	return dialectsql.WithVar(ctx, s.Var, s.DatabaseName(id))
}

// Hybrid composes multiple strategies, applying each in order. It is
// how a deployment combines, e.g., DatabaseBased per customer with
// RowLevel per sub-account within that customer's database.
type Hybrid struct {
	Strategies []Strategy
}

func (h Hybrid) RewriteFilter(ctx context.Context, f filter.Filter) filter.Filter {
	for _, s := range h.Strategies {
		f = s.RewriteFilter(ctx, f)
	}
	return f
}

func (h Hybrid) RewriteContext(ctx context.Context) context.Context {
	for _, s := range h.Strategies {
		ctx = s.RewriteContext(ctx)
	}
	return ctx
}
