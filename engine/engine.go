// Package engine is the runtime facade that a generated model client
// binds against: it composes query/filter, query/sqlbuilder, tenant,
// cache and row into the canonical CRUD templates (§4.4) — Query,
// QueryOne, QueryOptional, Insert, Update, Delete, Count — against a
// single dialect.Driver, one engine instance serving any table via a
// TableDescriptor rather than one generated client per model.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/praxdb/prax"
	"github.com/praxdb/prax/cache"
	"github.com/praxdb/prax/dialect"
	dialectsql "github.com/praxdb/prax/dialect/sql"
	"github.com/praxdb/prax/query/filter"
	"github.com/praxdb/prax/query/sqlbuilder"
	"github.com/praxdb/prax/row"
	"github.com/praxdb/prax/tenant"
)

// TableDescriptor names the table and columns an engine operation
// targets. Generated clients build one per model; hand-written callers
// may build one ad hoc.
type TableDescriptor struct {
	Name       string
	Columns    []string
	PrimaryKey []string
}

// NullsOrder controls NULLS FIRST/LAST emission for an ORDER BY term, on
// dialects that support it (Postgres); it is silently omitted elsewhere.
type NullsOrder uint8

const (
	NullsDefault NullsOrder = iota
	NullsFirst
	NullsLast
)

// OrderTerm is one ORDER BY term.
type OrderTerm struct {
	Field string
	Desc  bool
	Nulls NullsOrder
}

// NoLimit/NoOffset mark an unset LIMIT/OFFSET in QueryOptions.
const (
	NoLimit  = -1
	NoOffset = -1
)

// QueryOptions parameterizes Query/QueryOne/QueryOptional/Count.
type QueryOptions struct {
	Columns []string // nil/empty means SELECT *
	Filter  filter.Filter
	OrderBy []OrderTerm
	Limit   int // NoLimit to omit
	Offset  int // NoOffset to omit
}

// Column is one column=value pair for Insert/Update, in caller-given
// order (so generated statement text is deterministic).
type Column struct {
	Name  string
	Value any
}

// Engine runs CRUD templates against a single dialect.Driver, applying
// tenant rewriting and result caching when configured.
type Engine struct {
	driver   dialect.Driver
	cache    *cache.Tiered
	cacheTTL time.Duration
	tenant   tenant.Strategy
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithCache enables a result cache tier, with ttl applied to every
// cached entry's expiry (zero means entries never expire on their own
// and must be invalidated by tag).
func WithCache(c *cache.Tiered, ttl time.Duration) Option {
	return func(e *Engine) {
		e.cache = c
		e.cacheTTL = ttl
	}
}

// WithTenant installs a tenant isolation strategy applied to every
// operation's filter and context.
func WithTenant(s tenant.Strategy) Option {
	return func(e *Engine) { e.tenant = s }
}

// WithStats wraps the engine's driver with dialect/sql's StatsDriver,
// collecting query counts/durations/slow-query hooks (see
// dialectsql.QueryStats). It is a no-op if the driver is not a
// *dialectsql.Driver (e.g. already wrapped by a prior Option), since
// NewStatsDriver only wraps the concrete driver type.
func WithStats(opts ...dialectsql.StatsOption) Option {
	return func(e *Engine) {
		if d, ok := e.driver.(*dialectsql.Driver); ok {
			e.driver = dialectsql.NewStatsDriver(d, opts...)
		}
	}
}

// WithDebugLog wraps the engine's driver with dialect/sql's DebugDriver,
// logging every query/exec/transaction boundary. Like WithStats, it only
// applies when the driver is still a *dialectsql.Driver.
func WithDebugLog(opts ...dialectsql.DebugOption) Option {
	return func(e *Engine) {
		if d, ok := e.driver.(*dialectsql.Driver); ok {
			e.driver = dialectsql.NewDebugDriver(d, opts...)
		}
	}
}

// Stats returns the query statistics collected by a WithStats-installed
// StatsDriver, and false if the engine was not constructed with
// WithStats (or WithStats no-opped because the driver wasn't a
// *dialectsql.Driver).
func (e *Engine) Stats() (*dialectsql.QueryStats, bool) {
	sd, ok := e.driver.(*dialectsql.StatsDriver)
	if !ok {
		return nil, false
	}
	return sd.QueryStats(), true
}

// New creates an Engine bound to drv.
func New(drv dialect.Driver, opts ...Option) *Engine {
	e := &Engine{driver: drv}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) rewrite(ctx context.Context, f filter.Filter) (context.Context, filter.Filter) {
	if e.tenant == nil {
		return ctx, f
	}
	return e.tenant.RewriteContext(ctx), e.tenant.RewriteFilter(ctx, f)
}

func isUnbounded(f filter.Filter) bool {
	return f.IsAnd() && len(f.Children()) == 0
}

func (e *Engine) builder() *sqlbuilder.Builder {
	return sqlbuilder.New(e.driver.Dialect())
}

func fieldCol(b *sqlbuilder.Builder) func(string) string {
	return func(name string) string { return b.QuoteIdent(name) }
}

func (e *Engine) writeSelectColumns(b *sqlbuilder.Builder, cols []string) {
	if len(cols) == 0 {
		b.WriteString("*")
		return
	}
	b.Separated(cols, ", ", func(b *sqlbuilder.Builder, c string) { b.Ident(c) })
}

func (e *Engine) writeOrderBy(b *sqlbuilder.Builder, order []OrderTerm) {
	if len(order) == 0 {
		return
	}
	b.WriteString(" ORDER BY ")
	for i, t := range order {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Ident(t.Field)
		if t.Desc {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
		if e.driver.Dialect() == dialect.Postgres {
			switch t.Nulls {
			case NullsFirst:
				b.WriteString(" NULLS FIRST")
			case NullsLast:
				b.WriteString(" NULLS LAST")
			}
		}
	}
}

func (e *Engine) writeLimitOffset(b *sqlbuilder.Builder, limit, offset int) {
	if limit == NoLimit && offset == NoOffset {
		return
	}
	if e.driver.Dialect() == dialect.MSSQL {
		off := offset
		if off == NoOffset {
			off = 0
		}
		b.WriteString(" OFFSET ")
		b.Bind(int64(off))
		b.WriteString(" ROWS")
		if limit != NoLimit {
			b.WriteString(" FETCH NEXT ")
			b.Bind(int64(limit))
			b.WriteString(" ROWS ONLY")
		}
		return
	}
	if limit != NoLimit {
		b.WriteString(" LIMIT ")
		b.Bind(int64(limit))
	}
	if offset != NoOffset {
		b.WriteString(" OFFSET ")
		b.Bind(int64(offset))
	}
}

func (e *Engine) buildSelect(desc TableDescriptor, opts QueryOptions) *sqlbuilder.Builder {
	b := e.builder()
	b.WriteString("SELECT ")
	e.writeSelectColumns(b, opts.Columns)
	b.WriteString(" FROM ")
	b.Ident(desc.Name)
	if !isUnbounded(opts.Filter) {
		b.WriteString(" WHERE ")
		b.WriteFilter(opts.Filter, fieldCol(b))
	}
	e.writeOrderBy(b, opts.OrderBy)
	e.writeLimitOffset(b, opts.Limit, opts.Offset)
	return b
}

func cacheKeyForSelect(desc TableDescriptor, opts QueryOptions, sqlText string, args []any) cache.CacheKey {
	return cache.CacheKey{
		Table:      desc.Name,
		Operation:  "query",
		Predicates: fmt.Sprintf("%s|%v", sqlText, args),
	}
}

type cachedRow struct {
	Columns []string `msgpack:"columns"`
	Values  []any    `msgpack:"values"`
}

func encodeRows(rows []*row.RowRef) ([]byte, error) {
	out := make([]cachedRow, len(rows))
	for i, r := range rows {
		vs := make([]any, len(r.Columns()))
		for j, c := range r.Columns() {
			v, err := r.Value(c)
			if err != nil {
				return nil, err
			}
			vs[j] = v
		}
		out[i] = cachedRow{Columns: r.Columns(), Values: vs}
	}
	return msgpack.Marshal(out)
}

func decodeRows(b []byte) ([]*row.RowRef, error) {
	var in []cachedRow
	if err := msgpack.Unmarshal(b, &in); err != nil {
		return nil, prax.Wrap(prax.KindCache, err, "decode cached rows")
	}
	out := make([]*row.RowRef, len(in))
	for i, cr := range in {
		out[i] = row.NewRowRef(cr.Columns, cr.Values)
	}
	return out, nil
}

// Query runs a SELECT and returns every matching row, consulting the
// result cache first when one is configured.
func (e *Engine) Query(ctx context.Context, desc TableDescriptor, opts QueryOptions) ([]*row.RowRef, error) {
	ctx, f := e.rewrite(ctx, opts.Filter)
	opts.Filter = f

	b := e.buildSelect(desc, opts)
	sqlText, args := b.String(), b.Args()

	var key cache.CacheKey
	if e.cache != nil {
		key = cacheKeyForSelect(desc, opts, sqlText, args)
		if entry, ok, err := e.cache.Get(ctx, key.String()); err != nil {
			return nil, err
		} else if ok {
			return decodeRows(entry.Value)
		}
	}

	rows, err := e.query(ctx, sqlText, args)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if raw, err := encodeRows(rows); err == nil {
			var expires time.Time
			if e.cacheTTL > 0 {
				expires = time.Now().Add(e.cacheTTL)
			}
			_ = e.cache.Set(ctx, key.String(), cache.Entry{
				Value:     raw,
				Tags:      []string{desc.Name},
				CreatedAt: time.Now(),
				ExpiresAt: expires,
			})
		}
	}
	return rows, nil
}

func (e *Engine) query(ctx context.Context, sqlText string, args []any) ([]*row.RowRef, error) {
	dr := &dialectsql.Rows{}
	if err := e.driver.Query(ctx, sqlText, args, dr); err != nil {
		return nil, prax.Wrap(prax.KindQuery, err, "query").WithSQL(sqlText)
	}
	defer dr.Close()

	var out []*row.RowRef
	for dr.Next() {
		ref, err := row.ScanRow(dr)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	if err := dr.Err(); err != nil {
		return nil, prax.Wrap(prax.KindQuery, err, "iterate rows").WithSQL(sqlText)
	}
	return out, nil
}

// QueryOne runs a SELECT expecting exactly one row, erroring with
// prax.ErrNotFound or prax.ErrMultiple otherwise.
func (e *Engine) QueryOne(ctx context.Context, desc TableDescriptor, opts QueryOptions) (*row.RowRef, error) {
	capped := opts
	capped.Limit = 2
	rows, err := e.Query(ctx, desc, capped)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, prax.NewNotFoundError(desc.Name)
	case 1:
		return rows[0], nil
	default:
		return nil, prax.NewMultipleError(desc.Name)
	}
}

// QueryOptional runs a SELECT expecting zero or one row. It reports
// found=false rather than erroring when nothing matches, and still
// errors on more than one match.
func (e *Engine) QueryOptional(ctx context.Context, desc TableDescriptor, opts QueryOptions) (ref *row.RowRef, found bool, err error) {
	ref, err = e.QueryOne(ctx, desc, opts)
	if prax.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return ref, true, nil
}

// Count runs SELECT COUNT(*) under f.
func (e *Engine) Count(ctx context.Context, desc TableDescriptor, f filter.Filter) (int64, error) {
	ctx, f = e.rewrite(ctx, f)

	b := e.builder()
	b.WriteString("SELECT COUNT(*) AS count FROM ")
	b.Ident(desc.Name)
	if !isUnbounded(f) {
		b.WriteString(" WHERE ")
		b.WriteFilter(f, fieldCol(b))
	}

	rows, err := e.query(ctx, b.String(), b.Args())
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Int64("count")
}

// Insert runs an INSERT, returning the row described by returning when
// non-empty. Dialects with native RETURNING support (Postgres, SQLite)
// get it in one round trip; MySQL falls back to a follow-up SELECT by
// last-insert-id against desc.PrimaryKey[0].
func (e *Engine) Insert(ctx context.Context, desc TableDescriptor, values []Column, returning []string) (*row.RowRef, error) {
	ctx, _ = e.rewrite(ctx, filter.And())

	b := e.builder()
	b.WriteString("INSERT INTO ")
	b.Ident(desc.Name)
	b.WriteString("(")
	for i, c := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Ident(c.Name)
	}
	b.WriteString(") VALUES (")
	for i, c := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Bind(c.Value)
	}
	b.WriteString(")")

	if len(returning) > 0 && returningSupported(e.driver.Dialect()) {
		b.WriteString(" RETURNING ")
		e.writeSelectColumns(b, returning)
		rows, err := e.query(ctx, b.String(), b.Args())
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, prax.NewNotFoundError(desc.Name)
		}
		e.invalidate(ctx, desc.Name)
		return rows[0], nil
	}

	var res dialectsql.Result
	if err := e.driver.Exec(ctx, b.String(), b.Args(), &res); err != nil {
		return nil, prax.Wrap(prax.KindQuery, err, "insert").WithSQL(b.String())
	}
	e.invalidate(ctx, desc.Name)
	if len(returning) == 0 {
		return nil, nil
	}
	if len(desc.PrimaryKey) == 0 {
		return nil, prax.New(prax.KindInternal, "insert returning requested but %q has no primary key", desc.Name)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, prax.Wrap(prax.KindQuery, err, "read last insert id")
	}
	return e.QueryOne(ctx, desc, QueryOptions{
		Columns: returning,
		Filter:  filter.EqualsOp(desc.PrimaryKey[0], filter.IntValue(id)),
		Limit:   NoLimit,
		Offset:  NoOffset,
	})
}

func returningSupported(dialectName string) bool {
	return dialectName == dialect.Postgres || dialectName == dialect.SQLite
}

// Update runs an UPDATE under f. A zero-value (universal-true) f is
// rejected unless allowUnbounded is set, per §4.4.
func (e *Engine) Update(ctx context.Context, desc TableDescriptor, values []Column, f filter.Filter, allowUnbounded bool) (int64, error) {
	ctx, f = e.rewrite(ctx, f)
	if isUnbounded(f) && !allowUnbounded {
		return 0, prax.New(prax.KindValidate, "unbounded update on %q requires an explicit opt-in", desc.Name)
	}

	b := e.builder()
	b.WriteString("UPDATE ")
	b.Ident(desc.Name)
	b.WriteString(" SET ")
	for i, c := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Ident(c.Name)
		b.WriteString(" = ")
		b.Bind(c.Value)
	}
	if !isUnbounded(f) {
		b.WriteString(" WHERE ")
		b.WriteFilter(f, fieldCol(b))
	}

	var res dialectsql.Result
	if err := e.driver.Exec(ctx, b.String(), b.Args(), &res); err != nil {
		return 0, prax.Wrap(prax.KindQuery, err, "update").WithSQL(b.String())
	}
	e.invalidate(ctx, desc.Name)
	return res.RowsAffected()
}

// Delete runs a DELETE under f, with the same unbounded-delete guard as
// Update.
func (e *Engine) Delete(ctx context.Context, desc TableDescriptor, f filter.Filter, allowUnbounded bool) (int64, error) {
	ctx, f = e.rewrite(ctx, f)
	if isUnbounded(f) && !allowUnbounded {
		return 0, prax.New(prax.KindValidate, "unbounded delete on %q requires an explicit opt-in", desc.Name)
	}

	b := e.builder()
	b.WriteString("DELETE FROM ")
	b.Ident(desc.Name)
	if !isUnbounded(f) {
		b.WriteString(" WHERE ")
		b.WriteFilter(f, fieldCol(b))
	}

	var res dialectsql.Result
	if err := e.driver.Exec(ctx, b.String(), b.Args(), &res); err != nil {
		return 0, prax.Wrap(prax.KindQuery, err, "delete").WithSQL(b.String())
	}
	e.invalidate(ctx, desc.Name)
	return res.RowsAffected()
}

func (e *Engine) invalidate(ctx context.Context, table string) {
	if e.cache == nil {
		return
	}
	_ = e.cache.InvalidateTag(ctx, table)
}
