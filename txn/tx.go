// Package txn provides the runtime transaction scope: WithTx closure
// semantics, isolation level selection, and named savepoints, mirrored
// from the Committer/Rollbacker middleware shape a schema-driven client
// generator would otherwise emit per model.
package txn

import (
	"context"
	"fmt"
	"sync"

	"github.com/praxdb/prax"
	"github.com/praxdb/prax/dialect"
	"github.com/praxdb/prax/dialect/sql/sqlgraph"
)

// Isolation mirrors database/sql's isolation levels without importing
// the concrete driver package, so txn stays usable against any
// dialect.Driver implementation.
type Isolation uint8

const (
	IsolationDefault Isolation = iota
	IsolationReadUncommitted
	IsolationReadCommitted
	IsolationRepeatableRead
	IsolationSerializable
)

// Options holds a transaction's requested isolation level and access
// mode. Begin records Isolation on the Tx; neither field is passed to
// the driver.
type Options struct {
	Isolation Isolation
	ReadOnly  bool
}

// Committer is the interface that wraps the Commit method.
type Committer interface {
	Commit(ctx context.Context, tx *Tx) error
}

// CommitFunc is an adapter to allow the use of an ordinary function as
// a Committer.
type CommitFunc func(ctx context.Context, tx *Tx) error

// Commit calls f(ctx, tx).
func (f CommitFunc) Commit(ctx context.Context, tx *Tx) error { return f(ctx, tx) }

// CommitHook defines the commit middleware: a function that wraps a
// Committer and returns a Committer.
//
//	hook := func(next txn.Committer) txn.Committer {
//	    return txn.CommitFunc(func(ctx context.Context, tx *txn.Tx) error {
//	        // do something before
//	        if err := next.Commit(ctx, tx); err != nil {
//	            return err
//	        }
//	        // do something after
//	        return nil
//	    })
//	}
type CommitHook func(Committer) Committer

// Rollbacker is the interface that wraps the Rollback method.
type Rollbacker interface {
	Rollback(ctx context.Context, tx *Tx) error
}

// RollbackFunc is an adapter to allow the use of an ordinary function as
// a Rollbacker.
type RollbackFunc func(ctx context.Context, tx *Tx) error

// Rollback calls f(ctx, tx).
func (f RollbackFunc) Rollback(ctx context.Context, tx *Tx) error { return f(ctx, tx) }

// RollbackHook defines the rollback middleware, the dual of CommitHook.
type RollbackHook func(Rollbacker) Rollbacker

// Tx is a transactional scope bound to a single underlying dialect.Tx.
// A Tx must not be used by more than one goroutine at a time (§4.6
// single-borrower discipline); the zero value is not usable.
type Tx struct {
	ctx       context.Context
	driver    dialect.Tx
	isolation Isolation

	mu           sync.Mutex
	onCommit     []CommitHook
	onRollback   []RollbackHook
	savepointSeq int
}

// Begin starts a transaction against drv through drv.Tx, so it runs at
// the driver's default isolation level and access mode; opts.Isolation
// is only recorded for Tx.Isolation and opts.ReadOnly is not applied.
// It refuses to nest: if drv is already a dialect.Tx, Begin returns
// prax.ErrTxStarted instead of silently opening a sub-transaction,
// since database/sql has no native nested-transaction support (use
// Tx.Savepoint instead).
func Begin(ctx context.Context, drv dialect.Driver, opts Options) (*Tx, error) {
	if _, already := drv.(dialect.Tx); already {
		return nil, prax.ErrTxStarted
	}
	dtx, err := drv.Tx(ctx)
	if err != nil {
		return nil, prax.Wrap(prax.KindTransaction, err, "begin transaction")
	}
	return &Tx{ctx: ctx, driver: dtx, isolation: opts.Isolation}, nil
}

// Context returns the context the transaction was started with.
func (tx *Tx) Context() context.Context { return tx.ctx }

// Isolation returns the isolation level recorded from Begin's options
// (the driver is not told of it). It is fixed for the lifetime of the
// transaction: isolation cannot change mid-transaction (§4.6).
func (tx *Tx) Isolation() Isolation { return tx.isolation }

// Driver returns the underlying dialect.Tx, for components (engine,
// tenant) that need to run statements within this transaction's scope.
func (tx *Tx) Driver() dialect.Tx { return tx.driver }

// Commit commits the transaction, running registered CommitHooks as a
// middleware chain around the underlying driver commit, applied in
// reverse registration order so the first-registered hook is outermost.
func (tx *Tx) Commit() error {
	var fn Committer = CommitFunc(func(ctx context.Context, tx *Tx) error {
		return tx.driver.Commit()
	})
	tx.mu.Lock()
	hooks := append([]CommitHook(nil), tx.onCommit...)
	tx.mu.Unlock()
	for i := len(hooks) - 1; i >= 0; i-- {
		fn = hooks[i](fn)
	}
	if err := fn.Commit(tx.ctx, tx); err != nil {
		return classifyCommitError(err)
	}
	return nil
}

// classifyCommitError promotes a constraint violation surfaced at commit
// time (deferred foreign-key/unique/check constraints resolve on COMMIT,
// not on the statement that violates them) to KindQuery, since the
// failure describes the data that was written rather than the
// transaction machinery. Anything else stays KindTransaction.
func classifyCommitError(err error) error {
	switch {
	case sqlgraph.IsUniqueConstraintError(err):
		return prax.Wrap(prax.KindQuery, sqlgraph.NewConstraintError("unique", err), "commit transaction")
	case sqlgraph.IsForeignKeyConstraintError(err):
		return prax.Wrap(prax.KindQuery, sqlgraph.NewConstraintError("foreign_key", err), "commit transaction")
	case sqlgraph.IsCheckConstraintError(err):
		return prax.Wrap(prax.KindQuery, sqlgraph.NewConstraintError("check", err), "commit transaction")
	default:
		return prax.Wrap(prax.KindTransaction, err, "commit transaction")
	}
}

// Rollback rolls back the transaction, running registered
// RollbackHooks the same way Commit runs CommitHooks.
func (tx *Tx) Rollback() error {
	var fn Rollbacker = RollbackFunc(func(ctx context.Context, tx *Tx) error {
		return tx.driver.Rollback()
	})
	tx.mu.Lock()
	hooks := append([]RollbackHook(nil), tx.onRollback...)
	tx.mu.Unlock()
	for i := len(hooks) - 1; i >= 0; i-- {
		fn = hooks[i](fn)
	}
	return fn.Rollback(tx.ctx, tx)
}

// OnCommit registers a commit hook.
func (tx *Tx) OnCommit(f CommitHook) {
	tx.mu.Lock()
	tx.onCommit = append(tx.onCommit, f)
	tx.mu.Unlock()
}

// OnRollback registers a rollback hook.
func (tx *Tx) OnRollback(f RollbackHook) {
	tx.mu.Lock()
	tx.onRollback = append(tx.onRollback, f)
	tx.mu.Unlock()
}

// Savepoint creates a new savepoint named sp_<n> and returns a
// *Savepoint the caller must Release or RollbackTo.
func (tx *Tx) Savepoint(ctx context.Context) (*Savepoint, error) {
	tx.mu.Lock()
	tx.savepointSeq++
	name := fmt.Sprintf("sp_%d", tx.savepointSeq)
	tx.mu.Unlock()

	if err := tx.driver.Exec(ctx, "SAVEPOINT "+name, []any{}, nil); err != nil {
		return nil, prax.Wrap(prax.KindTransaction, err, "create savepoint %s", name)
	}
	return &Savepoint{tx: tx, name: name}, nil
}

// Savepoint is a named point within a transaction that statements can
// roll back to without aborting the whole transaction.
type Savepoint struct {
	tx   *Tx
	name string
}

// Name returns the savepoint's generated name (sp_<n>).
func (s *Savepoint) Name() string { return s.name }

// Release discards the savepoint, keeping everything executed since it
// was created.
func (s *Savepoint) Release(ctx context.Context) error {
	if err := s.tx.driver.Exec(ctx, "RELEASE SAVEPOINT "+s.name, []any{}, nil); err != nil {
		return prax.Wrap(prax.KindTransaction, err, "release savepoint %s", s.name)
	}
	return nil
}

// RollbackTo rolls the transaction back to the savepoint, undoing
// everything executed since it was created while leaving the
// transaction itself open.
func (s *Savepoint) RollbackTo(ctx context.Context) error {
	if err := s.tx.driver.Exec(ctx, "ROLLBACK TO SAVEPOINT "+s.name, []any{}, nil); err != nil {
		return prax.Wrap(prax.KindTransaction, err, "rollback to savepoint %s", s.name)
	}
	return nil
}

// WithTx runs fn within a new transaction on drv. If fn returns an
// error, the transaction is rolled back and the error (wrapping the
// rollback error too, if any) is returned. If fn panics, the
// transaction is rolled back and the panic is re-raised. Otherwise the
// transaction is committed.
func WithTx(ctx context.Context, drv dialect.Driver, opts Options, fn func(tx *Tx) error) (rerr error) {
	tx, err := Begin(ctx, drv, opts)
	if err != nil {
		return err
	}
	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
	}()
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return prax.Wrap(prax.KindTransaction, err, "rolling back transaction: %v", rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}
