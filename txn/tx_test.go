package txn_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxdb/prax"
	"github.com/praxdb/prax/dialect"
	"github.com/praxdb/prax/dialect/sql/sqlgraph"
	"github.com/praxdb/prax/txn"
)

type fakeTx struct {
	execs      []string
	committed  bool
	rolledBack bool
	commitErr  error
	rollbkErr  error
}

func (t *fakeTx) Exec(ctx context.Context, query string, args, v any) error {
	t.execs = append(t.execs, query)
	return nil
}
func (t *fakeTx) Query(ctx context.Context, query string, args, v any) error { return nil }
func (t *fakeTx) Tx(ctx context.Context) (dialect.Tx, error)                 { return t, nil }
func (t *fakeTx) Close() error                                               { return nil }
func (t *fakeTx) Dialect() string                                            { return dialect.Postgres }
func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}
func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return t.rollbkErr
}

type fakeDriver struct {
	tx *fakeTx
}

func (d *fakeDriver) Exec(ctx context.Context, query string, args, v any) error  { return nil }
func (d *fakeDriver) Query(ctx context.Context, query string, args, v any) error { return nil }
func (d *fakeDriver) Tx(ctx context.Context) (dialect.Tx, error)                 { return d.tx, nil }
func (d *fakeDriver) Close() error                                               { return nil }
func (d *fakeDriver) Dialect() string                                            { return dialect.Postgres }

func TestWithTxCommitsOnSuccess(t *testing.T) {
	ft := &fakeTx{}
	drv := &fakeDriver{tx: ft}
	err := txn.WithTx(context.Background(), drv, txn.Options{}, func(tx *txn.Tx) error {
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ft.committed)
	assert.False(t, ft.rolledBack)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ft := &fakeTx{}
	drv := &fakeDriver{tx: ft}
	sentinel := prax.New(prax.KindQuery, "boom")
	err := txn.WithTx(context.Background(), drv, txn.Options{}, func(tx *txn.Tx) error {
		return sentinel
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.True(t, ft.rolledBack)
	assert.False(t, ft.committed)
}

func TestWithTxRePanics(t *testing.T) {
	ft := &fakeTx{}
	drv := &fakeDriver{tx: ft}
	assert.Panics(t, func() {
		_ = txn.WithTx(context.Background(), drv, txn.Options{}, func(tx *txn.Tx) error {
			panic("boom")
		})
	})
	assert.True(t, ft.rolledBack)
}

func TestBeginRejectsNestedTransaction(t *testing.T) {
	ft := &fakeTx{}
	_, err := txn.Begin(context.Background(), ft, txn.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, prax.ErrTxStarted)
}

func TestCommitHooksRunInReverseRegistrationOrder(t *testing.T) {
	ft := &fakeTx{}
	drv := &fakeDriver{tx: ft}
	tx, err := txn.Begin(context.Background(), drv, txn.Options{})
	require.NoError(t, err)

	var order []string
	tx.OnCommit(func(next txn.Committer) txn.Committer {
		return txn.CommitFunc(func(ctx context.Context, tx *txn.Tx) error {
			order = append(order, "first")
			return next.Commit(ctx, tx)
		})
	})
	tx.OnCommit(func(next txn.Committer) txn.Committer {
		return txn.CommitFunc(func(ctx context.Context, tx *txn.Tx) error {
			order = append(order, "second")
			return next.Commit(ctx, tx)
		})
	})

	require.NoError(t, tx.Commit())
	assert.Equal(t, []string{"first", "second"}, order)
	assert.True(t, ft.committed)
}

func TestSavepointNamesIncrement(t *testing.T) {
	ft := &fakeTx{}
	drv := &fakeDriver{tx: ft}
	tx, err := txn.Begin(context.Background(), drv, txn.Options{})
	require.NoError(t, err)

	sp1, err := tx.Savepoint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sp_1", sp1.Name())

	sp2, err := tx.Savepoint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sp_2", sp2.Name())

	assert.Contains(t, ft.execs, "SAVEPOINT sp_1")
	assert.Contains(t, ft.execs, "SAVEPOINT sp_2")
}

func TestSavepointRollbackTo(t *testing.T) {
	ft := &fakeTx{}
	drv := &fakeDriver{tx: ft}
	tx, err := txn.Begin(context.Background(), drv, txn.Options{})
	require.NoError(t, err)

	sp, err := tx.Savepoint(context.Background())
	require.NoError(t, err)
	require.NoError(t, sp.RollbackTo(context.Background()))
	assert.Contains(t, ft.execs, "ROLLBACK TO SAVEPOINT sp_1")
}

func TestCommitClassifiesUniqueConstraintViolationAsKindQuery(t *testing.T) {
	ft := &fakeTx{commitErr: errors.New(`pq: duplicate key value violates unique constraint "users_email_key"`)}
	drv := &fakeDriver{tx: ft}
	tx, err := txn.Begin(context.Background(), drv, txn.Options{})
	require.NoError(t, err)

	err = tx.Commit()
	require.Error(t, err)

	var perr *prax.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, prax.KindQuery, perr.Kind)

	var cerr *sqlgraph.ConstraintError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "unique", cerr.Kind)
}

func TestCommitClassifiesOtherDriverErrorsAsKindTransaction(t *testing.T) {
	ft := &fakeTx{commitErr: errors.New("connection reset by peer")}
	drv := &fakeDriver{tx: ft}
	tx, err := txn.Begin(context.Background(), drv, txn.Options{})
	require.NoError(t, err)

	err = tx.Commit()
	require.Error(t, err)

	var perr *prax.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, prax.KindTransaction, perr.Kind)

	var cerr *sqlgraph.ConstraintError
	assert.False(t, errors.As(err, &cerr))
}

func TestIsolationFixedAtBegin(t *testing.T) {
	ft := &fakeTx{}
	drv := &fakeDriver{tx: ft}
	tx, err := txn.Begin(context.Background(), drv, txn.Options{Isolation: txn.IsolationSerializable})
	require.NoError(t, err)
	assert.Equal(t, txn.IsolationSerializable, tx.Isolation())
}
