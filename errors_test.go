package prax_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxdb/prax"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := prax.NewNotFoundError("User")
		assert.Equal(t, "prax: User not found", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := prax.NewNotFoundError("Post")
		assert.True(t, errors.Is(err, prax.ErrNotFound))
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := prax.NewNotFoundError("Comment")
		assert.True(t, prax.IsNotFound(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, prax.IsNotFound(wrapped))

		assert.True(t, prax.IsNotFound(prax.ErrNotFound))

		assert.False(t, prax.IsNotFound(errors.New("other error")))
		assert.False(t, prax.IsNotFound(nil))
	})

	t.Run("WithID", func(t *testing.T) {
		err := prax.NewNotFoundErrorWithID("User", 42)
		assert.Equal(t, "prax: User not found (id=42)", err.Error())
		assert.Equal(t, 42, err.ID())
		assert.Equal(t, "User", err.Label())
	})
}

func TestMultipleError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := prax.NewMultipleError("User")
		assert.Equal(t, "prax: User not singular", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := prax.NewMultipleError("Post")
		assert.True(t, errors.Is(err, prax.ErrMultiple))
	})

	t.Run("IsMultiple", func(t *testing.T) {
		err := prax.NewMultipleErrorWithCount("Comment", 3)
		assert.Contains(t, err.Error(), "got 3 results")
		assert.True(t, prax.IsMultiple(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, prax.IsMultiple(wrapped))

		assert.True(t, prax.IsMultiple(prax.ErrMultiple))

		assert.False(t, prax.IsMultiple(errors.New("other error")))
		assert.False(t, prax.IsMultiple(nil))
	})
}

func TestErrorEnvelope(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := prax.New(prax.KindParse, "unexpected token %q", "}")
		assert.Equal(t, `prax: parse: unexpected token "}"`, err.Error())
	})

	t.Run("WithSpan", func(t *testing.T) {
		err := prax.New(prax.KindParse, "unexpected token").WithSpan(prax.Span{Start: 10, End: 11, Line: 2, Col: 5})
		assert.Contains(t, err.Error(), "at 2:5")
	})

	t.Run("WithHint", func(t *testing.T) {
		err := prax.New(prax.KindValidate, "dangling reference").WithHint("did you mean User?")
		assert.Contains(t, err.Error(), "hint: did you mean User?")
	})

	t.Run("Wrap and Unwrap", func(t *testing.T) {
		underlying := errors.New("db error")
		err := prax.Wrap(prax.KindQuery, underlying, "insert failed")
		assert.True(t, errors.Is(err, underlying))
		assert.Contains(t, err.Error(), "db error")
	})

	t.Run("KindOf", func(t *testing.T) {
		err := prax.New(prax.KindCache, "serialization failed")
		k, ok := prax.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, prax.KindCache, k)

		_, ok = prax.KindOf(errors.New("plain"))
		assert.False(t, ok)
	})

	t.Run("KindString", func(t *testing.T) {
		assert.Equal(t, "not_found", prax.KindNotFound.String())
		assert.Equal(t, "internal", prax.KindInternal.String())
	})
}

func TestAggregateError(t *testing.T) {
	t.Run("NoErrors", func(t *testing.T) {
		err := prax.NewAggregateError()
		assert.Nil(t, err)
	})

	t.Run("NilErrors", func(t *testing.T) {
		err := prax.NewAggregateError(nil, nil, nil)
		assert.Nil(t, err)
	})

	t.Run("SingleError", func(t *testing.T) {
		single := errors.New("single error")
		err := prax.NewAggregateError(single)
		assert.Equal(t, single, err)
	})

	t.Run("MultipleErrors", func(t *testing.T) {
		err1 := errors.New("error 1")
		err2 := errors.New("error 2")
		err := prax.NewAggregateError(err1, err2)

		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "multiple errors")
		assert.Contains(t, err.Error(), "error 1")
		assert.Contains(t, err.Error(), "error 2")
	})

	t.Run("MixedNilAndErrors", func(t *testing.T) {
		err1 := errors.New("error 1")
		err := prax.NewAggregateError(nil, err1, nil)

		require.NotNil(t, err)
		assert.Equal(t, err1, err)
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("ErrNotFound", func(t *testing.T) {
		assert.Error(t, prax.ErrNotFound)
		assert.Contains(t, prax.ErrNotFound.Error(), "not found")
	})

	t.Run("ErrMultiple", func(t *testing.T) {
		assert.Error(t, prax.ErrMultiple)
		assert.Contains(t, prax.ErrMultiple.Error(), "not singular")
	})

	t.Run("ErrTxStarted", func(t *testing.T) {
		assert.Error(t, prax.ErrTxStarted)
		assert.Contains(t, prax.ErrTxStarted.Error(), "transaction")
	})

	t.Run("ErrPoolClosed", func(t *testing.T) {
		assert.Error(t, prax.ErrPoolClosed)
		assert.Contains(t, prax.ErrPoolClosed.Error(), "pool closed")
	})
}

func BenchmarkErrors(b *testing.B) {
	b.Run("NewNotFoundError", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = prax.NewNotFoundError("User")
		}
	})

	b.Run("IsNotFound", func(b *testing.B) {
		err := prax.NewNotFoundError("User")
		for i := 0; i < b.N; i++ {
			_ = prax.IsNotFound(err)
		}
	})

	b.Run("NewAggregateError_multiple", func(b *testing.B) {
		err1 := errors.New("err1")
		err2 := errors.New("err2")
		err3 := errors.New("err3")
		for i := 0; i < b.N; i++ {
			_ = prax.NewAggregateError(err1, err2, err3)
		}
	})
}
