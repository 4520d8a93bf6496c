package pg

import (
	"database/sql"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCheckNoRows(t *testing.T) {
	notFound := errors.New("not found")

	assert.Equal(t, notFound, CheckNoRows(sql.ErrNoRows, notFound))

	other := errors.New("other")
	assert.Equal(t, other, CheckNoRows(other, notFound))
	assert.NoError(t, CheckNoRows(nil, notFound))

	assert.Equal(t, notFound, CheckNoRows(errors.Wrap(sql.ErrNoRows, "wrapped"), notFound))
}

func TestPgErrorCodes(t *testing.T) {
	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	serialization := &pgconn.PgError{Code: pgerrcode.SerializationFailure}
	deadlock := &pgconn.PgError{Code: pgerrcode.DeadlockDetected}

	assert.True(t, IsSerializationFailure(serialization))
	assert.True(t, IsSerializationFailure(errors.Wrap(serialization, "wrapped")))
	assert.False(t, IsSerializationFailure(unique))
	assert.False(t, IsSerializationFailure(nil))

	assert.True(t, IsDeadlock(deadlock))
	assert.False(t, IsDeadlock(serialization))

	assert.True(t, IsRetriable(serialization))
	assert.True(t, IsRetriable(errors.Wrap(deadlock, "wrapped")))
	assert.False(t, IsRetriable(unique))
	assert.False(t, IsRetriable(errors.New("other")))
	assert.False(t, IsRetriable(nil))
}

func TestExecuteRetryable(t *testing.T) {
	var calls int
	err := ExecuteRetryable(func() error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: pgerrcode.SerializationFailure}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = ExecuteRetryable(func() error {
		calls++
		if calls < 2 {
			return &pgconn.PgError{Code: pgerrcode.DeadlockDetected}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	expected := errors.New("fatal")
	err = ExecuteRetryable(func() error {
		calls++
		return expected
	})
	assert.Equal(t, expected, err)
	assert.Equal(t, 1, calls)

	calls = 0
	err = ExecuteRetryable(func() error {
		calls++
		return &pgconn.PgError{Code: pgerrcode.SerializationFailure}
	})
	assert.True(t, IsSerializationFailure(err))
	assert.Equal(t, maxSerializationRetries, calls)
}
