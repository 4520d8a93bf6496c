package wrapper

import (
	"context"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/decense/pkg/config"
	"github.com/code-payments/decense/pkg/config/memory"
)

// testTypedConfig walks a typed config through the default, override, error
// and cleared states shared by every wrapper.
func testTypedConfig[T any](t *testing.T, wrapper config.Typed[T], mock *memory.Config, defaultValue, overridenValue T) {
	ctx := context.Background()

	// Return the default value when no override is set
	val, err := wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)
	assert.Equal(t, defaultValue, wrapper.Get(ctx))

	// The overriden value is returned when set
	mock.SetValue(overridenValue)
	val, err = wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, overridenValue, val)
	assert.Equal(t, overridenValue, wrapper.Get(ctx))

	// The last observed config value is returned on error
	mock.InduceErrors()
	val, err = wrapper.GetSafe(ctx)
	require.Error(t, err)
	assert.Equal(t, overridenValue, val)
	assert.Equal(t, overridenValue, wrapper.Get(ctx))

	// The default value is returned when the override no longer has a value
	mock.StopInducingErrors()
	mock.ClearValue()
	val, err = wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)

	// Return an unsupported source value type
	mock.SetValue(struct{}{})
	val, err = wrapper.GetSafe(ctx)
	assert.Equal(t, ErrUnsuportedConversion, err)
	assert.Equal(t, defaultValue, val)
}

func TestBoolConfig(t *testing.T) {
	mock := memory.NewConfig(nil)
	wrapper := NewBoolConfig(mock, true)
	testTypedConfig[bool](t, wrapper, mock, true, false)

	// Verify conversion from a byte array
	mock.SetValue([]byte(strconv.FormatBool(false)))
	assert.False(t, wrapper.Get(context.Background()))

	// Invalid byte array value
	mock.SetValue([]byte("cannot convert"))
	val, err := wrapper.GetSafe(context.Background())
	require.Error(t, err)
	assert.False(t, val)

	// Shutdown the config via the wrapper
	wrapper.Shutdown()
	_, err = wrapper.GetSafe(context.Background())
	assert.Equal(t, config.ErrShutdown, err)
}

func TestInt64Config(t *testing.T) {
	mock := memory.NewConfig(nil)
	wrapper := NewInt64Config(mock, math.MaxInt64)
	testTypedConfig[int64](t, wrapper, mock, math.MaxInt64, math.MinInt64)

	mock.SetValue([]byte(strconv.FormatInt(math.MinInt64, 10)))
	assert.EqualValues(t, math.MinInt64, wrapper.Get(context.Background()))

	mock.SetValue(42)
	assert.EqualValues(t, 42, wrapper.Get(context.Background()))
}

func TestUint64Config(t *testing.T) {
	mock := memory.NewConfig(nil)
	wrapper := NewUint64Config(mock, math.MaxUint64)
	testTypedConfig[uint64](t, wrapper, mock, math.MaxUint64, 0)

	mock.SetValue([]byte("1000000000"))
	assert.EqualValues(t, 1_000_000_000, wrapper.Get(context.Background()))

	mock.SetValue([]byte("-1"))
	val, err := wrapper.GetSafe(context.Background())
	require.Error(t, err)
	assert.EqualValues(t, 1_000_000_000, val)

	mock.SetValue(uint(7))
	assert.EqualValues(t, 7, wrapper.Get(context.Background()))
}

func TestStringConfig(t *testing.T) {
	mock := memory.NewConfig(nil)
	wrapper := NewStringConfig(mock, "default")
	testTypedConfig[string](t, wrapper, mock, "default", "override")

	mock.SetValue([]byte("bytes"))
	assert.Equal(t, "bytes", wrapper.Get(context.Background()))
}

func TestDurationConfig(t *testing.T) {
	mock := memory.NewConfig(nil)
	wrapper := NewDurationConfig(mock, time.Minute)
	testTypedConfig[time.Duration](t, wrapper, mock, time.Minute, time.Second)

	mock.SetValue([]byte("250ms"))
	assert.Equal(t, 250*time.Millisecond, wrapper.Get(context.Background()))
}
