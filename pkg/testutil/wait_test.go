package testutil

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitFor(t *testing.T) {
	require.NoError(t, WaitFor(50*time.Millisecond, 25*time.Millisecond, func() bool {
		return true
	}))

	var calls atomic.Int32
	require.NoError(t, WaitFor(time.Second, time.Millisecond, func() bool {
		return calls.Add(1) >= 3
	}))

	require.Error(t, WaitFor(50*time.Millisecond, 25*time.Millisecond, func() bool {
		return false
	}))

	require.Error(t, WaitFor(50*time.Millisecond, 100*time.Millisecond, func() bool {
		return true
	}))
}
