package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/decense/pkg/solana"
)

// AssertCustomError verifies that the provided error carries the custom
// program error code.
func AssertCustomError(t *testing.T, err error, code solana.CustomError) {
	require.Error(t, err)
	custom := solana.GetCustomError(err)
	require.NotNil(t, custom, "not a custom program error: %v", err)
	assert.Equal(t, code, *custom)
}

// AssertInstructionError verifies that the provided error failed the
// instruction at index with a matching cause.
func AssertInstructionError(t *testing.T, err error, index int, cause error) {
	require.Error(t, err)

	var ixErr solana.InstructionError
	require.ErrorAs(t, err, &ixErr)
	assert.Equal(t, index, ixErr.Index)
	assert.ErrorIs(t, err, cause)
}
