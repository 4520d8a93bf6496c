package processor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/decense/pkg/solana/decense"
)

func TestCalculateInitialPrice(t *testing.T) {
	price, err := CalculateInitialPrice(1_000_000, 1000)
	require.NoError(t, err)
	assert.EqualValues(t, 1_000_000_000_000, price)

	// Valuations below the supply price tokens at zero.
	price, err = CalculateInitialPrice(999, 1000)
	require.NoError(t, err)
	assert.EqualValues(t, 0, price)

	_, err = CalculateInitialPrice(1_000_000, 0)
	assert.ErrorIs(t, err, decense.ErrorMathError)

	_, err = CalculateInitialPrice(math.MaxUint64, 1)
	assert.ErrorIs(t, err, decense.ErrorMathError)
}

func TestCalculateNewPrice(t *testing.T) {
	for _, tc := range []struct {
		current, asked, vault, quantity uint64
		expected                        uint64
	}{
		{1_000_000_000_000, 2_000_000_000_000, 5_000_000, 1000, 1_000_200_000_000},
		{1_000_000_000_000, 500_000_000_000, 5_000_000, 1000, 999_900_000_000},
		{1_000_000_000_000, 1_000_000_000_000, 5_000_000, 1000, 1_000_000_000_000},
		// The gap is smaller than the vault balance, so the delta truncates to zero.
		{1_000, 2_000, 5_000_000, 1000, 1_000},
		{1_000_000_000_000, 2_000_000_000_000, 5_000_000, 0, 1_000_000_000_000},
	} {
		actual, err := CalculateNewPrice(tc.current, tc.asked, tc.vault, tc.quantity)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, actual)
	}

	_, err := CalculateNewPrice(1_000, 2_000, 0, 1)
	assert.ErrorIs(t, err, decense.ErrorMathError)

	_, err = CalculateNewPrice(0, math.MaxUint64, 1, 2)
	assert.ErrorIs(t, err, decense.ErrorMathError)

	_, err = CalculateNewPrice(math.MaxUint64-1, math.MaxUint64, 1, 2)
	assert.ErrorIs(t, err, decense.ErrorMathError)

	_, err = CalculateNewPrice(10, 0, 1, 11)
	assert.ErrorIs(t, err, decense.ErrorMathError)
}

func TestCalculateNewPrice_Direction(t *testing.T) {
	const current, vault = 1_000_000_000_000, 5_000_000

	for _, asked := range []uint64{0, 1, current / 2, current - 1, current, current + 1, current * 2, math.MaxUint64} {
		for _, quantity := range []uint64{0, 1, 1000, vault} {
			price, err := CalculateNewPrice(current, asked, vault, quantity)
			if err != nil {
				assert.ErrorIs(t, err, decense.ErrorMathError)
				continue
			}

			switch {
			case asked > current:
				assert.GreaterOrEqual(t, price, uint64(current))
			case asked < current:
				assert.LessOrEqual(t, price, uint64(current))
			default:
				assert.EqualValues(t, current, price)
			}
		}
	}
}

func TestCalculateIssuance(t *testing.T) {
	minted, vaulted, err := calculateIssuance(1000)
	require.NoError(t, err)
	assert.EqualValues(t, 10_000_000, minted)
	assert.EqualValues(t, 5_000_000, vaulted)

	minted, vaulted, err = calculateIssuance(1001)
	require.NoError(t, err)
	assert.EqualValues(t, 10_010_000, minted)
	assert.EqualValues(t, 5_000_000, vaulted)

	_, _, err = calculateIssuance(math.MaxUint64)
	assert.ErrorIs(t, err, decense.ErrorMathError)
}
