package processor

import (
	"github.com/pkg/errors"

	"github.com/code-payments/decense/pkg/safe"
	"github.com/code-payments/decense/pkg/solana/decense"
)

// CalculateInitialPrice returns (valuation / supply) * PriceScale.
func CalculateInitialPrice(valuation, supply uint64) (uint64, error) {
	perToken, err := safe.Div(valuation, supply)
	if err != nil {
		return 0, toMathError(err, "initial price")
	}

	price, err := safe.Mul(perToken, decense.PriceScale)
	if err != nil {
		return 0, toMathError(err, "initial price")
	}
	return price, nil
}

// CalculateNewPrice moves the current price towards the asked price by
// (|asked - current| / vaultBalance) * quantity.
//
// Integer division truncates, so a trade whose price gap is smaller than the
// vault balance leaves the price unchanged.
func CalculateNewPrice(current, asked, vaultBalance, quantity uint64) (uint64, error) {
	perUnit, err := safe.Div(safe.AbsDiff(asked, current), vaultBalance)
	if err != nil {
		return 0, toMathError(err, "price delta")
	}

	delta, err := safe.Mul(perUnit, quantity)
	if err != nil {
		return 0, toMathError(err, "price delta")
	}

	var price uint64
	switch {
	case asked > current:
		price, err = safe.Add(current, delta)
	case asked < current:
		price, err = safe.Sub(current, delta)
	default:
		price = current
	}
	if err != nil {
		return 0, toMathError(err, "new price")
	}
	return price, nil
}

// calculateIssuance returns the minted amount and the share deposited into
// the vault, both in base units. Odd supplies floor the vault share.
func calculateIssuance(supply uint64) (minted, vaulted uint64, err error) {
	minted, err = safe.Mul(supply, decense.TokenScale)
	if err != nil {
		return 0, 0, toMathError(err, "minted amount")
	}

	vaulted, err = safe.Mul(supply/2, decense.TokenScale)
	if err != nil {
		return 0, 0, toMathError(err, "vault amount")
	}
	return minted, vaulted, nil
}

func toMathError(err error, what string) error {
	return errors.Wrapf(decense.ErrorMathError, "%s: %v", what, err)
}
