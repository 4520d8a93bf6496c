package system

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58/base58"
)

// Default rent parameters.
//
// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/program/src/rent.rs
const (
	accountStorageOverhead  = 128
	lamportsPerByteYear     = 3480
	exemptionThresholdYears = 2
)

// RentSysVar is the address of the rent sysvar. The ledger only checks that
// instructions reference it; the rent parameters above are fixed.
var RentSysVar ed25519.PublicKey

func init() {
	var err error
	RentSysVar, err = base58.Decode("SysvarRent111111111111111111111111111111111")
	if err != nil {
		panic(err)
	}
}

// MinimumBalanceForRentExemption returns the balance an account of the
// given data size needs to be exempt from rent.
func MinimumBalanceForRentExemption(size uint64) uint64 {
	return (accountStorageOverhead + size) * lamportsPerByteYear * exemptionThresholdYears
}
