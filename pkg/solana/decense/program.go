package decense

import (
	"crypto/ed25519"
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("852oKTJcHRMp7Ug5fuUKTWrFbsCDmvrqZc8mNu8Q2qKS")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

var (
	SYSTEM_PROGRAM_ID                       = ed25519.PublicKey(mustBase58Decode("11111111111111111111111111111111"))
	SPL_TOKEN_PROGRAM_ID                    = ed25519.PublicKey(mustBase58Decode("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"))
	SPL_ASSOCIATED_TOKEN_ACCOUNT_PROGRAM_ID = ed25519.PublicKey(mustBase58Decode("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"))

	SYSVAR_RENT_PUBKEY = ed25519.PublicKey(mustBase58Decode("SysvarRent111111111111111111111111111111111"))
)

const (
	// Seeds for records created with a base key rather than as program
	// addresses.
	PlatformStateSeed = "DECENSE PLATFORM"
	SellerStateSeed   = "DECENSE USER"
)

var (
	BuyerStatePrefix = []byte("buyer_state")
)

const (
	TokenDecimals = 4

	// TokenScale converts whole tokens into base units at TokenDecimals.
	TokenScale = 10_000

	// PriceScale converts the per-token valuation into lamports.
	PriceScale = 1_000_000_000

	DefaultInitializationFeeLamports = 1_000_000_000

	DefaultTreasurySharePct    = 50
	DefaultLiquidationSharePct = 50
)
