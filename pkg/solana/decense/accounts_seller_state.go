package decense

import (
	"crypto/ed25519"
	"fmt"

	"github.com/pkg/errors"

	"github.com/code-payments/decense/pkg/solana"
	"github.com/code-payments/decense/pkg/solana/binary"
)

// SellerStateLayoutVersion tags the only seller record layout this program
// reads or writes. Records written by earlier layouts are rejected rather
// than reinterpreted.
const SellerStateLayoutVersion = 1

const (
	SellerStateAccountSize = (1 + // layout version
		1 + // is_initialized
		32 + // owner
		8 + // declared_valuation
		8 + // declared_supply
		32 + // token_mint
		32 + // owner_token_account
		32 + // vault_token_account
		1 + // treasury_share_pct
		1 + // liquidation_share_pct
		8 + // current_price
		8) // holder_count
)

// SellerState is the per-seller record describing the launched token and its
// current price.
type SellerState struct {
	IsInitialized       bool
	Owner               ed25519.PublicKey
	DeclaredValuation   uint64
	DeclaredSupply      uint64
	TokenMint           ed25519.PublicKey
	OwnerTokenAccount   ed25519.PublicKey
	VaultTokenAccount   ed25519.PublicKey
	TreasurySharePct    uint8
	LiquidationSharePct uint8
	// Lamports per whole token.
	CurrentPrice uint64
	// Number of distinct non-seller token holders.
	HolderCount uint64
}

func (obj *SellerState) Marshal() []byte {
	data := make([]byte, SellerStateAccountSize)

	var offset int
	binary.PutUint8(data[offset:], SellerStateLayoutVersion, &offset)
	binary.PutBool(data[offset:], obj.IsInitialized, &offset)
	binary.PutKey32(data[offset:], obj.Owner, &offset)
	binary.PutUint64(data[offset:], obj.DeclaredValuation, &offset)
	binary.PutUint64(data[offset:], obj.DeclaredSupply, &offset)
	binary.PutKey32(data[offset:], obj.TokenMint, &offset)
	binary.PutKey32(data[offset:], obj.OwnerTokenAccount, &offset)
	binary.PutKey32(data[offset:], obj.VaultTokenAccount, &offset)
	binary.PutUint8(data[offset:], obj.TreasurySharePct, &offset)
	binary.PutUint8(data[offset:], obj.LiquidationSharePct, &offset)
	binary.PutUint64(data[offset:], obj.CurrentPrice, &offset)
	binary.PutUint64(data[offset:], obj.HolderCount, &offset)

	return data
}

// Unmarshal decodes the record without requiring it to be initialized. A
// freshly allocated, all zero record decodes to the zero value.
func (obj *SellerState) Unmarshal(data []byte) error {
	if len(data) != SellerStateAccountSize {
		return errors.Wrapf(solana.ErrInvalidAccountData, "seller state size %d", len(data))
	}

	*obj = SellerState{}

	var offset int

	var version uint8
	binary.GetUint8(data[offset:], &version, &offset)
	switch version {
	case SellerStateLayoutVersion:
	case 0:
		if !isZero(data) {
			return errors.Wrap(solana.ErrInvalidAccountData, "seller state missing layout version")
		}
	default:
		return errors.Wrapf(solana.ErrInvalidAccountData, "seller state layout version %d", version)
	}

	if !binary.GetBool(data[offset:], &obj.IsInitialized, &offset) {
		return errors.Wrap(solana.ErrInvalidAccountData, "seller state is_initialized")
	}
	binary.GetKey32(data[offset:], &obj.Owner, &offset)
	binary.GetUint64(data[offset:], &obj.DeclaredValuation, &offset)
	binary.GetUint64(data[offset:], &obj.DeclaredSupply, &offset)
	binary.GetKey32(data[offset:], &obj.TokenMint, &offset)
	binary.GetKey32(data[offset:], &obj.OwnerTokenAccount, &offset)
	binary.GetKey32(data[offset:], &obj.VaultTokenAccount, &offset)
	binary.GetUint8(data[offset:], &obj.TreasurySharePct, &offset)
	binary.GetUint8(data[offset:], &obj.LiquidationSharePct, &offset)
	binary.GetUint64(data[offset:], &obj.CurrentPrice, &offset)
	binary.GetUint64(data[offset:], &obj.HolderCount, &offset)

	return nil
}

func (obj *SellerState) UnmarshalInitialized(data []byte) error {
	if err := obj.Unmarshal(data); err != nil {
		return err
	}
	if !obj.IsInitialized {
		return solana.ErrUninitializedAccount
	}
	return nil
}

func (obj *SellerState) String() string {
	return fmt.Sprintf(
		"SellerState{is_initialized=%v,owner=%s,declared_valuation=%d,declared_supply=%d,token_mint=%s,owner_token_account=%s,vault_token_account=%s,treasury_share_pct=%d,liquidation_share_pct=%d,current_price=%d,holder_count=%d}",
		obj.IsInitialized,
		encodeKey(obj.Owner),
		obj.DeclaredValuation,
		obj.DeclaredSupply,
		encodeKey(obj.TokenMint),
		encodeKey(obj.OwnerTokenAccount),
		encodeKey(obj.VaultTokenAccount),
		obj.TreasurySharePct,
		obj.LiquidationSharePct,
		obj.CurrentPrice,
		obj.HolderCount,
	)
}
