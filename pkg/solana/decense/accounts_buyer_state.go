package decense

import (
	"crypto/ed25519"
	"fmt"

	"github.com/pkg/errors"

	"github.com/code-payments/decense/pkg/solana"
	"github.com/code-payments/decense/pkg/solana/binary"
)

const (
	BuyerStateAccountSize = (1 + // is_initialized
		32 + // owner
		8) // current_holding_in_tokens
)

// BuyerState tracks a buyer's holding of a single seller's token.
type BuyerState struct {
	IsInitialized          bool
	Owner                  ed25519.PublicKey
	CurrentHoldingInTokens uint64
}

func (obj *BuyerState) Marshal() []byte {
	data := make([]byte, BuyerStateAccountSize)

	var offset int
	binary.PutBool(data[offset:], obj.IsInitialized, &offset)
	binary.PutKey32(data[offset:], obj.Owner, &offset)
	binary.PutUint64(data[offset:], obj.CurrentHoldingInTokens, &offset)

	return data
}

func (obj *BuyerState) Unmarshal(data []byte) error {
	if len(data) != BuyerStateAccountSize {
		return errors.Wrapf(solana.ErrInvalidAccountData, "buyer state size %d", len(data))
	}

	*obj = BuyerState{}

	var offset int
	if !binary.GetBool(data[offset:], &obj.IsInitialized, &offset) {
		return errors.Wrap(solana.ErrInvalidAccountData, "buyer state is_initialized")
	}
	binary.GetKey32(data[offset:], &obj.Owner, &offset)
	binary.GetUint64(data[offset:], &obj.CurrentHoldingInTokens, &offset)

	return nil
}

func (obj *BuyerState) UnmarshalInitialized(data []byte) error {
	if err := obj.Unmarshal(data); err != nil {
		return err
	}
	if !obj.IsInitialized {
		return solana.ErrUninitializedAccount
	}
	return nil
}

func (obj *BuyerState) String() string {
	return fmt.Sprintf(
		"BuyerState{is_initialized=%v,owner=%s,current_holding_in_tokens=%d}",
		obj.IsInitialized,
		encodeKey(obj.Owner),
		obj.CurrentHoldingInTokens,
	)
}
