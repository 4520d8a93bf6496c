package decense

import (
	"crypto/ed25519"
	"fmt"

	"github.com/pkg/errors"

	"github.com/code-payments/decense/pkg/solana"
	"github.com/code-payments/decense/pkg/solana/binary"
)

const (
	PlatformStateAccountSize = (1 + // is_initialized
		32) // treasury_address
)

// PlatformState records the treasury that receives seller initialization fees.
type PlatformState struct {
	IsInitialized   bool
	TreasuryAddress ed25519.PublicKey
}

func (obj *PlatformState) Marshal() []byte {
	data := make([]byte, PlatformStateAccountSize)

	var offset int
	binary.PutBool(data[offset:], obj.IsInitialized, &offset)
	binary.PutKey32(data[offset:], obj.TreasuryAddress, &offset)

	return data
}

// Unmarshal decodes the record without requiring it to be initialized.
func (obj *PlatformState) Unmarshal(data []byte) error {
	if len(data) != PlatformStateAccountSize {
		return errors.Wrapf(solana.ErrInvalidAccountData, "platform state size %d", len(data))
	}

	*obj = PlatformState{}

	var offset int
	if !binary.GetBool(data[offset:], &obj.IsInitialized, &offset) {
		return errors.Wrap(solana.ErrInvalidAccountData, "platform state is_initialized")
	}
	binary.GetKey32(data[offset:], &obj.TreasuryAddress, &offset)

	return nil
}

func (obj *PlatformState) UnmarshalInitialized(data []byte) error {
	if err := obj.Unmarshal(data); err != nil {
		return err
	}
	if !obj.IsInitialized {
		return solana.ErrUninitializedAccount
	}
	return nil
}

func (obj *PlatformState) String() string {
	return fmt.Sprintf(
		"PlatformState{is_initialized=%v,treasury=%s}",
		obj.IsInitialized,
		encodeKey(obj.TreasuryAddress),
	)
}
