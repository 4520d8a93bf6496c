package decense

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/decense/pkg/solana"
	"github.com/code-payments/decense/pkg/solana/token"
)

// GetCustodyAddress returns the program address that owns a seller's vault,
// along with its bump.
func GetCustodyAddress(programID, seller ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programID,
		seller,
	)
}

// VerifyCustodyAddress checks that candidate is the seller's custody address,
// returning the bump needed to sign for it.
func VerifyCustodyAddress(programID, candidate, seller ed25519.PublicKey) (uint8, error) {
	expected, bump, err := GetCustodyAddress(programID, seller)
	if err != nil {
		return 0, errors.Wrap(ErrorInvalidPDA, err.Error())
	}
	if !bytes.Equal(expected, candidate) {
		return 0, ErrorInvalidPDA
	}
	return bump, nil
}

func CustodySignerSeeds(seller ed25519.PublicKey, bump uint8) [][]byte {
	return [][]byte{seller, {bump}}
}

func GetPlatformStateAddress(programID, admin ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.CreateWithSeed(admin, PlatformStateSeed, programID)
}

func GetSellerStateAddress(programID, owner ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.CreateWithSeed(owner, SellerStateSeed, programID)
}

func GetBuyerStateAddress(programID, seller, buyer ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programID,
		BuyerStatePrefix,
		seller,
		buyer,
	)
}

func BuyerStateSignerSeeds(seller, buyer ed25519.PublicKey, bump uint8) [][]byte {
	return [][]byte{BuyerStatePrefix, seller, buyer, {bump}}
}

// GetVaultTokenAddress returns the custody address' token account for mint.
func GetVaultTokenAddress(custody, mint ed25519.PublicKey) (ed25519.PublicKey, error) {
	return token.GetAssociatedAccount(custody, mint)
}
