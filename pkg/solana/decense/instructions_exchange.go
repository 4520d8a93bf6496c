package decense

import (
	"crypto/ed25519"

	"github.com/code-payments/decense/pkg/solana"
)

const (
	ExchangeInstructionArgsSize = (8 + // asked_price
		8) // quantity
)

type ExchangeInstructionArgs struct {
	// Lamports the buyer pays the seller.
	AskedPrice uint64
	// Token base units moved from the seller's vault to the buyer.
	Quantity uint64
}

type ExchangeInstructionAccounts struct {
	Buyer       ed25519.PublicKey
	BuyerState  ed25519.PublicKey
	BuyerAta    ed25519.PublicKey
	Seller      ed25519.PublicKey
	Mint        ed25519.PublicKey
	SellerState ed25519.PublicKey
	Custody     ed25519.PublicKey
	VaultAta    ed25519.PublicKey
}

func NewExchangeInstruction(
	accounts *ExchangeInstructionAccounts,
	args *ExchangeInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte, 1+ExchangeInstructionArgsSize)

	putInstructionType(data, InstructionTypeExchange, &offset)
	putUint64(data, args.AskedPrice, &offset)
	putUint64(data, args.Quantity, &offset)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Buyer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.BuyerState,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.BuyerAta,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Seller,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Mint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.SellerState,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Custody,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.VaultAta,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_TOKEN_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSVAR_RENT_PUBKEY,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_ASSOCIATED_TOKEN_ACCOUNT_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
