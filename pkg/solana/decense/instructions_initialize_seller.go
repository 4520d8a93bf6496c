package decense

import (
	"crypto/ed25519"

	"github.com/code-payments/decense/pkg/solana"
)

const (
	InitializeSellerInstructionArgsSize = (8 + // valuation
		8) // supply
)

type InitializeSellerInstructionArgs struct {
	Valuation uint64
	Supply    uint64
}

type InitializeSellerInstructionAccounts struct {
	Owner         ed25519.PublicKey
	Mint          ed25519.PublicKey
	SellerState   ed25519.PublicKey
	PlatformState ed25519.PublicKey
	Treasury      ed25519.PublicKey
	Custody       ed25519.PublicKey
	OwnerAta      ed25519.PublicKey
	VaultAta      ed25519.PublicKey
}

func NewInitializeSellerInstruction(
	accounts *InitializeSellerInstructionAccounts,
	args *InitializeSellerInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte, 1+InitializeSellerInstructionArgsSize)

	putInstructionType(data, InstructionTypeInitializeSeller, &offset)
	putUint64(data, args.Valuation, &offset)
	putUint64(data, args.Supply, &offset)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Owner,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Mint,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.SellerState,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.PlatformState,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Treasury,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Custody,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.OwnerAta,
				IsWritable: true,
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
