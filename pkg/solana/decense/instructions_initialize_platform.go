package decense

import (
	"crypto/ed25519"

	"github.com/code-payments/decense/pkg/solana"
)

type InitializePlatformInstructionAccounts struct {
	Admin         ed25519.PublicKey
	PlatformState ed25519.PublicKey
	Treasury      ed25519.PublicKey
}

func NewInitializePlatformInstruction(
	accounts *InitializePlatformInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, 1)
	putInstructionType(data, InstructionTypeInitializePlatform, &offset)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Admin,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.PlatformState,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Treasury,
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
