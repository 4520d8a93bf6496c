package decense

import (
	"crypto/ed25519"

	"github.com/code-payments/decense/pkg/solana"
)

const (
	SendReceiveTokenInstructionArgsSize = (8 + // action
		8) // amount
)

type SendReceiveTokenInstructionArgs struct {
	Action TokenAction
	Amount uint64
}

type SendReceiveTokenInstructionAccounts struct {
	Seller      ed25519.PublicKey
	SellerState ed25519.PublicKey
	Mint        ed25519.PublicKey
	Trader      ed25519.PublicKey
	TraderAta   ed25519.PublicKey
	Custody     ed25519.PublicKey
	VaultAta    ed25519.PublicKey
}

func NewSendReceiveTokenInstruction(
	accounts *SendReceiveTokenInstructionAccounts,
	args *SendReceiveTokenInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte, 1+SendReceiveTokenInstructionArgsSize)

	putInstructionType(data, InstructionTypeSendReceiveToken, &offset)
	putUint64(data, uint64(args.Action), &offset)
	putUint64(data, args.Amount, &offset)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Seller,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.SellerState,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Mint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Trader,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.TraderAta,
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
		},
	}
}
