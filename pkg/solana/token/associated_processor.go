package token

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/decense/pkg/solana"
	"github.com/code-payments/decense/pkg/solana/system"
)

// AssociatedProcessor executes the associated token account program. It
// creates the canonical token account for a (wallet, mint) pair through
// cross-program invocations into the system and token programs.
type AssociatedProcessor struct {
	log *logrus.Entry
}

func NewAssociatedProcessor() solana.Program {
	return &AssociatedProcessor{
		log: logrus.StandardLogger().WithField("type", "solana/token/associated_processor"),
	}
}

func (p *AssociatedProcessor) ProcessInstruction(ctx context.Context, invoker solana.Invoker, programID ed25519.PublicKey, accounts []*solana.AccountInfo, data []byte) error {
	decompiled, err := DecompileCreateAssociatedAccount(solana.InstructionFor(programID, accounts, data))
	if err != nil {
		return errors.Wrap(solana.ErrInvalidInstructionData, err.Error())
	}

	subsidizer, associated, mint := accounts[0], accounts[1], accounts[3]

	log := p.log.WithFields(logrus.Fields{
		"method": "CreateAssociatedTokenAccount",
		"wallet": base58.Encode(decompiled.Owner),
		"mint":   base58.Encode(decompiled.Mint),
	})

	address, bump, err := GetAssociatedAccountAndBump(decompiled.Owner, decompiled.Mint)
	if err != nil {
		return errors.Wrap(solana.ErrInvalidSeeds, err.Error())
	}
	if !bytes.Equal(address, decompiled.Address) {
		log.WithField("address", base58.Encode(decompiled.Address)).Debug("associated address mismatch")
		return solana.ErrInvalidSeeds
	}

	if decompiled.Idempotent && associated.IsOwnedBy(ProgramKey) {
		existing, err := LoadAccount(associated)
		if err != nil {
			return err
		}
		if !bytes.Equal(existing.Owner, decompiled.Owner) || !bytes.Equal(existing.Mint, decompiled.Mint) {
			return errors.Wrap(solana.ErrInvalidAccountData, "associated account owner mismatch")
		}
		return nil
	}

	if !mint.IsOwnedBy(ProgramKey) {
		return solana.ErrIncorrectProgramID
	}

	err = invoker.InvokeSigned(
		ctx,
		system.CreateAccount(
			subsidizer.Key,
			associated.Key,
			ProgramKey,
			system.MinimumBalanceForRentExemption(AccountSize),
			AccountSize,
		),
		accounts,
		[][]byte{decompiled.Owner, ProgramKey, decompiled.Mint, {bump}},
	)
	if err != nil {
		return err
	}

	if err := invoker.Invoke(ctx, InitializeAccount3(associated.Key, mint.Key, decompiled.Owner), accounts); err != nil {
		return err
	}

	log.Debug("created associated token account")
	return nil
}
