package system

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/decense/pkg/safe"
	"github.com/code-payments/decense/pkg/solana"
)

// Processor executes system program instructions against in-memory accounts.
type Processor struct {
	log *logrus.Entry
}

func NewProcessor() solana.Program {
	return &Processor{
		log: logrus.StandardLogger().WithField("type", "solana/system/processor"),
	}
}

func (p *Processor) ProcessInstruction(_ context.Context, _ solana.Invoker, programID ed25519.PublicKey, accounts []*solana.AccountInfo, data []byte) error {
	if len(data) < 4 {
		return solana.ErrInvalidInstructionData
	}

	ix := solana.InstructionFor(programID, accounts, data)

	switch binary.LittleEndian.Uint32(data) {
	case commandCreateAccount:
		decompiled, err := DecompileCreateAccount(ix)
		if err != nil {
			return errors.Wrap(solana.ErrInvalidInstructionData, err.Error())
		}
		return p.createAccount(accounts[0], accounts[1], accounts[1], decompiled.Lamports, decompiled.Size, decompiled.Owner)

	case commandCreateAccountWithSeed:
		decompiled, err := DecompileCreateAccountWithSeed(ix)
		if err != nil {
			return errors.Wrap(solana.ErrInvalidInstructionData, err.Error())
		}

		expected, err := solana.CreateWithSeed(decompiled.Base, decompiled.Seed, decompiled.Owner)
		if err != nil {
			return ErrorMaxSeedLengthExceeded
		}
		if !bytes.Equal(expected, decompiled.Address) {
			p.log.WithFields(logrus.Fields{
				"method":   "CreateAccountWithSeed",
				"expected": base58.Encode(expected),
				"actual":   base58.Encode(decompiled.Address),
			}).Debug("seeded address mismatch")
			return ErrorAddressWithSeedMismatch
		}

		base := accounts[0]
		if len(accounts) == 3 {
			base = accounts[2]
		}
		if !base.HasKey(decompiled.Base) {
			return solana.ErrInvalidArgument
		}
		return p.createAccount(accounts[0], accounts[1], base, decompiled.Lamports, decompiled.Size, decompiled.Owner)

	case commandTransfer:
		decompiled, err := DecompileTransfer(ix)
		if err != nil {
			return errors.Wrap(solana.ErrInvalidInstructionData, err.Error())
		}
		return p.transfer(accounts[0], accounts[1], decompiled.Lamports)

	default:
		return solana.ErrInvalidInstructionData
	}
}

// createAccount allocates and assigns the account, then funds it. The
// authority is the account whose signature authorizes the new address.
func (p *Processor) createAccount(funder, created, authority *solana.AccountInfo, lamports, size uint64, owner ed25519.PublicKey) error {
	if !authority.IsSigner {
		return errors.Wrapf(solana.ErrMissingRequiredSignature, "address %s", base58.Encode(created.Key))
	}
	if created.Lamports > 0 || len(created.Data) > 0 || !created.IsOwnedBy(solana.SystemProgramKey) {
		p.log.WithFields(logrus.Fields{
			"method":  "CreateAccount",
			"address": base58.Encode(created.Key),
		}).Debug("account already in use")
		return ErrorAccountAlreadyInUse
	}
	if size > MaxPermittedDataLength {
		return ErrorInvalidAccountDataLength
	}

	if err := p.transfer(funder, created, lamports); err != nil {
		return err
	}

	created.Data = make([]byte, size)
	created.Owner = append(ed25519.PublicKey(nil), owner...)
	return nil
}

func (p *Processor) transfer(from, to *solana.AccountInfo, lamports uint64) error {
	if !from.IsSigner {
		return errors.Wrapf(solana.ErrMissingRequiredSignature, "from %s", base58.Encode(from.Key))
	}
	if len(from.Data) > 0 {
		return errors.Wrap(solana.ErrInvalidArgument, "transfer from account with data")
	}

	// Self transfers are a balance no-op.
	if from.HasKey(to.Key) {
		if from.Lamports < lamports {
			return ErrorResultWithNegativeLamports
		}
		return nil
	}

	debited, err := safe.Sub(from.Lamports, lamports)
	if err != nil {
		return ErrorResultWithNegativeLamports
	}
	credited, err := safe.Add(to.Lamports, lamports)
	if err != nil {
		return solana.ErrInvalidArgument
	}

	from.Lamports = debited
	to.Lamports = credited
	return nil
}
