package processor

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/decense/pkg/solana"
	"github.com/code-payments/decense/pkg/solana/decense"
	"github.com/code-payments/decense/pkg/solana/system"
)

// initializePlatform creates the platform record on first use and stamps the
// treasury address on it.
//
// A populated record is re-stamped rather than rejected, so whoever can sign
// for the admin key can redirect seller fees.
func (p *Processor) initializePlatform(ctx context.Context, invoker solana.Invoker, programID ed25519.PublicKey, accounts []*solana.AccountInfo) error {
	var admin, platformInfo, treasury, systemProgram *solana.AccountInfo
	if err := nextAccounts(accounts, &admin, &platformInfo, &treasury, &systemProgram); err != nil {
		return err
	}

	log := p.log.WithFields(logrus.Fields{
		"method":   "InitializePlatform",
		"admin":    base58.Encode(admin.Key),
		"treasury": base58.Encode(treasury.Key),
	})

	if err := requireSigner(admin); err != nil {
		return err
	}
	if err := requireProgram(systemProgram, decense.SYSTEM_PROGRAM_ID); err != nil {
		return err
	}

	expected, err := decense.GetPlatformStateAddress(programID, admin.Key)
	if err != nil {
		return errors.Wrap(solana.ErrInvalidSeeds, err.Error())
	}
	if err := requireAddress(platformInfo, expected, "platform state"); err != nil {
		return err
	}

	if platformInfo.IsEmpty() {
		err = invoker.Invoke(
			ctx,
			system.CreateAccountWithSeed(
				admin.Key,
				platformInfo.Key,
				admin.Key,
				decense.PlatformStateSeed,
				system.MinimumBalanceForRentExemption(decense.PlatformStateAccountSize),
				decense.PlatformStateAccountSize,
				programID,
			),
			accounts,
		)
		if err != nil {
			return err
		}
		log.Debug("created platform state")
	}

	if !platformInfo.IsOwnedBy(programID) {
		return errors.Wrap(solana.ErrIncorrectProgramID, "platform state")
	}

	var state decense.PlatformState
	if err := state.Unmarshal(platformInfo.Data); err != nil {
		return err
	}

	if state.IsInitialized && !bytes.Equal(state.TreasuryAddress, treasury.Key) {
		log.WithField("previous_treasury", base58.Encode(state.TreasuryAddress)).Warn("re-stamping platform with a different treasury")
	}

	state.IsInitialized = true
	state.TreasuryAddress = treasury.Key
	copy(platformInfo.Data, state.Marshal())

	return nil
}
