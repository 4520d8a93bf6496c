package processor

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/decense/pkg/metrics"
	"github.com/code-payments/decense/pkg/solana"
	"github.com/code-payments/decense/pkg/solana/decense"
	"github.com/code-payments/decense/pkg/solana/token"
)

const (
	metricsStructName = "decense.processor"
)

// Processor executes decense program instructions. It holds no ledger state:
// every record is read from the accounts supplied with the instruction, and
// all asset movements go through the invoker as cross-program invocations.
//
// Each operation validates everything it can before its first mutation, but
// relies on the host discarding the whole instruction on failure.
type Processor struct {
	log  *logrus.Entry
	conf *conf
}

func NewProcessor(configProvider ConfigProvider) solana.Program {
	return &Processor{
		log:  logrus.StandardLogger().WithField("type", "decense/processor"),
		conf: configProvider(),
	}
}

func (p *Processor) ProcessInstruction(ctx context.Context, invoker solana.Invoker, programID ed25519.PublicKey, accounts []*solana.AccountInfo, data []byte) (err error) {
	ix, err := decense.DecodeInstruction(data)
	if err != nil {
		p.log.WithError(err).Debug("failed to decode instruction")
		return err
	}

	p.log.Debugf("Instruction: %s", ix.Type)

	tracer := metrics.TraceMethodCall(ctx, metricsStructName, ix.Type.String())
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	switch ix.Type {
	case decense.InstructionTypeInitializePlatform:
		return p.initializePlatform(ctx, invoker, programID, accounts)
	case decense.InstructionTypeInitializeSeller:
		return p.initializeSeller(ctx, invoker, programID, accounts, ix.InitializeSeller)
	case decense.InstructionTypeExchange:
		return p.exchange(ctx, invoker, programID, accounts, ix.Exchange)
	case decense.InstructionTypeSendReceiveToken:
		return p.sendReceiveToken(ctx, invoker, programID, accounts, ix.SendReceiveToken)
	default:
		return decense.ErrorInvalidInstruction
	}
}

// nextAccounts assigns the leading accounts, in order, to dst.
func nextAccounts(accounts []*solana.AccountInfo, dst ...**solana.AccountInfo) error {
	it := solana.NewAccountIterator(accounts)
	for _, d := range dst {
		account, err := it.Next()
		if err != nil {
			return err
		}
		*d = account
	}
	return nil
}

func requireSigner(info *solana.AccountInfo) error {
	if !info.IsSigner {
		return errors.Wrapf(solana.ErrMissingRequiredSignature, "account %s", base58.Encode(info.Key))
	}
	return nil
}

func requireProgram(info *solana.AccountInfo, program ed25519.PublicKey) error {
	if !info.HasKey(program) {
		return errors.Wrapf(solana.ErrIncorrectProgramID, "expected program %s, got %s", base58.Encode(program), base58.Encode(info.Key))
	}
	return nil
}

func requireAddress(info *solana.AccountInfo, expected ed25519.PublicKey, what string) error {
	if !info.HasKey(expected) {
		return errors.Wrapf(solana.ErrInvalidSeeds, "%s: expected %s, got %s", what, base58.Encode(expected), base58.Encode(info.Key))
	}
	return nil
}

// loadSellerState reads an initialized seller record and checks it describes
// the given seller, mint and vault.
func loadSellerState(programID ed25519.PublicKey, info, seller, mint, vault *solana.AccountInfo) (*decense.SellerState, error) {
	if !info.IsOwnedBy(programID) {
		return nil, errors.Wrap(solana.ErrIncorrectProgramID, "seller state")
	}

	expected, err := decense.GetSellerStateAddress(programID, seller.Key)
	if err != nil {
		return nil, errors.Wrap(solana.ErrInvalidSeeds, err.Error())
	}
	if err := requireAddress(info, expected, "seller state"); err != nil {
		return nil, err
	}

	var state decense.SellerState
	if err := state.UnmarshalInitialized(info.Data); err != nil {
		return nil, err
	}

	switch {
	case !seller.HasKey(state.Owner):
		return nil, errors.Wrap(solana.ErrInvalidAccountData, "seller state owner mismatch")
	case !mint.HasKey(state.TokenMint):
		return nil, errors.Wrap(solana.ErrInvalidAccountData, "seller state mint mismatch")
	case !vault.HasKey(state.VaultTokenAccount):
		return nil, errors.Wrap(solana.ErrInvalidAccountData, "seller state vault mismatch")
	}
	return &state, nil
}

// tokenBalance returns the balance of a token account, treating an account
// that was never allocated as empty.
func tokenBalance(info *solana.AccountInfo) (uint64, error) {
	if info.IsEmpty() {
		return 0, nil
	}
	return token.GetBalance(info)
}
