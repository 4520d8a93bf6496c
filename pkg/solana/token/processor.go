package token

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/decense/pkg/safe"
	"github.com/code-payments/decense/pkg/solana"
	"github.com/code-payments/decense/pkg/solana/system"
)

// Processor executes the subset of token program instructions used for
// launching and trading tokens: mint and account initialization, minting
// and owner-authorized transfers. Delegates and multisig owners are not
// supported.
type Processor struct {
	log *logrus.Entry
}

func NewProcessor() solana.Program {
	return &Processor{
		log: logrus.StandardLogger().WithField("type", "solana/token/processor"),
	}
}

func (p *Processor) ProcessInstruction(_ context.Context, _ solana.Invoker, programID ed25519.PublicKey, accounts []*solana.AccountInfo, data []byte) error {
	ix := solana.InstructionFor(programID, accounts, data)

	cmd, err := GetCommand(ix)
	if err != nil {
		return ErrorInvalidInstruction
	}

	switch cmd {
	case CommandInitializeMint2:
		decompiled, err := DecompileInitializeMint2(ix)
		if err != nil {
			return errors.Wrap(ErrorInvalidInstruction, err.Error())
		}
		return p.initializeMint(accounts[0], decompiled)

	case CommandInitializeAccount3:
		decompiled, err := DecompileInitializeAccount3(ix)
		if err != nil {
			return errors.Wrap(ErrorInvalidInstruction, err.Error())
		}
		return p.initializeAccount(accounts[0], accounts[1], decompiled.Owner)

	case CommandMintTo2:
		decompiled, err := DecompileMintTo2(ix)
		if err != nil {
			return errors.Wrap(ErrorInvalidInstruction, err.Error())
		}
		return p.mintTo(accounts[0], accounts[1], accounts[2], decompiled.Amount, &decompiled.Decimals)

	case CommandTransfer:
		decompiled, err := DecompileTransfer(ix)
		if err != nil {
			return errors.Wrap(ErrorInvalidInstruction, err.Error())
		}
		return p.transfer(accounts[0], nil, accounts[1], accounts[2], decompiled.Amount, nil)

	case CommandTransfer2:
		decompiled, err := DecompileTransfer2(ix)
		if err != nil {
			return errors.Wrap(ErrorInvalidInstruction, err.Error())
		}
		return p.transfer(accounts[0], accounts[1], accounts[2], accounts[3], decompiled.Amount, &decompiled.Decimals)

	default:
		p.log.WithField("command", cmd).Debug("unsupported token command")
		return ErrorInvalidInstruction
	}
}

func (p *Processor) initializeMint(info *solana.AccountInfo, args *DecompiledInitializeMint2) error {
	if !info.IsOwnedBy(ProgramKey) {
		return solana.ErrIncorrectProgramID
	}

	var mint Mint
	if !mint.Unmarshal(info.Data) {
		return solana.ErrInvalidAccountData
	}
	if mint.IsInitialized {
		return ErrorAlreadyInUse
	}
	if info.Lamports < system.MinimumBalanceForRentExemption(MintSize) {
		return ErrorNotRentExempt
	}

	mint = Mint{
		MintAuthority:   args.MintAuthority,
		Decimals:        args.Decimals,
		IsInitialized:   true,
		FreezeAuthority: args.FreezeAuthority,
	}
	copy(info.Data, mint.Marshal())
	return nil
}

func (p *Processor) initializeAccount(info, mintInfo *solana.AccountInfo, owner ed25519.PublicKey) error {
	if !info.IsOwnedBy(ProgramKey) {
		return solana.ErrIncorrectProgramID
	}

	var account Account
	if !account.Unmarshal(info.Data) {
		return solana.ErrInvalidAccountData
	}
	if account.IsInitialized() {
		return ErrorAlreadyInUse
	}
	if info.Lamports < system.MinimumBalanceForRentExemption(AccountSize) {
		return ErrorNotRentExempt
	}

	if _, err := loadMint(mintInfo); err != nil {
		return err
	}

	account = Account{
		Mint:  mintInfo.Key,
		Owner: owner,
		State: AccountStateInitialized,
	}
	copy(info.Data, account.Marshal())
	return nil
}

func (p *Processor) mintTo(mintInfo, destInfo, authorityInfo *solana.AccountInfo, amount uint64, decimals *byte) error {
	mint, err := loadMint(mintInfo)
	if err != nil {
		return err
	}
	dest, err := loadAccount(destInfo)
	if err != nil {
		return err
	}

	if dest.State == AccountStateFrozen {
		return ErrorAccountFrozen
	}
	if !bytes.Equal(dest.Mint, mintInfo.Key) {
		return ErrorMintMismatch
	}
	if decimals != nil && *decimals != mint.Decimals {
		return ErrorMintDecimalsMismatch
	}
	if len(mint.MintAuthority) == 0 {
		return ErrorFixedSupply
	}
	if err := validateOwner(mint.MintAuthority, authorityInfo); err != nil {
		return err
	}

	supply, err := safe.Add(mint.Supply, amount)
	if err != nil {
		return ErrorOverflow
	}
	balance, err := safe.Add(dest.Amount, amount)
	if err != nil {
		return ErrorOverflow
	}

	mint.Supply = supply
	dest.Amount = balance
	copy(mintInfo.Data, mint.Marshal())
	copy(destInfo.Data, dest.Marshal())
	return nil
}

// transfer moves tokens between two accounts of the same mint. mintInfo and
// decimals are only provided for the checked variant.
func (p *Processor) transfer(sourceInfo, mintInfo, destInfo, authorityInfo *solana.AccountInfo, amount uint64, decimals *byte) error {
	source, err := loadAccount(sourceInfo)
	if err != nil {
		return err
	}
	dest, err := loadAccount(destInfo)
	if err != nil {
		return err
	}

	if source.State == AccountStateFrozen || dest.State == AccountStateFrozen {
		return ErrorAccountFrozen
	}
	if source.Amount < amount {
		return ErrorInsufficientFunds
	}
	if !bytes.Equal(source.Mint, dest.Mint) {
		return ErrorMintMismatch
	}

	if mintInfo != nil {
		if !bytes.Equal(source.Mint, mintInfo.Key) {
			return ErrorMintMismatch
		}

		mint, err := loadMint(mintInfo)
		if err != nil {
			return err
		}
		if decimals != nil && *decimals != mint.Decimals {
			return ErrorMintDecimalsMismatch
		}
	}

	if err := validateOwner(source.Owner, authorityInfo); err != nil {
		return err
	}

	if sourceInfo.HasKey(destInfo.Key) {
		return nil
	}

	balance, err := safe.Add(dest.Amount, amount)
	if err != nil {
		return ErrorOverflow
	}
	source.Amount -= amount
	dest.Amount = balance

	copy(sourceInfo.Data, source.Marshal())
	copy(destInfo.Data, dest.Marshal())
	return nil
}

func validateOwner(expected ed25519.PublicKey, authorityInfo *solana.AccountInfo) error {
	if !authorityInfo.HasKey(expected) {
		return ErrorOwnerMismatch
	}
	if !authorityInfo.IsSigner {
		return errors.Wrapf(solana.ErrMissingRequiredSignature, "authority %s", base58.Encode(authorityInfo.Key))
	}
	return nil
}

func loadMint(info *solana.AccountInfo) (*Mint, error) {
	if !info.IsOwnedBy(ProgramKey) {
		return nil, solana.ErrIncorrectProgramID
	}

	var mint Mint
	if !mint.Unmarshal(info.Data) {
		return nil, ErrorInvalidMint
	}
	if !mint.IsInitialized {
		return nil, ErrorUninitializedState
	}
	return &mint, nil
}

func loadAccount(info *solana.AccountInfo) (*Account, error) {
	if !info.IsOwnedBy(ProgramKey) {
		return nil, solana.ErrIncorrectProgramID
	}

	var account Account
	if !account.Unmarshal(info.Data) {
		return nil, solana.ErrInvalidAccountData
	}
	if !account.IsInitialized() {
		return nil, ErrorUninitializedState
	}
	return &account, nil
}

// GetBalance returns the token balance of an initialized token account.
func GetBalance(info *solana.AccountInfo) (uint64, error) {
	account, err := loadAccount(info)
	if err != nil {
		return 0, err
	}
	return account.Amount, nil
}

// LoadAccount decodes an initialized token account owned by the token program.
func LoadAccount(info *solana.AccountInfo) (*Account, error) {
	return loadAccount(info)
}
