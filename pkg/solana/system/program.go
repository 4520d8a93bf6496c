package system

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/code-payments/decense/pkg/solana"
)

var ProgramKey [32]byte

const (
	commandCreateAccount uint32 = iota
	// nolint:varcheck,deadcode,unused
	commandAssign
	commandTransfer
	commandCreateAccountWithSeed
	// nolint:varcheck,deadcode,unused
	commandAdvanceNonceAccount
	// nolint:varcheck,deadcode,unused
	commandWithdrawNonceAccount
	// nolint:varcheck,deadcode,unused
	commandInitializeNonceAccount
	// nolint:varcheck,deadcode,unused
	commandAuthorizeNonceAccount
	// nolint:varcheck,deadcode,unused
	commandAllocate
)

// MaxPermittedDataLength is the largest account the system program will allocate.
const MaxPermittedDataLength = 10 * 1024 * 1024

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L58-L72
func CreateAccount(funder, address, owner ed25519.PublicKey, lamports, size uint64) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] Funding account
	//   1. [WRITE, SIGNER] New account
	data := make([]byte, 4+2*8+32)
	binary.LittleEndian.PutUint32(data, commandCreateAccount)
	binary.LittleEndian.PutUint64(data[4:], lamports)
	binary.LittleEndian.PutUint64(data[4+8:], size)
	copy(data[4+2*8:], owner)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(funder, true),
		solana.NewAccountMeta(address, true),
	)
}

type DecompiledCreateAccount struct {
	Funder  ed25519.PublicKey
	Address ed25519.PublicKey

	Lamports uint64
	Size     uint64
	Owner    ed25519.PublicKey
}

func DecompileCreateAccount(ix solana.Instruction) (*DecompiledCreateAccount, error) {
	if err := checkCommand(ix, commandCreateAccount); err != nil {
		return nil, err
	}
	if len(ix.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(ix.Accounts))
	}
	if len(ix.Data) != 52 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(ix.Data))
	}

	v := &DecompiledCreateAccount{
		Funder:  ix.Accounts[0].PublicKey,
		Address: ix.Accounts[1].PublicKey,
	}
	v.Lamports = binary.LittleEndian.Uint64(ix.Data[4:])
	v.Size = binary.LittleEndian.Uint64(ix.Data[4+8:])
	v.Owner = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(v.Owner, ix.Data[4+2*8:])

	return v, nil
}

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L74-L79
func Transfer(from, to ed25519.PublicKey, lamports uint64) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] Funding account
	//   1. [WRITE] Recipient account
	data := make([]byte, 4+8)
	binary.LittleEndian.PutUint32(data, commandTransfer)
	binary.LittleEndian.PutUint64(data[4:], lamports)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(from, true),
		solana.NewAccountMeta(to, false),
	)
}

type DecompiledTransfer struct {
	From     ed25519.PublicKey
	To       ed25519.PublicKey
	Lamports uint64
}

func DecompileTransfer(ix solana.Instruction) (*DecompiledTransfer, error) {
	if err := checkCommand(ix, commandTransfer); err != nil {
		return nil, err
	}
	if len(ix.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(ix.Accounts))
	}
	if len(ix.Data) != 12 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(ix.Data))
	}

	return &DecompiledTransfer{
		From:     ix.Accounts[0].PublicKey,
		To:       ix.Accounts[1].PublicKey,
		Lamports: binary.LittleEndian.Uint64(ix.Data[4:]),
	}, nil
}

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L81-L100
func CreateAccountWithSeed(funder, address, base ed25519.PublicKey, seed string, lamports, size uint64, owner ed25519.PublicKey) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] Funding account
	//   1. [WRITE] Created account
	//   2. [SIGNER] (optional) Base account; the account matching the base
	//      Pubkey below must be provided as a signer, but may be the same as
	//      the funding account and provided as account 0
	data := make([]byte, 4+32+8+len(seed)+8+8+32)

	offset := 0
	binary.LittleEndian.PutUint32(data[offset:], commandCreateAccountWithSeed)
	offset += 4
	copy(data[offset:], base)
	offset += 32
	binary.LittleEndian.PutUint64(data[offset:], uint64(len(seed)))
	offset += 8
	copy(data[offset:], seed)
	offset += len(seed)
	binary.LittleEndian.PutUint64(data[offset:], lamports)
	offset += 8
	binary.LittleEndian.PutUint64(data[offset:], size)
	offset += 8
	copy(data[offset:], owner)

	accounts := []solana.AccountMeta{
		solana.NewAccountMeta(funder, true),
		solana.NewAccountMeta(address, false),
	}
	if !bytes.Equal(base, funder) {
		accounts = append(accounts, solana.NewReadonlyAccountMeta(base, true))
	}

	return solana.NewInstruction(ProgramKey[:], data, accounts...)
}

type DecompiledCreateAccountWithSeed struct {
	Funder  ed25519.PublicKey
	Address ed25519.PublicKey
	Base    ed25519.PublicKey
	Seed    string

	Lamports uint64
	Size     uint64
	Owner    ed25519.PublicKey
}

func DecompileCreateAccountWithSeed(ix solana.Instruction) (*DecompiledCreateAccountWithSeed, error) {
	if err := checkCommand(ix, commandCreateAccountWithSeed); err != nil {
		return nil, err
	}
	if len(ix.Accounts) != 2 && len(ix.Accounts) != 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(ix.Accounts))
	}

	const fixedSize = 4 + 32 + 8 + 8 + 8 + 32
	if len(ix.Data) < fixedSize {
		return nil, errors.Errorf("invalid instruction data size: %d", len(ix.Data))
	}

	offset := 4
	v := &DecompiledCreateAccountWithSeed{
		Funder:  ix.Accounts[0].PublicKey,
		Address: ix.Accounts[1].PublicKey,
		Base:    make(ed25519.PublicKey, ed25519.PublicKeySize),
		Owner:   make(ed25519.PublicKey, ed25519.PublicKeySize),
	}
	copy(v.Base, ix.Data[offset:])
	offset += 32

	seedLen := binary.LittleEndian.Uint64(ix.Data[offset:])
	offset += 8
	if seedLen > solana.MaxSeedLength || uint64(len(ix.Data)) != fixedSize+seedLen {
		return nil, errors.Errorf("invalid seed length: %d", seedLen)
	}
	v.Seed = string(ix.Data[offset : offset+int(seedLen)])
	offset += int(seedLen)

	v.Lamports = binary.LittleEndian.Uint64(ix.Data[offset:])
	offset += 8
	v.Size = binary.LittleEndian.Uint64(ix.Data[offset:])
	offset += 8
	copy(v.Owner, ix.Data[offset:])

	if len(ix.Accounts) == 3 && !bytes.Equal(ix.Accounts[2].PublicKey, v.Base) {
		return nil, errors.New("base account mismatch")
	}

	return v, nil
}

func checkCommand(ix solana.Instruction, command uint32) error {
	if !bytes.Equal(ix.Program, ProgramKey[:]) {
		return solana.ErrIncorrectProgram
	}

	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], command)
	if !bytes.HasPrefix(ix.Data, prefix[:]) {
		return solana.ErrIncorrectInstruction
	}

	return nil
}
