package system

import (
	"context"
	"crypto/ed25519"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/decense/pkg/solana"
)

func TestCreateAccount(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := CreateAccount(keys[0], keys[1], keys[2], 12345, 67890)

	command := make([]byte, 4)
	lamports := make([]byte, 8)
	binary.LittleEndian.PutUint64(lamports, 12345)
	size := make([]byte, 8)
	binary.LittleEndian.PutUint64(size, 67890)

	assert.Equal(t, command, instruction.Data[0:4])
	assert.Equal(t, lamports, instruction.Data[4:12])
	assert.Equal(t, size, instruction.Data[12:20])
	assert.Equal(t, []byte(keys[2]), instruction.Data[20:52])

	decompiled, err := DecompileCreateAccount(instruction)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Funder)
	assert.Equal(t, keys[1], decompiled.Address)
	assert.Equal(t, keys[2], decompiled.Owner)
	assert.EqualValues(t, 12345, decompiled.Lamports)
	assert.EqualValues(t, 67890, decompiled.Size)
}

func TestDecompileNonCreate(t *testing.T) {
	keys := generateKeys(t, 4)

	instruction := CreateAccount(keys[0], keys[1], keys[2], 12345, 67890)

	instruction.Accounts = instruction.Accounts[:1]
	_, err := DecompileCreateAccount(instruction)
	assert.NotNil(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid number of accounts"), err)

	binary.BigEndian.PutUint32(instruction.Data, commandAllocate)
	_, err = DecompileCreateAccount(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Data = make([]byte, 3)
	_, err = DecompileCreateAccount(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Program = keys[3]
	_, err = DecompileCreateAccount(instruction)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
}

func TestTransfer(t *testing.T) {
	keys := generateKeys(t, 2)

	instruction := Transfer(keys[0], keys[1], 1_000_000_000)
	require.Len(t, instruction.Accounts, 2)
	assert.True(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[1].IsSigner)
	assert.True(t, instruction.Accounts[1].IsWritable)
	assert.Equal(t, []byte{2, 0, 0, 0, 0, 0xca, 0x9a, 0x3b, 0, 0, 0, 0}, instruction.Data)

	decompiled, err := DecompileTransfer(instruction)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.From)
	assert.Equal(t, keys[1], decompiled.To)
	assert.EqualValues(t, 1_000_000_000, decompiled.Lamports)

	_, err = DecompileCreateAccount(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)
}

func TestCreateAccountWithSeed(t *testing.T) {
	keys := generateKeys(t, 4)
	funder, address, base, owner := keys[0], keys[1], keys[2], keys[3]

	instruction := CreateAccountWithSeed(funder, address, base, "DECENSE PLATFORM", 1000, 33, owner)
	require.Len(t, instruction.Accounts, 3)
	assert.True(t, instruction.Accounts[2].IsSigner)
	assert.False(t, instruction.Accounts[2].IsWritable)
	assert.False(t, instruction.Accounts[1].IsSigner)

	decompiled, err := DecompileCreateAccountWithSeed(instruction)
	require.NoError(t, err)
	assert.Equal(t, funder, decompiled.Funder)
	assert.Equal(t, address, decompiled.Address)
	assert.Equal(t, base, decompiled.Base)
	assert.Equal(t, "DECENSE PLATFORM", decompiled.Seed)
	assert.EqualValues(t, 1000, decompiled.Lamports)
	assert.EqualValues(t, 33, decompiled.Size)
	assert.Equal(t, owner, decompiled.Owner)

	// The base is folded into the funder when they match.
	instruction = CreateAccountWithSeed(funder, address, funder, "seed", 1, 2, owner)
	require.Len(t, instruction.Accounts, 2)
	decompiled, err = DecompileCreateAccountWithSeed(instruction)
	require.NoError(t, err)
	assert.Equal(t, funder, decompiled.Base)

	instruction.Data = instruction.Data[:len(instruction.Data)-1]
	_, err = DecompileCreateAccountWithSeed(instruction)
	assert.Error(t, err)
}

func TestProcessor_CreateAccount(t *testing.T) {
	keys := generateKeys(t, 3)
	funder := newAccount(keys[0], true, 10_000)
	created := newAccount(keys[1], true, 0)

	p := NewProcessor()
	ix := CreateAccount(keys[0], keys[1], keys[2], 2_000, 41)
	require.NoError(t, p.ProcessInstruction(context.Background(), nil, ProgramKey[:], []*solana.AccountInfo{funder, created}, ix.Data))

	assert.EqualValues(t, 8_000, funder.Lamports)
	assert.EqualValues(t, 2_000, created.Lamports)
	assert.Len(t, created.Data, 41)
	assert.Equal(t, keys[2], created.Owner)

	// Already allocated
	err := p.ProcessInstruction(context.Background(), nil, ProgramKey[:], []*solana.AccountInfo{funder, created}, ix.Data)
	assert.Equal(t, ErrorAccountAlreadyInUse, err)

	// Missing signature on the new address
	other := newAccount(generateKeys(t, 1)[0], false, 0)
	err = p.ProcessInstruction(context.Background(), nil, ProgramKey[:], []*solana.AccountInfo{funder, other}, ix.Data)
	assert.True(t, errors.Is(err, solana.ErrMissingRequiredSignature))

	// Insufficient funds
	other.IsSigner = true
	ix = CreateAccount(keys[0], other.Key, keys[2], 1_000_000, 0)
	err = p.ProcessInstruction(context.Background(), nil, ProgramKey[:], []*solana.AccountInfo{funder, other}, ix.Data)
	assert.Equal(t, ErrorResultWithNegativeLamports, err)
	assert.EqualValues(t, 8_000, funder.Lamports)
}

func TestProcessor_CreateAccountWithSeed(t *testing.T) {
	keys := generateKeys(t, 3)
	admin := newAccount(keys[0], true, MinimumBalanceForRentExemption(33)*2)

	address, err := solana.CreateWithSeed(keys[0], "DECENSE PLATFORM", keys[1])
	require.NoError(t, err)
	record := newAccount(address, false, 0)

	p := NewProcessor()
	ix := CreateAccountWithSeed(keys[0], address, keys[0], "DECENSE PLATFORM", MinimumBalanceForRentExemption(33), 33, keys[1])
	require.NoError(t, p.ProcessInstruction(context.Background(), nil, ProgramKey[:], []*solana.AccountInfo{admin, record}, ix.Data))
	assert.Len(t, record.Data, 33)
	assert.Equal(t, keys[1], record.Owner)
	assert.Equal(t, MinimumBalanceForRentExemption(33), record.Lamports)

	// Wrong seed for the supplied address
	record2 := newAccount(address, false, 0)
	ix = CreateAccountWithSeed(keys[0], address, keys[0], "DECENSE USER", 0, 33, keys[1])
	err = p.ProcessInstruction(context.Background(), nil, ProgramKey[:], []*solana.AccountInfo{admin, record2}, ix.Data)
	assert.Equal(t, ErrorAddressWithSeedMismatch, err)

	// Unsigned base
	base := newAccount(keys[2], false, 0)
	address, err = solana.CreateWithSeed(keys[2], "seed", keys[1])
	require.NoError(t, err)
	ix = CreateAccountWithSeed(keys[0], address, keys[2], "seed", 0, 1, keys[1])
	err = p.ProcessInstruction(context.Background(), nil, ProgramKey[:], []*solana.AccountInfo{admin, newAccount(address, false, 0), base}, ix.Data)
	assert.True(t, errors.Is(err, solana.ErrMissingRequiredSignature))
}

func TestProcessor_Transfer(t *testing.T) {
	keys := generateKeys(t, 2)
	from := newAccount(keys[0], true, 100)
	to := newAccount(keys[1], false, 5)

	p := NewProcessor()
	require.NoError(t, p.ProcessInstruction(context.Background(), nil, ProgramKey[:], []*solana.AccountInfo{from, to}, Transfer(keys[0], keys[1], 60).Data))
	assert.EqualValues(t, 40, from.Lamports)
	assert.EqualValues(t, 65, to.Lamports)

	err := p.ProcessInstruction(context.Background(), nil, ProgramKey[:], []*solana.AccountInfo{from, to}, Transfer(keys[0], keys[1], 41).Data)
	assert.Equal(t, ErrorResultWithNegativeLamports, err)

	from.IsSigner = false
	err = p.ProcessInstruction(context.Background(), nil, ProgramKey[:], []*solana.AccountInfo{from, to}, Transfer(keys[0], keys[1], 1).Data)
	assert.True(t, errors.Is(err, solana.ErrMissingRequiredSignature))

	err = p.ProcessInstruction(context.Background(), nil, ProgramKey[:], []*solana.AccountInfo{from, to}, []byte{9, 0, 0, 0})
	assert.Equal(t, solana.ErrInvalidInstructionData, err)
}

func TestMinimumBalanceForRentExemption(t *testing.T) {
	assert.EqualValues(t, 890_880, MinimumBalanceForRentExemption(0))
	assert.EqualValues(t, 1_120_560, MinimumBalanceForRentExemption(33))
	assert.EqualValues(t, 2_039_280, MinimumBalanceForRentExemption(165))
}

func newAccount(key ed25519.PublicKey, isSigner bool, lamports uint64) *solana.AccountInfo {
	return solana.NewAccountInfo(key, isSigner, true, &solana.AccountState{
		Owner:    ProgramKey[:],
		Lamports: lamports,
	})
}

func generateKeys(t *testing.T, amount int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, amount)

	for i := 0; i < amount; i++ {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = pub
	}

	return keys
}
