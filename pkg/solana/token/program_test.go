package token

import (
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/decense/pkg/solana"
)

func TestGetCommand_Error(t *testing.T) {
	keys := generateKeys(t, 4)

	// invalid program
	cmd, err := GetCommand(solana.NewInstruction(keys[1], []byte{}))
	assert.Equal(t, CommandUnknown, cmd)
	assert.Equal(t, solana.ErrIncorrectProgram, err)

	// no data
	cmd, err = GetCommand(solana.NewInstruction(ProgramKey, []byte{}))
	assert.Equal(t, CommandUnknown, cmd)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "missing data")
}

func TestInitializeMint2(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := InitializeMint2(keys[0], keys[1], keys[2], 4)
	require.Len(t, instruction.Accounts, 1)
	assert.False(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)
	require.Len(t, instruction.Data, 67)
	assert.EqualValues(t, CommandInitializeMint2, instruction.Data[0])
	assert.EqualValues(t, 4, instruction.Data[1])
	assert.EqualValues(t, keys[1], instruction.Data[2:34])
	assert.EqualValues(t, 1, instruction.Data[34])
	assert.EqualValues(t, keys[2], instruction.Data[35:67])

	cmd, err := GetCommand(instruction)
	require.NoError(t, err)
	assert.Equal(t, CommandInitializeMint2, cmd)

	decompiled, err := DecompileInitializeMint2(instruction)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Mint)
	assert.Equal(t, keys[1], decompiled.MintAuthority)
	assert.Equal(t, keys[2], decompiled.FreezeAuthority)
	assert.EqualValues(t, 4, decompiled.Decimals)

	instruction = InitializeMint2(keys[0], keys[1], nil, 9)
	require.Len(t, instruction.Data, 35)
	decompiled, err = DecompileInitializeMint2(instruction)
	require.NoError(t, err)
	assert.Empty(t, decompiled.FreezeAuthority)

	instruction.Data[34] = 3
	_, err = DecompileInitializeMint2(instruction)
	assert.Error(t, err)

	instruction.Data[0] = byte(CommandTransfer)
	_, err = DecompileInitializeMint2(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)
}

func TestInitializeAccount3(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := InitializeAccount3(keys[0], keys[1], keys[2])
	require.Len(t, instruction.Accounts, 2)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[1].IsWritable)
	assert.EqualValues(t, CommandInitializeAccount3, instruction.Data[0])

	decompiled, err := DecompileInitializeAccount3(instruction)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Account)
	assert.Equal(t, keys[1], decompiled.Mint)
	assert.Equal(t, keys[2], decompiled.Owner)

	instruction.Accounts = instruction.Accounts[:1]
	_, err = DecompileInitializeAccount3(instruction)
	assert.Error(t, err)
}

func TestMintTo2(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := MintTo2(keys[0], keys[1], keys[2], 10_000_000, 4)

	expectedAmount := make([]byte, 8)
	binary.LittleEndian.PutUint64(expectedAmount, 10_000_000)
	assert.EqualValues(t, CommandMintTo2, instruction.Data[0])
	assert.Equal(t, expectedAmount, instruction.Data[1:9])
	assert.EqualValues(t, 4, instruction.Data[9])

	require.Len(t, instruction.Accounts, 3)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.True(t, instruction.Accounts[1].IsWritable)
	assert.True(t, instruction.Accounts[2].IsSigner)
	assert.False(t, instruction.Accounts[2].IsWritable)

	decompiled, err := DecompileMintTo2(instruction)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Mint)
	assert.Equal(t, keys[1], decompiled.Destination)
	assert.Equal(t, keys[2], decompiled.Authority)
	assert.EqualValues(t, 10_000_000, decompiled.Amount)
	assert.EqualValues(t, 4, decompiled.Decimals)
}

func TestTransfer(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := Transfer(keys[0], keys[1], keys[2], 123456789)

	expectedAmount := make([]byte, 8)
	binary.LittleEndian.PutUint64(expectedAmount, 123456789)

	assert.Equal(t, []byte{byte(CommandTransfer)}, instruction.Data[0:1])
	assert.Equal(t, expectedAmount, instruction.Data[1:])

	assert.False(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[1].IsSigner)
	assert.True(t, instruction.Accounts[1].IsWritable)
	assert.True(t, instruction.Accounts[2].IsSigner)
	assert.False(t, instruction.Accounts[2].IsWritable)

	decompiled, err := DecompileTransfer(instruction)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Source)
	assert.Equal(t, keys[1], decompiled.Destination)
	assert.Equal(t, keys[2], decompiled.Owner)
	assert.EqualValues(t, 123456789, decompiled.Amount)

	decompiled.Amount = 0
	instruction.Data = instruction.Data[:8]
	_, err = DecompileTransfer(instruction)
	assert.Error(t, err)
}

func TestTransfer2(t *testing.T) {
	keys := generateKeys(t, 4)

	instruction := Transfer2(keys[0], keys[1], keys[2], keys[3], 123456789, 4)

	expectedAmount := make([]byte, 8)
	binary.LittleEndian.PutUint64(expectedAmount, 123456789)

	assert.Equal(t, []byte{byte(CommandTransfer2)}, instruction.Data[0:1])
	assert.Equal(t, expectedAmount, instruction.Data[1:9])
	assert.EqualValues(t, 4, instruction.Data[9])

	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[1].IsWritable)
	assert.True(t, instruction.Accounts[2].IsWritable)
	assert.True(t, instruction.Accounts[3].IsSigner)

	decompiled, err := DecompileTransfer2(instruction)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Source)
	assert.Equal(t, keys[1], decompiled.Mint)
	assert.Equal(t, keys[2], decompiled.Destination)
	assert.Equal(t, keys[3], decompiled.Owner)
	assert.EqualValues(t, 123456789, decompiled.Amount)
	assert.EqualValues(t, 4, decompiled.Decimals)

	_, err = DecompileTransfer(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Program = keys[0]
	_, err = DecompileTransfer2(instruction)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
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
