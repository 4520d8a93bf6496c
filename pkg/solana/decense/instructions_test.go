package decense

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/decense/pkg/testutil"
)

func TestInitializePlatformInstruction(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)
	admin, treasury := keys[0], keys[1]
	platformState, err := GetPlatformStateAddress(PROGRAM_ID, admin)
	require.NoError(t, err)

	ix := NewInitializePlatformInstruction(&InitializePlatformInstructionAccounts{
		Admin:         admin,
		PlatformState: platformState,
		Treasury:      treasury,
	})
	assert.EqualValues(t, PROGRAM_ID, ix.Program)
	require.Len(t, ix.Accounts, 4)
	assert.True(t, ix.Accounts[0].IsSigner)
	assert.True(t, ix.Accounts[0].IsWritable)
	assert.True(t, ix.Accounts[1].IsWritable)
	assert.False(t, ix.Accounts[2].IsWritable)
	assert.EqualValues(t, SYSTEM_PROGRAM_ID, ix.Accounts[3].PublicKey)

	decoded, err := DecodeInstruction(ix.Data)
	require.NoError(t, err)
	assert.Equal(t, InstructionTypeInitializePlatform, decoded.Type)
}

func TestInitializeSellerInstruction(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 8)

	args := &InitializeSellerInstructionArgs{Valuation: 1_000_000, Supply: 10_000}
	ix := NewInitializeSellerInstruction(&InitializeSellerInstructionAccounts{
		Owner:         keys[0],
		Mint:          keys[1],
		SellerState:   keys[2],
		PlatformState: keys[3],
		Treasury:      keys[4],
		Custody:       keys[5],
		OwnerAta:      keys[6],
		VaultAta:      keys[7],
	}, args)

	require.Len(t, ix.Accounts, 12)
	for i := 0; i < 8; i++ {
		assert.EqualValues(t, keys[i], ix.Accounts[i].PublicKey)
	}
	assert.True(t, ix.Accounts[0].IsSigner)
	assert.True(t, ix.Accounts[1].IsSigner)
	assert.True(t, ix.Accounts[1].IsWritable)
	assert.False(t, ix.Accounts[3].IsWritable)
	assert.True(t, ix.Accounts[4].IsWritable)
	assert.False(t, ix.Accounts[5].IsWritable)
	assert.EqualValues(t, SPL_TOKEN_PROGRAM_ID, ix.Accounts[8].PublicKey)
	assert.EqualValues(t, SYSVAR_RENT_PUBKEY, ix.Accounts[9].PublicKey)
	assert.EqualValues(t, SPL_ASSOCIATED_TOKEN_ACCOUNT_PROGRAM_ID, ix.Accounts[10].PublicKey)
	assert.EqualValues(t, SYSTEM_PROGRAM_ID, ix.Accounts[11].PublicKey)

	decoded, err := DecodeInstruction(ix.Data)
	require.NoError(t, err)
	assert.Equal(t, args, decoded.InitializeSeller)
}

func TestExchangeInstruction(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 8)

	args := &ExchangeInstructionArgs{AskedPrice: 2_000_000_000_000, Quantity: 1_000_000}
	ix := NewExchangeInstruction(&ExchangeInstructionAccounts{
		Buyer:       keys[0],
		BuyerState:  keys[1],
		BuyerAta:    keys[2],
		Seller:      keys[3],
		Mint:        keys[4],
		SellerState: keys[5],
		Custody:     keys[6],
		VaultAta:    keys[7],
	}, args)

	require.Len(t, ix.Accounts, 12)
	for i := 0; i < 8; i++ {
		assert.EqualValues(t, keys[i], ix.Accounts[i].PublicKey)
	}
	assert.True(t, ix.Accounts[0].IsSigner)
	for i := 1; i < len(ix.Accounts); i++ {
		assert.False(t, ix.Accounts[i].IsSigner)
	}
	assert.True(t, ix.Accounts[3].IsWritable)
	assert.False(t, ix.Accounts[4].IsWritable)
	assert.False(t, ix.Accounts[6].IsWritable)

	decoded, err := DecodeInstruction(ix.Data)
	require.NoError(t, err)
	assert.Equal(t, args, decoded.Exchange)
}

func TestSendReceiveTokenInstruction(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 7)

	args := &SendReceiveTokenInstructionArgs{Action: TokenActionDeposit, Amount: 500}
	ix := NewSendReceiveTokenInstruction(&SendReceiveTokenInstructionAccounts{
		Seller:      keys[0],
		SellerState: keys[1],
		Mint:        keys[2],
		Trader:      keys[3],
		TraderAta:   keys[4],
		Custody:     keys[5],
		VaultAta:    keys[6],
	}, args)

	require.Len(t, ix.Accounts, 8)
	assert.False(t, ix.Accounts[0].IsWritable)
	assert.True(t, ix.Accounts[3].IsSigner)
	assert.EqualValues(t, SPL_TOKEN_PROGRAM_ID, ix.Accounts[7].PublicKey)

	decoded, err := DecodeInstruction(ix.Data)
	require.NoError(t, err)
	assert.Equal(t, args, decoded.SendReceiveToken)
}
