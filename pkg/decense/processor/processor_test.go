package processor

import (
	"context"
	"crypto/ed25519"
	"encoding/binary"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/decense/pkg/decense/data/account/memory"
	"github.com/code-payments/decense/pkg/decense/runtime"
	"github.com/code-payments/decense/pkg/solana"
	"github.com/code-payments/decense/pkg/solana/decense"
	"github.com/code-payments/decense/pkg/solana/system"
	"github.com/code-payments/decense/pkg/solana/token"
	"github.com/code-payments/decense/pkg/testutil"
)

const (
	testValuation = 1_000_000
	testSupply    = 1000

	testInitialPrice  = 1_000_000_000_000
	testVaultDeposit  = 5_000_000
	testMintedAmount  = 10_000_000
	testWalletFunding = 10_000_000_000_000
)

type testEnv struct {
	ctx     context.Context
	runtime *runtime.Runtime
	nonce   uint64

	admin    ed25519.PrivateKey
	treasury ed25519.PublicKey
	seller   ed25519.PrivateKey
	mint     ed25519.PrivateKey
	buyers   []ed25519.PrivateKey

	platformState ed25519.PublicKey
	sellerState   ed25519.PublicKey
	custody       ed25519.PublicKey
	ownerAta      ed25519.PublicKey
	vaultAta      ed25519.PublicKey
}

func setup(t *testing.T, overrides *testOverrides) *testEnv {
	rt := runtime.New(memory.New(), runtime.WithDefaults(true))
	require.NoError(t, rt.RegisterProgram(decense.PROGRAM_ID, NewProcessor(withManualTestOverrides(overrides))))

	env := &testEnv{
		ctx:      context.Background(),
		runtime:  rt,
		admin:    testutil.GenerateSolanaKeypair(t),
		treasury: testutil.GenerateSolanaKeys(t, 1)[0],
		seller:   testutil.GenerateSolanaKeypair(t),
		mint:     testutil.GenerateSolanaKeypair(t),
		buyers:   testutil.GenerateSolanaKeypairs(t, 2),
	}

	var err error
	env.platformState, err = decense.GetPlatformStateAddress(decense.PROGRAM_ID, testutil.PublicKey(env.admin))
	require.NoError(t, err)
	env.sellerState, err = decense.GetSellerStateAddress(decense.PROGRAM_ID, testutil.PublicKey(env.seller))
	require.NoError(t, err)
	env.custody, _, err = decense.GetCustodyAddress(decense.PROGRAM_ID, testutil.PublicKey(env.seller))
	require.NoError(t, err)
	env.ownerAta, err = token.GetAssociatedAccount(testutil.PublicKey(env.seller), testutil.PublicKey(env.mint))
	require.NoError(t, err)
	env.vaultAta, err = decense.GetVaultTokenAddress(env.custody, testutil.PublicKey(env.mint))
	require.NoError(t, err)

	for _, wallet := range append([]ed25519.PrivateKey{env.admin, env.seller}, env.buyers...) {
		require.NoError(t, rt.Airdrop(env.ctx, testutil.PublicKey(wallet), testWalletFunding))
	}

	return env
}

func defaultTestOverrides() *testOverrides {
	return &testOverrides{
		initializationFeeLamports: decense.DefaultInitializationFeeLamports,
	}
}

func (e *testEnv) submit(t *testing.T, payer ed25519.PrivateKey, signers []ed25519.PrivateKey, ixs ...solana.Instruction) error {
	txn := solana.NewTransaction(testutil.PublicKey(payer), ixs...)

	var blockhash solana.Blockhash
	binary.LittleEndian.PutUint64(blockhash[:], atomic.AddUint64(&e.nonce, 1))
	txn.SetBlockhash(blockhash)

	require.NoError(t, txn.Sign(append([]ed25519.PrivateKey{payer}, signers...)...))
	return e.runtime.SubmitTransaction(e.ctx, txn)
}

func (e *testEnv) initializePlatform(t *testing.T, treasury ed25519.PublicKey) error {
	return e.submit(t, e.admin, nil, decense.NewInitializePlatformInstruction(&decense.InitializePlatformInstructionAccounts{
		Admin:         testutil.PublicKey(e.admin),
		PlatformState: e.platformState,
		Treasury:      treasury,
	}))
}

func (e *testEnv) initializeSeller(t *testing.T, treasury ed25519.PublicKey, valuation, supply uint64) error {
	return e.initializeSellerWithCustody(t, treasury, e.custody, valuation, supply)
}

func (e *testEnv) initializeSellerWithCustody(t *testing.T, treasury, custody ed25519.PublicKey, valuation, supply uint64) error {
	ix := decense.NewInitializeSellerInstruction(
		&decense.InitializeSellerInstructionAccounts{
			Owner:         testutil.PublicKey(e.seller),
			Mint:          testutil.PublicKey(e.mint),
			SellerState:   e.sellerState,
			PlatformState: e.platformState,
			Treasury:      treasury,
			Custody:       custody,
			OwnerAta:      e.ownerAta,
			VaultAta:      e.vaultAta,
		},
		&decense.InitializeSellerInstructionArgs{
			Valuation: valuation,
			Supply:    supply,
		},
	)
	return e.submit(t, e.seller, []ed25519.PrivateKey{e.mint}, ix)
}

func (e *testEnv) launch(t *testing.T) {
	require.NoError(t, e.initializePlatform(t, e.treasury))
	require.NoError(t, e.initializeSeller(t, e.treasury, testValuation, testSupply))
}

func (e *testEnv) exchange(t *testing.T, buyer ed25519.PrivateKey, askedPrice, quantity uint64) error {
	buyerState, _, err := decense.GetBuyerStateAddress(decense.PROGRAM_ID, testutil.PublicKey(e.seller), testutil.PublicKey(buyer))
	require.NoError(t, err)

	ix := decense.NewExchangeInstruction(
		&decense.ExchangeInstructionAccounts{
			Buyer:       testutil.PublicKey(buyer),
			BuyerState:  buyerState,
			BuyerAta:    e.ata(t, testutil.PublicKey(buyer)),
			Seller:      testutil.PublicKey(e.seller),
			Mint:        testutil.PublicKey(e.mint),
			SellerState: e.sellerState,
			Custody:     e.custody,
			VaultAta:    e.vaultAta,
		},
		&decense.ExchangeInstructionArgs{
			AskedPrice: askedPrice,
			Quantity:   quantity,
		},
	)
	return e.submit(t, buyer, nil, ix)
}

func (e *testEnv) sendReceiveToken(t *testing.T, trader ed25519.PrivateKey, action decense.TokenAction, amount uint64) error {
	ix := decense.NewSendReceiveTokenInstruction(
		&decense.SendReceiveTokenInstructionAccounts{
			Seller:      testutil.PublicKey(e.seller),
			SellerState: e.sellerState,
			Mint:        testutil.PublicKey(e.mint),
			Trader:      testutil.PublicKey(trader),
			TraderAta:   e.ata(t, testutil.PublicKey(trader)),
			Custody:     e.custody,
			VaultAta:    e.vaultAta,
		},
		&decense.SendReceiveTokenInstructionArgs{
			Action: action,
			Amount: amount,
		},
	)
	return e.submit(t, trader, nil, ix)
}

func (e *testEnv) ata(t *testing.T, wallet ed25519.PublicKey) ed25519.PublicKey {
	address, err := token.GetAssociatedAccount(wallet, testutil.PublicKey(e.mint))
	require.NoError(t, err)
	return address
}

func (e *testEnv) account(t *testing.T, key ed25519.PublicKey) *solana.AccountState {
	state, err := e.runtime.GetAccount(e.ctx, key)
	require.NoError(t, err)
	return state
}

func (e *testEnv) lamports(t *testing.T, key ed25519.PublicKey) uint64 {
	return e.account(t, key).Lamports
}

func (e *testEnv) tokenBalance(t *testing.T, tokenAccount ed25519.PublicKey) uint64 {
	balance, err := tokenBalance(solana.NewAccountInfo(tokenAccount, false, false, e.account(t, tokenAccount)))
	require.NoError(t, err)
	return balance
}

func (e *testEnv) getPlatformState(t *testing.T) *decense.PlatformState {
	var state decense.PlatformState
	require.NoError(t, state.UnmarshalInitialized(e.account(t, e.platformState).Data))
	return &state
}

func (e *testEnv) getSellerState(t *testing.T) *decense.SellerState {
	var state decense.SellerState
	require.NoError(t, state.UnmarshalInitialized(e.account(t, e.sellerState).Data))
	return &state
}

func (e *testEnv) getBuyerState(t *testing.T, buyer ed25519.PrivateKey) *decense.BuyerState {
	address, _, err := decense.GetBuyerStateAddress(decense.PROGRAM_ID, testutil.PublicKey(e.seller), testutil.PublicKey(buyer))
	require.NoError(t, err)

	var state decense.BuyerState
	require.NoError(t, state.UnmarshalInitialized(e.account(t, address).Data))
	return &state
}

func TestInitializePlatform(t *testing.T) {
	env := setup(t, defaultTestOverrides())

	require.NoError(t, env.initializePlatform(t, env.treasury))

	platform := env.account(t, env.platformState)
	assert.Equal(t, decense.PROGRAM_ID, platform.Owner)
	assert.Len(t, platform.Data, decense.PlatformStateAccountSize)
	assert.EqualValues(t, system.MinimumBalanceForRentExemption(decense.PlatformStateAccountSize), platform.Lamports)

	state := env.getPlatformState(t)
	assert.True(t, state.IsInitialized)
	assert.Equal(t, env.treasury, state.TreasuryAddress)

	// Calling again with the same treasury leaves exactly the same state.
	require.NoError(t, env.initializePlatform(t, env.treasury))
	assert.Equal(t, platform, env.account(t, env.platformState))

	// Calling again re-stamps the treasury on the existing record.
	otherTreasury := testutil.GenerateSolanaKeys(t, 1)[0]
	require.NoError(t, env.initializePlatform(t, otherTreasury))
	assert.Equal(t, otherTreasury, env.getPlatformState(t).TreasuryAddress)
	assert.EqualValues(t, system.MinimumBalanceForRentExemption(decense.PlatformStateAccountSize), env.lamports(t, env.platformState))
}

func TestInitializePlatform_InvalidAccounts(t *testing.T) {
	env := setup(t, defaultTestOverrides())

	ix := decense.NewInitializePlatformInstruction(&decense.InitializePlatformInstructionAccounts{
		Admin:         testutil.PublicKey(env.admin),
		PlatformState: testutil.GenerateSolanaKeys(t, 1)[0],
		Treasury:      env.treasury,
	})
	testutil.AssertInstructionError(t, env.submit(t, env.admin, nil, ix), 0, solana.ErrInvalidSeeds)

	ix = decense.NewInitializePlatformInstruction(&decense.InitializePlatformInstructionAccounts{
		Admin:         testutil.PublicKey(env.admin),
		PlatformState: env.platformState,
		Treasury:      env.treasury,
	})
	ix.Accounts[0].IsSigner = false
	payer := env.buyers[0]
	testutil.AssertInstructionError(t, env.submit(t, payer, nil, ix), 0, solana.ErrMissingRequiredSignature)

	assert.Empty(t, env.account(t, env.platformState).Data)
}

func TestInitializeSeller(t *testing.T) {
	env := setup(t, defaultTestOverrides())
	env.launch(t)

	state := env.getSellerState(t)
	assert.True(t, state.IsInitialized)
	assert.Equal(t, testutil.PublicKey(env.seller), state.Owner)
	assert.EqualValues(t, testValuation, state.DeclaredValuation)
	assert.EqualValues(t, testSupply, state.DeclaredSupply)
	assert.Equal(t, testutil.PublicKey(env.mint), state.TokenMint)
	assert.Equal(t, env.ownerAta, state.OwnerTokenAccount)
	assert.Equal(t, env.vaultAta, state.VaultTokenAccount)
	assert.EqualValues(t, decense.DefaultTreasurySharePct, state.TreasurySharePct)
	assert.EqualValues(t, decense.DefaultLiquidationSharePct, state.LiquidationSharePct)
	assert.EqualValues(t, testInitialPrice, state.CurrentPrice)
	assert.EqualValues(t, 0, state.HolderCount)

	assert.EqualValues(t, testVaultDeposit, env.tokenBalance(t, env.vaultAta))
	assert.EqualValues(t, testMintedAmount-testVaultDeposit, env.tokenBalance(t, env.ownerAta))
	assert.EqualValues(t, decense.DefaultInitializationFeeLamports, env.lamports(t, env.treasury))

	mint := env.account(t, testutil.PublicKey(env.mint))
	assert.Equal(t, token.ProgramKey, mint.Owner)
	var decoded token.Mint
	require.True(t, decoded.Unmarshal(mint.Data))
	assert.EqualValues(t, testMintedAmount, decoded.Supply)
	assert.EqualValues(t, decense.TokenDecimals, decoded.Decimals)

	// The seller record can only be created once.
	err := env.initializeSeller(t, env.treasury, testValuation, testSupply)
	testutil.AssertCustomError(t, err, system.ErrorAccountAlreadyInUse)
}

func TestInitializeSeller_CustomFee(t *testing.T) {
	env := setup(t, &testOverrides{initializationFeeLamports: 42})
	env.launch(t)

	assert.EqualValues(t, 42, env.lamports(t, env.treasury))
}

func TestInitializeSeller_PlatformMismatch(t *testing.T) {
	env := setup(t, defaultTestOverrides())
	require.NoError(t, env.initializePlatform(t, env.treasury))

	before := env.lamports(t, testutil.PublicKey(env.seller))

	err := env.initializeSeller(t, testutil.GenerateSolanaKeys(t, 1)[0], testValuation, testSupply)
	testutil.AssertInstructionError(t, err, 0, decense.ErrorPlatformMismatch)
	testutil.AssertCustomError(t, err, 22)

	assert.Equal(t, before, env.lamports(t, testutil.PublicKey(env.seller)))
	assert.Empty(t, env.account(t, env.sellerState).Data)
}

func TestInitializeSeller_Failures(t *testing.T) {
	env := setup(t, defaultTestOverrides())

	// No platform yet.
	err := env.initializeSeller(t, env.treasury, testValuation, testSupply)
	testutil.AssertInstructionError(t, err, 0, solana.ErrIncorrectProgramID)

	require.NoError(t, env.initializePlatform(t, env.treasury))

	err = env.initializeSellerWithCustody(t, env.treasury, testutil.GenerateSolanaKeys(t, 1)[0], testValuation, testSupply)
	testutil.AssertCustomError(t, err, decense.ErrorInvalidPDA)

	err = env.initializeSeller(t, env.treasury, testValuation, 0)
	testutil.AssertCustomError(t, err, decense.ErrorMathError)

	assert.Empty(t, env.account(t, env.sellerState).Data)
	assert.Empty(t, env.account(t, testutil.PublicKey(env.mint)).Data)
	assert.EqualValues(t, 0, env.lamports(t, env.treasury))
}

func TestExchange(t *testing.T) {
	env := setup(t, defaultTestOverrides())
	env.launch(t)

	buyer := env.buyers[0]
	sellerLamports := env.lamports(t, testutil.PublicKey(env.seller))

	require.NoError(t, env.exchange(t, buyer, 2_000_000_000_000, 1000))

	state := env.getSellerState(t)
	assert.EqualValues(t, 1_000_200_000_000, state.CurrentPrice)
	assert.EqualValues(t, 1, state.HolderCount)

	assert.Equal(t, sellerLamports+2_000_000_000_000, env.lamports(t, testutil.PublicKey(env.seller)))
	assert.EqualValues(t, testVaultDeposit-1000, env.tokenBalance(t, env.vaultAta))
	assert.EqualValues(t, 1000, env.tokenBalance(t, env.ata(t, testutil.PublicKey(buyer))))

	buyerState := env.getBuyerState(t, buyer)
	assert.Equal(t, testutil.PublicKey(buyer), buyerState.Owner)
	assert.EqualValues(t, 1000, buyerState.CurrentHoldingInTokens)

	// Holdings are overwritten, and a repeat buyer is not a new holder.
	require.NoError(t, env.exchange(t, buyer, 1_000_200_000_000, 250))
	assert.EqualValues(t, 250, env.getBuyerState(t, buyer).CurrentHoldingInTokens)
	assert.EqualValues(t, 1250, env.tokenBalance(t, env.ata(t, testutil.PublicKey(buyer))))
	assert.EqualValues(t, 1, env.getSellerState(t).HolderCount)
	assert.EqualValues(t, 1_000_200_000_000, env.getSellerState(t).CurrentPrice)

	// Asking below the current price moves it down.
	require.NoError(t, env.exchange(t, env.buyers[1], 0, 4_998_750))
	state = env.getSellerState(t)
	assert.EqualValues(t, 2, state.HolderCount)
	assert.Less(t, state.CurrentPrice, uint64(1_000_200_000_000))
	assert.EqualValues(t, 0, env.tokenBalance(t, env.vaultAta))
}

func TestExchange_InsufficientVaultBalance(t *testing.T) {
	env := setup(t, defaultTestOverrides())
	env.launch(t)

	buyer := env.buyers[0]
	buyerLamports := env.lamports(t, testutil.PublicKey(buyer))
	sellerLamports := env.lamports(t, testutil.PublicKey(env.seller))
	sellerState := env.account(t, env.sellerState)

	err := env.exchange(t, buyer, 2_000_000_000_000, testVaultDeposit+1)
	testutil.AssertInstructionError(t, err, 0, decense.ErrorInsufficientTokenBalance)

	assert.Equal(t, buyerLamports, env.lamports(t, testutil.PublicKey(buyer)))
	assert.Equal(t, sellerLamports, env.lamports(t, testutil.PublicKey(env.seller)))
	assert.True(t, sellerState.Equal(env.account(t, env.sellerState)))
	assert.EqualValues(t, testVaultDeposit, env.tokenBalance(t, env.vaultAta))
	assert.True(t, env.account(t, env.ata(t, testutil.PublicKey(buyer))).Lamports == 0)
}

func TestExchange_InvalidCustody(t *testing.T) {
	env := setup(t, defaultTestOverrides())
	env.launch(t)

	buyer := env.buyers[0]
	buyerState, _, err := decense.GetBuyerStateAddress(decense.PROGRAM_ID, testutil.PublicKey(env.seller), testutil.PublicKey(buyer))
	require.NoError(t, err)

	ix := decense.NewExchangeInstruction(
		&decense.ExchangeInstructionAccounts{
			Buyer:       testutil.PublicKey(buyer),
			BuyerState:  buyerState,
			BuyerAta:    env.ata(t, testutil.PublicKey(buyer)),
			Seller:      testutil.PublicKey(env.seller),
			Mint:        testutil.PublicKey(env.mint),
			SellerState: env.sellerState,
			Custody:     testutil.GenerateSolanaKeys(t, 1)[0],
			VaultAta:    env.vaultAta,
		},
		&decense.ExchangeInstructionArgs{AskedPrice: 1, Quantity: 1},
	)
	testutil.AssertCustomError(t, env.submit(t, buyer, nil, ix), decense.ErrorInvalidPDA)
}

func TestExchange_AccumulateHoldings(t *testing.T) {
	overrides := defaultTestOverrides()
	overrides.accumulateBuyerHoldings = true

	env := setup(t, overrides)
	env.launch(t)

	buyer := env.buyers[0]
	require.NoError(t, env.exchange(t, buyer, testInitialPrice, 1000))
	require.NoError(t, env.exchange(t, buyer, testInitialPrice, 250))

	assert.EqualValues(t, 1250, env.getBuyerState(t, buyer).CurrentHoldingInTokens)
	assert.EqualValues(t, testInitialPrice, env.getSellerState(t).CurrentPrice)
}

func TestSendReceiveToken(t *testing.T) {
	env := setup(t, defaultTestOverrides())
	env.launch(t)

	trader := env.buyers[0]
	traderAta := env.ata(t, testutil.PublicKey(trader))
	require.NoError(t, env.exchange(t, trader, testInitialPrice, 1000))
	require.EqualValues(t, 1, env.getSellerState(t).HolderCount)

	price := env.getSellerState(t).CurrentPrice

	require.NoError(t, env.sendReceiveToken(t, trader, decense.TokenActionDeposit, 400))
	assert.EqualValues(t, 600, env.tokenBalance(t, traderAta))
	assert.EqualValues(t, testVaultDeposit-600, env.tokenBalance(t, env.vaultAta))
	assert.EqualValues(t, 1, env.getSellerState(t).HolderCount)

	// Depositing the whole balance gives up the holding.
	require.NoError(t, env.sendReceiveToken(t, trader, decense.TokenActionDeposit, 600))
	assert.EqualValues(t, 0, env.tokenBalance(t, traderAta))
	assert.EqualValues(t, 0, env.getSellerState(t).HolderCount)

	require.NoError(t, env.sendReceiveToken(t, trader, decense.TokenActionWithdraw, 2000))
	assert.EqualValues(t, 2000, env.tokenBalance(t, traderAta))
	assert.EqualValues(t, testVaultDeposit-2000, env.tokenBalance(t, env.vaultAta))
	assert.EqualValues(t, 1, env.getSellerState(t).HolderCount)

	assert.Equal(t, price, env.getSellerState(t).CurrentPrice)
}

func TestSendReceiveToken_Failures(t *testing.T) {
	env := setup(t, defaultTestOverrides())
	env.launch(t)

	trader := env.buyers[0]
	require.NoError(t, env.exchange(t, trader, testInitialPrice, 1000))

	err := env.sendReceiveToken(t, trader, decense.TokenActionDeposit, 1001)
	testutil.AssertCustomError(t, err, decense.ErrorInsufficientTokenBalance)

	err = env.sendReceiveToken(t, trader, decense.TokenActionWithdraw, testVaultDeposit)
	testutil.AssertCustomError(t, err, decense.ErrorInsufficientTokenBalance)

	err = env.sendReceiveToken(t, trader, decense.TokenAction(2), 1)
	testutil.AssertCustomError(t, err, decense.ErrorInvalidInstruction)

	assert.EqualValues(t, 1000, env.tokenBalance(t, env.ata(t, testutil.PublicKey(trader))))
	assert.EqualValues(t, testVaultDeposit-1000, env.tokenBalance(t, env.vaultAta))

	// A trader that never held the token has no token account to withdraw into.
	newcomer := env.buyers[1]
	err = env.sendReceiveToken(t, newcomer, decense.TokenActionWithdraw, 10)
	testutil.AssertInstructionError(t, err, 0, solana.ErrUninitializedAccount)
	assert.EqualValues(t, testVaultDeposit-1000, env.tokenBalance(t, env.vaultAta))
	assert.EqualValues(t, 1, env.getSellerState(t).HolderCount)
}

func TestHolderCountConservation(t *testing.T) {
	env := setup(t, defaultTestOverrides())
	env.launch(t)

	for _, buyer := range env.buyers {
		require.NoError(t, env.exchange(t, buyer, testInitialPrice, 100))
	}
	assert.EqualValues(t, len(env.buyers), env.getSellerState(t).HolderCount)

	var holders int
	for _, buyer := range env.buyers {
		if env.tokenBalance(t, env.ata(t, testutil.PublicKey(buyer))) > 0 {
			holders++
		}
	}
	assert.EqualValues(t, holders, env.getSellerState(t).HolderCount)

	require.NoError(t, env.sendReceiveToken(t, env.buyers[0], decense.TokenActionDeposit, 100))
	assert.EqualValues(t, len(env.buyers)-1, env.getSellerState(t).HolderCount)

	// The seller emptying and refilling their own token account leaves the
	// count of other holders untouched.
	sellerBalance := env.tokenBalance(t, env.ownerAta)
	require.NoError(t, env.sendReceiveToken(t, env.seller, decense.TokenActionDeposit, sellerBalance))
	assert.EqualValues(t, 0, env.tokenBalance(t, env.ownerAta))
	assert.EqualValues(t, 100, env.tokenBalance(t, env.ata(t, testutil.PublicKey(env.buyers[1]))))
	assert.EqualValues(t, len(env.buyers)-1, env.getSellerState(t).HolderCount)

	require.NoError(t, env.sendReceiveToken(t, env.seller, decense.TokenActionWithdraw, 10))
	assert.EqualValues(t, 10, env.tokenBalance(t, env.ownerAta))
	assert.EqualValues(t, len(env.buyers)-1, env.getSellerState(t).HolderCount)

	require.NoError(t, env.exchange(t, env.seller, testInitialPrice, 10))
	assert.EqualValues(t, 20, env.tokenBalance(t, env.ownerAta))
	assert.EqualValues(t, len(env.buyers)-1, env.getSellerState(t).HolderCount)
}

func TestMalformedInstructions(t *testing.T) {
	env := setup(t, defaultTestOverrides())

	payer := env.buyers[0]
	for _, tc := range []struct {
		data     []byte
		expected solana.CustomError
	}{
		{nil, decense.ErrorInvalidInstruction},
		{[]byte{9}, decense.ErrorInvalidInstruction},
		{[]byte{byte(decense.InstructionTypeExchange), 1, 2, 3}, decense.ErrorInvalidNumber},
		{[]byte{byte(decense.InstructionTypeInitializeSeller), 0, 0, 0, 0, 0, 0, 0, 0, 1}, decense.ErrorInvalidNumber},
	} {
		ix := solana.NewInstruction(decense.PROGRAM_ID, tc.data, solana.NewAccountMeta(testutil.PublicKey(payer), true))
		err := env.submit(t, payer, nil, ix)
		testutil.AssertInstructionError(t, err, 0, tc.expected)
	}

	ix := solana.NewInstruction(decense.PROGRAM_ID, []byte{byte(decense.InstructionTypeInitializePlatform)}, solana.NewAccountMeta(testutil.PublicKey(payer), true))
	testutil.AssertInstructionError(t, env.submit(t, payer, nil, ix), 0, solana.ErrNotEnoughAccountKeys)
}
