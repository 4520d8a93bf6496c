package processor

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/decense/pkg/solana"
	"github.com/code-payments/decense/pkg/solana/decense"
	"github.com/code-payments/decense/pkg/solana/system"
	"github.com/code-payments/decense/pkg/solana/token"
)

// initializeSeller launches a seller's token: it collects the platform fee,
// creates the seller record and mint, issues the full supply to the owner and
// seeds the custody vault with half of it.
func (p *Processor) initializeSeller(ctx context.Context, invoker solana.Invoker, programID ed25519.PublicKey, accounts []*solana.AccountInfo, args *decense.InitializeSellerInstructionArgs) error {
	var owner, mint, sellerInfo, platformInfo, treasury, custody, ownerAta, vaultAta *solana.AccountInfo
	var tokenProgram, rentSysvar, ataProgram, systemProgram *solana.AccountInfo
	err := nextAccounts(
		accounts,
		&owner, &mint, &sellerInfo, &platformInfo, &treasury, &custody, &ownerAta, &vaultAta,
		&tokenProgram, &rentSysvar, &ataProgram, &systemProgram,
	)
	if err != nil {
		return err
	}

	log := p.log.WithFields(logrus.Fields{
		"method":    "InitializeSeller",
		"seller":    base58.Encode(owner.Key),
		"mint":      base58.Encode(mint.Key),
		"valuation": args.Valuation,
		"supply":    args.Supply,
	})

	if err := requireSigner(owner); err != nil {
		return err
	}
	for _, check := range []struct {
		info    *solana.AccountInfo
		program ed25519.PublicKey
	}{
		{tokenProgram, decense.SPL_TOKEN_PROGRAM_ID},
		{rentSysvar, decense.SYSVAR_RENT_PUBKEY},
		{ataProgram, decense.SPL_ASSOCIATED_TOKEN_ACCOUNT_PROGRAM_ID},
		{systemProgram, decense.SYSTEM_PROGRAM_ID},
	} {
		if err := requireProgram(check.info, check.program); err != nil {
			return err
		}
	}

	if !platformInfo.IsOwnedBy(programID) {
		return errors.Wrap(solana.ErrIncorrectProgramID, "platform state")
	}
	var platform decense.PlatformState
	if err := platform.UnmarshalInitialized(platformInfo.Data); err != nil {
		return err
	}
	if !treasury.HasKey(platform.TreasuryAddress) {
		log.WithField("treasury", base58.Encode(treasury.Key)).Info("treasury does not match platform")
		return decense.ErrorPlatformMismatch
	}

	if _, err := decense.VerifyCustodyAddress(programID, custody.Key, owner.Key); err != nil {
		return err
	}

	sellerAddress, err := decense.GetSellerStateAddress(programID, owner.Key)
	if err != nil {
		return errors.Wrap(solana.ErrInvalidSeeds, err.Error())
	}
	if err := requireAddress(sellerInfo, sellerAddress, "seller state"); err != nil {
		return err
	}

	ownerAtaAddress, err := token.GetAssociatedAccount(owner.Key, mint.Key)
	if err != nil {
		return errors.Wrap(solana.ErrInvalidSeeds, err.Error())
	}
	if err := requireAddress(ownerAta, ownerAtaAddress, "owner token account"); err != nil {
		return err
	}
	vaultAddress, err := decense.GetVaultTokenAddress(custody.Key, mint.Key)
	if err != nil {
		return errors.Wrap(solana.ErrInvalidSeeds, err.Error())
	}
	if err := requireAddress(vaultAta, vaultAddress, "vault token account"); err != nil {
		return err
	}

	minted, vaulted, err := calculateIssuance(args.Supply)
	if err != nil {
		return err
	}
	price, err := CalculateInitialPrice(args.Valuation, args.Supply)
	if err != nil {
		return err
	}

	fee := p.conf.initializationFeeLamports.Get(ctx)
	if err := invoker.Invoke(ctx, system.Transfer(owner.Key, treasury.Key, fee), accounts); err != nil {
		return err
	}

	err = invoker.Invoke(
		ctx,
		system.CreateAccountWithSeed(
			owner.Key,
			sellerInfo.Key,
			owner.Key,
			decense.SellerStateSeed,
			system.MinimumBalanceForRentExemption(decense.SellerStateAccountSize),
			decense.SellerStateAccountSize,
			programID,
		),
		accounts,
	)
	if err != nil {
		return err
	}

	// Clients may allocate the mint themselves, in which case it only needs
	// to be initialized.
	if mint.IsEmpty() {
		err = invoker.Invoke(
			ctx,
			system.CreateAccount(
				owner.Key,
				mint.Key,
				token.ProgramKey,
				system.MinimumBalanceForRentExemption(token.MintSize),
				token.MintSize,
			),
			accounts,
		)
		if err != nil {
			return err
		}
	}

	if err := invoker.Invoke(ctx, token.InitializeMint2(mint.Key, owner.Key, owner.Key, decense.TokenDecimals), accounts); err != nil {
		return err
	}

	for _, wallet := range []ed25519.PublicKey{owner.Key, custody.Key} {
		create, _, err := token.CreateAssociatedTokenAccount(owner.Key, wallet, mint.Key)
		if err != nil {
			return errors.Wrap(solana.ErrInvalidSeeds, err.Error())
		}
		if err := invoker.Invoke(ctx, create, accounts); err != nil {
			return err
		}
	}

	if err := invoker.Invoke(ctx, token.MintTo2(mint.Key, ownerAta.Key, owner.Key, minted, decense.TokenDecimals), accounts); err != nil {
		return err
	}
	if err := invoker.Invoke(ctx, token.Transfer2(ownerAta.Key, mint.Key, vaultAta.Key, owner.Key, vaulted, decense.TokenDecimals), accounts); err != nil {
		return err
	}

	state := decense.SellerState{
		IsInitialized:       true,
		Owner:               owner.Key,
		DeclaredValuation:   args.Valuation,
		DeclaredSupply:      args.Supply,
		TokenMint:           mint.Key,
		OwnerTokenAccount:   ownerAta.Key,
		VaultTokenAccount:   vaultAta.Key,
		TreasurySharePct:    decense.DefaultTreasurySharePct,
		LiquidationSharePct: decense.DefaultLiquidationSharePct,
		CurrentPrice:        price,
		HolderCount:         0,
	}
	copy(sellerInfo.Data, state.Marshal())

	log.WithField("price", price).Debug("seller initialized")
	recordSellerInitializedEvent(ctx, owner.Key, mint.Key, args.Valuation, args.Supply, price)

	return nil
}
