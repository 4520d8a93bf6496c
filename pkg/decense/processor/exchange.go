package processor

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/decense/pkg/safe"
	"github.com/code-payments/decense/pkg/solana"
	"github.com/code-payments/decense/pkg/solana/decense"
	"github.com/code-payments/decense/pkg/solana/system"
	"github.com/code-payments/decense/pkg/solana/token"
)

// exchange pays the seller the asked price, moves quantity tokens from the
// custody vault to the buyer and re-prices the seller's token.
func (p *Processor) exchange(ctx context.Context, invoker solana.Invoker, programID ed25519.PublicKey, accounts []*solana.AccountInfo, args *decense.ExchangeInstructionArgs) error {
	var buyer, buyerInfo, buyerAta, seller, mint, sellerInfo, custody, vaultAta *solana.AccountInfo
	var tokenProgram, rentSysvar, ataProgram, systemProgram *solana.AccountInfo
	err := nextAccounts(
		accounts,
		&buyer, &buyerInfo, &buyerAta, &seller, &mint, &sellerInfo, &custody, &vaultAta,
		&tokenProgram, &rentSysvar, &ataProgram, &systemProgram,
	)
	if err != nil {
		return err
	}

	log := p.log.WithFields(logrus.Fields{
		"method":      "Exchange",
		"seller":      base58.Encode(seller.Key),
		"buyer":       base58.Encode(buyer.Key),
		"asked_price": args.AskedPrice,
		"quantity":    args.Quantity,
	})

	if err := requireSigner(buyer); err != nil {
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

	custodyBump, err := decense.VerifyCustodyAddress(programID, custody.Key, seller.Key)
	if err != nil {
		return err
	}

	sellerState, err := loadSellerState(programID, sellerInfo, seller, mint, vaultAta)
	if err != nil {
		return err
	}

	vaultBalance, err := token.GetBalance(vaultAta)
	if err != nil {
		return err
	}
	if args.Quantity > vaultBalance {
		log.WithField("vault_balance", vaultBalance).Debug("insufficient vault balance")
		return decense.ErrorInsufficientTokenBalance
	}

	newPrice, err := CalculateNewPrice(sellerState.CurrentPrice, args.AskedPrice, vaultBalance, args.Quantity)
	if err != nil {
		return err
	}

	buyerAddress, buyerBump, err := decense.GetBuyerStateAddress(programID, seller.Key, buyer.Key)
	if err != nil {
		return errors.Wrap(solana.ErrInvalidSeeds, err.Error())
	}
	if err := requireAddress(buyerInfo, buyerAddress, "buyer state"); err != nil {
		return err
	}

	buyerAtaAddress, err := token.GetAssociatedAccount(buyer.Key, mint.Key)
	if err != nil {
		return errors.Wrap(solana.ErrInvalidSeeds, err.Error())
	}
	if err := requireAddress(buyerAta, buyerAtaAddress, "buyer token account"); err != nil {
		return err
	}

	var buyerState decense.BuyerState
	createBuyerState := buyerInfo.IsEmpty()
	if !createBuyerState {
		if !buyerInfo.IsOwnedBy(programID) {
			return errors.Wrap(solana.ErrIncorrectProgramID, "buyer state")
		}
		if err := buyerState.UnmarshalInitialized(buyerInfo.Data); err != nil {
			return err
		}
		if !buyer.HasKey(buyerState.Owner) {
			return errors.Wrap(solana.ErrInvalidAccountData, "buyer state owner mismatch")
		}
	}

	balanceBefore, err := tokenBalance(buyerAta)
	if err != nil {
		return err
	}

	holderCount := sellerState.HolderCount
	if !buyer.HasKey(sellerState.Owner) && balanceBefore == 0 && args.Quantity > 0 {
		holderCount, err = safe.Add(holderCount, 1)
		if err != nil {
			return toMathError(err, "holder count")
		}
	}

	holding := args.Quantity
	if p.conf.accumulateBuyerHoldings.Get(ctx) {
		holding, err = safe.Add(buyerState.CurrentHoldingInTokens, args.Quantity)
		if err != nil {
			return toMathError(err, "buyer holding")
		}
	}

	if createBuyerState {
		err = invoker.InvokeSigned(
			ctx,
			system.CreateAccount(
				buyer.Key,
				buyerInfo.Key,
				programID,
				system.MinimumBalanceForRentExemption(decense.BuyerStateAccountSize),
				decense.BuyerStateAccountSize,
			),
			accounts,
			decense.BuyerStateSignerSeeds(seller.Key, buyer.Key, buyerBump),
		)
		if err != nil {
			return err
		}
	}

	if buyerAta.IsEmpty() {
		create, _, err := token.CreateAssociatedTokenAccount(buyer.Key, buyer.Key, mint.Key)
		if err != nil {
			return errors.Wrap(solana.ErrInvalidSeeds, err.Error())
		}
		if err := invoker.Invoke(ctx, create, accounts); err != nil {
			return err
		}
	}

	if err := invoker.Invoke(ctx, system.Transfer(buyer.Key, seller.Key, args.AskedPrice), accounts); err != nil {
		return err
	}

	err = invoker.InvokeSigned(
		ctx,
		token.Transfer2(vaultAta.Key, mint.Key, buyerAta.Key, custody.Key, args.Quantity, decense.TokenDecimals),
		accounts,
		decense.CustodySignerSeeds(seller.Key, custodyBump),
	)
	if err != nil {
		return err
	}

	oldPrice := sellerState.CurrentPrice
	sellerState.CurrentPrice = newPrice
	sellerState.HolderCount = holderCount
	copy(sellerInfo.Data, sellerState.Marshal())

	buyerState.IsInitialized = true
	buyerState.Owner = buyer.Key
	buyerState.CurrentHoldingInTokens = holding
	copy(buyerInfo.Data, buyerState.Marshal())

	log.WithFields(logrus.Fields{
		"old_price":    oldPrice,
		"new_price":    newPrice,
		"holder_count": holderCount,
	}).Debug("exchange completed")
	recordExchangeEvent(ctx, seller.Key, buyer.Key, args.AskedPrice, args.Quantity, oldPrice, newPrice)

	return nil
}
