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
	"github.com/code-payments/decense/pkg/solana/token"
)

// sendReceiveToken moves tokens between a trader and the custody vault
// without touching the price. Deposits are authorized by the trader and
// withdrawals by the custody address.
//
// Withdrawals are not gated on anything but the vault balance.
func (p *Processor) sendReceiveToken(ctx context.Context, invoker solana.Invoker, programID ed25519.PublicKey, accounts []*solana.AccountInfo, args *decense.SendReceiveTokenInstructionArgs) error {
	if !args.Action.IsValid() {
		return errors.Wrapf(decense.ErrorInvalidInstruction, "token action %d", uint64(args.Action))
	}

	var seller, sellerInfo, mint, trader, traderAta, custody, vaultAta, tokenProgram *solana.AccountInfo
	err := nextAccounts(accounts, &seller, &sellerInfo, &mint, &trader, &traderAta, &custody, &vaultAta, &tokenProgram)
	if err != nil {
		return err
	}

	log := p.log.WithFields(logrus.Fields{
		"method": "SendReceiveToken",
		"seller": base58.Encode(seller.Key),
		"trader": base58.Encode(trader.Key),
		"action": args.Action.String(),
		"amount": args.Amount,
	})

	if err := requireSigner(trader); err != nil {
		return err
	}
	if err := requireProgram(tokenProgram, decense.SPL_TOKEN_PROGRAM_ID); err != nil {
		return err
	}

	custodyBump, err := decense.VerifyCustodyAddress(programID, custody.Key, seller.Key)
	if err != nil {
		return err
	}

	sellerState, err := loadSellerState(programID, sellerInfo, seller, mint, vaultAta)
	if err != nil {
		return err
	}

	traderAtaAddress, err := token.GetAssociatedAccount(trader.Key, mint.Key)
	if err != nil {
		return errors.Wrap(solana.ErrInvalidSeeds, err.Error())
	}
	if err := requireAddress(traderAta, traderAtaAddress, "trader token account"); err != nil {
		return err
	}

	if args.Action == decense.TokenActionWithdraw && traderAta.IsEmpty() {
		return errors.Wrap(solana.ErrUninitializedAccount, "trader token account does not exist")
	}

	traderBalance, err := tokenBalance(traderAta)
	if err != nil {
		return err
	}

	// The seller's own balance never counts towards holders.
	isSeller := trader.HasKey(sellerState.Owner)

	holderCount := sellerState.HolderCount

	switch args.Action {
	case decense.TokenActionDeposit:
		if args.Amount > traderBalance {
			log.WithField("trader_balance", traderBalance).Debug("insufficient trader balance")
			return decense.ErrorInsufficientTokenBalance
		}

		if !isSeller && traderBalance > 0 && traderBalance == args.Amount {
			holderCount, err = safe.Sub(holderCount, 1)
			if err != nil {
				return toMathError(err, "holder count")
			}
		}

		err = invoker.Invoke(
			ctx,
			token.Transfer2(traderAta.Key, mint.Key, vaultAta.Key, trader.Key, args.Amount, decense.TokenDecimals),
			accounts,
		)
		if err != nil {
			return err
		}

	case decense.TokenActionWithdraw:
		vaultBalance, err := token.GetBalance(vaultAta)
		if err != nil {
			return err
		}
		if args.Amount > vaultBalance {
			log.WithField("vault_balance", vaultBalance).Debug("insufficient vault balance")
			return decense.ErrorInsufficientTokenBalance
		}

		if !isSeller && traderBalance == 0 && args.Amount > 0 {
			holderCount, err = safe.Add(holderCount, 1)
			if err != nil {
				return toMathError(err, "holder count")
			}
		}

		err = invoker.InvokeSigned(
			ctx,
			token.Transfer2(vaultAta.Key, mint.Key, traderAta.Key, custody.Key, args.Amount, decense.TokenDecimals),
			accounts,
			decense.CustodySignerSeeds(seller.Key, custodyBump),
		)
		if err != nil {
			return err
		}
	}

	if holderCount != sellerState.HolderCount {
		sellerState.HolderCount = holderCount
		copy(sellerInfo.Data, sellerState.Marshal())
	}

	log.WithField("holder_count", holderCount).Debug("token movement completed")
	recordTokenMovementEvent(ctx, seller.Key, trader.Key, args.Action.String(), args.Amount)

	return nil
}
