package ledger

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/code-payments/decense/pkg/decense/data"
	"github.com/code-payments/decense/pkg/decense/data/account"
	"github.com/code-payments/decense/pkg/decense/runtime"
)

// GenesisAccount is an account funded before any transaction is processed.
type GenesisAccount struct {
	Address  string `mapstructure:"address"`
	Lamports uint64 `mapstructure:"lamports"`
}

type genesis struct {
	Accounts []GenesisAccount `mapstructure:"accounts"`
}

// parseGenesis reads genesis balances from a YAML document of the form:
//
//	accounts:
//	  - address: <base58>
//	    lamports: 1000000000
func parseGenesis(raw []byte) ([]GenesisAccount, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return nil, errors.Wrap(err, "invalid genesis file")
	}

	var g genesis
	if err := v.Unmarshal(&g); err != nil {
		return nil, errors.Wrap(err, "invalid genesis file")
	}

	for i, genesisAccount := range g.Accounts {
		address, err := base58.Decode(genesisAccount.Address)
		if err != nil || len(address) != ed25519.PublicKeySize {
			return nil, errors.Errorf("invalid genesis address at %d", i)
		}
		if genesisAccount.Lamports == 0 {
			return nil, errors.Errorf("genesis account %s has no lamports", genesisAccount.Address)
		}
	}
	return g.Accounts, nil
}

// applyGenesis funds genesis accounts that were never committed. Accounts that
// already exist keep their balance, so restarting over a persistent store does
// not fund them twice.
func applyGenesis(ctx context.Context, provider data.Provider, r *runtime.Runtime, accounts []GenesisAccount) (funded int, err error) {
	for _, genesisAccount := range accounts {
		address, err := base58.Decode(genesisAccount.Address)
		if err != nil {
			return funded, err
		}

		_, err = provider.GetAccountInfo(ctx, address)
		if err == nil {
			continue
		} else if err != account.ErrAccountNotFound {
			return funded, err
		}

		if err := r.Airdrop(ctx, address, genesisAccount.Lamports); err != nil {
			return funded, errors.Wrapf(err, "error funding genesis account %s", genesisAccount.Address)
		}
		funded++
	}
	return funded, nil
}
