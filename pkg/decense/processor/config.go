package processor

import (
	"github.com/code-payments/decense/pkg/config"
	"github.com/code-payments/decense/pkg/config/env"
	"github.com/code-payments/decense/pkg/config/memory"
	"github.com/code-payments/decense/pkg/config/wrapper"
	"github.com/code-payments/decense/pkg/solana/decense"
)

const (
	envConfigPrefix = "DECENSE_PROCESSOR_"

	InitializationFeeLamportsConfigEnvName = envConfigPrefix + "INITIALIZATION_FEE_LAMPORTS"
	defaultInitializationFeeLamports       = decense.DefaultInitializationFeeLamports

	AccumulateBuyerHoldingsConfigEnvName = envConfigPrefix + "ACCUMULATE_BUYER_HOLDINGS"
	defaultAccumulateBuyerHoldings       = false
)

type conf struct {
	initializationFeeLamports config.Uint64
	accumulateBuyerHoldings   config.Bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			initializationFeeLamports: env.NewUint64Config(InitializationFeeLamportsConfigEnvName, defaultInitializationFeeLamports),
			accumulateBuyerHoldings:   env.NewBoolConfig(AccumulateBuyerHoldingsConfigEnvName, defaultAccumulateBuyerHoldings),
		}
	}
}

type testOverrides struct {
	initializationFeeLamports uint64
	accumulateBuyerHoldings   bool
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			initializationFeeLamports: wrapper.NewUint64Config(memory.NewConfig(overrides.initializationFeeLamports), defaultInitializationFeeLamports),
			accumulateBuyerHoldings:   wrapper.NewBoolConfig(memory.NewConfig(overrides.accumulateBuyerHoldings), defaultAccumulateBuyerHoldings),
		}
	}
}
