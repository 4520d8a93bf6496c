package runtime

import (
	"github.com/code-payments/decense/pkg/config"
	"github.com/code-payments/decense/pkg/config/env"
	"github.com/code-payments/decense/pkg/config/memory"
	"github.com/code-payments/decense/pkg/config/wrapper"
)

const (
	envConfigPrefix = "DECENSE_RUNTIME_"

	LockStripesConfigEnvName = envConfigPrefix + "LOCK_STRIPES"
	defaultLockStripes       = 1024

	VerifySignaturesConfigEnvName = envConfigPrefix + "VERIFY_SIGNATURES"
	defaultVerifySignatures       = true

	MaxCallDepthConfigEnvName = envConfigPrefix + "MAX_CALL_DEPTH"
	defaultMaxCallDepth       = 4

	ProcessedSignatureCacheSizeConfigEnvName = envConfigPrefix + "PROCESSED_SIGNATURE_CACHE_SIZE"
	defaultProcessedSignatureCacheSize       = 1_000_000

	MaxTransactionsPerSecondConfigEnvName = envConfigPrefix + "MAX_TRANSACTIONS_PER_SECOND"
	defaultMaxTransactionsPerSecond       = 0 // unlimited

	MaxCommitAttemptsConfigEnvName = envConfigPrefix + "MAX_COMMIT_ATTEMPTS"
	defaultMaxCommitAttempts       = 5
)

type conf struct {
	lockStripes                 config.Uint64
	verifySignatures            config.Bool
	maxCallDepth                config.Uint64
	processedSignatureCacheSize config.Uint64
	maxTransactionsPerSecond    config.Uint64
	maxCommitAttempts           config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			lockStripes:                 env.NewUint64Config(LockStripesConfigEnvName, defaultLockStripes),
			verifySignatures:            env.NewBoolConfig(VerifySignaturesConfigEnvName, defaultVerifySignatures),
			maxCallDepth:                env.NewUint64Config(MaxCallDepthConfigEnvName, defaultMaxCallDepth),
			processedSignatureCacheSize: env.NewUint64Config(ProcessedSignatureCacheSizeConfigEnvName, defaultProcessedSignatureCacheSize),
			maxTransactionsPerSecond:    env.NewUint64Config(MaxTransactionsPerSecondConfigEnvName, defaultMaxTransactionsPerSecond),
			maxCommitAttempts:           env.NewUint64Config(MaxCommitAttemptsConfigEnvName, defaultMaxCommitAttempts),
		}
	}
}

// WithDefaults returns the default configuration, with signature verification
// optionally disabled. Useful for scripts and tests.
func WithDefaults(verifySignatures bool) ConfigProvider {
	return withOverrides(&overrides{
		lockStripes:                 defaultLockStripes,
		verifySignatures:            verifySignatures,
		maxCallDepth:                defaultMaxCallDepth,
		processedSignatureCacheSize: defaultProcessedSignatureCacheSize,
		maxTransactionsPerSecond:    defaultMaxTransactionsPerSecond,
		maxCommitAttempts:           defaultMaxCommitAttempts,
	})
}

type overrides struct {
	lockStripes                 uint64
	verifySignatures            bool
	maxCallDepth                uint64
	processedSignatureCacheSize uint64
	maxTransactionsPerSecond    uint64
	maxCommitAttempts           uint64
}

func withOverrides(o *overrides) ConfigProvider {
	return func() *conf {
		return &conf{
			lockStripes:                 wrapper.NewUint64Config(memory.NewConfig(o.lockStripes), defaultLockStripes),
			verifySignatures:            wrapper.NewBoolConfig(memory.NewConfig(o.verifySignatures), defaultVerifySignatures),
			maxCallDepth:                wrapper.NewUint64Config(memory.NewConfig(o.maxCallDepth), defaultMaxCallDepth),
			processedSignatureCacheSize: wrapper.NewUint64Config(memory.NewConfig(o.processedSignatureCacheSize), defaultProcessedSignatureCacheSize),
			maxTransactionsPerSecond:    wrapper.NewUint64Config(memory.NewConfig(o.maxTransactionsPerSecond), defaultMaxTransactionsPerSecond),
			maxCommitAttempts:           wrapper.NewUint64Config(memory.NewConfig(o.maxCommitAttempts), defaultMaxCommitAttempts),
		}
	}
}
