package data

import (
	"github.com/code-payments/decense/pkg/config"
	"github.com/code-payments/decense/pkg/config/env"
	"github.com/code-payments/decense/pkg/config/memory"
	"github.com/code-payments/decense/pkg/config/wrapper"
)

const (
	envConfigPrefix = "DECENSE_DATA_"

	// StoreTypeConfigEnvName selects the account store backend: memory,
	// postgres or badger.
	StoreTypeConfigEnvName = envConfigPrefix + "STORE_TYPE"
	defaultStoreType       = StoreTypeMemory

	BadgerPathConfigEnvName = envConfigPrefix + "BADGER_PATH"
	defaultBadgerPath       = "decense-ledger"

	BadgerGCScheduleConfigEnvName = envConfigPrefix + "BADGER_GC_SCHEDULE"
	defaultBadgerGCSchedule       = "@every 10m"

	MaxOwnerPageSizeConfigEnvName = envConfigPrefix + "MAX_OWNER_PAGE_SIZE"
	defaultMaxOwnerPageSize       = 1024
)

const (
	StoreTypeMemory   = "memory"
	StoreTypePostgres = "postgres"
	StoreTypeBadger   = "badger"
)

type conf struct {
	storeType        config.String
	badgerPath       config.String
	badgerGCSchedule config.String
	maxOwnerPageSize config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			storeType:        env.NewStringConfig(StoreTypeConfigEnvName, defaultStoreType),
			badgerPath:       env.NewStringConfig(BadgerPathConfigEnvName, defaultBadgerPath),
			badgerGCSchedule: env.NewStringConfig(BadgerGCScheduleConfigEnvName, defaultBadgerGCSchedule),
			maxOwnerPageSize: env.NewUint64Config(MaxOwnerPageSizeConfigEnvName, defaultMaxOwnerPageSize),
		}
	}
}

type testOverrides struct {
	storeType  string
	badgerPath string
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			storeType:        wrapper.NewStringConfig(memory.NewConfig(overrides.storeType), defaultStoreType),
			badgerPath:       wrapper.NewStringConfig(memory.NewConfig(overrides.badgerPath), defaultBadgerPath),
			badgerGCSchedule: wrapper.NewStringConfig(memory.NewConfig(defaultBadgerGCSchedule), defaultBadgerGCSchedule),
			maxOwnerPageSize: wrapper.NewUint64Config(memory.NewConfig(uint64(defaultMaxOwnerPageSize)), defaultMaxOwnerPageSize),
		}
	}
}
