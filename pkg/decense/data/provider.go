package data

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	pg "github.com/code-payments/decense/pkg/database/postgres"
	"github.com/code-payments/decense/pkg/database/query"
	"github.com/code-payments/decense/pkg/decense/data/account"
	"github.com/code-payments/decense/pkg/metrics"

	account_badger_client "github.com/code-payments/decense/pkg/decense/data/account/badger"
	account_memory_client "github.com/code-payments/decense/pkg/decense/data/account/memory"
	account_postgres_client "github.com/code-payments/decense/pkg/decense/data/account/postgres"
)

const (
	databaseProviderMetricsName = "data.database_provider"
)

var (
	ErrUnknownStoreType = errors.New("unknown account store type")
)

// Provider is the ledger's view of persisted accounts. It satisfies
// account.Store, so it can back a runtime directly.
type Provider interface {
	account.Store

	GetAccountInfo(ctx context.Context, address ed25519.PublicKey) (*account.Record, error)
	GetAccountInfosByOwner(ctx context.Context, owner ed25519.PublicKey, opts ...query.Option) ([]*account.Record, error)

	// Close releases the underlying store.
	Close() error
}

type DatabaseProvider struct {
	log  *logrus.Entry
	conf *conf

	accounts account.Store
	close    func() error
}

// NewDataProvider opens the account store selected by configuration. The
// Postgres config is only required for the postgres store type.
func NewDataProvider(ctx context.Context, dbConfig *pg.Config, configProvider ConfigProvider) (Provider, error) {
	conf := configProvider()

	log := logrus.StandardLogger().WithField("type", "decense/data")

	storeType := conf.storeType.Get(ctx)
	switch storeType {
	case StoreTypeMemory, "":
		return newDatabaseProvider(log, conf, account_memory_client.New(), nil), nil

	case StoreTypePostgres:
		if dbConfig == nil {
			return nil, errors.New("postgres config is required")
		}

		db, err := pg.Open(ctx, dbConfig)
		if err != nil {
			return nil, err
		}
		return newDatabaseProvider(log, conf, account_postgres_client.New(db), db.Close), nil

	case StoreTypeBadger:
		var opts []account_badger_client.Option
		if schedule := conf.badgerGCSchedule.Get(ctx); len(schedule) > 0 {
			opts = append(opts, account_badger_client.WithValueLogGC(schedule))
		}

		store, closeFn, err := account_badger_client.New(conf.badgerPath.Get(ctx), opts...)
		if err != nil {
			return nil, err
		}
		return newDatabaseProvider(log, conf, store, closeFn), nil

	default:
		return nil, errors.Wrapf(ErrUnknownStoreType, "store type %q", storeType)
	}
}

// NewTestDataProvider returns a provider over an in-memory store.
func NewTestDataProvider() Provider {
	return newDatabaseProvider(
		logrus.StandardLogger().WithField("type", "decense/data"),
		withManualTestOverrides(&testOverrides{storeType: StoreTypeMemory})(),
		account_memory_client.New(),
		nil,
	)
}

func newDatabaseProvider(log *logrus.Entry, conf *conf, accounts account.Store, closeFn func() error) *DatabaseProvider {
	log.WithField("store", conf.storeType.Get(context.Background())).Info("opened account store")

	return &DatabaseProvider{
		log:      log,
		conf:     conf,
		accounts: accounts,
		close:    closeFn,
	}
}

// Account Info
// --------------------------------------------------------------------------------

// Get implements account.Store.Get
func (dp *DatabaseProvider) Get(ctx context.Context, address string) (*account.Record, error) {
	tracer := metrics.TraceMethodCall(ctx, databaseProviderMetricsName, "Get")
	defer tracer.End()

	record, err := dp.accounts.Get(ctx, address)
	tracer.OnError(err, account.ErrAccountNotFound)
	return record, err
}

// Save implements account.Store.Save
func (dp *DatabaseProvider) Save(ctx context.Context, records ...*account.Record) error {
	tracer := metrics.TraceMethodCall(ctx, databaseProviderMetricsName, "Save")
	defer tracer.End()

	tracer.AddAttribute("batch_size", len(records))

	err := dp.accounts.Save(ctx, records...)
	tracer.OnError(err, account.ErrStaleVersion)
	return err
}

// GetAllByOwner implements account.Store.GetAllByOwner
func (dp *DatabaseProvider) GetAllByOwner(ctx context.Context, owner string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*account.Record, error) {
	tracer := metrics.TraceMethodCall(ctx, databaseProviderMetricsName, "GetAllByOwner")
	defer tracer.End()

	tracer.AddAttributes(map[string]interface{}{
		"limit":     limit,
		"direction": direction.String(),
	})

	records, err := dp.accounts.GetAllByOwner(ctx, owner, cursor, limit, direction)
	tracer.OnError(err, account.ErrAccountNotFound)
	return records, err
}

func (dp *DatabaseProvider) GetAccountInfo(ctx context.Context, address ed25519.PublicKey) (*account.Record, error) {
	return dp.Get(ctx, base58.Encode(address))
}

func (dp *DatabaseProvider) GetAccountInfosByOwner(ctx context.Context, owner ed25519.PublicKey, opts ...query.Option) ([]*account.Record, error) {
	req, err := query.DefaultPaginationHandlerWithLimit(dp.conf.maxOwnerPageSize.Get(ctx), opts...)
	if err != nil {
		return nil, err
	}

	return dp.GetAllByOwner(ctx, base58.Encode(owner), req.Cursor, req.Limit, req.SortBy)
}

// Close implements Provider.Close
func (dp *DatabaseProvider) Close() error {
	if dp.close == nil {
		return nil
	}
	return dp.close()
}
