package runtime

import (
	"context"
	"crypto/ed25519"
	"sync"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	xrate "golang.org/x/time/rate"

	"github.com/code-payments/decense/pkg/decense/data/account"
	"github.com/code-payments/decense/pkg/metrics"
	"github.com/code-payments/decense/pkg/rate"
	"github.com/code-payments/decense/pkg/retry"
	"github.com/code-payments/decense/pkg/solana"
	"github.com/code-payments/decense/pkg/solana/system"
	"github.com/code-payments/decense/pkg/solana/token"
	decensesync "github.com/code-payments/decense/pkg/sync"
)

const (
	metricsStructName = "decense.runtime"

	maxRateLimitedFeePayers = 100_000
)

var (
	ErrRateLimited           = errors.New("fee payer is rate limited")
	ErrProgramAlreadyExists  = errors.New("program is already registered")
	ErrInvalidAirdropRequest = errors.New("invalid airdrop request")
)

// NativeLoaderKey owns the accounts of programs built into the runtime.
var NativeLoaderKey = mustBase58Decode("NativeLoader1111111111111111111111111111111")

// Runtime is an in-process ledger that executes signed transactions against
// accounts held in an account.Store.
//
// A transaction either commits every account it changed in a single store
// batch, or nothing at all. Transactions touching disjoint accounts execute
// concurrently.
type Runtime struct {
	log  *logrus.Entry
	conf *conf

	store     account.Store
	locks     *decensesync.StripedLock
	processed *processedSignatures
	limiter   rate.Limiter

	programsMu sync.RWMutex
	programs   map[string]solana.Program
}

// New returns a runtime over the store with the system, token and associated
// token account programs registered.
func New(store account.Store, configProvider ConfigProvider) *Runtime {
	conf := configProvider()
	ctx := context.Background()

	var limiter rate.Limiter = &rate.NoLimiter{}
	if maxTps := conf.maxTransactionsPerSecond.Get(ctx); maxTps > 0 {
		limiter = rate.NewLocalRateLimiter(xrate.Limit(maxTps), maxRateLimitedFeePayers)
	}

	r := &Runtime{
		log:       logrus.StandardLogger().WithField("type", "decense/runtime"),
		conf:      conf,
		store:     store,
		locks:     decensesync.NewStripedLock(uint(conf.lockStripes.Get(ctx))),
		processed: newProcessedSignatures(int(conf.processedSignatureCacheSize.Get(ctx))),
		limiter:   limiter,
		programs:  make(map[string]solana.Program),
	}

	r.mustRegister(system.ProgramKey[:], system.NewProcessor())
	r.mustRegister(token.ProgramKey, token.NewProcessor())
	r.mustRegister(token.AssociatedTokenAccountProgramKey, token.NewAssociatedProcessor())

	return r
}

// RegisterProgram makes the program executable at the provided program id.
func (r *Runtime) RegisterProgram(programID ed25519.PublicKey, program solana.Program) error {
	if len(programID) != ed25519.PublicKeySize {
		return errors.Errorf("invalid program id length %d", len(programID))
	}

	r.programsMu.Lock()
	defer r.programsMu.Unlock()

	if _, ok := r.programs[string(programID)]; ok {
		return ErrProgramAlreadyExists
	}
	r.programs[string(programID)] = program

	r.log.WithField("program", base58.Encode(programID)).Debug("registered program")
	return nil
}

func (r *Runtime) mustRegister(programID ed25519.PublicKey, program solana.Program) {
	if err := r.RegisterProgram(programID, program); err != nil {
		panic(err)
	}
}

func (r *Runtime) getProgram(programID ed25519.PublicKey) (solana.Program, bool) {
	r.programsMu.RLock()
	defer r.programsMu.RUnlock()

	program, ok := r.programs[string(programID)]
	return program, ok
}

// GetAccount returns the committed state of the account at key. Accounts that
// were never committed are returned empty and owned by the system program.
func (r *Runtime) GetAccount(ctx context.Context, key ed25519.PublicKey) (*solana.AccountState, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetAccount")
	defer tracer.End()

	state, _, err := r.loadAccount(ctx, key)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return state, nil
}

// Airdrop credits lamports to the account at key out of thin air. It is the
// only way lamports enter the ledger, and is meant for genesis funding of
// development and test ledgers.
func (r *Runtime) Airdrop(ctx context.Context, key ed25519.PublicKey, lamports uint64) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Airdrop")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if len(key) != ed25519.PublicKeySize || lamports == 0 {
		return ErrInvalidAirdropRequest
	}

	unlock := r.locks.LockAll([][]byte{key}, nil)
	defer unlock()

	_, err = retry.Retry(
		func() error {
			state, record, err := r.loadAccount(ctx, key)
			if err != nil {
				return err
			}
			if state.Executable {
				return ErrInvalidAirdropRequest
			}

			state.Lamports += lamports
			if state.Lamports < lamports {
				return errors.Wrap(ErrInvalidAirdropRequest, "lamport overflow")
			}

			updated := account.NewRecord(key, state)
			if record != nil {
				updated.Id = record.Id
				updated.Version = record.Version
			}
			return r.store.Save(ctx, updated)
		},
		retry.RetriableErrors(account.ErrStaleVersion),
		retry.Limit(uint(r.conf.maxCommitAttempts.Get(ctx))),
	)
	if err != nil {
		return err
	}

	r.log.WithFields(logrus.Fields{
		"method":   "Airdrop",
		"account":  base58.Encode(key),
		"lamports": lamports,
	}).Debug("airdropped lamports")
	return nil
}

// loadAccount reads the committed state of the account. The returned record is
// nil for accounts that were never committed.
func (r *Runtime) loadAccount(ctx context.Context, key ed25519.PublicKey) (*solana.AccountState, *account.Record, error) {
	record, err := r.store.Get(ctx, base58.Encode(key))
	switch err {
	case nil:
		state, err := record.ToAccountState()
		if err != nil {
			return nil, nil, err
		}
		return state, record, nil
	case account.ErrAccountNotFound:
		if _, ok := r.getProgram(key); ok {
			return &solana.AccountState{
				Owner:      append(ed25519.PublicKey(nil), NativeLoaderKey...),
				Lamports:   1,
				Executable: true,
			}, nil, nil
		}
		return &solana.AccountState{
			Owner: append(ed25519.PublicKey(nil), solana.SystemProgramKey...),
		}, nil, nil
	default:
		return nil, nil, err
	}
}

func mustBase58Decode(value string) ed25519.PublicKey {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
