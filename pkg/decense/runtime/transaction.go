package runtime

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/decense/pkg/decense/data/account"
	"github.com/code-payments/decense/pkg/metrics"
	"github.com/code-payments/decense/pkg/retry"
	"github.com/code-payments/decense/pkg/solana"
)

// transactionContext holds the working state of every account referenced by
// a transaction while it executes.
type transactionContext struct {
	keys     []ed25519.PublicKey
	states   map[string]*solana.AccountState
	loaded   map[string]*solana.AccountState
	records  map[string]*account.Record
	writable map[string]bool

	// stack of programs currently executing, outermost first
	stack []ed25519.PublicKey
}

func newTransactionContext() *transactionContext {
	return &transactionContext{
		states:   make(map[string]*solana.AccountState),
		loaded:   make(map[string]*solana.AccountState),
		records:  make(map[string]*account.Record),
		writable: make(map[string]bool),
	}
}

func (tc *transactionContext) add(key ed25519.PublicKey, state *solana.AccountState, record *account.Record, writable bool) {
	tc.keys = append(tc.keys, key)
	tc.states[string(key)] = state
	tc.loaded[string(key)] = state.Clone()
	tc.records[string(key)] = record
	tc.writable[string(key)] = writable
}

func (tc *transactionContext) totalLamports() uint64 {
	var total uint64
	for _, state := range tc.states {
		total += state.Lamports
	}
	return total
}

// changedRecords returns a record for every writable account whose state
// differs from what was loaded.
func (tc *transactionContext) changedRecords() []*account.Record {
	var res []*account.Record
	for _, key := range tc.keys {
		if !tc.writable[string(key)] {
			continue
		}

		state := tc.states[string(key)]
		if state.Equal(tc.loaded[string(key)]) {
			continue
		}

		updated := account.NewRecord(key, state)
		if existing := tc.records[string(key)]; existing != nil {
			updated.Id = existing.Id
			updated.Version = existing.Version
		}
		res = append(res, updated)
	}
	return res
}

// SubmitTransaction executes the transaction and commits its effects.
//
// Transaction level failures are returned as solana.TransactionErrorKey values
// and instruction failures as solana.InstructionError. Nothing is committed
// when an error is returned.
func (r *Runtime) SubmitTransaction(ctx context.Context, txn solana.Transaction) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "SubmitTransaction")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	instructions, err := r.sanitize(txn)
	if err != nil {
		return err
	}

	feePayer := txn.Message.Accounts[0]
	dedupeKey := transactionDedupeKey(txn)

	log := r.log.WithFields(logrus.Fields{
		"method":    "SubmitTransaction",
		"fee_payer": base58.Encode(feePayer),
		"signature": base58.Encode(dedupeKey),
	})

	if r.conf.verifySignatures.Get(ctx) {
		if err := txn.VerifySignatures(); err != nil {
			log.WithError(err).Debug("signature verification failed")
			return errors.Wrap(solana.TransactionErrorSignatureFailure, err.Error())
		}
	}

	allowed, err := r.limiter.Allow(base58.Encode(feePayer))
	if err != nil {
		return errors.Wrap(err, "error checking rate limit")
	} else if !allowed {
		return ErrRateLimited
	}

	var writeKeys, readKeys [][]byte
	for i, key := range txn.Message.Accounts {
		if txn.Message.IsWritable(i) {
			writeKeys = append(writeKeys, key)
		} else {
			readKeys = append(readKeys, key)
		}
	}

	// The fee payer is always write locked, so checking and recording the
	// signature under the account locks cannot race with a duplicate.
	unlock := r.locks.LockAll(writeKeys, readKeys)
	defer unlock()

	if r.processed.contains(dedupeKey) {
		return solana.TransactionErrorAlreadyProcessed
	}

	attempts, err := retry.Retry(
		func() error {
			return r.execute(ctx, txn, instructions)
		},
		retry.Context(ctx),
		retry.RetriableErrors(account.ErrStaleVersion),
		retry.Limit(uint(r.conf.maxCommitAttempts.Get(ctx))),
	)
	tracer.AddAttribute("attempts", attempts)
	if err != nil {
		log.WithError(err).Debug("transaction failed")
		return err
	}

	r.processed.add(dedupeKey)

	log.WithField("instructions", len(instructions)).Debug("transaction committed")
	return nil
}

// sanitize checks the structure of the transaction and expands its
// instructions.
func (r *Runtime) sanitize(txn solana.Transaction) ([]solana.Instruction, error) {
	header := txn.Message.Header
	numAccounts := len(txn.Message.Accounts)

	switch {
	case header.NumSignatures == 0,
		int(header.NumSignatures) > numAccounts,
		header.NumReadonlySigned >= header.NumSignatures,
		int(header.NumSignatures)+int(header.NumReadOnly) > numAccounts,
		len(txn.Signatures) != int(header.NumSignatures):
		return nil, solana.TransactionErrorSanitizeFailure
	}

	seen := make(map[string]struct{}, numAccounts)
	for _, key := range txn.Message.Accounts {
		if len(key) != ed25519.PublicKeySize {
			return nil, solana.TransactionErrorSanitizeFailure
		}
		if _, ok := seen[string(key)]; ok {
			return nil, solana.TransactionErrorAccountLoadedTwice
		}
		seen[string(key)] = struct{}{}
	}

	instructions, err := txn.Message.DecompileInstructions()
	if err != nil {
		return nil, errors.Wrap(solana.TransactionErrorInvalidAccountIndex, err.Error())
	}

	for _, ix := range instructions {
		if bytes.Equal(ix.Program, txn.Message.Accounts[0]) {
			return nil, solana.TransactionErrorSanitizeFailure
		}
		if _, ok := r.getProgram(ix.Program); !ok {
			return nil, errors.Wrapf(solana.TransactionErrorInvalidProgramForExecution, "program %s", base58.Encode(ix.Program))
		}
	}

	return instructions, nil
}

// execute runs every instruction against freshly loaded accounts and commits
// the changed writable accounts in a single batch.
func (r *Runtime) execute(ctx context.Context, txn solana.Transaction, instructions []solana.Instruction) error {
	tc := newTransactionContext()
	for i, key := range txn.Message.Accounts {
		state, record, err := r.loadAccount(ctx, key)
		if err != nil {
			return err
		}
		tc.add(key, state, record, txn.Message.IsWritable(i))
	}

	before := tc.totalLamports()

	for i, ix := range instructions {
		accounts := make([]*solana.AccountInfo, len(ix.Accounts))
		for j, meta := range ix.Accounts {
			accounts[j] = solana.NewAccountInfo(meta.PublicKey, meta.IsSigner, meta.IsWritable, tc.states[string(meta.PublicKey)])
		}

		if err := r.invoke(ctx, tc, ix.Program, accounts, ix.Data); err != nil {
			return solana.InstructionError{Index: i, Err: err}
		}
	}

	if tc.totalLamports() != before {
		return solana.TransactionErrorUnbalancedTransaction
	}

	records := tc.changedRecords()
	if len(records) == 0 {
		return nil
	}
	return r.store.Save(ctx, records...)
}

// transactionDedupeKey identifies the transaction for replay protection. The
// message hash stands in for unsigned transactions.
func transactionDedupeKey(txn solana.Transaction) []byte {
	var empty solana.Signature
	if txn.Signatures[0] != empty {
		return append([]byte(nil), txn.Signatures[0][:]...)
	}

	hash := sha256.Sum256(txn.Message.Marshal())
	return hash[:]
}
