package runtime

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/decense/pkg/solana"
)

// invoke executes a program against the provided views of transaction
// accounts, then verifies the program only made changes it was entitled to.
func (r *Runtime) invoke(ctx context.Context, tc *transactionContext, programID ed25519.PublicKey, accounts []*solana.AccountInfo, data []byte) error {
	if uint64(len(tc.stack)) > r.conf.maxCallDepth.Get(ctx) {
		return solana.ErrCallDepth
	}

	// Programs may invoke themselves directly, but not through another program.
	if len(tc.stack) > 0 && !bytes.Equal(tc.stack[len(tc.stack)-1], programID) {
		for _, caller := range tc.stack {
			if bytes.Equal(caller, programID) {
				return solana.ErrReentrancyNotAllowed
			}
		}
	}

	program, ok := r.getProgram(programID)
	if !ok {
		return errors.Wrapf(solana.ErrUnsupportedProgramID, "program %s", base58.Encode(programID))
	}

	f := newFrame(r, tc, programID, accounts)

	tc.stack = append(tc.stack, programID)
	defer func() {
		tc.stack = tc.stack[:len(tc.stack)-1]
	}()

	if err := program.ProcessInstruction(ctx, f, programID, accounts, data); err != nil {
		return err
	}
	return f.verify()
}

// frame is a single program invocation. It is handed to the program as its
// solana.Invoker.
type frame struct {
	runtime   *Runtime
	tc        *transactionContext
	programID ed25519.PublicKey

	keys     []string
	pre      map[string]*solana.AccountState
	signer   map[string]bool
	writable map[string]bool
}

func newFrame(r *Runtime, tc *transactionContext, programID ed25519.PublicKey, accounts []*solana.AccountInfo) *frame {
	f := &frame{
		runtime:   r,
		tc:        tc,
		programID: programID,
		pre:       make(map[string]*solana.AccountState),
		signer:    make(map[string]bool),
		writable:  make(map[string]bool),
	}

	for _, info := range accounts {
		key := string(info.Key)
		if _, ok := f.pre[key]; !ok {
			f.keys = append(f.keys, key)
			f.pre[key] = tc.states[key].Clone()
		}
		f.signer[key] = f.signer[key] || info.IsSigner
		f.writable[key] = f.writable[key] || info.IsWritable
	}

	return f
}

// verify checks every change made since the frame started, or since its last
// cross-program invocation returned.
func (f *frame) verify() error {
	var before, after uint64
	for _, key := range f.keys {
		pre := f.pre[key]
		post := f.tc.states[key]
		writable := f.writable[key]
		owned := bytes.Equal(pre.Owner, f.programID)

		if !bytes.Equal(pre.Owner, post.Owner) && (!writable || !owned || pre.Executable) {
			return errors.Wrapf(solana.ErrModifiedProgramID, "account %s", base58.Encode([]byte(key)))
		}
		if pre.Executable != post.Executable {
			return errors.Wrapf(solana.ErrModifiedProgramID, "executable flag of account %s", base58.Encode([]byte(key)))
		}

		if post.Lamports != pre.Lamports {
			if !writable {
				return errors.Wrapf(solana.ErrReadonlyLamportChange, "account %s", base58.Encode([]byte(key)))
			}
			if post.Lamports < pre.Lamports && !owned {
				return errors.Wrapf(solana.ErrExternalLamportSpend, "account %s", base58.Encode([]byte(key)))
			}
		}

		if !bytes.Equal(pre.Data, post.Data) {
			if !writable {
				return errors.Wrapf(solana.ErrReadonlyDataModified, "account %s", base58.Encode([]byte(key)))
			}
			if !owned {
				return errors.Wrapf(solana.ErrExternalDataModified, "account %s", base58.Encode([]byte(key)))
			}
		}

		before += pre.Lamports
		after += post.Lamports
	}

	if before != after {
		return solana.ErrUnbalancedInstruction
	}
	return nil
}

func (f *frame) refresh() {
	for _, key := range f.keys {
		f.pre[key] = f.tc.states[key].Clone()
	}
}

// Invoke implements solana.Invoker.Invoke
func (f *frame) Invoke(ctx context.Context, ix solana.Instruction, accounts []*solana.AccountInfo) error {
	return f.InvokeSigned(ctx, ix, accounts)
}

// InvokeSigned implements solana.Invoker.InvokeSigned
func (f *frame) InvokeSigned(ctx context.Context, ix solana.Instruction, accounts []*solana.AccountInfo, signerSeeds ...[][]byte) error {
	// Changes made so far are checked against the caller's privileges before
	// the callee can build on them.
	if err := f.verify(); err != nil {
		return err
	}

	signers := make([]ed25519.PublicKey, 0, len(signerSeeds))
	for _, seeds := range signerSeeds {
		address, err := solana.CreateProgramAddress(f.programID, seeds...)
		if err != nil {
			return errors.Wrap(solana.ErrInvalidSeeds, err.Error())
		}
		signers = append(signers, address)
	}

	if _, ok := solana.FindAccount(accounts, ix.Program); !ok {
		return errors.Wrapf(solana.ErrMissingAccount, "program %s", base58.Encode(ix.Program))
	}

	calleeAccounts := make([]*solana.AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		key := string(meta.PublicKey)

		_, passed := solana.FindAccount(accounts, meta.PublicKey)
		_, inFrame := f.pre[key]
		if !passed || !inFrame {
			return errors.Wrapf(solana.ErrMissingAccount, "account %s", base58.Encode(meta.PublicKey))
		}

		if meta.IsWritable && !f.writable[key] {
			return errors.Wrapf(solana.ErrPrivilegeEscalation, "writable %s", base58.Encode(meta.PublicKey))
		}
		if meta.IsSigner && !f.signer[key] && !containsKey(signers, meta.PublicKey) {
			return errors.Wrapf(solana.ErrPrivilegeEscalation, "signer %s", base58.Encode(meta.PublicKey))
		}

		calleeAccounts[i] = solana.NewAccountInfo(meta.PublicKey, meta.IsSigner, meta.IsWritable, f.tc.states[key])
	}

	if err := f.runtime.invoke(ctx, f.tc, ix.Program, calleeAccounts, ix.Data); err != nil {
		return err
	}

	f.refresh()
	return nil
}

func containsKey(keys []ed25519.PublicKey, key ed25519.PublicKey) bool {
	for _, k := range keys {
		if bytes.Equal(k, key) {
			return true
		}
	}
	return false
}
