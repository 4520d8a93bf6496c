package solana

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

// SystemProgramKey is the owner of every account that has never been
// assigned to a program.
var SystemProgramKey = make(ed25519.PublicKey, ed25519.PublicKeySize)

// AccountState is the ledger-backed portion of an account. Views of the same
// account within an invocation share a single AccountState, so balance and
// data changes are visible to every view.
type AccountState struct {
	Owner      ed25519.PublicKey
	Lamports   uint64
	Data       []byte
	Executable bool
}

// Clone returns a deep copy of the state.
func (s *AccountState) Clone() *AccountState {
	cloned := &AccountState{
		Owner:      append(ed25519.PublicKey(nil), s.Owner...),
		Lamports:   s.Lamports,
		Executable: s.Executable,
	}
	if s.Data != nil {
		cloned.Data = append([]byte(nil), s.Data...)
	}
	return cloned
}

// Equal reports whether both states hold the same values.
func (s *AccountState) Equal(other *AccountState) bool {
	return bytes.Equal(s.Owner, other.Owner) &&
		s.Lamports == other.Lamports &&
		bytes.Equal(s.Data, other.Data) &&
		s.Executable == other.Executable
}

// AccountInfo is a program's view of an account for a single invocation.
type AccountInfo struct {
	Key        ed25519.PublicKey
	IsSigner   bool
	IsWritable bool

	*AccountState
}

// NewAccountInfo returns a view over the provided state.
func NewAccountInfo(key ed25519.PublicKey, isSigner, isWritable bool, state *AccountState) *AccountInfo {
	return &AccountInfo{
		Key:          key,
		IsSigner:     isSigner,
		IsWritable:   isWritable,
		AccountState: state,
	}
}

// IsOwnedBy reports whether the program owns the account.
func (a *AccountInfo) IsOwnedBy(program ed25519.PublicKey) bool {
	return bytes.Equal(a.Owner, program)
}

// IsEmpty reports whether the account has never been allocated.
func (a *AccountInfo) IsEmpty() bool {
	return a.Lamports == 0 && len(a.Data) == 0
}

// HasKey reports whether the account lives at key.
func (a *AccountInfo) HasKey(key ed25519.PublicKey) bool {
	return bytes.Equal(a.Key, key)
}

func (a *AccountInfo) String() string {
	return fmt.Sprintf(
		"AccountInfo{Key=%s,Owner=%s,Lamports=%d,DataLen=%d,IsSigner=%v,IsWritable=%v}",
		base58.Encode(a.Key),
		base58.Encode(a.Owner),
		a.Lamports,
		len(a.Data),
		a.IsSigner,
		a.IsWritable,
	)
}

// AccountIterator hands out accounts in the order an instruction declares them.
type AccountIterator struct {
	accounts []*AccountInfo
	next     int
}

func NewAccountIterator(accounts []*AccountInfo) *AccountIterator {
	return &AccountIterator{accounts: accounts}
}

// Next returns the next account, or ErrNotEnoughAccountKeys once the
// accounts are exhausted.
func (it *AccountIterator) Next() (*AccountInfo, error) {
	if it.next >= len(it.accounts) {
		return nil, ErrNotEnoughAccountKeys
	}

	account := it.accounts[it.next]
	it.next++
	return account, nil
}

// Remaining returns the accounts that have not been handed out.
func (it *AccountIterator) Remaining() []*AccountInfo {
	return it.accounts[it.next:]
}

// FindAccount returns the first account with the given key.
func FindAccount(accounts []*AccountInfo, key ed25519.PublicKey) (*AccountInfo, bool) {
	for _, account := range accounts {
		if account.HasKey(key) {
			return account, true
		}
	}
	return nil, false
}

// InstructionFor rebuilds the instruction a program was invoked with, so
// decompilers can be reused by program implementations.
func InstructionFor(programID ed25519.PublicKey, accounts []*AccountInfo, data []byte) Instruction {
	ix := Instruction{
		Program:  programID,
		Data:     data,
		Accounts: make([]AccountMeta, len(accounts)),
	}
	for i, account := range accounts {
		ix.Accounts[i] = AccountMeta{
			PublicKey:  account.Key,
			IsSigner:   account.IsSigner,
			IsWritable: account.IsWritable,
		}
	}
	return ix
}
