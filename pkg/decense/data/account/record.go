package account

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/decense/pkg/solana"
)

// Record is the committed state of a ledger account.
type Record struct {
	Id uint64

	Address string
	Owner   string

	Lamports   uint64
	Data       []byte
	Executable bool

	// Version counts the commits that wrote the account.
	Version uint64
}

// NewRecord builds a record for the state of the account at address.
func NewRecord(address ed25519.PublicKey, state *solana.AccountState) *Record {
	return &Record{
		Address:    base58.Encode(address),
		Owner:      base58.Encode(state.Owner),
		Lamports:   state.Lamports,
		Data:       append([]byte(nil), state.Data...),
		Executable: state.Executable,
	}
}

// ToAccountState decodes the record into the runtime account representation.
func (r *Record) ToAccountState() (*solana.AccountState, error) {
	owner, err := base58.Decode(r.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "invalid owner")
	}

	state := &solana.AccountState{
		Owner:      owner,
		Lamports:   r.Lamports,
		Executable: r.Executable,
	}
	if len(r.Data) > 0 {
		state.Data = append([]byte(nil), r.Data...)
	}
	return state, nil
}

func (r *Record) Validate() error {
	address, err := base58.Decode(r.Address)
	if err != nil || len(address) != ed25519.PublicKeySize {
		return errors.Wrap(ErrInvalidAccount, "invalid address")
	}

	owner, err := base58.Decode(r.Owner)
	if err != nil || len(owner) != ed25519.PublicKeySize {
		return errors.Wrap(ErrInvalidAccount, "invalid owner")
	}

	return nil
}

func (r *Record) Clone() Record {
	var data []byte
	if r.Data != nil {
		data = make([]byte, len(r.Data))
		copy(data, r.Data)
	}

	return Record{
		Id:         r.Id,
		Address:    r.Address,
		Owner:      r.Owner,
		Lamports:   r.Lamports,
		Data:       data,
		Executable: r.Executable,
		Version:    r.Version,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id
	dst.Address = r.Address
	dst.Owner = r.Owner
	dst.Lamports = r.Lamports
	dst.Data = append([]byte(nil), r.Data...)
	dst.Executable = r.Executable
	dst.Version = r.Version
}

func (r *Record) String() string {
	return fmt.Sprintf(
		"Account{id=%d,address=%s,owner=%s,lamports=%d,data_len=%d,executable=%v,version=%d}",
		r.Id,
		r.Address,
		r.Owner,
		r.Lamports,
		len(r.Data),
		r.Executable,
		r.Version,
	)
}
