package account

import (
	"context"

	"github.com/pkg/errors"

	"github.com/code-payments/decense/pkg/database/query"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrStaleVersion    = errors.New("account version is stale")
	ErrInvalidAccount  = errors.New("invalid account")
)

type Store interface {
	// Get finds the latest committed state of the account at address.
	//
	// Returns ErrAccountNotFound if the account was never committed.
	Get(ctx context.Context, address string) (*Record, error)

	// Save atomically commits every record, or none of them.
	//
	// Each record's Version must equal the stored version (zero for accounts
	// that were never committed), otherwise ErrStaleVersion is returned. On
	// success every record's Version is incremented and new records are
	// assigned an Id.
	Save(ctx context.Context, records ...*Record) error

	// GetAllByOwner returns accounts owned by a program, paged by Id.
	//
	// Returns ErrAccountNotFound if no records are found.
	GetAllByOwner(ctx context.Context, owner string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*Record, error)
}
