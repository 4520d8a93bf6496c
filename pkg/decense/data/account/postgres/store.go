package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/code-payments/decense/pkg/database/postgres"
	"github.com/code-payments/decense/pkg/database/query"
	"github.com/code-payments/decense/pkg/decense/data/account"
)

type store struct {
	db *sqlx.DB
}

func New(db *sql.DB) account.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Get implements account.Store.Get
func (s *store) Get(ctx context.Context, address string) (*account.Record, error) {
	model, err := dbGet(ctx, s.db, address)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// Save implements account.Store.Save
func (s *store) Save(ctx context.Context, records ...*account.Record) error {
	models := make([]*model, len(records))
	seen := make(map[string]struct{})
	for i, record := range records {
		m, err := toModel(record)
		if err != nil {
			return err
		}

		if _, ok := seen[record.Address]; ok {
			return account.ErrInvalidAccount
		}
		seen[record.Address] = struct{}{}

		models[i] = m
	}

	saved := make([]*model, len(models))
	err := pgutil.ExecuteRetryable(func() error {
		return pgutil.ExecuteInTx(ctx, s.db, sql.LevelRepeatableRead, func(tx *sqlx.Tx) error {
			for i, m := range models {
				cloned := *m
				if err := cloned.dbSave(ctx, tx); err != nil {
					return err
				}
				saved[i] = &cloned
			}
			return nil
		})
	})
	if err != nil {
		return err
	}

	for i, m := range saved {
		fromModel(m).CopyTo(records[i])
	}
	return nil
}

// GetAllByOwner implements account.Store.GetAllByOwner
func (s *store) GetAllByOwner(ctx context.Context, owner string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*account.Record, error) {
	models, err := dbGetAllByOwner(ctx, s.db, owner, cursor, limit, direction)
	if err != nil {
		return nil, err
	}

	res := make([]*account.Record, len(models))
	for i, m := range models {
		res[i] = fromModel(m)
	}
	return res, nil
}
