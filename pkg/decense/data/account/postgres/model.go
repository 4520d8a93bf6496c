package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/code-payments/decense/pkg/database/postgres"
	"github.com/code-payments/decense/pkg/database/query"
	"github.com/code-payments/decense/pkg/decense/data/account"
)

const (
	tableName = "decense__core_account"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Address string `db:"address"`
	Owner   string `db:"owner"`

	Lamports   uint64 `db:"lamports"`
	Data       []byte `db:"data"`
	Executable bool   `db:"executable"`

	Version uint64 `db:"version"`
}

func toModel(obj *account.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	data := obj.Data
	if data == nil {
		data = []byte{}
	}

	return &model{
		Id:         sql.NullInt64{Int64: int64(obj.Id), Valid: obj.Id > 0},
		Address:    obj.Address,
		Owner:      obj.Owner,
		Lamports:   obj.Lamports,
		Data:       data,
		Executable: obj.Executable,
		Version:    obj.Version,
	}, nil
}

func fromModel(obj *model) *account.Record {
	var data []byte
	if len(obj.Data) > 0 {
		data = obj.Data
	}

	return &account.Record{
		Id:         uint64(obj.Id.Int64),
		Address:    obj.Address,
		Owner:      obj.Owner,
		Lamports:   obj.Lamports,
		Data:       data,
		Executable: obj.Executable,
		Version:    obj.Version,
	}
}

// dbSave writes the model within tx. New accounts (version zero) are inserted,
// existing ones are updated only if the stored version still matches.
func (m *model) dbSave(ctx context.Context, tx *sqlx.Tx) error {
	var query string
	var params []interface{}

	if m.Version == 0 {
		query = `INSERT INTO ` + tableName + `
			(address, owner, lamports, data, executable, version)
			VALUES ($1, $2, $3, $4, $5, 1)
			ON CONFLICT (address) DO NOTHING
			RETURNING id, address, owner, lamports, data, executable, version`
		params = []interface{}{m.Address, m.Owner, m.Lamports, m.Data, m.Executable}
	} else {
		query = `UPDATE ` + tableName + `
			SET owner = $2, lamports = $3, data = $4, executable = $5, version = version + 1
			WHERE address = $1 AND version = $6
			RETURNING id, address, owner, lamports, data, executable, version`
		params = []interface{}{m.Address, m.Owner, m.Lamports, m.Data, m.Executable, m.Version}
	}

	err := tx.QueryRowxContext(ctx, query, params...).StructScan(m)
	if err != nil {
		return pgutil.CheckNoRows(err, account.ErrStaleVersion)
	}
	return nil
}

func dbGet(ctx context.Context, db *sqlx.DB, address string) (*model, error) {
	res := &model{}

	query := `SELECT id, address, owner, lamports, data, executable, version FROM ` + tableName + `
		WHERE address = $1
	`

	err := db.QueryRowxContext(ctx, query, address).StructScan(res)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, account.ErrAccountNotFound)
	}
	return res, nil
}

func dbGetAllByOwner(ctx context.Context, db *sqlx.DB, owner string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*model, error) {
	res := []*model{}

	q, opts := query.PaginateQuery(
		`SELECT id, address, owner, lamports, data, executable, version FROM `+tableName+`
			WHERE (owner = $1)`,
		[]interface{}{owner},
		cursor,
		limit,
		direction,
	)

	err := db.SelectContext(ctx, &res, q, opts...)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, account.ErrAccountNotFound)
	}

	if len(res) == 0 {
		return nil, account.ErrAccountNotFound
	}
	return res, nil
}
