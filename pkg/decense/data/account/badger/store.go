package badger

import (
	"bytes"
	"context"
	"encoding/binary"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/near/borsh-go"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/decense/pkg/database/query"
	"github.com/code-payments/decense/pkg/decense/data/account"
	"github.com/code-payments/decense/pkg/retry"
	"github.com/code-payments/decense/pkg/retry/backoff"
)

var (
	accountPrefix = []byte("account/")
	ownerPrefix   = []byte("owner/")
	lastIdKey     = []byte("meta/last_id")
)

const (
	maxConflictRetries = 10

	valueLogGCDiscardRatio = 0.5
)

// storedAccount is the borsh encoded value kept under an account key.
type storedAccount struct {
	Id         uint64
	Owner      string
	Lamports   uint64
	Data       []byte
	Executable bool
	Version    uint64
}

type store struct {
	log *logrus.Entry
	db  *badger.DB
	gc  *cron.Cron
}

type Option func(*options)

type options struct {
	inMemory   bool
	gcSchedule string
}

// WithInMemory keeps all data in memory. The path passed to New is ignored.
func WithInMemory() Option {
	return func(o *options) {
		o.inMemory = true
	}
}

// WithValueLogGC periodically garbage collects the value log on the provided
// cron schedule.
func WithValueLogGC(schedule string) Option {
	return func(o *options) {
		o.gcSchedule = schedule
	}
}

// New opens a badger backed account store at path. The returned close function
// must be called to release the database.
func New(path string, opts ...Option) (account.Store, func() error, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	log := logrus.StandardLogger().WithFields(logrus.Fields{
		"type": "decense/data/account/badger",
		"path": path,
	})

	badgerOpts := badger.DefaultOptions(path)
	if o.inMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	badgerOpts.Logger = badgerLogger{log}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "error opening badger database at %s", path)
	}

	s := &store{
		log: log,
		db:  db,
	}

	if len(o.gcSchedule) > 0 && !o.inMemory {
		s.gc = cron.New(cron.WithLocation(time.Local))
		_, err = s.gc.AddFunc(o.gcSchedule, s.runValueLogGC)
		if err != nil {
			db.Close()
			return nil, nil, errors.Wrap(err, "invalid value log gc schedule")
		}
		s.gc.Start()
	}

	return s, s.close, nil
}

func (s *store) close() error {
	if s.gc != nil {
		<-s.gc.Stop().Done()
	}
	return s.db.Close()
}

func (s *store) reset() error {
	return s.db.DropAll()
}

func (s *store) runValueLogGC() {
	for {
		err := s.db.RunValueLogGC(valueLogGCDiscardRatio)
		if err == badger.ErrNoRewrite || err == badger.ErrRejected {
			return
		} else if err != nil {
			s.log.WithError(err).Warn("failure running value log gc")
			return
		}
	}
}

// Get implements account.Store.Get
func (s *store) Get(_ context.Context, address string) (*account.Record, error) {
	var res *account.Record
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		res, err = getRecord(txn, address)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Save implements account.Store.Save
func (s *store) Save(ctx context.Context, records ...*account.Record) error {
	seen := make(map[string]struct{})
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}
		if _, ok := seen[record.Address]; ok {
			return account.ErrInvalidAccount
		}
		seen[record.Address] = struct{}{}
	}

	var saved []*account.Record
	_, err := retry.Retry(
		func() error {
			saved = make([]*account.Record, len(records))
			return s.db.Update(func(txn *badger.Txn) error {
				lastId, err := getLastId(txn)
				if err != nil {
					return err
				}

				for i, record := range records {
					updated := record.Clone()

					existing, err := getRecord(txn, record.Address)
					switch err {
					case nil:
						if existing.Version != record.Version {
							return account.ErrStaleVersion
						}
						updated.Id = existing.Id

						if existing.Owner != record.Owner {
							if err := txn.Delete(ownerKey(existing.Owner, existing.Id)); err != nil {
								return err
							}
						}
					case account.ErrAccountNotFound:
						if record.Version != 0 {
							return account.ErrStaleVersion
						}
						lastId++
						updated.Id = lastId
					default:
						return err
					}

					updated.Version++
					if err := putRecord(txn, &updated); err != nil {
						return err
					}
					saved[i] = &updated
				}

				return putLastId(txn, lastId)
			})
		},
		retry.Context(ctx),
		retry.RetriableErrors(badger.ErrConflict),
		retry.Limit(maxConflictRetries),
		retry.BackoffWithJitter(backoff.Constant(time.Millisecond), time.Millisecond, 0.5),
	)
	if err != nil {
		return err
	}

	for i, record := range saved {
		record.CopyTo(records[i])
	}
	return nil
}

// GetAllByOwner implements account.Store.GetAllByOwner
func (s *store) GetAllByOwner(_ context.Context, owner string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*account.Record, error) {
	prefix := ownerIndexPrefix(owner)

	var res []*account.Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		opts.Reverse = direction == query.Descending

		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append([]byte(nil), prefix...)
		switch {
		case len(cursor) > 0:
			seek = binary.BigEndian.AppendUint64(seek, cursor.ToUint64())
		case opts.Reverse:
			seek = append(seek, bytes.Repeat([]byte{0xff}, 8)...)
		}

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			id := binary.BigEndian.Uint64(key[len(prefix):])
			if len(cursor) > 0 && id == cursor.ToUint64() {
				continue
			}

			address, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}

			record, err := getRecord(txn, string(address))
			if err != nil {
				return err
			}
			res = append(res, record)

			if limit > 0 && uint64(len(res)) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, account.ErrAccountNotFound
	}
	return res, nil
}

func getRecord(txn *badger.Txn, address string) (*account.Record, error) {
	item, err := txn.Get(accountKey(address))
	if err == badger.ErrKeyNotFound {
		return nil, account.ErrAccountNotFound
	} else if err != nil {
		return nil, err
	}

	var stored storedAccount
	err = item.Value(func(val []byte) error {
		return borsh.Deserialize(&stored, val)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error decoding account %s", address)
	}

	record := &account.Record{
		Id:         stored.Id,
		Address:    address,
		Owner:      stored.Owner,
		Lamports:   stored.Lamports,
		Executable: stored.Executable,
		Version:    stored.Version,
	}
	if len(stored.Data) > 0 {
		record.Data = stored.Data
	}
	return record, nil
}

func putRecord(txn *badger.Txn, record *account.Record) error {
	data := record.Data
	if data == nil {
		data = []byte{}
	}

	val, err := borsh.Serialize(storedAccount{
		Id:         record.Id,
		Owner:      record.Owner,
		Lamports:   record.Lamports,
		Data:       data,
		Executable: record.Executable,
		Version:    record.Version,
	})
	if err != nil {
		return errors.Wrapf(err, "error encoding account %s", record.Address)
	}

	if err := txn.Set(accountKey(record.Address), val); err != nil {
		return err
	}
	return txn.Set(ownerKey(record.Owner, record.Id), []byte(record.Address))
}

func getLastId(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get(lastIdKey)
	if err == badger.ErrKeyNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	var res uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return errors.New("invalid last id encoding")
		}
		res = binary.BigEndian.Uint64(val)
		return nil
	})
	return res, err
}

func putLastId(txn *badger.Txn, id uint64) error {
	return txn.Set(lastIdKey, binary.BigEndian.AppendUint64(nil, id))
}

func accountKey(address string) []byte {
	return append(append([]byte(nil), accountPrefix...), address...)
}

func ownerIndexPrefix(owner string) []byte {
	key := append(append([]byte(nil), ownerPrefix...), owner...)
	return append(key, '/')
}

func ownerKey(owner string, id uint64) []byte {
	return binary.BigEndian.AppendUint64(ownerIndexPrefix(owner), id)
}

type badgerLogger struct {
	log *logrus.Entry
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Tracef(format, args...)
}
