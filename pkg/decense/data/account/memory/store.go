package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/code-payments/decense/pkg/database/query"
	"github.com/code-payments/decense/pkg/decense/data/account"
)

type store struct {
	mu      sync.Mutex
	records []*account.Record
	last    uint64
}

type ById []*account.Record

func (a ById) Len() int           { return len(a) }
func (a ById) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ById) Less(i, j int) bool { return a[i].Id < a[j].Id }

func New() account.Store {
	return &store{}
}

func (s *store) reset() {
	s.mu.Lock()
	s.records = nil
	s.last = 0
	s.mu.Unlock()
}

func (s *store) find(address string) *account.Record {
	for _, item := range s.records {
		if item.Address == address {
			return item
		}
	}
	return nil
}

func (s *store) findByOwner(owner string) []*account.Record {
	var res []*account.Record
	for _, item := range s.records {
		if item.Owner == owner {
			res = append(res, item)
		}
	}
	return res
}

func (s *store) filter(items []*account.Record, cursor query.Cursor, limit uint64, direction query.Ordering) []*account.Record {
	var start uint64
	if direction == query.Descending {
		start = s.last + 1
	}
	if len(cursor) > 0 {
		start = cursor.ToUint64()
	}

	var res []*account.Record
	for _, item := range items {
		if item.Id > start && direction == query.Ascending {
			res = append(res, item)
		}
		if item.Id < start && direction == query.Descending {
			res = append(res, item)
		}
	}

	if direction == query.Descending {
		sort.Sort(sort.Reverse(ById(res)))
	} else {
		sort.Sort(ById(res))
	}

	if limit > 0 && len(res) >= int(limit) {
		return res[:limit]
	}
	return res
}

// Get implements account.Store.Get
func (s *store) Get(_ context.Context, address string) (*account.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.find(address)
	if item == nil {
		return nil, account.ErrAccountNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

// Save implements account.Store.Save
func (s *store) Save(_ context.Context, records ...*account.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}
		if _, ok := seen[record.Address]; ok {
			return account.ErrInvalidAccount
		}
		seen[record.Address] = struct{}{}

		var version uint64
		if item := s.find(record.Address); item != nil {
			version = item.Version
		}
		if version != record.Version {
			return account.ErrStaleVersion
		}
	}

	for _, record := range records {
		record.Version++

		if item := s.find(record.Address); item != nil {
			record.Id = item.Id
			record.CopyTo(item)
			continue
		}

		s.last++
		record.Id = s.last
		cloned := record.Clone()
		s.records = append(s.records, &cloned)
	}

	return nil
}

// GetAllByOwner implements account.Store.GetAllByOwner
func (s *store) GetAllByOwner(_ context.Context, owner string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*account.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.filter(s.findByOwner(owner), cursor, limit, direction)
	if len(res) == 0 {
		return nil, account.ErrAccountNotFound
	}

	cloned := make([]*account.Record, len(res))
	for i, item := range res {
		c := item.Clone()
		cloned[i] = &c
	}
	return cloned, nil
}
