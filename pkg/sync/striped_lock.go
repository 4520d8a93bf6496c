package sync

import (
	base "sync"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

const (
	hashEntriesPerLock = 200
)

// StripedLock is a partitioned locking mechanism that consistently maps a key
// space to a set of locks. This provides concurrent data access while also
// limiting the total memory footprint.
type StripedLock struct {
	locks    []base.RWMutex
	hashRing *ring
}

// NewStripedLock returns a new StripedLock with a static number of stripes.
func NewStripedLock(stripes uint) *StripedLock {
	if stripes == 0 {
		stripes = 1
	}

	return &StripedLock{
		locks:    make([]base.RWMutex, stripes),
		hashRing: newRing("lock", stripes, hashEntriesPerLock),
	}
}

// Get gets the lock for a key
func (l *StripedLock) Get(key []byte) *base.RWMutex {
	return &l.locks[l.hashRing.shard(key)]
}

// LockAll locks every stripe covering the keys and returns a function that
// releases them. Stripes covering a write key are write locked, all others are
// read locked. Stripes are always acquired in ascending order, so concurrent
// callers with overlapping key sets cannot deadlock.
func (l *StripedLock) LockAll(writeKeys, readKeys [][]byte) (unlock func()) {
	// stripe index -> whether it needs a write lock
	stripes := treemap.NewWith(utils.IntComparator)
	for _, key := range readKeys {
		stripe := l.hashRing.shard(key)
		if _, ok := stripes.Get(stripe); !ok {
			stripes.Put(stripe, false)
		}
	}
	for _, key := range writeKeys {
		stripes.Put(l.hashRing.shard(key), true)
	}

	type held struct {
		mu    *base.RWMutex
		write bool
	}
	acquired := make([]held, 0, stripes.Size())

	it := stripes.Iterator()
	for it.Next() {
		mu := &l.locks[it.Key().(int)]
		write := it.Value().(bool)
		if write {
			mu.Lock()
		} else {
			mu.RLock()
		}
		acquired = append(acquired, held{mu, write})
	}

	return func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			if acquired[i].write {
				acquired[i].mu.Unlock()
			} else {
				acquired[i].mu.RUnlock()
			}
		}
	}
}
