package runtime

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/code-payments/decense/pkg/cache"
)

const (
	processedSignatureFalsePositiveRate = 0.001
)

// processedSignatures remembers the signatures of committed transactions. The
// bloom filter answers most lookups for unseen signatures, and the bounded LRU
// cache confirms positives. Replay protection therefore only covers the most
// recent cache size transactions.
type processedSignatures struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
	cache  cache.Cache
}

func newProcessedSignatures(size int) *processedSignatures {
	if size < 1 {
		size = 1
	}

	return &processedSignatures{
		filter: bloom.NewWithEstimates(uint(size), processedSignatureFalsePositiveRate),
		cache:  cache.NewCache(size),
	}
}

func (p *processedSignatures) contains(signature []byte) bool {
	p.mu.Lock()
	maybe := p.filter.Test(signature)
	p.mu.Unlock()

	if !maybe {
		return false
	}
	return p.cache.Contains(string(signature))
}

func (p *processedSignatures) add(signature []byte) {
	p.mu.Lock()
	p.filter.Add(signature)
	p.mu.Unlock()

	err := p.cache.Insert(string(signature), struct{}{}, 1)
	if err == cache.ErrKeyExists {
		p.cache.Retrieve(string(signature))
	}
}
