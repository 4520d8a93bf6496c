package sync

import (
	"encoding/binary"
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/spaolacci/murmur3"
)

// ring is a consistent hash ring over a fixed number of partitions
type ring struct {
	hashRing *treemap.Map

	// minPartition caches the partition of the min entry, since
	// treemap.Map.Min() is O(log n).
	minPartition int
}

// newRing returns a ring over partitions [0, partitions), each of which has
// replicationFactor entries in the ring. The name prefix keeps rings for
// different uses from colliding on the same layout.
func newRing(prefix string, partitions, replicationFactor uint) *ring {
	hashRing := treemap.NewWith(utils.Int64Comparator)
	for partition := 0; partition < int(partitions); partition++ {
		keyHash, _ := murmur3.Sum128([]byte(fmt.Sprintf("%s%d", prefix, partition)))
		keyHashBytes := binary.LittleEndian.AppendUint64(nil, keyHash)
		for i := 0; i < int(replicationFactor); i++ {
			hasher := murmur3.New128()
			hasher.Write(keyHashBytes)
			hasher.Write(binary.LittleEndian.AppendUint32(nil, uint32(i)))
			hash, _ := hasher.Sum128()
			hashRing.Put(int64(hash), partition)
		}
	}

	r := &ring{hashRing: hashRing}
	if _, minValue := hashRing.Min(); minValue != nil {
		r.minPartition = minValue.(int)
	}
	return r
}

// shard consistently hashes the key to a partition
func (r *ring) shard(key []byte) int {
	hasher := murmur3.New128()
	hasher.Write(key)
	raw, _ := hasher.Sum128()
	_, partition := r.hashRing.Ceiling(int64(raw))
	if partition != nil {
		return partition.(int)
	}
	return r.minPartition
}
