package query

import (
	"encoding/binary"
)

// Cursor is an opaque position within a paged result set. Stores encode the
// Id of the last record returned as a big endian uint64.
type Cursor []byte

var (
	EmptyCursor Cursor = Cursor([]byte{})
)

func ToCursor(val uint64) Cursor {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, val)
	return b
}

// ToUint64 decodes the cursor. Cursors that are not 8 bytes decode to zero,
// the position before the first record.
func (c Cursor) ToUint64() uint64 {
	if len(c) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(c)
}
